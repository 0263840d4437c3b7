// Package generate implements the summary generation pipeline: prompt
// resolution, completion call, response parsing and graceful degradation.
//
// The pipeline is total. Whatever the completion service does — success,
// auth failure, rate limiting, garbage JSON, empty output — Summarize returns
// a usable Result, because a failed summary must never block saving the
// underlying document. The pipeline holds no mutable state of its own and is
// safe for concurrent use.
package generate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/socialwise/caseflow/category"
	"github.com/socialwise/caseflow/llm"
	"github.com/socialwise/caseflow/metrics"
	"github.com/socialwise/caseflow/prompt"
)

// summaryMaxTokens bounds the generated summary length.
const summaryMaxTokens = 200

// ConfigResolver resolves the effective prompt configuration for a category.
// *prompt.Resolver is the production implementation.
type ConfigResolver interface {
	Resolve(ctx context.Context, cat category.Category) prompt.Config
}

// Generator runs the summary generation pipeline.
type Generator struct {
	completer llm.Completer
	resolver  ConfigResolver

	// classifierModel is used for single-label extraction calls, which run
	// near-deterministic on a fixed cheap model rather than the category's
	// configured one.
	classifierModel string

	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithClassifierModel overrides the model used for classification calls.
func WithClassifierModel(model string) Option {
	return func(g *Generator) {
		g.classifierModel = model
	}
}

// WithMetrics attaches pipeline metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator over a completion service and a prompt resolver.
func New(completer llm.Completer, resolver ConfigResolver, opts ...Option) *Generator {
	g := &Generator{
		completer:       completer,
		resolver:        resolver,
		classifierModel: category.DefaultModel,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Summarize generates a structured summary for one document. Never returns an
// error; see Result.
//
// Case notes short-circuit to an empty summary without calling the completion
// service: their summaries are author-written by policy.
func (g *Generator) Summarize(ctx context.Context, docText string, cat category.Category) Result {
	policy := category.PolicyFor(cat)
	if !policy.GenerateSummary {
		g.logger.Debug("Summary generation disabled for category, skipping", "category", cat)
		return Result{Outcome: OutcomePlainText, Summary: ""}
	}

	started := time.Now()
	res := g.summarize(ctx, docText, cat)
	g.metrics.RecordGeneration(string(cat), string(res.Outcome), time.Since(started))
	return res
}

func (g *Generator) summarize(ctx context.Context, docText string, cat category.Category) Result {
	cfg := g.resolver.Resolve(ctx, cat)

	temperature := cfg.Temperature
	resp, err := g.completer.Complete(ctx, llm.Request{
		Model: cfg.Model,
		Messages: []llm.Message{
			{Role: "system", Content: cfg.Prompt},
			{Role: "user", Content: category.InstructionPrefix + docText},
		},
		Temperature: &temperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return g.failureResult(cat, err)
	}

	raw := strings.TrimSpace(resp.Content)
	if raw == "" {
		g.logger.Warn("Empty completion output", "category", cat)
		return failure(SentinelEmpty)
	}

	fields, ok := llm.DecodeObject(raw)
	if !ok {
		// Not valid JSON: keep the model's text as the summary.
		g.logger.Debug("Completion output is not structured, using raw text",
			"category", cat)
		return Result{Outcome: OutcomePlainText, Summary: raw, Raw: raw}
	}

	summary := strings.TrimSpace(stringField(fields, "summary"))
	if summary == "" {
		summary = raw
	}

	return Result{
		Outcome: OutcomeStructured,
		Summary: summary,
		Fields:  fields,
		Raw:     raw,
	}
}

// failureResult maps a completion error onto its user-visible sentinel.
func (g *Generator) failureResult(cat category.Category, err error) Result {
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		g.logger.Error("Completion API key not configured", "category", cat)
		return failure(SentinelMissingKey)
	case llm.IsAuth(err):
		g.logger.Error("Completion authentication failed", "category", cat, "error", err)
		var authErr *llm.AuthError
		errors.As(err, &authErr)
		return failure(SentinelAuth(authErr.StatusCode))
	case llm.IsRateLimit(err):
		g.logger.Warn("Completion rate limited, retries exhausted", "category", cat, "error", err)
		return failure(SentinelRateLimited)
	default:
		g.logger.Error("Summary generation failed", "category", cat, "error", err)
		return failure(SentinelFailed)
	}
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
