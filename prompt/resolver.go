package prompt

import (
	"context"
	"log/slog"

	"github.com/socialwise/caseflow/category"
	"github.com/socialwise/caseflow/metrics"
)

// bootstrapAuthor is recorded as the creator of bootstrap versions triggered
// by resolution rather than an admin save.
const bootstrapAuthor = "system"

// Resolver produces the effective prompt configuration for a category.
//
// Resolution is total: it always returns a usable Config, falling back along
// reference artifact > latest stored content > hardcoded category default.
// Failures along the way are logged, never propagated, because a missing
// prompt must not block document saving.
type Resolver struct {
	log       VersionLog
	artifacts ArtifactSource
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithResolverMetrics attaches resolution metrics.
func WithResolverMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver creates a Resolver over a version log and an optional artifact
// source (nil disables test mode, forcing the stored-content fallback).
func NewResolver(log VersionLog, artifacts ArtifactSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		log:       log,
		artifacts: artifacts,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns the effective prompt configuration for a category:
//
//   - latest version in production mode: prompt, model and temperature all
//     come from the stored version
//   - latest version in test mode: prompt text comes from the category's
//     reference artifact, model and temperature from the stored version;
//     an unreachable artifact falls back to the stored content
//   - no version yet: the hardcoded category default is used and written to
//     the log as the bootstrap version
func (r *Resolver) Resolve(ctx context.Context, cat category.Category) Config {
	policy := category.PolicyFor(cat)

	latest, err := r.log.Latest(ctx, cat)
	if err != nil {
		r.logger.Warn("Prompt log unreachable, using category default",
			"category", cat,
			"error", err)
		r.metrics.RecordPromptResolution(string(cat), "default")
		return defaultConfig(policy)
	}

	if latest == nil {
		if err := r.Bootstrap(ctx, cat, bootstrapAuthor); err != nil {
			r.logger.Warn("Prompt bootstrap failed",
				"category", cat,
				"error", err)
		}
		r.metrics.RecordPromptResolution(string(cat), "default")
		return defaultConfig(policy)
	}

	cfg := Config{
		Prompt:      latest.Content,
		Model:       latest.Model,
		Temperature: latest.Temperature,
	}
	if cfg.Model == "" {
		cfg.Model = policy.Model
	}

	if latest.Mode == ModeTest {
		if r.artifacts == nil {
			r.logger.Warn("Test mode requested but no artifact source configured",
				"category", cat)
			r.metrics.RecordPromptResolution(string(cat), "store")
			return cfg
		}
		text, err := r.artifacts.Fetch(ctx, cat)
		if err != nil {
			r.logger.Warn("Reference artifact unreachable, using stored prompt",
				"category", cat,
				"error", err)
			r.metrics.RecordPromptResolution(string(cat), "store")
			return cfg
		}
		cfg.Prompt = text
		r.metrics.RecordPromptResolution(string(cat), "artifact")
		return cfg
	}

	r.metrics.RecordPromptResolution(string(cat), "store")
	return cfg
}

// Bootstrap appends the hardcoded default prompt as the category's first
// version. Idempotent: a no-op when any version already exists.
func (r *Resolver) Bootstrap(ctx context.Context, cat category.Category, author string) error {
	latest, err := r.log.Latest(ctx, cat)
	if err != nil {
		return err
	}
	if latest != nil {
		return nil
	}

	policy := category.PolicyFor(cat)
	_, err = r.log.Append(ctx, &Version{
		Category:    cat,
		Content:     policy.DefaultPrompt,
		Model:       policy.Model,
		Temperature: policy.Temperature,
		Mode:        ModeProduction,
		CreatedBy:   author,
		Description: "Initial prompt",
	})
	if err != nil {
		return err
	}

	r.logger.Info("Prompt log bootstrapped", "category", cat)
	return nil
}

func defaultConfig(policy category.Policy) Config {
	return Config{
		Prompt:      policy.DefaultPrompt,
		Model:       policy.Model,
		Temperature: policy.Temperature,
	}
}
