// Package caseflow wires the full pipeline together: configuration, NATS
// stores, prompt resolution, the completion client and the document service.
//
// Embedders that need finer control can assemble the packages directly; this
// is the batteries-included path.
package caseflow

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/socialwise/caseflow/config"
	"github.com/socialwise/caseflow/docstore"
	"github.com/socialwise/caseflow/document"
	"github.com/socialwise/caseflow/generate"
	"github.com/socialwise/caseflow/llm"
	"github.com/socialwise/caseflow/metrics"
	"github.com/socialwise/caseflow/prompt"
)

// System is the assembled caseflow pipeline.
type System struct {
	Documents *document.Service
	Prompts   *prompt.Store
	Resolver  *prompt.Resolver
	Generator *generate.Generator
	Store     *docstore.Store

	nc        *nats.Conn
	artifacts *prompt.FileArtifactSource
}

// SystemOption configures Open.
type SystemOption func(*systemOptions)

type systemOptions struct {
	logger   *slog.Logger
	registry prometheus.Registerer
	conn     *nats.Conn
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) SystemOption {
	return func(o *systemOptions) {
		o.logger = logger
	}
}

// WithMetricsRegistry registers pipeline metrics on reg. Without this option
// the system runs unmetered.
func WithMetricsRegistry(reg prometheus.Registerer) SystemOption {
	return func(o *systemOptions) {
		o.registry = reg
	}
}

// WithConn reuses an existing NATS connection instead of dialing
// cfg.NATS.URL. The caller keeps ownership; Close will not close it.
func WithConn(nc *nats.Conn) SystemOption {
	return func(o *systemOptions) {
		o.conn = nc
	}
}

// Open assembles the pipeline from configuration.
func Open(ctx context.Context, cfg *config.Config, opts ...SystemOption) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &systemOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	sys := &System{}

	nc := o.conn
	if nc == nil {
		conn, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			return nil, fmt.Errorf("connect to NATS: %w", err)
		}
		nc = conn
		sys.nc = conn
	}

	js, err := jetstream.New(nc)
	if err != nil {
		sys.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	store, err := docstore.NewStore(ctx, js, docstore.WithLogger(o.logger))
	if err != nil {
		sys.Close()
		return nil, err
	}
	sys.Store = store

	prompts, err := prompt.NewStore(ctx, js, prompt.WithLogger(o.logger))
	if err != nil {
		sys.Close()
		return nil, err
	}
	sys.Prompts = prompts

	var artifacts prompt.ArtifactSource
	switch {
	case cfg.Artifacts.Dir != "":
		fileSource := prompt.NewFileArtifactSource(cfg.Artifacts.Dir, o.logger)
		sys.artifacts = fileSource
		artifacts = fileSource
	case cfg.Artifacts.BaseURL != "":
		artifacts = prompt.NewHTTPArtifactSource(cfg.Artifacts.BaseURL)
	}

	var m *metrics.Metrics
	if o.registry != nil {
		m = metrics.New(o.registry)
	}

	sys.Resolver = prompt.NewResolver(prompts, artifacts,
		prompt.WithResolverLogger(o.logger),
		prompt.WithResolverMetrics(m))

	client := llm.NewClient(cfg.API.BaseURL, cfg.APIKey(),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		llm.WithRetryConfig(cfg.RetryConfig()),
		llm.WithAttribution(cfg.API.Referer, cfg.API.Title),
		llm.WithLogger(o.logger))

	genOpts := []generate.Option{
		generate.WithMetrics(m),
		generate.WithLogger(o.logger),
	}
	if cfg.Generate.ClassifierModel != "" {
		genOpts = append(genOpts, generate.WithClassifierModel(cfg.Generate.ClassifierModel))
	}
	sys.Generator = generate.New(client, sys.Resolver, genOpts...)

	sys.Documents = document.NewService(store, sys.Generator, document.WithLogger(o.logger))

	return sys, nil
}

// Close releases resources owned by the system: the NATS connection it
// dialed (never one passed via WithConn) and the artifact file watcher.
func (s *System) Close() error {
	var err error
	if s.artifacts != nil {
		err = s.artifacts.Close()
	}
	if s.nc != nil {
		s.nc.Close()
	}
	return err
}
