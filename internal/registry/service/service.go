// Package service implements the registry's operations: the token identity
// lifecycle, ownership-gated configuration, and multi-strategy URI
// resolution. All state flows through the injected Ledger; the service holds
// no registry state of its own.
package service

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"tokenhome/internal/registry/events"
	"tokenhome/internal/registry/gate"
	"tokenhome/internal/registry/metrics"
	"tokenhome/internal/registry/receiver"
	"tokenhome/internal/registry/resolver"
	"tokenhome/internal/registry/store"
)

// Service orchestrates the registry. Construct with New; the zero value is
// not usable.
type Service struct {
	ledger   store.Ledger
	gate     gate.Gate
	chain    resolver.ChainIDProvider
	receiver receiver.Checker
	emitter  events.Emitter
	uris     *resolver.Cache
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithEmitter installs the observation sink. Without it observations are
// discarded.
func WithEmitter(emitter events.Emitter) Option {
	return func(s *Service) {
		s.emitter = emitter
	}
}

// WithReceiverChecker installs the safe-issuance check consulted on mint.
func WithReceiverChecker(checker receiver.Checker) Option {
	return func(s *Service) {
		s.receiver = checker
	}
}

// WithURICache installs the redis-backed cache for default-path resolution.
func WithURICache(cache *resolver.Cache) Option {
	return func(s *Service) {
		s.uris = cache
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service. The ledger, gate, and chain provider are
// mandatory collaborators; everything else defaults to an inert
// implementation.
func New(ledger store.Ledger, g gate.Gate, chain resolver.ChainIDProvider, opts ...Option) *Service {
	s := &Service{
		ledger:   ledger,
		gate:     g,
		chain:    chain,
		receiver: receiver.AllowAll{},
		emitter:  events.Discard{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:   otel.Tracer("tokenhome/registry"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
