// Package service drives a verification session through the six KYC stages
// and, once all have passed, derives the identity keypair, issues the
// credentials and publishes the DID registration.
package service

import (
	"context"
	"log/slog"
	"math/big"

	"kycdid/internal/identity/credential"
	"kycdid/internal/identity/keys"
	"kycdid/internal/kyc/metrics"
	"kycdid/internal/kyc/models"
	"kycdid/internal/kyc/verifier"
	"kycdid/internal/ledger"
	"kycdid/internal/platform/tracer"
	"kycdid/pkg/platform/audit"
)

//go:generate mockgen -source=service.go -destination=mocks/publisher_mock.go -package=mocks

// LedgerPublisher funds the derived account and publishes its registration.
// Satisfied by *ledger.Publisher.
type LedgerPublisher interface {
	EnsureFunded(ctx context.Context, address string) (*big.Int, error)
	Publish(ctx context.Context, kp *keys.Keypair, meta ledger.Metadata) (ledger.Record, error)
}

type Service struct {
	backend   verifier.Backend
	deriver   *keys.Deriver
	issuer    *credential.Issuer
	publisher LedgerPublisher

	logger  *slog.Logger
	tracer  tracer.Tracer
	metrics *metrics.Metrics
	audit   audit.Emitter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(e audit.Emitter) Option {
	return func(s *Service) {
		s.audit = e
	}
}

func New(backend verifier.Backend, deriver *keys.Deriver, issuer *credential.Issuer, publisher LedgerPublisher, opts ...Option) *Service {
	svc := &Service{
		backend:   backend,
		deriver:   deriver,
		issuer:    issuer,
		publisher: publisher,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.NewNoop()
	}
	return svc
}

// Run executes all six stages in canonical order and then completion. The
// first failing stage aborts the run with its typed error.
func (s *Service) Run(ctx context.Context, app models.Application) (Result, error) {
	sess := s.NewSession()
	steps := []func(context.Context) error{
		func(ctx context.Context) error { return sess.SubmitPersonalInfo(ctx, app.PersonalInfo) },
		func(ctx context.Context) error { return sess.SubmitIdentityDocuments(ctx, app.IdentityDocuments) },
		func(ctx context.Context) error { return sess.SubmitAddress(ctx, app.Address) },
		func(ctx context.Context) error { return sess.SubmitFinancialInfo(ctx, app.FinancialInfo) },
		func(ctx context.Context) error { return sess.SubmitPaymentMethod(ctx, app.PaymentMethod) },
		func(ctx context.Context) error { return sess.SubmitConsents(ctx, app.Consents) },
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return Result{}, err
		}
	}
	return sess.Complete(ctx)
}
