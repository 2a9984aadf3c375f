package verifier

import (
	"context"
	"strings"
	"time"

	"kycdid/internal/kyc/models"
)

const (
	DefaultSimulatedDelay      = 1500 * time.Millisecond
	DefaultSimulatedConfidence = 0.95
)

// Simulated approves every submission after a fixed delay, except those
// matched by a reject rule.
type Simulated struct {
	delay         time.Duration
	confidence    float64
	rejectedKinds map[models.DocumentKind]bool
	rejectedCards map[string]bool
}

type SimulatedOption func(*Simulated)

// WithDelay sets the artificial latency; zero disables it.
func WithDelay(d time.Duration) SimulatedOption {
	return func(s *Simulated) {
		if d >= 0 {
			s.delay = d
		}
	}
}

func WithConfidence(c float64) SimulatedOption {
	return func(s *Simulated) {
		s.confidence = c
	}
}

// WithRejectedKinds rejects identity documents and address proofs of the
// given kinds.
func WithRejectedKinds(kinds ...models.DocumentKind) SimulatedOption {
	return func(s *Simulated) {
		for _, k := range kinds {
			s.rejectedKinds[k] = true
		}
	}
}

// WithRejectedCardTypes rejects payment methods whose card type matches,
// ignoring case.
func WithRejectedCardTypes(types ...string) SimulatedOption {
	return func(s *Simulated) {
		for _, t := range types {
			s.rejectedCards[strings.ToLower(t)] = true
		}
	}
}

func NewSimulated(opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		delay:         DefaultSimulatedDelay,
		confidence:    DefaultSimulatedConfidence,
		rejectedKinds: map[models.DocumentKind]bool{},
		rejectedCards: map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulated) VerifyDocument(ctx context.Context, doc models.Document) (Result, error) {
	return s.verdict(ctx, "doc-"+string(doc.Kind), s.rejectedKinds[doc.Kind])
}

func (s *Simulated) VerifyAddressProof(ctx context.Context, addr models.Address) (Result, error) {
	return s.verdict(ctx, "addr-"+string(addr.ProofDocument.Kind), s.rejectedKinds[addr.ProofDocument.Kind])
}

func (s *Simulated) VerifyPaymentMethod(ctx context.Context, pm models.PaymentMethod) (Result, error) {
	return s.verdict(ctx, "pm-"+pm.CardType, s.rejectedCards[strings.ToLower(pm.CardType)])
}

func (s *Simulated) verdict(ctx context.Context, ref string, rejected bool) (Result, error) {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Result{}, NewProviderError(ErrorTimeout, "simulated", "verification abandoned", ctx.Err())
		case <-t.C:
		}
	}
	if rejected {
		return Result{Valid: false, Confidence: 0, Reference: ref}, nil
	}
	return Result{Valid: true, Confidence: s.confidence, Reference: ref}, nil
}

var _ Backend = (*Simulated)(nil)
