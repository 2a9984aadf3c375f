// Package verifier defines the verification backend consulted by the
// document, address and payment stages, with a simulated and an HTTP
// implementation.
package verifier

import (
	"context"

	"kycdid/internal/kyc/models"
)

//go:generate mockgen -source=backend.go -destination=mocks/backend_mock.go -package=mocks

// Result is the backend's verdict on one submission.
type Result struct {
	Valid      bool    `json:"valid"`
	Confidence float64 `json:"confidence"`
	Reference  string  `json:"reference,omitempty"`
}

// Backend verifies individual submissions. Implementations must be safe for
// concurrent use; documents within one stage are verified in parallel.
type Backend interface {
	VerifyDocument(ctx context.Context, doc models.Document) (Result, error)
	VerifyAddressProof(ctx context.Context, addr models.Address) (Result, error)
	VerifyPaymentMethod(ctx context.Context, pm models.PaymentMethod) (Result, error)
}
