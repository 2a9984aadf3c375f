// Package store keeps published DID registrations. A registration holds only
// derived facts about the subject, never the personal data behind them.
package store

import (
	"context"
	"time"

	"kycdid/internal/identity/proof"
	id "kycdid/pkg/domain"
	dErrors "kycdid/pkg/domain-errors"
)

// ErrNotFound is returned by FindByDID for an unknown DID.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "did registration not found")

type Registration struct {
	DID             id.DID        `json:"did"`
	Address         string        `json:"address"`
	PublicKey       string        `json:"publicKey"`
	TxHash          string        `json:"txHash"`
	ExplorerURL     string        `json:"explorerUrl,omitempty"`
	URI             string        `json:"uri"`
	CredentialTypes []string      `json:"credentialTypes"`
	KYCTimestamp    time.Time     `json:"kycTimestamp"`
	Subject         proof.Subject `json:"subject"`
}

// Store persists registrations keyed by DID. Save replaces an existing
// registration for the same DID.
type Store interface {
	Save(ctx context.Context, reg *Registration) error
	FindByDID(ctx context.Context, did id.DID) (*Registration, error)
}
