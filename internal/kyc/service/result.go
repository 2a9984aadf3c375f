package service

import (
	"time"

	"kycdid/internal/identity/credential"
	"kycdid/internal/identity/proof"
	"kycdid/internal/ledger"
	id "kycdid/pkg/domain"
)

// Result is the bundle a successful completion returns.
type Result struct {
	SessionID             id.SessionID    `json:"sessionId"`
	DID                   id.DID          `json:"did"`
	Address               string          `json:"address"`
	PublicKey             string          `json:"publicKey"`
	VerifiableCredentials []string        `json:"verifiableCredentials"`
	Credentials           *credential.Set `json:"credentials"`
	PublishResult         ledger.Record   `json:"publishResult"`
	KYCTimestamp          time.Time       `json:"kycTimestamp"`
	// Subject is kept for proof answers and never serialized with the result.
	Subject proof.Subject `json:"-"`
}
