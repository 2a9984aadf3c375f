package audit

import (
	"context"
	"time"
)

// Event is emitted from the KYC workflow to capture key actions. It never
// carries personal data: subjects are DIDs or session IDs.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"sessionId,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Action    string    `json:"action"`
	Stage     string    `json:"stage,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
}

type AuditEvent string

const (
	EventStageCompleted AuditEvent = "kyc_stage_completed"
	EventStageFailed    AuditEvent = "kyc_stage_failed"
	EventDIDRegistered  AuditEvent = "did_registered"
	EventProofIssued    AuditEvent = "identity_proof_issued"
)

// Store persists events. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySession(ctx context.Context, sessionID string) ([]Event, error)
}

// Emitter is satisfied by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}
