// Package tracer is a small tracing facade so KYC and ledger code can emit
// spans without importing OpenTelemetry directly.
//
// Implementations:
//   - NoopTracer: tests and the demo CLI
//   - OTelTracer: OpenTelemetry adapter for the server
//   - Recorder: captures span names and errors for assertions
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span. End must be called exactly once.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute          { return Attribute{Key: key, Value: value} }
func Bool(key string, value bool) Attribute       { return Attribute{Key: key, Value: value} }
func Int64(key string, value int64) Attribute     { return Attribute{Key: key, Value: value} }
func Float64(key string, value float64) Attribute { return Attribute{Key: key, Value: value} }
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Hash returns a short SHA-256 prefix of an identifier so spans can be
// correlated without carrying document numbers or addresses in clear.
func Hash(identifier string) string {
	if identifier == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:8])
}

// Span names.
const (
	SpanKYCStage       = "kyc.stage"
	SpanKYCComplete    = "kyc.complete"
	SpanVerifyDocument = "verifier.document"
	SpanVerifyAddress  = "verifier.address"
	SpanVerifyPayment  = "verifier.payment"
	SpanKeyDerivation  = "identity.derive"
	SpanLedgerFund     = "ledger.fund"
	SpanLedgerPublish  = "ledger.publish"
	SpanProofResponse  = "identity.proof"
)

// Attribute keys.
const (
	AttrStage        = "kyc.stage"
	AttrSessionID    = "kyc.session_id"
	AttrDocumentKind = "document.kind"
	AttrDocumentHash = "document.hash"
	AttrValid        = "verification.valid"
	AttrConfidence   = "verification.confidence"
	AttrDIDMethod    = "did.method"
	AttrTxHash       = "ledger.tx_hash"
	AttrEngineResult = "ledger.engine_result"
	AttrProofKind    = "proof.kind"
)

// Event names.
const (
	EventAuditEmitted  = "audit.emitted"
	EventFaucetRequest = "ledger.faucet_requested"
)
