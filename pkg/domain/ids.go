// Package domain provides shared identifiers and pure rules used across the KYC flow.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "kycdid/pkg/domain-errors"
)

// SessionID identifies one verification attempt.
type SessionID uuid.UUID

// DID is a decentralized identifier of the form did:<method>:<id>.
type DID string

func NewSessionID() SessionID { return SessionID(uuid.New()) }

func ParseSessionID(s string) (SessionID, error) {
	if s == "" {
		return SessionID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "session ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return SessionID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "invalid session ID format")
	}
	return SessionID(id), nil
}

// ParseDID accepts did:<method>:<method-specific-id> with non-empty parts.
func ParseDID(s string) (DID, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] != "did" || parts[1] == "" || parts[2] == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid DID format")
	}
	return DID(s), nil
}

func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id SessionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (d DID) String() string { return string(d) }

// Method returns the DID method segment, e.g. "ethr".
func (d DID) Method() string {
	parts := strings.SplitN(string(d), ":", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}

func (id SessionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SessionID) UnmarshalText(b []byte) error {
	parsed, err := ParseSessionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
