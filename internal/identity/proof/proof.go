// Package proof answers narrow identity questions about a completed KYC
// subject without disclosing the underlying personal data.
package proof

import (
	"time"

	"kycdid/internal/identity/credential"
	"kycdid/internal/kyc/models"
	id "kycdid/pkg/domain"
	dErrors "kycdid/pkg/domain-errors"
)

// Kind selects the fact a proof discloses.
type Kind string

const (
	KindAge       Kind = "ageVerification"
	KindResidency Kind = "residencyVerification"
	KindIdentity  Kind = "identityVerification"
	KindFinancial Kind = "financialStatus"
)

// Kinds lists every supported proof kind.
var Kinds = []Kind{KindAge, KindResidency, KindIdentity, KindFinancial}

var aliases = map[string]Kind{
	"age":       KindAge,
	"residency": KindResidency,
	"identity":  KindIdentity,
	"financial": KindFinancial,
}

// ParseKind accepts a full kind name or its short alias.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	if k, ok := aliases[s]; ok {
		return k, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported proof kind: "+s)
}

// Subject holds only derived, shareable facts. It is what a registration
// stores in place of personal data.
type Subject struct {
	IsAdult           bool              `json:"isAdult"`
	ResidencyCountry  string            `json:"residencyCountry"`
	VerificationLevel string            `json:"verificationLevel"`
	IncomeCategory    id.IncomeCategory `json:"incomeCategory"`
}

// NewSubject reduces completed claims to shareable facts as of now.
func NewSubject(claims models.Claims, now time.Time) (Subject, error) {
	if claims.Personal == nil || claims.Address == nil || claims.Financial == nil {
		return Subject{}, &models.KYCNotCompleteError{}
	}
	return Subject{
		IsAdult:           id.IsAdult(claims.Personal.BirthDate, now),
		ResidencyCountry:  claims.Address.Country,
		VerificationLevel: credential.VerificationLevelFull,
		IncomeCategory:    id.CategorizeIncome(claims.Financial.IncomeRange),
	}, nil
}

// Response carries exactly one derived fact alongside the common fields.
type Response struct {
	DID               id.DID            `json:"did"`
	Timestamp         time.Time         `json:"timestamp"`
	ProofType         Kind              `json:"proofType"`
	Verified          bool              `json:"verified"`
	IsAdult           *bool             `json:"isAdult,omitempty"`
	Residency         string            `json:"residency,omitempty"`
	VerificationLevel string            `json:"verificationLevel,omitempty"`
	IncomeCategory    id.IncomeCategory `json:"incomeCategory,omitempty"`
}

// Respond builds the proof for kind.
func Respond(did id.DID, subject Subject, kind Kind, now time.Time) (Response, error) {
	resp := Response{DID: did, Timestamp: now, ProofType: kind, Verified: true}
	switch kind {
	case KindAge:
		adult := subject.IsAdult
		resp.IsAdult = &adult
	case KindResidency:
		resp.Residency = subject.ResidencyCountry
	case KindIdentity:
		resp.VerificationLevel = subject.VerificationLevel
	case KindFinancial:
		resp.IncomeCategory = subject.IncomeCategory
	default:
		return Response{}, dErrors.New(dErrors.CodeInvalidInput, "unsupported proof kind: "+string(kind))
	}
	return resp, nil
}
