// Package credential builds the four verifiable credentials issued at KYC
// completion.
//
// Domain Purity: this package contains only pure construction logic with no
// I/O, no context.Context and no time.Now() calls. Field names and nesting
// are a contract with external verifiers.
package credential

import (
	"errors"
	"time"

	"kycdid/internal/kyc/models"
	id "kycdid/pkg/domain"
)

const (
	ContextW3C = "https://www.w3.org/2018/credentials/v1"
	ContextKYC = "https://kycdid.dev/contexts/kyc/v1"

	TypeVerifiable = "VerifiableCredential"
	TypeIdentity   = "IdentityCredential"
	TypeAddress    = "AddressCredential"
	TypeFinancial  = "FinancialCredential"
	TypePayment    = "PaymentCredential"

	// VerificationLevelFull is asserted once all six stages passed.
	VerificationLevelFull = "full"
)

// Keys of the credential set as serialized.
const (
	KeyIdentity  = "identityCredential"
	KeyAddress   = "addressCredential"
	KeyFinancial = "financialCredential"
	KeyPayment   = "paymentCredential"
)

var (
	errMissingDID    = errors.New("credential: did is required")
	errMissingIssuer = errors.New("credential: issuer is required")
	errMissingTime   = errors.New("credential: issuance time is required")
)

// Header is shared by every credential.
type Header struct {
	Context      []string  `json:"@context"`
	Type         []string  `json:"type"`
	Issuer       string    `json:"issuer"`
	IssuanceDate time.Time `json:"issuanceDate"`
}

func newHeader(kind, issuer string, at time.Time) Header {
	return Header{
		Context:      []string{ContextW3C, ContextKYC},
		Type:         []string{TypeVerifiable, kind},
		Issuer:       issuer,
		IssuanceDate: at,
	}
}

type IdentitySubject struct {
	ID                string `json:"id"`
	KYCVerified       bool   `json:"kycVerified"`
	VerificationLevel string `json:"verificationLevel"`
	DocumentType      string `json:"documentType"`
	IssuingCountry    string `json:"issuingCountry,omitempty"`
	Nationality       string `json:"nationality"`
	IsAdult           bool   `json:"isAdult"`
}

type AddressSubject struct {
	ID              string `json:"id"`
	AddressVerified bool   `json:"addressVerified"`
	Country         string `json:"country"`
	Region          string `json:"region"`
	ProofType       string `json:"proofType"`
}

type FinancialSubject struct {
	ID                      string            `json:"id"`
	FinancialStatusVerified bool              `json:"financialStatusVerified"`
	IncomeCategory          id.IncomeCategory `json:"incomeCategory"`
	EmploymentStatus        string            `json:"employmentStatus"`
	SourceOfFunds           string            `json:"sourceOfFunds"`
}

type PaymentSubject struct {
	ID                    string `json:"id"`
	PaymentMethodVerified bool   `json:"paymentMethodVerified"`
	CardType              string `json:"cardType"`
	BankName              string `json:"bankName"`
	Last4                 string `json:"last4"`
}

type IdentityCredential struct {
	Header
	CredentialSubject IdentitySubject `json:"credentialSubject"`
}

type AddressCredential struct {
	Header
	CredentialSubject AddressSubject `json:"credentialSubject"`
}

type FinancialCredential struct {
	Header
	CredentialSubject FinancialSubject `json:"credentialSubject"`
}

type PaymentCredential struct {
	Header
	CredentialSubject PaymentSubject `json:"credentialSubject"`
}

// Set is the immutable bundle issued at completion.
type Set struct {
	Identity  IdentityCredential  `json:"identityCredential"`
	Address   AddressCredential   `json:"addressCredential"`
	Financial FinancialCredential `json:"financialCredential"`
	Payment   PaymentCredential   `json:"paymentCredential"`
}

// Keys lists the credential keys in serialization order.
func (s *Set) Keys() []string {
	return []string{KeyIdentity, KeyAddress, KeyFinancial, KeyPayment}
}

// Types lists the specific credential type of each member, in Keys order.
func (s *Set) Types() []string {
	return []string{
		s.Identity.Type[len(s.Identity.Type)-1],
		s.Address.Type[len(s.Address.Type)-1],
		s.Financial.Type[len(s.Financial.Type)-1],
		s.Payment.Type[len(s.Payment.Type)-1],
	}
}

// Subjects returns each credentialSubject.id keyed by credential key.
func (s *Set) Subjects() map[string]string {
	return map[string]string{
		KeyIdentity:  s.Identity.CredentialSubject.ID,
		KeyAddress:   s.Address.CredentialSubject.ID,
		KeyFinancial: s.Financial.CredentialSubject.ID,
		KeyPayment:   s.Payment.CredentialSubject.ID,
	}
}

// Issuer signs nothing; it shapes completed claims into credentials.
type Issuer struct {
	id string
}

func NewIssuer(issuerID string) *Issuer {
	return &Issuer{id: issuerID}
}

func (i *Issuer) ID() string { return i.id }

// Issue is a pure function of the claims, the DID and the completion time.
// Every claim must be present.
func (i *Issuer) Issue(claims models.Claims, did id.DID, at time.Time) (*Set, error) {
	switch {
	case did == "":
		return nil, errMissingDID
	case i.id == "":
		return nil, errMissingIssuer
	case at.IsZero():
		return nil, errMissingTime
	}
	if claims.Personal == nil || claims.Documents == nil || claims.Address == nil ||
		claims.Financial == nil || claims.Payment == nil || claims.Consent == nil {
		return nil, &models.KYCIncompleteError{Pending: pendingFromClaims(claims)}
	}

	subject := did.String()
	return &Set{
		Identity: IdentityCredential{
			Header: newHeader(TypeIdentity, i.id, at),
			CredentialSubject: IdentitySubject{
				ID:                subject,
				KYCVerified:       true,
				VerificationLevel: VerificationLevelFull,
				DocumentType:      string(claims.Documents.Primary.Kind),
				IssuingCountry:    claims.Documents.Primary.IssuingCountry,
				Nationality:       claims.Personal.Nationality,
				IsAdult:           id.IsAdult(claims.Personal.BirthDate, at),
			},
		},
		Address: AddressCredential{
			Header: newHeader(TypeAddress, i.id, at),
			CredentialSubject: AddressSubject{
				ID:              subject,
				AddressVerified: true,
				Country:         claims.Address.Country,
				Region:          claims.Address.State,
				ProofType:       string(claims.Address.ProofKind),
			},
		},
		Financial: FinancialCredential{
			Header: newHeader(TypeFinancial, i.id, at),
			CredentialSubject: FinancialSubject{
				ID:                      subject,
				FinancialStatusVerified: true,
				IncomeCategory:          id.CategorizeIncome(claims.Financial.IncomeRange),
				EmploymentStatus:        claims.Financial.EmploymentStatus,
				SourceOfFunds:           claims.Financial.SourceOfFunds,
			},
		},
		Payment: PaymentCredential{
			Header: newHeader(TypePayment, i.id, at),
			CredentialSubject: PaymentSubject{
				ID:                    subject,
				PaymentMethodVerified: true,
				CardType:              claims.Payment.CardType,
				BankName:              claims.Payment.BankName,
				Last4:                 claims.Payment.Last4,
			},
		},
	}, nil
}

func pendingFromClaims(c models.Claims) []models.Stage {
	var out []models.Stage
	for _, p := range []struct {
		stage models.Stage
		set   bool
	}{
		{models.StagePersonalInfo, c.Personal != nil},
		{models.StageIdentityDocuments, c.Documents != nil},
		{models.StageAddressVerification, c.Address != nil},
		{models.StageFinancialInfo, c.Financial != nil},
		{models.StagePaymentMethod, c.Payment != nil},
		{models.StageConsents, c.Consent != nil},
	} {
		if !p.set {
			out = append(out, p.stage)
		}
	}
	return out
}
