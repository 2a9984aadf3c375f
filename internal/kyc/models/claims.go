package models

import "time"

// PersonalClaim is the accepted personal-info stage. BirthDate is the parsed
// DateOfBirth.
type PersonalClaim struct {
	PersonalInfo
	BirthDate time.Time `json:"-"`
}

type VerifiedDocument struct {
	Kind           DocumentKind `json:"kind"`
	Number         string       `json:"number,omitempty"`
	IssuingCountry string       `json:"issuingCountry,omitempty"`
	Confidence     float64      `json:"confidence"`
}

type DocumentsClaim struct {
	Documents []VerifiedDocument `json:"documents"`
	// Primary is the first government issued ID in submission order.
	Primary VerifiedDocument `json:"primary"`
}

type AddressClaim struct {
	Street     string       `json:"street"`
	City       string       `json:"city"`
	State      string       `json:"state"`
	PostalCode string       `json:"postalCode"`
	Country    string       `json:"country"`
	ProofKind  DocumentKind `json:"proofKind"`
	Confidence float64      `json:"confidence"`
}

type FinancialClaim struct {
	FinancialInfo
}

// PaymentClaim never holds more than the last four digits of the card.
type PaymentClaim struct {
	Last4    string `json:"last4"`
	BankName string `json:"bankName"`
	CardType string `json:"cardType"`
}

type ConsentClaim struct {
	DataProcessing  bool      `json:"dataProcessing"`
	KYCVerification bool      `json:"kycVerification"`
	DataSharing     bool      `json:"dataSharing"`
	TermsOfService  bool      `json:"termsOfService"`
	PrivacyPolicy   bool      `json:"privacyPolicy"`
	IPAddress       string    `json:"ipAddress"`
	Device          string    `json:"device"`
	GivenAt         time.Time `json:"givenAt"`
}

// Claims holds one accepted claim per stage. A field is non-nil exactly when
// the matching StageStatus flag is set.
type Claims struct {
	Personal  *PersonalClaim  `json:"personalInfo,omitempty"`
	Documents *DocumentsClaim `json:"identityDocuments,omitempty"`
	Address   *AddressClaim   `json:"addressVerification,omitempty"`
	Financial *FinancialClaim `json:"financialInfo,omitempty"`
	Payment   *PaymentClaim   `json:"paymentMethod,omitempty"`
	Consent   *ConsentClaim   `json:"consents,omitempty"`
}
