package models

// DocumentKind classifies an uploaded document.
type DocumentKind string

const (
	DocumentPassport       DocumentKind = "passport"
	DocumentNationalID     DocumentKind = "national_id"
	DocumentDriversLicense DocumentKind = "drivers_license"
	DocumentGovernmentID   DocumentKind = "government_id"
	DocumentUtilityBill    DocumentKind = "utility_bill"
	DocumentBankStatement  DocumentKind = "bank_statement"
	DocumentSelfie         DocumentKind = "selfie"
)

// IsGovernmentID reports whether the kind is a government issued identity document.
func (k DocumentKind) IsGovernmentID() bool {
	switch k {
	case DocumentPassport, DocumentNationalID, DocumentDriversLicense, DocumentGovernmentID:
		return true
	}
	return false
}

type PersonalInfo struct {
	FirstName    string `json:"firstName" validate:"required,notblank"`
	LastName     string `json:"lastName" validate:"required,notblank"`
	DateOfBirth  string `json:"dateOfBirth" validate:"required,isodate"`
	Nationality  string `json:"nationality" validate:"required,notblank"`
	PhoneNumber  string `json:"phoneNumber" validate:"required,phone"`
	Email        string `json:"email" validate:"required,mailbox"`
	Gender       string `json:"gender" validate:"required"`
	PlaceOfBirth string `json:"placeOfBirth" validate:"required"`
}

type Document struct {
	Kind           DocumentKind `json:"kind" validate:"required"`
	Number         string       `json:"number,omitempty"`
	IssuingCountry string       `json:"issuingCountry,omitempty"`
	ExpiresOn      string       `json:"expiresOn,omitempty"`
	Content        []byte       `json:"content,omitempty"`
}

// IdentityDocuments wraps the ordered document list so it validates as one unit.
type IdentityDocuments struct {
	Documents []Document `json:"documents" validate:"required,min=1,dive"`
}

type Address struct {
	Street        string   `json:"street" validate:"required,notblank"`
	City          string   `json:"city" validate:"required,notblank"`
	State         string   `json:"state" validate:"required"`
	PostalCode    string   `json:"postalCode" validate:"required"`
	Country       string   `json:"country" validate:"required,notblank"`
	ProofDocument Document `json:"proofDocument"`
}

type FinancialInfo struct {
	IncomeRange      string `json:"incomeRange" validate:"required,notblank"`
	EmploymentStatus string `json:"employmentStatus" validate:"required"`
	SourceOfFunds    string `json:"sourceOfFunds" validate:"required"`
}

type PaymentMethod struct {
	CardNumber     string `json:"cardNumber" validate:"required"`
	CardholderName string `json:"cardholderName,omitempty"`
	ExpiryDate     string `json:"expiryDate,omitempty"`
	BankName       string `json:"bankName" validate:"required,notblank"`
	CardType       string `json:"cardType" validate:"required,notblank"`
}

// Consents carries the five mandatory acknowledgements. IPAddress and
// UserAgent describe where they were given from and are optional.
type Consents struct {
	DataProcessing  bool   `json:"dataProcessing"`
	KYCVerification bool   `json:"kycVerification"`
	DataSharing     bool   `json:"dataSharing"`
	TermsOfService  bool   `json:"termsOfService"`
	PrivacyPolicy   bool   `json:"privacyPolicy"`
	IPAddress       string `json:"ipAddress,omitempty"`
	UserAgent       string `json:"userAgent,omitempty"`
}

// Missing names every consent that was not given.
func (c Consents) Missing() []string {
	var out []string
	for _, f := range []struct {
		name  string
		given bool
	}{
		{"dataProcessing", c.DataProcessing},
		{"kycVerification", c.KYCVerification},
		{"dataSharing", c.DataSharing},
		{"termsOfService", c.TermsOfService},
		{"privacyPolicy", c.PrivacyPolicy},
	} {
		if !f.given {
			out = append(out, f.name)
		}
	}
	return out
}

// Application bundles the six stage inputs for a single end-to-end run.
type Application struct {
	PersonalInfo      PersonalInfo  `json:"personalInfo"`
	IdentityDocuments []Document    `json:"identityDocuments"`
	Address           Address       `json:"address"`
	FinancialInfo     FinancialInfo `json:"financialInfo"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	Consents          Consents      `json:"consents"`
}
