package models

// Stage names one gate of the verification session.
type Stage string

const (
	StagePersonalInfo        Stage = "personalInfo"
	StageIdentityDocuments   Stage = "identityDocuments"
	StageAddressVerification Stage = "addressVerification"
	StageFinancialInfo       Stage = "financialInfo"
	StagePaymentMethod       Stage = "paymentMethod"
	StageConsents            Stage = "consents"
	StageKYCComplete         Stage = "kycComplete"
)

// Stages lists the six input stages in canonical order.
var Stages = []Stage{
	StagePersonalInfo,
	StageIdentityDocuments,
	StageAddressVerification,
	StageFinancialInfo,
	StagePaymentMethod,
	StageConsents,
}

func (s Stage) String() string { return string(s) }

// StageStatus holds the six stage flags and the derived completion flag.
type StageStatus struct {
	PersonalInfo        bool `json:"personalInfo"`
	IdentityDocuments   bool `json:"identityDocuments"`
	AddressVerification bool `json:"addressVerification"`
	FinancialInfo       bool `json:"financialInfo"`
	PaymentMethod       bool `json:"paymentMethod"`
	Consents            bool `json:"consents"`
	KYCComplete         bool `json:"kycComplete"`
}

// Done reports the flag for a stage.
func (s StageStatus) Done(stage Stage) bool {
	switch stage {
	case StagePersonalInfo:
		return s.PersonalInfo
	case StageIdentityDocuments:
		return s.IdentityDocuments
	case StageAddressVerification:
		return s.AddressVerification
	case StageFinancialInfo:
		return s.FinancialInfo
	case StagePaymentMethod:
		return s.PaymentMethod
	case StageConsents:
		return s.Consents
	case StageKYCComplete:
		return s.KYCComplete
	}
	return false
}

// Mark sets the flag for a stage.
func (s *StageStatus) Mark(stage Stage) {
	switch stage {
	case StagePersonalInfo:
		s.PersonalInfo = true
	case StageIdentityDocuments:
		s.IdentityDocuments = true
	case StageAddressVerification:
		s.AddressVerification = true
	case StageFinancialInfo:
		s.FinancialInfo = true
	case StagePaymentMethod:
		s.PaymentMethod = true
	case StageConsents:
		s.Consents = true
	case StageKYCComplete:
		s.KYCComplete = true
	}
}

// Pending returns the input stages whose flag is still false, in canonical order.
func (s StageStatus) Pending() []Stage {
	var out []Stage
	for _, st := range Stages {
		if !s.Done(st) {
			out = append(out, st)
		}
	}
	return out
}
