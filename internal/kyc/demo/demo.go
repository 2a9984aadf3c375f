// Package demo holds the reference applicant used by the demo CLI and as
// transport-layer defaults.
package demo

import "kycdid/internal/kyc/models"

const (
	// UserAgent is a desktop Chrome on macOS string.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	IPAddress = "203.0.113.42"
)

func PersonalInfo() models.PersonalInfo {
	return models.PersonalInfo{
		FirstName:    "Alice",
		LastName:     "Johnson",
		DateOfBirth:  "1990-05-15",
		Nationality:  "US",
		PhoneNumber:  "+1 (555) 123-4567",
		Email:        "alice.johnson@example.com",
		Gender:       "female",
		PlaceOfBirth: "Portland, OR",
	}
}

func Documents() []models.Document {
	return []models.Document{
		{
			Kind:           models.DocumentDriversLicense,
			Number:         "DL123456789",
			IssuingCountry: "US",
			ExpiresOn:      "2030-05-15",
			Content:        []byte("drivers-license-scan"),
		},
		{Kind: models.DocumentSelfie, Content: []byte("selfie-image")},
	}
}

func Address() models.Address {
	return models.Address{
		Street:     "123 Main Street",
		City:       "San Francisco",
		State:      "CA",
		PostalCode: "94105",
		Country:    "US",
		ProofDocument: models.Document{
			Kind:    models.DocumentUtilityBill,
			Content: []byte("utility-bill-2026-09"),
		},
	}
}

func FinancialInfo() models.FinancialInfo {
	return models.FinancialInfo{
		IncomeRange:      "50000-75000",
		EmploymentStatus: "employed",
		SourceOfFunds:    "salary",
	}
}

func PaymentMethod() models.PaymentMethod {
	return models.PaymentMethod{
		CardNumber:     "4532 1234 5678 9012",
		CardholderName: "Alice Johnson",
		ExpiryDate:     "12/28",
		BankName:       "First National Bank",
		CardType:       "visa",
	}
}

func Consents() models.Consents {
	return models.Consents{
		DataProcessing:  true,
		KYCVerification: true,
		DataSharing:     true,
		TermsOfService:  true,
		PrivacyPolicy:   true,
		IPAddress:       IPAddress,
		UserAgent:       UserAgent,
	}
}

// Application is the complete Alice Johnson application.
func Application() models.Application {
	return models.Application{
		PersonalInfo:      PersonalInfo(),
		IdentityDocuments: Documents(),
		Address:           Address(),
		FinancialInfo:     FinancialInfo(),
		PaymentMethod:     PaymentMethod(),
		Consents:          Consents(),
	}
}
