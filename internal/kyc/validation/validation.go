// Package validation holds the pure per-stage checks: required fields,
// formats and eligibility rules. Nothing here calls a backend.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/mssola/useragent"

	"kycdid/internal/kyc/models"
	"kycdid/pkg/domain"
	"kycdid/pkg/platform/privacy"
	"kycdid/pkg/validation"
)

func fieldsError(stage models.Stage, fields []validation.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Field
	}
	return &models.ValidationError{Stage: stage, Fields: names}
}

// PersonalInfo checks presence and format of every field, then the age rule
// against now.
func PersonalInfo(in models.PersonalInfo, now time.Time) (*models.PersonalClaim, error) {
	if err := fieldsError(models.StagePersonalInfo, validation.Fields(in)); err != nil {
		return nil, err
	}
	born, err := time.Parse(time.DateOnly, in.DateOfBirth)
	if err != nil {
		return nil, &models.ValidationError{Stage: models.StagePersonalInfo, Fields: []string{"dateOfBirth"}}
	}
	if age := domain.AgeAt(born, now); age < domain.AdultAge {
		return nil, &models.IneligibleAgeError{Age: age}
	}
	return &models.PersonalClaim{PersonalInfo: in, BirthDate: born}, nil
}

// IdentityDocuments checks the document list and returns the index of the
// primary document: the first government issued ID.
func IdentityDocuments(docs []models.Document) (int, error) {
	fields := validation.Fields(models.IdentityDocuments{Documents: docs})
	primary := -1
	for i, d := range docs {
		if !d.Kind.IsGovernmentID() {
			continue
		}
		if strings.TrimSpace(d.Number) == "" {
			fields = append(fields, validation.FieldError{Field: fmt.Sprintf("documents[%d].number", i), Rule: "required"})
		}
		if primary < 0 {
			primary = i
		}
	}
	if err := fieldsError(models.StageIdentityDocuments, fields); err != nil {
		return -1, err
	}
	if primary < 0 {
		kinds := make([]models.DocumentKind, len(docs))
		for i, d := range docs {
			kinds[i] = d.Kind
		}
		return -1, &models.MissingRequiredDocumentError{Submitted: kinds}
	}
	return primary, nil
}

func Address(in models.Address) error {
	return fieldsError(models.StageAddressVerification, validation.Fields(in))
}

func FinancialInfo(in models.FinancialInfo) (*models.FinancialClaim, error) {
	if err := fieldsError(models.StageFinancialInfo, validation.Fields(in)); err != nil {
		return nil, err
	}
	return &models.FinancialClaim{FinancialInfo: in}, nil
}

// PaymentMethod requires at least four digits in the card number once
// separators are removed.
func PaymentMethod(in models.PaymentMethod) error {
	fields := validation.Fields(in)
	if in.CardNumber != "" && privacy.Last4(in.CardNumber) == "" {
		fields = append(fields, validation.FieldError{Field: "cardNumber", Rule: "min_digits"})
	}
	return fieldsError(models.StagePaymentMethod, fields)
}

// PaymentClaim reduces an accepted card to the retained facts.
func PaymentClaim(in models.PaymentMethod) *models.PaymentClaim {
	return &models.PaymentClaim{
		Last4:    privacy.Last4(in.CardNumber),
		BankName: in.BankName,
		CardType: in.CardType,
	}
}

// Consents requires all five acknowledgements and records where they came from.
func Consents(in models.Consents, now time.Time) (*models.ConsentClaim, error) {
	if missing := in.Missing(); len(missing) > 0 {
		return nil, &models.MissingConsentError{Consents: missing}
	}
	ip := strings.TrimSpace(in.IPAddress)
	if ip == "" {
		ip = "unknown"
	}
	return &models.ConsentClaim{
		DataProcessing:  in.DataProcessing,
		KYCVerification: in.KYCVerification,
		DataSharing:     in.DataSharing,
		TermsOfService:  in.TermsOfService,
		PrivacyPolicy:   in.PrivacyPolicy,
		IPAddress:       ip,
		Device:          Device(in.UserAgent),
		GivenAt:         now,
	}, nil
}

// Device reduces a User-Agent to "browser/os/platform", e.g. "chrome/macos/desktop".
func Device(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "unknown"
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}
	if ua.Bot() {
		platform = "bot"
	}
	return strings.Join([]string{browserName(browser), osFamily(ua.OS()), platform}, "/")
}

func browserName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return strings.ReplaceAll(s, " ", "_")
}

func osFamily(s string) string {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "iphone"), strings.Contains(s, "ipad"):
		return "ios"
	case strings.Contains(s, "mac os"):
		return "macos"
	case strings.Contains(s, "android"):
		return "android"
	case strings.Contains(s, "windows"):
		return "windows"
	case strings.Contains(s, "linux"):
		return "linux"
	case s == "":
		return "unknown"
	}
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}
