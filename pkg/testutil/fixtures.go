package testutil

import (
	"time"

	"github.com/google/uuid"

	"kycdid/internal/kyc/demo"
	"kycdid/internal/kyc/models"
	id "kycdid/pkg/domain"
)

// Now is the fixed clock used across KYC tests.
var Now = time.Date(2026, time.October, 18, 10, 30, 0, 0, time.UTC)

var TestIDs = struct {
	SessionID1 id.SessionID
	SessionID2 id.SessionID
}{
	SessionID1: id.SessionID(uuid.MustParse("eeee0000-0000-0000-0000-000000000001")),
	SessionID2: id.SessionID(uuid.MustParse("eeee0000-0000-0000-0000-000000000002")),
}

// ApplicationBuilder starts from the Alice Johnson demo applicant.
type ApplicationBuilder struct {
	app models.Application
}

func NewApplicationBuilder() *ApplicationBuilder {
	return &ApplicationBuilder{app: demo.Application()}
}

func (b *ApplicationBuilder) WithName(first, last string) *ApplicationBuilder {
	b.app.PersonalInfo.FirstName = first
	b.app.PersonalInfo.LastName = last
	return b
}

func (b *ApplicationBuilder) WithDateOfBirth(t time.Time) *ApplicationBuilder {
	b.app.PersonalInfo.DateOfBirth = t.Format(time.DateOnly)
	return b
}

func (b *ApplicationBuilder) WithNationality(code string) *ApplicationBuilder {
	b.app.PersonalInfo.Nationality = code
	return b
}

func (b *ApplicationBuilder) WithDocuments(docs ...models.Document) *ApplicationBuilder {
	b.app.IdentityDocuments = docs
	return b
}

func (b *ApplicationBuilder) WithCountry(code string) *ApplicationBuilder {
	b.app.Address.Country = code
	return b
}

func (b *ApplicationBuilder) WithIncomeRange(r string) *ApplicationBuilder {
	b.app.FinancialInfo.IncomeRange = r
	return b
}

func (b *ApplicationBuilder) WithCardNumber(n string) *ApplicationBuilder {
	b.app.PaymentMethod.CardNumber = n
	return b
}

func (b *ApplicationBuilder) WithConsents(c models.Consents) *ApplicationBuilder {
	b.app.Consents = c
	return b
}

func (b *ApplicationBuilder) Build() models.Application {
	app := b.app
	app.IdentityDocuments = append([]models.Document(nil), b.app.IdentityDocuments...)
	return app
}

// Years subtracts whole calendar years from Now and adds days.
func Years(years, days int) time.Time {
	return Now.AddDate(-years, 0, days)
}

// CompletedClaims returns the claims a session holds after the demo
// applicant passes all six stages.
func CompletedClaims() models.Claims {
	p := demo.PersonalInfo()
	born, _ := time.Parse(time.DateOnly, p.DateOfBirth)
	addr := demo.Address()
	return models.Claims{
		Personal: &models.PersonalClaim{PersonalInfo: p, BirthDate: born},
		Documents: &models.DocumentsClaim{
			Documents: []models.VerifiedDocument{
				{Kind: models.DocumentDriversLicense, Number: "DL123456789", IssuingCountry: "US", Confidence: 0.95},
				{Kind: models.DocumentSelfie, Confidence: 0.95},
			},
			Primary: models.VerifiedDocument{Kind: models.DocumentDriversLicense, Number: "DL123456789", IssuingCountry: "US", Confidence: 0.95},
		},
		Address: &models.AddressClaim{
			Street:     addr.Street,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
			ProofKind:  addr.ProofDocument.Kind,
			Confidence: 0.95,
		},
		Financial: &models.FinancialClaim{FinancialInfo: demo.FinancialInfo()},
		Payment:   &models.PaymentClaim{Last4: "9012", BankName: "First National Bank", CardType: "visa"},
		Consent: &models.ConsentClaim{
			DataProcessing:  true,
			KYCVerification: true,
			DataSharing:     true,
			TermsOfService:  true,
			PrivacyPolicy:   true,
			IPAddress:       demo.IPAddress,
			Device:          "chrome/macos/desktop",
			GivenAt:         Now,
		},
	}
}
