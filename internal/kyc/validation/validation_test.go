package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kycdid/internal/kyc/demo"
	"kycdid/internal/kyc/models"
	"kycdid/pkg/testutil"
)

type StageValidationSuite struct {
	suite.Suite
}

func TestStageValidationSuite(t *testing.T) {
	suite.Run(t, new(StageValidationSuite))
}

func (s *StageValidationSuite) requireFields(err error, stage models.Stage, fields ...string) {
	var verr *models.ValidationError
	s.Require().True(errors.As(err, &verr), "expected ValidationError, got %v", err)
	s.Equal(stage, verr.Stage)
	s.ElementsMatch(fields, verr.Fields)
}

func (s *StageValidationSuite) TestPersonalInfo() {
	s.Run("accepts the demo applicant", func() {
		claim, err := PersonalInfo(demo.PersonalInfo(), testutil.Now)
		s.Require().NoError(err)
		s.Equal(time.Date(1990, time.May, 15, 0, 0, 0, 0, time.UTC), claim.BirthDate)
	})

	s.Run("names every missing field at once", func() {
		_, err := PersonalInfo(models.PersonalInfo{FirstName: "Alice", Email: "alice@example.com"}, testutil.Now)
		s.requireFields(err, models.StagePersonalInfo,
			"lastName", "dateOfBirth", "nationality", "phoneNumber", "gender", "placeOfBirth")
	})

	s.Run("rejects malformed email and phone", func() {
		in := demo.PersonalInfo()
		in.Email = "alice at example"
		in.PhoneNumber = "call me"
		_, err := PersonalInfo(in, testutil.Now)
		s.requireFields(err, models.StagePersonalInfo, "email", "phoneNumber")
	})

	s.Run("rejects an unparseable date of birth", func() {
		in := demo.PersonalInfo()
		in.DateOfBirth = "15/05/1990"
		_, err := PersonalInfo(in, testutil.Now)
		s.requireFields(err, models.StagePersonalInfo, "dateOfBirth")
	})
}

func (s *StageValidationSuite) TestAgeBoundary() {
	s.Run("one day short of eighteen is ineligible", func() {
		in := demo.PersonalInfo()
		in.DateOfBirth = testutil.Years(18, 1).Format(time.DateOnly)
		_, err := PersonalInfo(in, testutil.Now)
		var ageErr *models.IneligibleAgeError
		s.Require().True(errors.As(err, &ageErr))
		s.Equal(17, ageErr.Age)
	})

	s.Run("eighteenth birthday is eligible", func() {
		in := demo.PersonalInfo()
		in.DateOfBirth = testutil.Years(18, 0).Format(time.DateOnly)
		_, err := PersonalInfo(in, testutil.Now)
		s.NoError(err)
	})
}

func (s *StageValidationSuite) TestIdentityDocuments() {
	s.Run("primary is the first government ID", func() {
		docs := []models.Document{
			{Kind: models.DocumentSelfie},
			{Kind: models.DocumentPassport, Number: "P1"},
			{Kind: models.DocumentNationalID, Number: "N1"},
		}
		idx, err := IdentityDocuments(docs)
		s.Require().NoError(err)
		s.Equal(1, idx)
	})

	s.Run("empty list is a validation error", func() {
		_, err := IdentityDocuments(nil)
		s.requireFields(err, models.StageIdentityDocuments, "documents")
	})

	s.Run("document without kind and ID without number", func() {
		_, err := IdentityDocuments([]models.Document{{}, {Kind: models.DocumentPassport}})
		s.requireFields(err, models.StageIdentityDocuments, "documents[0].kind", "documents[1].number")
	})

	s.Run("no government ID", func() {
		_, err := IdentityDocuments([]models.Document{{Kind: models.DocumentUtilityBill}, {Kind: models.DocumentSelfie}})
		var missing *models.MissingRequiredDocumentError
		s.Require().True(errors.As(err, &missing))
		s.Equal([]models.DocumentKind{models.DocumentUtilityBill, models.DocumentSelfie}, missing.Submitted)
	})
}

func (s *StageValidationSuite) TestAddressAndFinancial() {
	s.NoError(Address(demo.Address()))

	addr := demo.Address()
	addr.PostalCode = ""
	addr.ProofDocument = models.Document{}
	s.requireFields(Address(addr), models.StageAddressVerification, "postalCode", "proofDocument.kind")

	_, err := FinancialInfo(models.FinancialInfo{EmploymentStatus: "employed"})
	s.requireFields(err, models.StageFinancialInfo, "incomeRange", "sourceOfFunds")
}

func (s *StageValidationSuite) TestPaymentMethod() {
	s.Run("card needs four digits", func() {
		pm := demo.PaymentMethod()
		pm.CardNumber = "12-3"
		s.requireFields(PaymentMethod(pm), models.StagePaymentMethod, "cardNumber")
	})

	s.Run("claim keeps only the last four digits", func() {
		claim := PaymentClaim(demo.PaymentMethod())
		s.Equal(&models.PaymentClaim{Last4: "9012", BankName: "First National Bank", CardType: "visa"}, claim)
	})
}

func (s *StageValidationSuite) TestConsents() {
	s.Run("names every missing consent", func() {
		c := demo.Consents()
		c.DataSharing = false
		c.PrivacyPolicy = false
		_, err := Consents(c, testutil.Now)
		var missing *models.MissingConsentError
		s.Require().True(errors.As(err, &missing))
		s.Equal([]string{"dataSharing", "privacyPolicy"}, missing.Consents)
	})

	s.Run("records origin", func() {
		claim, err := Consents(demo.Consents(), testutil.Now)
		s.Require().NoError(err)
		s.Equal(demo.IPAddress, claim.IPAddress)
		s.Equal("chrome/macos/desktop", claim.Device)
		s.Equal(testutil.Now, claim.GivenAt)
	})

	s.Run("address defaults to unknown", func() {
		c := demo.Consents()
		c.IPAddress = ""
		c.UserAgent = ""
		claim, err := Consents(c, testutil.Now)
		s.Require().NoError(err)
		s.Equal("unknown", claim.IPAddress)
		s.Equal("unknown", claim.Device)
	})
}
