package proof

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"kycdid/internal/kyc/models"
	id "kycdid/pkg/domain"
	dErrors "kycdid/pkg/domain-errors"
	"kycdid/pkg/testutil"
)

const did = id.DID("did:ethr:0x52908400098527886E0F7030069857D2E4169EE7")

type ResponderSuite struct {
	suite.Suite
	subject Subject
}

func TestResponderSuite(t *testing.T) {
	suite.Run(t, new(ResponderSuite))
}

func (s *ResponderSuite) SetupTest() {
	subject, err := NewSubject(testutil.CompletedClaims(), testutil.Now)
	s.Require().NoError(err)
	s.subject = subject
}

func (s *ResponderSuite) TestEachKindDisclosesOneFact() {
	cases := map[Kind][]string{
		KindAge:       {"isAdult"},
		KindResidency: {"residency"},
		KindIdentity:  {"verificationLevel"},
		KindFinancial: {"incomeCategory"},
	}
	for kind, facts := range cases {
		s.Run(string(kind), func() {
			resp, err := Respond(did, s.subject, kind, testutil.Now)
			s.Require().NoError(err)

			raw, err := json.Marshal(resp)
			s.Require().NoError(err)
			var fields map[string]any
			s.Require().NoError(json.Unmarshal(raw, &fields))

			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			s.ElementsMatch(append([]string{"did", "timestamp", "proofType", "verified"}, facts...), keys)
			s.Equal(true, fields["verified"])
			s.Equal(string(kind), fields["proofType"])
		})
	}
}

func (s *ResponderSuite) TestFactValues() {
	resp, _ := Respond(did, s.subject, KindAge, testutil.Now)
	s.Require().NotNil(resp.IsAdult)
	s.True(*resp.IsAdult)

	resp, _ = Respond(did, s.subject, KindResidency, testutil.Now)
	s.Equal("US", resp.Residency)

	resp, _ = Respond(did, s.subject, KindIdentity, testutil.Now)
	s.Equal("full", resp.VerificationLevel)
}

func (s *ResponderSuite) TestIncomeCategories() {
	for income, want := range map[string]id.IncomeCategory{
		"80000-120000": id.IncomeHigh,
		"40000-60000":  id.IncomeMedium,
		"10000-20000":  id.IncomeLow,
	} {
		claims := testutil.CompletedClaims()
		claims.Financial.IncomeRange = income
		subject, err := NewSubject(claims, testutil.Now)
		s.Require().NoError(err)

		resp, err := Respond(did, subject, KindFinancial, testutil.Now)
		s.Require().NoError(err)
		s.Equal(want, resp.IncomeCategory, income)
	}
}

func (s *ResponderSuite) TestSubjectRequiresCompletedClaims() {
	claims := testutil.CompletedClaims()
	claims.Personal = nil
	_, err := NewSubject(claims, testutil.Now)
	var notComplete *models.KYCNotCompleteError
	s.True(errors.As(err, &notComplete))
}

func (s *ResponderSuite) TestParseKind() {
	k, err := ParseKind("age")
	s.Require().NoError(err)
	s.Equal(KindAge, k)

	k, err = ParseKind("financialStatus")
	s.Require().NoError(err)
	s.Equal(KindFinancial, k)

	_, err = ParseKind("creditScore")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = Respond(did, s.subject, Kind("creditScore"), testutil.Now)
	s.Error(err)
}
