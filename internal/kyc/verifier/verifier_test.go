package verifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kycdid/internal/kyc/models"
	"kycdid/internal/kyc/verifier"
	"kycdid/internal/kyc/verifier/mocks"
	"kycdid/pkg/platform/circuit"
)

type SimulatedSuite struct {
	suite.Suite
}

func TestSimulatedSuite(t *testing.T) {
	suite.Run(t, new(SimulatedSuite))
}

func (s *SimulatedSuite) TestApprovesEverything() {
	backend := verifier.NewSimulated(verifier.WithDelay(0))
	ctx := context.Background()

	res, err := backend.VerifyDocument(ctx, models.Document{Kind: models.DocumentPassport})
	s.Require().NoError(err)
	s.True(res.Valid)
	s.InDelta(0.95, res.Confidence, 1e-9)

	res, err = backend.VerifyAddressProof(ctx, models.Address{ProofDocument: models.Document{Kind: models.DocumentUtilityBill}})
	s.Require().NoError(err)
	s.True(res.Valid)

	res, err = backend.VerifyPaymentMethod(ctx, models.PaymentMethod{CardType: "visa"})
	s.Require().NoError(err)
	s.Equal("pm-visa", res.Reference)
}

func (s *SimulatedSuite) TestRejectRules() {
	backend := verifier.NewSimulated(
		verifier.WithDelay(0),
		verifier.WithRejectedKinds(models.DocumentPassport, models.DocumentUtilityBill),
		verifier.WithRejectedCardTypes("AMEX"),
	)
	ctx := context.Background()

	res, err := backend.VerifyDocument(ctx, models.Document{Kind: models.DocumentPassport})
	s.Require().NoError(err)
	s.False(res.Valid)
	s.Zero(res.Confidence)

	res, err = backend.VerifyDocument(ctx, models.Document{Kind: models.DocumentNationalID})
	s.Require().NoError(err)
	s.True(res.Valid)

	res, err = backend.VerifyAddressProof(ctx, models.Address{ProofDocument: models.Document{Kind: models.DocumentUtilityBill}})
	s.Require().NoError(err)
	s.False(res.Valid)

	res, err = backend.VerifyPaymentMethod(ctx, models.PaymentMethod{CardType: "amex"})
	s.Require().NoError(err)
	s.False(res.Valid)

	res, err = backend.VerifyPaymentMethod(ctx, models.PaymentMethod{CardType: "visa"})
	s.Require().NoError(err)
	s.True(res.Valid)
}

func (s *SimulatedSuite) TestCancellationAbandonsTheCall() {
	backend := verifier.NewSimulated(verifier.WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backend.VerifyDocument(ctx, models.Document{Kind: models.DocumentPassport})
	s.Require().Error(err)
	s.ErrorIs(err, context.Canceled)
	s.Equal(verifier.ErrorTimeout, verifier.GetCategory(err))
}

type HTTPBackendSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	doer   *mocks.MockHTTPDoer
	now    time.Time
	client *verifier.HTTPBackend
}

func TestHTTPBackendSuite(t *testing.T) {
	suite.Run(t, new(HTTPBackendSuite))
}

func (s *HTTPBackendSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.doer = mocks.NewMockHTTPDoer(s.ctrl)
	s.now = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	s.client = verifier.NewHTTP(verifier.HTTPConfig{
		ID:         "idv",
		BaseURL:    "http://idv.test",
		APIKey:     "secret",
		HTTPClient: s.doer,
		Breaker: circuit.New("idv",
			circuit.WithFailureThreshold(2),
			circuit.WithClock(func() time.Time { return s.now })),
	})
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func (s *HTTPBackendSuite) TestVerdictIsDecoded() {
	s.doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		s.Equal("http://idv.test/v1/documents/verify", req.URL.String())
		s.Equal("secret", req.Header.Get("X-API-Key"))
		var doc models.Document
		s.Require().NoError(json.NewDecoder(req.Body).Decode(&doc))
		s.Equal(models.DocumentDriversLicense, doc.Kind)
		return respond(http.StatusOK, `{"valid":false,"confidence":0.31,"reference":"r-1"}`), nil
	})

	res, err := s.client.VerifyDocument(context.Background(), models.Document{Kind: models.DocumentDriversLicense, Number: "DL123456789"})
	s.Require().NoError(err)
	s.False(res.Valid)
	s.Equal("r-1", res.Reference)
}

func (s *HTTPBackendSuite) TestStatusCategories() {
	cases := []struct {
		status    int
		category  verifier.ErrorCategory
		retryable bool
	}{
		{http.StatusUnauthorized, verifier.ErrorAuthentication, false},
		{http.StatusTooManyRequests, verifier.ErrorRateLimited, true},
		{http.StatusServiceUnavailable, verifier.ErrorOutage, true},
		{http.StatusTeapot, verifier.ErrorBadData, false},
	}
	for _, tc := range cases {
		s.Run(http.StatusText(tc.status), func() {
			s.client = verifier.NewHTTP(verifier.HTTPConfig{BaseURL: "http://idv.test", HTTPClient: s.doer})
			s.doer.EXPECT().Do(gomock.Any()).Return(respond(tc.status, ""), nil)
			_, err := s.client.VerifyPaymentMethod(context.Background(), models.PaymentMethod{CardType: "visa"})
			s.Equal(tc.category, verifier.GetCategory(err))
			s.Equal(tc.retryable, verifier.IsRetryable(err))
		})
	}
}

func (s *HTTPBackendSuite) TestMalformedBody() {
	s.doer.EXPECT().Do(gomock.Any()).Return(respond(http.StatusOK, `{not json`), nil)
	_, err := s.client.VerifyAddressProof(context.Background(), models.Address{})
	s.Equal(verifier.ErrorBadData, verifier.GetCategory(err))
}

func (s *HTTPBackendSuite) TestCircuitOpensOnRepeatedOutages() {
	s.doer.EXPECT().Do(gomock.Any()).Return(nil, errors.New("connection refused")).Times(2)

	for range 2 {
		_, err := s.client.VerifyDocument(context.Background(), models.Document{Kind: models.DocumentPassport})
		s.Equal(verifier.ErrorOutage, verifier.GetCategory(err))
	}

	_, err := s.client.VerifyDocument(context.Background(), models.Document{Kind: models.DocumentPassport})
	s.Equal(verifier.ErrorCircuitOpen, verifier.GetCategory(err))

	s.Run("probe after cooldown reaches the remote", func() {
		s.now = s.now.Add(time.Minute)
		s.doer.EXPECT().Do(gomock.Any()).Return(respond(http.StatusOK, `{"valid":true,"confidence":0.9}`), nil)
		res, err := s.client.VerifyDocument(context.Background(), models.Document{Kind: models.DocumentPassport})
		s.Require().NoError(err)
		s.True(res.Valid)
	})
}
