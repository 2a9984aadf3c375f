package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kycdid/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDesc   bool
	}{
		{"not found", dErrors.New(dErrors.CodeNotFound, "did not found"), http.StatusNotFound, "not_found", true},
		{"validation", dErrors.New(dErrors.CodeValidation, "email is invalid"), http.StatusBadRequest, "validation_failed", true},
		{"ineligible age", dErrors.New(dErrors.CodeIneligibleAge, "under 18"), http.StatusUnprocessableEntity, "ineligible_age", true},
		{"incomplete", dErrors.New(dErrors.CodeKYCIncomplete, "pending"), http.StatusPreconditionFailed, "kyc_incomplete", true},
		{"already complete", dErrors.New(dErrors.CodeStageAlreadyComplete, "done"), http.StatusConflict, "stage_already_complete", true},
		{"funding timeout", dErrors.New(dErrors.CodeFundingTimeout, "slow"), http.StatusGatewayTimeout, "funding_timeout", true},
		{"publish rejected", dErrors.New(dErrors.CodePublishRejected, "tefPAST_SEQ"), http.StatusBadGateway, "publish_rejected", true},
		{"unavailable", dErrors.New(dErrors.CodeUnavailable, "backend down"), http.StatusServiceUnavailable, "unavailable", true},
		{"wrapped domain error", fmt.Errorf("stage: %w", dErrors.New(dErrors.CodeMissingConsent, "dataSharing")), http.StatusForbidden, "missing_consent", true},
		{"internal hides detail", dErrors.New(dErrors.CodeInternal, "db password wrong"), http.StatusInternalServerError, "internal_error", false},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
			assert.Equal(t, tt.wantDesc, body.ErrorDescription != "")
		})
	}
}
