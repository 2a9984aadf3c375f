package request

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyLimit(t *testing.T) {
	read := func(limit int64, body string) error {
		var readErr error
		handler := BodyLimit(limit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/kyc/did", strings.NewReader(body)))
		return readErr
	}

	t.Run("body at the limit is readable", func(t *testing.T) {
		require.NoError(t, read(100, strings.Repeat("x", 100)))
	})

	t.Run("body over the limit fails on read", func(t *testing.T) {
		err := read(100, strings.Repeat("x", 101))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "request body too large")
	})
}
