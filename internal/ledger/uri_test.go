package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeURI(t *testing.T) {
	meta := Metadata{
		DID:             "did:ethr:0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
		CredentialTypes: []string{"identityCredential"},
		VerifiedAt:      time.Date(2026, time.October, 18, 10, 30, 0, 0, time.UTC),
		KYCVerified:     true,
	}

	uri, err := EncodeURI(meta)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:application/json;base64,"))
	assert.NotContains(t, uri, "Alice")

	decoded, err := DecodeURI(uri)
	require.NoError(t, err)
	assert.Equal(t, meta.DID, decoded.DID)
	assert.True(t, meta.VerifiedAt.Equal(decoded.VerifiedAt))

	t.Run("rejects other schemes", func(t *testing.T) {
		_, err := DecodeURI("https://example.com")
		assert.Error(t, err)
	})
}
