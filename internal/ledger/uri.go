package ledger

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

const dataURIPrefix = "data:application/json;base64,"

// Metadata is embedded in the published URI and echoed in the record.
type Metadata struct {
	DID             string    `json:"did"`
	CredentialTypes []string  `json:"credentialTypes"`
	VerifiedAt      time.Time `json:"verifiedAt"`
	KYCVerified     bool      `json:"kycVerified"`
}

// EncodeURI renders metadata as a base64 JSON data URI.
func EncodeURI(m Metadata) (string, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeURI is the inverse of EncodeURI.
func DecodeURI(uri string) (Metadata, error) {
	var m Metadata
	payload, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return m, &PublishRejectedError{Code: ResultMalformed}
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(raw, &m)
	return m, err
}
