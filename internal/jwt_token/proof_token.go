// Package jwttoken signs identity proof answers as compact HS256 JWS so a
// relying party can check that a proof came from this issuer.
package jwttoken

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"kycdid/internal/identity/proof"
	id "kycdid/pkg/domain"
	dErrors "kycdid/pkg/domain-errors"
	"kycdid/pkg/platform/middleware/requesttime"
)

// ProofClaims carries one proof answer. The subject is the DID the proof is
// about; the issuer is the KYC issuer DID.
type ProofClaims struct {
	ProofType         proof.Kind        `json:"proof_type"`
	Verified          bool              `json:"verified"`
	IsAdult           *bool             `json:"is_adult,omitempty"`
	Residency         string            `json:"residency,omitempty"`
	VerificationLevel string            `json:"verification_level,omitempty"`
	IncomeCategory    id.IncomeCategory `json:"income_category,omitempty"`
	jwt.RegisteredClaims
}

type ProofSigner struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewProofSigner(signingKey, issuer string, ttl time.Duration) *ProofSigner {
	return &ProofSigner{signingKey: []byte(signingKey), issuer: issuer, ttl: ttl}
}

// Sign issues a token for resp, valid from the request time for the
// configured TTL.
func (s *ProofSigner) Sign(ctx context.Context, resp proof.Response) (string, error) {
	now := requesttime.Now(ctx)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ProofClaims{
		ProofType:         resp.ProofType,
		Verified:          resp.Verified,
		IsAdult:           resp.IsAdult,
		Residency:         resp.Residency,
		VerificationLevel: resp.VerificationLevel,
		IncomeCategory:    resp.IncomeCategory,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   resp.DID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign proof token")
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry.
func (s *ProofSigner) Verify(tokenString string) (*ProofClaims, error) {
	claims := new(ProofClaims)
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "proof token expired")
		}
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid proof token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid proof token")
	}
	return claims, nil
}
