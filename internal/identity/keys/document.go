package keys

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/multiformats/go-multibase"
)

const VerificationKeyType = "EcdsaSecp256k1VerificationKey2019"

var documentContext = []string{
	"https://www.w3.org/ns/did/v1",
	"https://w3id.org/security/suites/secp256k1-2019/v1",
}

type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Document is a W3C DID document for a derived keypair.
type Document struct {
	Context            []string             `json:"@context"`
	ID                 string               `json:"id"`
	Controller         []string             `json:"controller,omitempty"`
	VerificationMethod []VerificationMethod `json:"verificationMethod"`
	Authentication     []string             `json:"authentication"`
	AssertionMethod    []string             `json:"assertionMethod"`
	Service            []Service            `json:"service,omitempty"`
}

// NewDocument builds the DID document. publicKey is the 0x-prefixed
// compressed key as stored on Keypair; proofsEndpoint, when set, is
// advertised as an IdentityProofService.
func NewDocument(did, publicKey, proofsEndpoint string) (*Document, error) {
	mb, err := PublicKeyMultibase(publicKey)
	if err != nil {
		return nil, err
	}
	keyID := did + "#controller"
	doc := &Document{
		Context: documentContext,
		ID:      did,
		VerificationMethod: []VerificationMethod{{
			ID:                 keyID,
			Type:               VerificationKeyType,
			Controller:         did,
			PublicKeyMultibase: mb,
		}},
		Authentication:  []string{keyID},
		AssertionMethod: []string{keyID},
	}
	if proofsEndpoint != "" {
		doc.Service = []Service{{
			ID:              did + "#proofs",
			Type:            "IdentityProofService",
			ServiceEndpoint: proofsEndpoint,
		}}
	}
	return doc, nil
}

// PublicKeyMultibase re-encodes a 0x compressed key as base58btc multibase.
func PublicKeyMultibase(publicKey string) (string, error) {
	raw, err := hexutil.Decode(publicKey)
	if err != nil {
		return "", fmt.Errorf("keys: decode public key: %w", err)
	}
	if _, err := ethcrypto.DecompressPubkey(raw); err != nil {
		return "", fmt.Errorf("keys: invalid public key: %w", err)
	}
	return multibase.Encode(multibase.Base58BTC, raw)
}
