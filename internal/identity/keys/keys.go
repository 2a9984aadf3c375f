// Package keys derives the identity-bound secp256k1 keypair and DID from
// verified identity claims.
package keys

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/hkdf"

	id "kycdid/pkg/domain"
)

const (
	// SeedTag prefixes every derivation input.
	SeedTag = "kycdid/identity-key/v1"

	DefaultNamespace = "ethr"

	// scalarAttempts bounds the HKDF stream; a miss is ~2^-128 per attempt.
	scalarAttempts = 16
)

// Material is the identity data a keypair is bound to.
type Material struct {
	FirstName      string
	LastName       string
	DateOfBirth    string
	Nationality    string
	DocumentNumber string
}

// canonical joins the fields in fixed order with '|'.
func (m Material) canonical() string {
	return strings.Join([]string{m.FirstName, m.LastName, m.DateOfBirth, m.Nationality, m.DocumentNumber}, "|")
}

// Keypair is derived once per successful completion and never mutated.
type Keypair struct {
	Seed       [32]byte
	PrivateKey *ecdsa.PrivateKey
	// Address is the EIP-55 checksummed account address.
	Address string
	// PublicKey is the 0x-prefixed compressed public key.
	PublicKey string
	DID       id.DID
}

// Deriver turns Material into a Keypair.
type Deriver struct {
	namespace     string
	bindFreshness bool
}

type Option func(*Deriver)

// WithNamespace sets the DID method, e.g. "ethr".
func WithNamespace(ns string) Option {
	return func(d *Deriver) {
		if ns != "" {
			d.namespace = ns
		}
	}
}

// WithFreshness controls whether the derivation time is part of the seed.
// Bound (the default) yields a new identity per completion; unbound yields
// the same identity for the same person and document.
func WithFreshness(bind bool) Option {
	return func(d *Deriver) {
		d.bindFreshness = bind
	}
}

func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{namespace: DefaultNamespace, bindFreshness: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Deriver) Namespace() string    { return d.namespace }
func (d *Deriver) BindsFreshness() bool { return d.bindFreshness }

// Seed computes the 32-byte derivation digest.
func (d *Deriver) Seed(m Material, at time.Time) [32]byte {
	var b strings.Builder
	b.WriteString(SeedTag)
	b.WriteByte('|')
	if d.bindFreshness {
		b.WriteString(strconv.FormatInt(at.UnixMilli(), 10))
	}
	b.WriteByte('|')
	b.WriteString(m.canonical())
	return sha256.Sum256([]byte(b.String()))
}

// Derive is pure given m, at and the Deriver's options.
func (d *Deriver) Derive(m Material, at time.Time) (*Keypair, error) {
	seed := d.Seed(m, at)
	priv, err := scalarFromSeed(seed)
	if err != nil {
		return nil, err
	}
	address := ethcrypto.PubkeyToAddress(priv.PublicKey).Hex()
	return &Keypair{
		Seed:       seed,
		PrivateKey: priv,
		Address:    address,
		PublicKey:  hexutil.Encode(ethcrypto.CompressPubkey(&priv.PublicKey)),
		DID:        id.DID("did:" + d.namespace + ":" + address),
	}, nil
}

var errNoScalar = errors.New("keys: no valid secp256k1 scalar in expansion")

// scalarFromSeed expands the seed with HKDF-SHA256 and takes the first
// 32-byte block that is a valid secp256k1 private key.
func scalarFromSeed(seed [32]byte) (*ecdsa.PrivateKey, error) {
	r := hkdf.New(sha256.New, seed[:], []byte(SeedTag), []byte("secp256k1"))
	buf := make([]byte, 32)
	for range scalarAttempts {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("keys: expand seed: %w", err)
		}
		if priv, err := ethcrypto.ToECDSA(buf); err == nil {
			return priv, nil
		}
	}
	return nil, errNoScalar
}
