// Package config loads process configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	pstrings "kycdid/pkg/platform/strings"
)

const (
	LedgerSimulated   = "simulated"
	LedgerEVM         = "evm"
	VerifierSimulated = "simulated"
	VerifierHTTP      = "http"

	devSigningKey = "dev-secret-key-change-in-production"
)

// Server captures everything cmd/server needs to wire the service.
type Server struct {
	Addr          string
	Environment   string
	RegulatedMode bool
	JWTSigningKey string
	ProofTokenTTL time.Duration

	DIDNamespace     string
	DIDBindFreshness bool
	IssuerDID        string

	Ledger   Ledger
	Verifier Verifier
	Storage  Storage
	Kafka    Kafka
}

type Ledger struct {
	Mode           string
	RPCURL         string
	ChainID        int64
	FaucetURL      string
	ExplorerURL    string
	MinBalance     int64
	FundingTimeout time.Duration
	ConfirmTimeout time.Duration
}

type Verifier struct {
	Mode           string
	URL            string
	APIKey         string
	Timeout        time.Duration
	SimulatedDelay time.Duration
}

// Storage is optional: an empty DatabaseURL keeps registrations in memory and
// an empty RedisURL disables the read-through cache.
type Storage struct {
	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration
}

// Kafka is optional: without brokers audit events go to Postgres or memory.
// With both Kafka and Postgres, AuditGroup projects the topic into Postgres.
type Kafka struct {
	Brokers    []string
	AuditTopic string
	AuditGroup string
}

func defaults(v *viper.Viper) {
	v.SetDefault("KYC_ADDR", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("REGULATED_MODE", false)
	v.SetDefault("JWT_SIGNING_KEY", devSigningKey)
	v.SetDefault("PROOF_TOKEN_TTL", 15*time.Minute)
	v.SetDefault("DID_NAMESPACE", "ethr")
	v.SetDefault("DID_BIND_FRESHNESS", true)
	v.SetDefault("ISSUER_DID", "did:ethr:kyc-issuer")
	v.SetDefault("LEDGER_MODE", LedgerSimulated)
	v.SetDefault("LEDGER_CHAIN_ID", 1337)
	v.SetDefault("LEDGER_MIN_BALANCE", 10_000_000)
	v.SetDefault("LEDGER_FUNDING_TIMEOUT", 60*time.Second)
	v.SetDefault("LEDGER_CONFIRM_TIMEOUT", 60*time.Second)
	v.SetDefault("VERIFIER_MODE", VerifierSimulated)
	v.SetDefault("VERIFIER_TIMEOUT", 10*time.Second)
	v.SetDefault("SIMULATED_VERIFY_DELAY", 100*time.Millisecond)
	v.SetDefault("REDIS_CACHE_TTL", 10*time.Minute)
	v.SetDefault("KAFKA_AUDIT_TOPIC", "kyc.audit")
	v.SetDefault("KAFKA_AUDIT_GROUP", "kycdid-audit-projector")
}

// FromEnv reads a .env file when present and then the process environment.
func FromEnv() (Server, error) {
	_ = godotenv.Load()
	v := viper.New()
	v.AutomaticEnv()
	return Load(v)
}

// Load builds a Server from v after applying defaults.
func Load(v *viper.Viper) (Server, error) {
	defaults(v)
	cfg := Server{
		Addr:             v.GetString("KYC_ADDR"),
		Environment:      v.GetString("ENVIRONMENT"),
		RegulatedMode:    v.GetBool("REGULATED_MODE"),
		JWTSigningKey:    v.GetString("JWT_SIGNING_KEY"),
		ProofTokenTTL:    v.GetDuration("PROOF_TOKEN_TTL"),
		DIDNamespace:     v.GetString("DID_NAMESPACE"),
		DIDBindFreshness: v.GetBool("DID_BIND_FRESHNESS"),
		IssuerDID:        v.GetString("ISSUER_DID"),
		Ledger: Ledger{
			Mode:           strings.ToLower(v.GetString("LEDGER_MODE")),
			RPCURL:         v.GetString("LEDGER_RPC_URL"),
			ChainID:        v.GetInt64("LEDGER_CHAIN_ID"),
			FaucetURL:      v.GetString("LEDGER_FAUCET_URL"),
			ExplorerURL:    v.GetString("LEDGER_EXPLORER_URL"),
			MinBalance:     v.GetInt64("LEDGER_MIN_BALANCE"),
			FundingTimeout: v.GetDuration("LEDGER_FUNDING_TIMEOUT"),
			ConfirmTimeout: v.GetDuration("LEDGER_CONFIRM_TIMEOUT"),
		},
		Verifier: Verifier{
			Mode:           strings.ToLower(v.GetString("VERIFIER_MODE")),
			URL:            v.GetString("VERIFIER_URL"),
			APIKey:         v.GetString("VERIFIER_API_KEY"),
			Timeout:        v.GetDuration("VERIFIER_TIMEOUT"),
			SimulatedDelay: v.GetDuration("SIMULATED_VERIFY_DELAY"),
		},
		Storage: Storage{
			DatabaseURL: v.GetString("DATABASE_URL"),
			RedisURL:    v.GetString("REDIS_URL"),
			CacheTTL:    v.GetDuration("REDIS_CACHE_TTL"),
		},
		Kafka: Kafka{
			Brokers:    pstrings.SplitList(v.GetString("KAFKA_BROKERS")),
			AuditTopic: v.GetString("KAFKA_AUDIT_TOPIC"),
			AuditGroup: v.GetString("KAFKA_AUDIT_GROUP"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate rejects combinations the server cannot start with.
func (c Server) Validate() error {
	switch c.Ledger.Mode {
	case LedgerSimulated:
	case LedgerEVM:
		if c.Ledger.RPCURL == "" {
			return fmt.Errorf("LEDGER_RPC_URL is required when LEDGER_MODE=evm")
		}
	default:
		return fmt.Errorf("unknown LEDGER_MODE %q", c.Ledger.Mode)
	}
	switch c.Verifier.Mode {
	case VerifierSimulated:
	case VerifierHTTP:
		if c.Verifier.URL == "" {
			return fmt.Errorf("VERIFIER_URL is required when VERIFIER_MODE=http")
		}
	default:
		return fmt.Errorf("unknown VERIFIER_MODE %q", c.Verifier.Mode)
	}
	if c.DIDNamespace == "" {
		return fmt.Errorf("DID_NAMESPACE must not be empty")
	}
	if c.RegulatedMode && c.JWTSigningKey == devSigningKey {
		return fmt.Errorf("JWT_SIGNING_KEY must be set in regulated mode")
	}
	return nil
}
