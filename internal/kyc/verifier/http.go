package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"kycdid/internal/kyc/models"
	"kycdid/pkg/platform/circuit"
)

//go:generate mockgen -source=http.go -destination=mocks/httpdoer_mock.go -package=mocks

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPConfig configures an HTTP verification backend.
type HTTPConfig struct {
	ID         string
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient HTTPDoer
	Breaker    *circuit.Breaker
	Logger     *slog.Logger
}

// HTTPBackend calls a remote identity-proofing service. Each verification is
// a JSON POST; the response body is a Result.
type HTTPBackend struct {
	id      string
	baseURL string
	apiKey  string
	timeout time.Duration
	client  HTTPDoer
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewHTTP(cfg HTTPConfig) *HTTPBackend {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.ID == "" {
		cfg.ID = "http"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	breaker := cfg.Breaker
	if breaker == nil {
		breaker = circuit.New("verifier-" + cfg.ID)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPBackend{
		id:      cfg.ID,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

func (b *HTTPBackend) VerifyDocument(ctx context.Context, doc models.Document) (Result, error) {
	return b.post(ctx, "/v1/documents/verify", doc)
}

func (b *HTTPBackend) VerifyAddressProof(ctx context.Context, addr models.Address) (Result, error) {
	return b.post(ctx, "/v1/address-proofs/verify", addr)
}

func (b *HTTPBackend) VerifyPaymentMethod(ctx context.Context, pm models.PaymentMethod) (Result, error) {
	return b.post(ctx, "/v1/payment-methods/verify", pm)
}

func (b *HTTPBackend) post(ctx context.Context, path string, payload any) (Result, error) {
	if !b.breaker.Allow() {
		return Result{}, NewProviderError(ErrorCircuitOpen, b.id, "circuit open", nil)
	}
	res, err := b.do(ctx, path, payload)
	b.record(ctx, err)
	return res, err
}

// record feeds the breaker. Only failures that say something about the
// remote's health count against it.
func (b *HTTPBackend) record(ctx context.Context, err error) {
	var change circuit.StateChange
	if err == nil || !IsRetryable(err) {
		change = b.breaker.RecordSuccess()
	} else {
		change = b.breaker.RecordFailure()
	}
	if change.Opened {
		b.logger.WarnContext(ctx, "verifier circuit opened", "provider", b.id, "error", err)
	}
	if change.Closed {
		b.logger.InfoContext(ctx, "verifier circuit closed", "provider", b.id)
	}
}

func (b *HTTPBackend) do(ctx context.Context, path string, payload any) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, NewProviderError(ErrorBadData, b.id, "failed to marshal request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Result{}, NewProviderError(ErrorInternal, b.id, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("X-API-Key", b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, NewProviderError(ErrorTimeout, b.id, "request timeout", err)
		}
		return Result{}, NewProviderError(ErrorOutage, b.id, "failed to execute request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, NewProviderError(ErrorBadData, b.id, "failed to read response", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{}, NewProviderError(ErrorAuthentication, b.id, fmt.Sprintf("authentication failed: %d", resp.StatusCode), nil)
	case http.StatusTooManyRequests:
		return Result{}, NewProviderError(ErrorRateLimited, b.id, "rate limit exceeded", nil)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return Result{}, NewProviderError(ErrorOutage, b.id, fmt.Sprintf("provider unavailable: %d", resp.StatusCode), nil)
	default:
		return Result{}, NewProviderError(ErrorBadData, b.id, fmt.Sprintf("unexpected status: %d", resp.StatusCode), nil)
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, NewProviderError(ErrorBadData, b.id, "failed to parse response", err)
	}
	return res, nil
}

var _ Backend = (*HTTPBackend)(nil)
