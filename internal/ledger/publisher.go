package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/jpillora/backoff"

	"kycdid/internal/identity/keys"
	"kycdid/internal/platform/tracer"
	"kycdid/pkg/platform/keylock"
)

const (
	DefaultLedgerWindow   = 20
	DefaultFundTimeout    = 60 * time.Second
	DefaultConfirmTimeout = 60 * time.Second
)

// DefaultMinBalance is 10 units of 10^6 base units.
var DefaultMinBalance = big.NewInt(10_000_000)

// Record is what a successful publish returns.
type Record struct {
	TransactionHash string   `json:"transactionHash"`
	ExplorerURL     string   `json:"explorerUrl"`
	URI             string   `json:"uri"`
	Metadata        Metadata `json:"metadata"`
}

// Config tunes funding and confirmation. Zero values take the defaults.
type Config struct {
	ExplorerURL    string
	MinBalance     *big.Int
	FundTimeout    time.Duration
	ConfirmTimeout time.Duration
	LedgerWindow   uint64
	PollMin        time.Duration
	PollMax        time.Duration
}

// Publisher funds accounts and publishes registrations. It never retries a
// rejected publish. Submissions from one account are serialized so two
// sessions deriving the same key never sign with the same sequence.
type Publisher struct {
	client   Client
	cfg      Config
	logger   *slog.Logger
	tracer   tracer.Tracer
	accounts *keylock.Striped
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(p *Publisher) {
		p.tracer = t
	}
}

func NewPublisher(client Client, cfg Config, opts ...Option) *Publisher {
	if cfg.MinBalance == nil {
		cfg.MinBalance = DefaultMinBalance
	}
	if cfg.FundTimeout == 0 {
		cfg.FundTimeout = DefaultFundTimeout
	}
	if cfg.ConfirmTimeout == 0 {
		cfg.ConfirmTimeout = DefaultConfirmTimeout
	}
	if cfg.LedgerWindow == 0 {
		cfg.LedgerWindow = DefaultLedgerWindow
	}
	if cfg.PollMin == 0 {
		cfg.PollMin = 250 * time.Millisecond
	}
	if cfg.PollMax == 0 {
		cfg.PollMax = 4 * time.Second
	}
	p := &Publisher{client: client, cfg: cfg, logger: slog.Default(), tracer: tracer.NewNoop(), accounts: keylock.New()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExplorerURL links to a transaction on the configured explorer.
func (p *Publisher) ExplorerURL(hash string) string {
	if p.cfg.ExplorerURL == "" {
		return ""
	}
	return strings.TrimRight(p.cfg.ExplorerURL, "/") + "/tx/" + hash
}

// EnsureFunded tops the account up through the faucet when it holds less
// than the minimum balance and blocks until the balance arrives.
func (p *Publisher) EnsureFunded(ctx context.Context, address string) (balance *big.Int, err error) {
	ctx, span := p.tracer.Start(ctx, tracer.SpanLedgerFund)
	defer func() { span.End(err) }()

	balance, err = p.balance(ctx, address)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(p.cfg.MinBalance) >= 0 {
		return balance, nil
	}

	span.AddEvent(tracer.EventFaucetRequest)
	if err := p.client.FundWallet(ctx, address); err != nil {
		return nil, fmt.Errorf("fund wallet: %w", err)
	}

	start := time.Now()
	bo := &backoff.Backoff{Min: p.cfg.PollMin, Max: p.cfg.PollMax, Factor: 2}
	deadline := time.NewTimer(p.cfg.FundTimeout)
	defer deadline.Stop()
	for {
		balance, err = p.balance(ctx, address)
		if err != nil {
			return nil, err
		}
		if balance.Cmp(p.cfg.MinBalance) >= 0 {
			p.logger.InfoContext(ctx, "account funded", "address", address, "balance", balance.String())
			return balance, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, &FundingTimeoutError{Address: address, Balance: balance, Waited: time.Since(start)}
		case <-time.After(bo.Duration()):
		}
	}
}

func (p *Publisher) balance(ctx context.Context, address string) (*big.Int, error) {
	info, err := p.client.AccountInfo(ctx, address)
	if errors.Is(err, ErrAccountNotFound) {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("account info: %w", err)
	}
	if info.Balance == nil {
		return new(big.Int), nil
	}
	return info.Balance, nil
}

// Publish signs and submits a registration for kp and waits until it is
// validated. Any rejection surfaces as *PublishRejectedError.
func (p *Publisher) Publish(ctx context.Context, kp *keys.Keypair, meta Metadata) (rec Record, err error) {
	ctx, span := p.tracer.Start(ctx, tracer.SpanLedgerPublish, tracer.String(tracer.AttrDIDMethod, kp.DID.Method()))
	defer func() { span.End(err) }()

	uri, err := EncodeURI(meta)
	if err != nil {
		return Record{}, fmt.Errorf("encode uri: %w", err)
	}
	var (
		tx  Transaction
		res SubmitResult
	)
	err = p.accounts.With(kp.Address, func() error {
		info, err := p.client.AccountInfo(ctx, kp.Address)
		if err != nil {
			return fmt.Errorf("account info: %w", err)
		}
		current, err := p.client.CurrentLedgerIndex(ctx)
		if err != nil {
			return fmt.Errorf("ledger index: %w", err)
		}
		tx = Transaction{
			Account:            kp.Address,
			Sequence:           info.Sequence,
			LastLedgerSequence: current + p.cfg.LedgerWindow,
			DID:                kp.DID.String(),
			URI:                uri,
		}
		signed, err := p.client.Sign(tx, kp)
		if err != nil {
			return fmt.Errorf("sign: %w", err)
		}
		res, err = p.client.Submit(ctx, signed.Blob)
		if err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	span.SetAttributes(tracer.String(tracer.AttrEngineResult, res.EngineResult), tracer.String(tracer.AttrTxHash, res.Hash))
	if res.EngineResult != ResultSuccess {
		return Record{}, &PublishRejectedError{Code: res.EngineResult, Hash: res.Hash}
	}

	if err := p.awaitValidation(ctx, res.Hash, tx.LastLedgerSequence); err != nil {
		return Record{}, err
	}

	p.logger.InfoContext(ctx, "did registration validated", "did", kp.DID.String(), "tx_hash", res.Hash)
	return Record{
		TransactionHash: res.Hash,
		ExplorerURL:     p.ExplorerURL(res.Hash),
		URI:             uri,
		Metadata:        meta,
	}, nil
}

func (p *Publisher) awaitValidation(ctx context.Context, hash string, lastLedger uint64) error {
	bo := &backoff.Backoff{Min: p.cfg.PollMin, Max: p.cfg.PollMax, Factor: 2}
	deadline := time.NewTimer(p.cfg.ConfirmTimeout)
	defer deadline.Stop()
	for {
		status, err := p.client.TransactionStatus(ctx, hash)
		if err != nil {
			return fmt.Errorf("transaction status: %w", err)
		}
		if status.Validated {
			if status.Result != ResultSuccess {
				return &PublishRejectedError{Code: status.Result, Hash: hash}
			}
			return nil
		}
		current, err := p.client.CurrentLedgerIndex(ctx)
		if err != nil {
			return fmt.Errorf("ledger index: %w", err)
		}
		if current > lastLedger {
			return &PublishRejectedError{Code: ResultMaxLedger, Hash: hash}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return &PublishRejectedError{Code: ResultConfirmTimeout, Hash: hash}
		case <-time.After(bo.Duration()):
		}
	}
}
