// Package evm publishes DID registrations to an EVM chain. A registration is
// a zero-value self-transfer whose calldata carries the DID and its URI.
package evm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"kycdid/internal/identity/keys"
	"kycdid/internal/ledger"
)

const (
	txGas          = 21_000
	zeroByteGas    = 4
	nonZeroByteGas = 16
)

// Backend is the subset of ethclient the client drives. Both *ethclient.Client
// and the go-ethereum simulated backend satisfy it.
type Backend interface {
	ethereum.ChainIDReader
	ethereum.BlockNumberReader
	ethereum.GasPricer
	ethereum.TransactionSender
	ethereum.TransactionReader
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	RPCURL    string
	FaucetURL string
	// ChainID overrides the value reported by the node.
	ChainID *big.Int
}

// Client implements ledger.Client over JSON-RPC.
type Client struct {
	cfg  Config
	http HTTPDoer

	mu       sync.RWMutex
	backend  Backend
	dialed   *ethclient.Client
	chainID  *big.Int
	gasPrice *big.Int
}

type Option func(*Client)

// WithBackend skips dialing cfg.RPCURL.
func WithBackend(b Backend) Option {
	return func(c *Client) {
		c.backend = b
	}
}

func WithHTTPDoer(d HTTPDoer) Option {
	return func(c *Client) {
		c.http = d
	}
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{cfg: cfg, http: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the node and captures the chain ID and gas price used for signing.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend == nil {
		ec, err := ethclient.DialContext(ctx, c.cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("dial %s: %w", c.cfg.RPCURL, err)
		}
		c.dialed = ec
		c.backend = ec
	}
	c.chainID = c.cfg.ChainID
	if c.chainID == nil {
		id, err := c.backend.ChainID(ctx)
		if err != nil {
			return fmt.Errorf("chain id: %w", err)
		}
		c.chainID = id
	}
	price, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("gas price: %w", err)
	}
	// headroom for a base fee rise between Connect and Submit
	c.gasPrice = new(big.Int).Mul(price, big.NewInt(2))
	return nil
}

func (c *Client) Disconnect(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialed != nil {
		c.dialed.Close()
		c.dialed = nil
		c.backend = nil
	}
	c.chainID = nil
	return nil
}

func (c *Client) conn() (Backend, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.backend == nil || c.chainID == nil {
		return nil, ledger.ErrNotConnected
	}
	return c.backend, nil
}

// AccountInfo reports ErrAccountNotFound for an address that has neither
// balance nor history.
func (c *Client) AccountInfo(ctx context.Context, address string) (ledger.AccountInfo, error) {
	b, err := c.conn()
	if err != nil {
		return ledger.AccountInfo{}, err
	}
	addr := common.HexToAddress(address)
	balance, err := b.BalanceAt(ctx, addr, nil)
	if err != nil {
		return ledger.AccountInfo{}, fmt.Errorf("balance: %w", err)
	}
	nonce, err := b.PendingNonceAt(ctx, addr)
	if err != nil {
		return ledger.AccountInfo{}, fmt.Errorf("nonce: %w", err)
	}
	if balance.Sign() == 0 && nonce == 0 {
		return ledger.AccountInfo{}, ledger.ErrAccountNotFound
	}
	return ledger.AccountInfo{Balance: balance, Sequence: nonce}, nil
}

func (c *Client) CurrentLedgerIndex(ctx context.Context) (uint64, error) {
	b, err := c.conn()
	if err != nil {
		return 0, err
	}
	return b.BlockNumber(ctx)
}

// FundWallet asks the configured faucet to credit address.
func (c *Client) FundWallet(ctx context.Context, address string) error {
	if c.cfg.FaucetURL == "" {
		return errors.New("evm: no faucet configured")
	}
	body, err := json.Marshal(map[string]string{"address": address})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.FaucetURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("faucet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("faucet: unexpected status %d", resp.StatusCode)
	}
	return nil
}

type calldata struct {
	DID                string `json:"did"`
	URI                string `json:"uri"`
	LastLedgerSequence uint64 `json:"lastLedgerSequence"`
}

// IntrinsicGas is the gas a self-transfer carrying data needs.
func IntrinsicGas(data []byte) uint64 {
	gas := uint64(txGas)
	for _, b := range data {
		if b == 0 {
			gas += zeroByteGas
		} else {
			gas += nonZeroByteGas
		}
	}
	return gas
}

func (c *Client) Sign(tx ledger.Transaction, kp *keys.Keypair) (ledger.SignedTx, error) {
	c.mu.RLock()
	chainID, gasPrice := c.chainID, c.gasPrice
	c.mu.RUnlock()
	if chainID == nil {
		return ledger.SignedTx{}, ledger.ErrNotConnected
	}
	data, err := json.Marshal(calldata{DID: tx.DID, URI: tx.URI, LastLedgerSequence: tx.LastLedgerSequence})
	if err != nil {
		return ledger.SignedTx{}, err
	}
	to := common.HexToAddress(tx.Account)
	unsigned := types.NewTx(&types.LegacyTx{
		Nonce:    tx.Sequence,
		To:       &to,
		Value:    new(big.Int),
		Gas:      IntrinsicGas(data),
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(unsigned, types.LatestSignerForChainID(chainID), kp.PrivateKey)
	if err != nil {
		return ledger.SignedTx{}, fmt.Errorf("evm: sign: %w", err)
	}
	blob, err := signed.MarshalBinary()
	if err != nil {
		return ledger.SignedTx{}, err
	}
	return ledger.SignedTx{Blob: blob, Hash: signed.Hash().Hex()}, nil
}

// Submit maps node rejections onto engine results. Transport failures are
// returned as errors.
func (c *Client) Submit(ctx context.Context, blob []byte) (ledger.SubmitResult, error) {
	b, err := c.conn()
	if err != nil {
		return ledger.SubmitResult{}, err
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(blob); err != nil {
		return ledger.SubmitResult{EngineResult: ledger.ResultMalformed}, nil
	}
	hash := tx.Hash().Hex()
	if err := b.SendTransaction(ctx, tx); err != nil {
		code, ok := engineResult(err)
		if !ok {
			return ledger.SubmitResult{}, fmt.Errorf("send transaction: %w", err)
		}
		return ledger.SubmitResult{EngineResult: code, Hash: hash}, nil
	}
	return ledger.SubmitResult{EngineResult: ledger.ResultSuccess, Hash: hash}, nil
}

func engineResult(err error) (string, bool) {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already known"):
		return ledger.ResultSuccess, true
	case strings.Contains(msg, "nonce too low"):
		return ledger.ResultPastSequence, true
	case strings.Contains(msg, "nonce too high"):
		return ledger.ResultFutureSequence, true
	case strings.Contains(msg, "insufficient funds"), strings.Contains(msg, "underpriced"):
		return ledger.ResultInsufficientFee, true
	case strings.Contains(msg, "invalid sender"):
		return ledger.ResultBadAuth, true
	case strings.Contains(msg, "intrinsic gas"), strings.Contains(msg, "rlp"):
		return ledger.ResultMalformed, true
	}
	return "", false
}

func (c *Client) TransactionStatus(ctx context.Context, hash string) (ledger.TxStatus, error) {
	b, err := c.conn()
	if err != nil {
		return ledger.TxStatus{}, err
	}
	receipt, err := b.TransactionReceipt(ctx, common.HexToHash(hash))
	if receiptPending(err) {
		return ledger.TxStatus{}, nil
	}
	if err != nil {
		return ledger.TxStatus{}, fmt.Errorf("receipt: %w", err)
	}
	status := ledger.TxStatus{Validated: true, Result: ledger.ResultSuccess, LedgerIndex: receipt.BlockNumber.Uint64()}
	if receipt.Status != types.ReceiptStatusSuccessful {
		status.Result = ledger.ResultFailed
	}
	return status, nil
}

// receiptPending reports whether err means the receipt is not available yet.
// A node still indexing recent blocks answers with a plain RPC error, not
// ethereum.NotFound.
func receiptPending(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ethereum.NotFound) || strings.Contains(err.Error(), "transaction indexing is in progress")
}

var _ ledger.Client = (*Client)(nil)
