// Package simulated is an in-memory ledger with accounts, sequences, a
// faucet and signature checks. Each status query closes one ledger.
package simulated

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"kycdid/internal/identity/keys"
	"kycdid/internal/ledger"
)

var (
	DefaultFaucetAmount = big.NewInt(1_000_000_000)
	DefaultFee          = big.NewInt(12)
)

type account struct {
	balance  *big.Int
	sequence uint64
}

type pending struct {
	tx          ledger.Transaction
	submittedAt uint64
	validatedAt uint64
	result      string
}

// Ledger is safe for concurrent use.
type Ledger struct {
	mu            sync.Mutex
	connected     bool
	index         uint64
	accounts      map[string]*account
	txs           map[string]*pending
	registrations map[string]string
	faucetAmount  *big.Int
	fee           *big.Int
	faucetDelay   int
	faucetQueue   map[string]int
	stallAfter    bool
}

type Option func(*Ledger)

func WithFaucetAmount(v *big.Int) Option { return func(l *Ledger) { l.faucetAmount = v } }
func WithFee(v *big.Int) Option          { return func(l *Ledger) { l.fee = v } }

// WithFaucetDelay credits faucet requests only after n account queries.
// A negative n means the faucet never pays out.
func WithFaucetDelay(n int) Option { return func(l *Ledger) { l.faucetDelay = n } }

// WithStalledValidation keeps submitted transactions pending forever.
func WithStalledValidation() Option { return func(l *Ledger) { l.stallAfter = true } }

func New(opts ...Option) *Ledger {
	l := &Ledger{
		index:         1,
		accounts:      make(map[string]*account),
		txs:           make(map[string]*pending),
		registrations: make(map[string]string),
		faucetAmount:  DefaultFaucetAmount,
		fee:           DefaultFee,
		faucetQueue:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Connect(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = true
	return nil
}

func (l *Ledger) Disconnect(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = false
	return nil
}

func (l *Ledger) AccountInfo(_ context.Context, address string) (ledger.AccountInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.connected {
		return ledger.AccountInfo{}, ledger.ErrNotConnected
	}
	key := normalize(address)
	if left, ok := l.faucetQueue[key]; ok && left >= 0 {
		if left == 0 {
			delete(l.faucetQueue, key)
			l.credit(key)
		} else {
			l.faucetQueue[key] = left - 1
		}
	}
	acct, ok := l.accounts[key]
	if !ok {
		return ledger.AccountInfo{}, ledger.ErrAccountNotFound
	}
	return ledger.AccountInfo{Balance: new(big.Int).Set(acct.balance), Sequence: acct.sequence}, nil
}

func (l *Ledger) CurrentLedgerIndex(context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.connected {
		return 0, ledger.ErrNotConnected
	}
	return l.index, nil
}

func (l *Ledger) FundWallet(_ context.Context, address string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.connected {
		return ledger.ErrNotConnected
	}
	key := normalize(address)
	if l.faucetDelay == 0 {
		l.credit(key)
		return nil
	}
	l.faucetQueue[key] = l.faucetDelay
	return nil
}

func (l *Ledger) credit(key string) {
	acct, ok := l.accounts[key]
	if !ok {
		acct = &account{balance: new(big.Int), sequence: 1}
		l.accounts[key] = acct
	}
	acct.balance.Add(acct.balance, l.faucetAmount)
}

type envelope struct {
	Tx        ledger.Transaction `json:"tx"`
	Signature string             `json:"signature"`
}

func digest(tx ledger.Transaction) ([]byte, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	return sum[:], nil
}

// Sign produces a JSON envelope carrying a recoverable secp256k1 signature.
func (l *Ledger) Sign(tx ledger.Transaction, kp *keys.Keypair) (ledger.SignedTx, error) {
	h, err := digest(tx)
	if err != nil {
		return ledger.SignedTx{}, err
	}
	sig, err := ethcrypto.Sign(h, kp.PrivateKey)
	if err != nil {
		return ledger.SignedTx{}, fmt.Errorf("simulated: sign: %w", err)
	}
	blob, err := json.Marshal(envelope{Tx: tx, Signature: hex.EncodeToString(sig)})
	if err != nil {
		return ledger.SignedTx{}, err
	}
	return ledger.SignedTx{Blob: blob, Hash: txHash(blob)}, nil
}

func txHash(blob []byte) string {
	return strings.ToUpper(hex.EncodeToString(ethcrypto.Keccak256(blob)))
}

func (l *Ledger) Submit(_ context.Context, blob []byte) (ledger.SubmitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.connected {
		return ledger.SubmitResult{}, ledger.ErrNotConnected
	}
	hash := txHash(blob)
	reject := func(code string) (ledger.SubmitResult, error) {
		return ledger.SubmitResult{EngineResult: code, Hash: hash}, nil
	}

	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return reject(ledger.ResultMalformed)
	}
	sig, err := hex.DecodeString(env.Signature)
	if err != nil {
		return reject(ledger.ResultMalformed)
	}
	h, err := digest(env.Tx)
	if err != nil {
		return reject(ledger.ResultMalformed)
	}
	pub, err := ethcrypto.SigToPub(h, sig)
	if err != nil || ethcrypto.PubkeyToAddress(*pub) != common.HexToAddress(env.Tx.Account) {
		return reject(ledger.ResultBadAuth)
	}

	acct, ok := l.accounts[normalize(env.Tx.Account)]
	switch {
	case !ok || acct.balance.Cmp(l.fee) < 0:
		return reject(ledger.ResultInsufficientFee)
	case env.Tx.Sequence < acct.sequence:
		return reject(ledger.ResultPastSequence)
	case env.Tx.Sequence > acct.sequence:
		return reject(ledger.ResultFutureSequence)
	case env.Tx.LastLedgerSequence < l.index:
		return reject(ledger.ResultMaxLedger)
	}

	acct.balance.Sub(acct.balance, l.fee)
	acct.sequence++
	l.txs[hash] = &pending{tx: env.Tx, submittedAt: l.index, result: ledger.ResultSuccess}
	return ledger.SubmitResult{EngineResult: ledger.ResultSuccess, Hash: hash}, nil
}

// TransactionStatus closes one ledger, validating everything submitted before it.
func (l *Ledger) TransactionStatus(_ context.Context, hash string) (ledger.TxStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.connected {
		return ledger.TxStatus{}, ledger.ErrNotConnected
	}
	p, ok := l.txs[hash]
	if !ok {
		return ledger.TxStatus{}, fmt.Errorf("simulated: unknown transaction %s", hash)
	}
	if l.stallAfter {
		return ledger.TxStatus{}, nil
	}
	l.index++
	if p.validatedAt == 0 && l.index > p.submittedAt {
		p.validatedAt = l.index
		l.registrations[p.tx.DID] = p.tx.URI
	}
	return ledger.TxStatus{Validated: p.validatedAt != 0, Result: p.result, LedgerIndex: p.validatedAt}, nil
}

// Registration returns the URI published for did, if validated.
func (l *Ledger) Registration(did string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	uri, ok := l.registrations[did]
	return uri, ok
}

// Advance closes n ledgers without validating anything new.
func (l *Ledger) Advance(n uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.index += n
}

func normalize(address string) string {
	return strings.ToLower(address)
}

var _ ledger.Client = (*Ledger)(nil)
