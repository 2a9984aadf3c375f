// Package ledger funds identity accounts and publishes DID registrations to a
// distributed ledger through a pluggable Client.
package ledger

import (
	"context"
	"errors"
	"math/big"

	"kycdid/internal/identity/keys"
)

//go:generate mockgen -source=client.go -destination=mocks/client_mock.go -package=mocks

// Engine results shared by every Client implementation.
const (
	ResultSuccess         = "tesSUCCESS"
	ResultPastSequence    = "tefPAST_SEQ"
	ResultFutureSequence  = "terPRE_SEQ"
	ResultInsufficientFee = "terINSUF_FEE_B"
	ResultBadAuth         = "tefBAD_AUTH"
	ResultMaxLedger       = "tefMAX_LEDGER"
	ResultMalformed       = "temMALFORMED"
	ResultFailed          = "tecFAILED"
	ResultNotConnected    = "telNO_CONNECTION"
	ResultConfirmTimeout  = "telCONFIRM_TIMEOUT"
)

var (
	// ErrAccountNotFound is returned by AccountInfo for an unfunded address.
	ErrAccountNotFound = errors.New("ledger: account not found")
	ErrNotConnected    = errors.New("ledger: client not connected")
)

type AccountInfo struct {
	Balance  *big.Int
	Sequence uint64
}

// Transaction registers a DID. LastLedgerSequence bounds how long it may wait
// for inclusion.
type Transaction struct {
	Account            string `json:"account"`
	Sequence           uint64 `json:"sequence"`
	LastLedgerSequence uint64 `json:"lastLedgerSequence"`
	DID                string `json:"did"`
	URI                string `json:"uri"`
}

type SignedTx struct {
	Blob []byte
	Hash string
}

type SubmitResult struct {
	EngineResult string
	Hash         string
}

// TxStatus reports whether a submitted transaction reached a validated ledger.
type TxStatus struct {
	Validated   bool
	Result      string
	LedgerIndex uint64
}

// Client is the ledger SDK surface the publisher needs.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	AccountInfo(ctx context.Context, address string) (AccountInfo, error)
	CurrentLedgerIndex(ctx context.Context) (uint64, error)
	FundWallet(ctx context.Context, address string) error
	Sign(tx Transaction, kp *keys.Keypair) (SignedTx, error)
	Submit(ctx context.Context, blob []byte) (SubmitResult, error)
	TransactionStatus(ctx context.Context, hash string) (TxStatus, error)
}
