package ledger

import (
	"fmt"
	"math/big"
	"time"

	dErrors "kycdid/pkg/domain-errors"
)

// FundingTimeoutError means the account never reached the minimum balance.
type FundingTimeoutError struct {
	Address string
	Balance *big.Int
	Waited  time.Duration
}

func (e *FundingTimeoutError) Error() string {
	return fmt.Sprintf("account %s not funded after %s (balance %s)", e.Address, e.Waited, e.Balance)
}

func (e *FundingTimeoutError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeFundingTimeout, Message: e.Error()}
}

// PublishRejectedError carries the ledger's rejection code.
type PublishRejectedError struct {
	Code string
	Hash string
}

func (e *PublishRejectedError) Error() string {
	if e.Hash != "" {
		return fmt.Sprintf("ledger rejected transaction %s: %s", e.Hash, e.Code)
	}
	return "ledger rejected transaction: " + e.Code
}

func (e *PublishRejectedError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodePublishRejected, Message: e.Error()}
}
