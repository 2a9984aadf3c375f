package simulated

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kycdid/internal/identity/keys"
	"kycdid/internal/ledger"
)

type LedgerSuite struct {
	suite.Suite
	ctx context.Context
	l   *Ledger
	kp  *keys.Keypair
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.l = New()
	s.Require().NoError(s.l.Connect(s.ctx))
	kp, err := keys.NewDeriver().Derive(keys.Material{FirstName: "Alice", LastName: "Johnson"}, time.Unix(0, 0))
	s.Require().NoError(err)
	s.kp = kp
}

func (s *LedgerSuite) tx(seq uint64) ledger.Transaction {
	idx, err := s.l.CurrentLedgerIndex(s.ctx)
	s.Require().NoError(err)
	return ledger.Transaction{Account: s.kp.Address, Sequence: seq, LastLedgerSequence: idx + 20, DID: s.kp.DID.String(), URI: "data:,x"}
}

func (s *LedgerSuite) submit(tx ledger.Transaction, kp *keys.Keypair) ledger.SubmitResult {
	signed, err := s.l.Sign(tx, kp)
	s.Require().NoError(err)
	res, err := s.l.Submit(s.ctx, signed.Blob)
	s.Require().NoError(err)
	s.Equal(signed.Hash, res.Hash)
	return res
}

func (s *LedgerSuite) TestUnknownAccount() {
	_, err := s.l.AccountInfo(s.ctx, s.kp.Address)
	s.ErrorIs(err, ledger.ErrAccountNotFound)
}

func (s *LedgerSuite) TestFaucetCreatesAccount() {
	s.Require().NoError(s.l.FundWallet(s.ctx, s.kp.Address))
	info, err := s.l.AccountInfo(s.ctx, s.kp.Address)
	s.Require().NoError(err)
	s.Equal(0, info.Balance.Cmp(DefaultFaucetAmount))
	s.Equal(uint64(1), info.Sequence)
}

func (s *LedgerSuite) TestSubmitValidatesAfterLedgerClose() {
	s.Require().NoError(s.l.FundWallet(s.ctx, s.kp.Address))
	res := s.submit(s.tx(1), s.kp)
	s.Equal(ledger.ResultSuccess, res.EngineResult)

	status, err := s.l.TransactionStatus(s.ctx, res.Hash)
	s.Require().NoError(err)
	s.True(status.Validated)

	uri, ok := s.l.Registration(s.kp.DID.String())
	s.True(ok)
	s.Equal("data:,x", uri)

	info, _ := s.l.AccountInfo(s.ctx, s.kp.Address)
	s.Equal(uint64(2), info.Sequence)
	s.Equal(0, info.Balance.Cmp(new(big.Int).Sub(DefaultFaucetAmount, DefaultFee)))
}

func (s *LedgerSuite) TestRejections() {
	s.Run("unfunded account", func() {
		s.Equal(ledger.ResultInsufficientFee, s.submit(s.tx(1), s.kp).EngineResult)
	})

	s.Require().NoError(s.l.FundWallet(s.ctx, s.kp.Address))

	s.Run("signature from another key", func() {
		other, err := keys.NewDeriver().Derive(keys.Material{FirstName: "Mallory"}, time.Unix(0, 0))
		s.Require().NoError(err)
		s.Equal(ledger.ResultBadAuth, s.submit(s.tx(1), other).EngineResult)
	})

	s.Run("future sequence", func() {
		s.Equal(ledger.ResultFutureSequence, s.submit(s.tx(5), s.kp).EngineResult)
	})

	s.Run("past sequence", func() {
		s.Equal(ledger.ResultSuccess, s.submit(s.tx(1), s.kp).EngineResult)
		s.Equal(ledger.ResultPastSequence, s.submit(s.tx(1), s.kp).EngineResult)
	})

	s.Run("expired window", func() {
		tx := s.tx(2)
		s.l.Advance(50)
		s.Equal(ledger.ResultMaxLedger, s.submit(tx, s.kp).EngineResult)
	})

	s.Run("malformed blob", func() {
		res, err := s.l.Submit(s.ctx, []byte("not json"))
		s.Require().NoError(err)
		s.Equal(ledger.ResultMalformed, res.EngineResult)
	})
}

func (s *LedgerSuite) TestDisconnected() {
	s.Require().NoError(s.l.Disconnect(s.ctx))
	_, err := s.l.CurrentLedgerIndex(s.ctx)
	s.ErrorIs(err, ledger.ErrNotConnected)
}

func (s *LedgerSuite) TestDelayedFaucet() {
	l := New(WithFaucetDelay(2))
	s.Require().NoError(l.Connect(s.ctx))
	s.Require().NoError(l.FundWallet(s.ctx, s.kp.Address))

	_, err := l.AccountInfo(s.ctx, s.kp.Address)
	s.ErrorIs(err, ledger.ErrAccountNotFound)
	_, err = l.AccountInfo(s.ctx, s.kp.Address)
	s.ErrorIs(err, ledger.ErrAccountNotFound)
	_, err = l.AccountInfo(s.ctx, s.kp.Address)
	s.NoError(err)
}
