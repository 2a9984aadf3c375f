package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestError() {
	s.Run("message wins over code", func() {
		err := &Error{Code: CodeIneligibleAge, Message: "applicant is 17"}
		s.Equal("applicant is 17", err.Error())
	})

	s.Run("falls back to code", func() {
		err := &Error{Code: CodeKYCNotComplete}
		s.Equal("kyc_not_complete", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIs() {
	s.Run("matches on code regardless of message", func() {
		a := New(CodePublishRejected, "tefPAST_SEQ")
		b := &Error{Code: CodePublishRejected}
		s.ErrorIs(a, b)
	})

	s.Run("different codes do not match", func() {
		s.NotErrorIs(New(CodeFundingTimeout, "x"), &Error{Code: CodePublishRejected})
	})

	s.Run("plain errors never match", func() {
		err := &Error{Code: CodeNotFound}
		s.False(err.Is(errors.New("not_found")))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("keeps the inner domain code", func() {
		inner := New(CodeAddressProofRejected, "utility bill rejected")
		wrapped := Wrap(inner, CodeInternal, "address stage failed")
		s.True(HasCode(wrapped, CodeAddressProofRejected))
		s.Equal("address stage failed", wrapped.Error())
	})

	s.Run("assigns code to foreign errors", func() {
		root := errors.New("dial tcp: refused")
		wrapped := Wrap(root, CodeUnavailable, "verifier unreachable")
		s.True(HasCode(wrapped, CodeUnavailable))
		s.ErrorIs(wrapped, root)
	})
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Run("finds code through fmt wrapping", func() {
		err := fmt.Errorf("complete: %w", New(CodeKYCIncomplete, "missing stages"))
		s.Equal(CodeKYCIncomplete, CodeOf(err))
	})

	s.Run("defaults to internal", func() {
		s.Equal(CodeInternal, CodeOf(errors.New("boom")))
		s.False(HasCode(nil, CodeNotFound))
	})
}
