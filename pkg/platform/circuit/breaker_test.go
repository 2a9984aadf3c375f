package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now time.Time
	b   *Breaker
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	s.b = New("verifier",
		WithFailureThreshold(2),
		WithSuccessThreshold(2),
		WithCooldown(10*time.Second),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *BreakerSuite) TestOpensAfterConsecutiveFailures() {
	s.False(s.b.RecordFailure().Opened)
	s.True(s.b.RecordFailure().Opened)
	s.Equal(StateOpen, s.b.State())
	s.False(s.b.Allow())
}

func (s *BreakerSuite) TestSuccessResetsFailureCount() {
	s.b.RecordFailure()
	s.b.RecordSuccess()
	s.False(s.b.RecordFailure().Opened)
	s.Equal(StateClosed, s.b.State())
}

func (s *BreakerSuite) TestHalfOpenAfterCooldown() {
	s.b.RecordFailure()
	s.b.RecordFailure()

	s.now = s.now.Add(10 * time.Second)
	s.True(s.b.Allow())
	s.Equal(StateHalfOpen, s.b.State())

	s.Run("probe failure re-opens", func() {
		s.True(s.b.RecordFailure().Opened)
		s.False(s.b.Allow())
	})

	s.Run("enough probe successes close", func() {
		s.now = s.now.Add(10 * time.Second)
		s.True(s.b.Allow())
		s.False(s.b.RecordSuccess().Closed)
		s.True(s.b.RecordSuccess().Closed)
		s.Equal(StateClosed, s.b.State())
		s.Equal("closed", s.b.State().String())
	})
}

func (s *BreakerSuite) TestReset() {
	s.b.RecordFailure()
	s.b.RecordFailure()
	s.b.Reset()
	s.True(s.b.Allow())
	s.Equal("verifier", s.b.Name())
}
