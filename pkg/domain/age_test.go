package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type AgeSuite struct {
	suite.Suite
}

func TestAgeSuite(t *testing.T) {
	suite.Run(t, new(AgeSuite))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *AgeSuite) TestAgeAt() {
	now := date(2026, time.October, 18)

	s.Run("birthday today counts the full year", func() {
		s.Equal(18, AgeAt(date(2008, time.October, 18), now))
	})

	s.Run("birthday tomorrow is one year short", func() {
		s.Equal(17, AgeAt(date(2008, time.October, 19), now))
	})

	s.Run("earlier month in the current year", func() {
		s.Equal(36, AgeAt(date(1990, time.May, 15), now))
	})

	s.Run("later month in the current year", func() {
		s.Equal(35, AgeAt(date(1990, time.December, 1), now))
	})
}

func (s *AgeSuite) TestLeapDayBirthday() {
	born := date(2008, time.February, 29)

	s.Run("Feb 28 of a common year is before the birthday", func() {
		s.False(IsAdult(born, date(2026, time.February, 28)))
	})

	s.Run("Mar 1 of a common year is past it", func() {
		s.True(IsAdult(born, date(2026, time.March, 1)))
	})
}

func (s *AgeSuite) TestTimezonesNormalizeToUTC() {
	pst := time.FixedZone("PST", -8*60*60)
	born := time.Date(2008, time.October, 18, 20, 0, 0, 0, pst) // Oct 19 UTC
	s.False(IsAdult(born, date(2026, time.October, 18)))
}

func (s *AgeSuite) TestBirthdayCountsOnTheUTCDate() {
	cest := time.FixedZone("CEST", 2*60*60)
	born := date(2008, time.May, 15)

	s.Run("local birthday before UTC midnight is still 17", func() {
		now := time.Date(2026, time.May, 15, 0, 30, 0, 0, cest) // May 14 22:30 UTC
		s.Equal(17, AgeAt(born, now))
		s.False(IsAdult(born, now))
	})

	s.Run("adult once UTC reaches the birthday", func() {
		now := time.Date(2026, time.May, 15, 2, 0, 0, 0, cest) // May 15 00:00 UTC
		s.Equal(18, AgeAt(born, now))
		s.True(IsAdult(born, now))
	})
}
