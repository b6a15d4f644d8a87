package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now         time.Time
	transitions []string
	breaker     *Breaker
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.transitions = nil
	s.breaker = New("hash-cache",
		WithFailureThreshold(3),
		WithCooldown(10*time.Second),
		WithClock(func() time.Time { return s.now }),
		WithStateChange(func(_ string, from, to State) {
			s.transitions = append(s.transitions, from.String()+"->"+to.String())
		}),
	)
}

func (s *BreakerSuite) TestOpensAfterThreshold() {
	s.True(s.breaker.Allow())
	s.breaker.RecordFailure()
	s.breaker.RecordFailure()
	s.Equal(StateClosed, s.breaker.State())

	s.breaker.RecordFailure()
	s.Equal(StateOpen, s.breaker.State())
	s.False(s.breaker.Allow())
	s.Equal([]string{"closed->open"}, s.transitions)
}

func (s *BreakerSuite) TestSuccessResetsFailureCount() {
	s.breaker.RecordFailure()
	s.breaker.RecordFailure()
	s.breaker.RecordSuccess()
	s.breaker.RecordFailure()
	s.Equal(StateClosed, s.breaker.State())
}

func (s *BreakerSuite) TestProbeAfterCooldown() {
	for range 3 {
		s.breaker.RecordFailure()
	}

	s.Run("still cooling down", func() {
		s.now = s.now.Add(9 * time.Second)
		s.False(s.breaker.Allow())
	})

	s.Run("single probe allowed", func() {
		s.now = s.now.Add(2 * time.Second)
		s.True(s.breaker.Allow())
		s.Equal(StateHalfOpen, s.breaker.State())
		s.False(s.breaker.Allow())
	})

	s.Run("failed probe reopens", func() {
		s.breaker.RecordFailure()
		s.Equal(StateOpen, s.breaker.State())
		s.False(s.breaker.Allow())
	})

	s.Run("successful probe closes", func() {
		s.now = s.now.Add(11 * time.Second)
		s.True(s.breaker.Allow())
		s.breaker.RecordSuccess()
		s.Equal(StateClosed, s.breaker.State())
		s.True(s.breaker.Allow())
	})

	s.Equal([]string{
		"closed->open",
		"open->half_open",
		"half_open->open",
		"open->half_open",
		"half_open->closed",
	}, s.transitions)
}

func (s *BreakerSuite) TestReset() {
	for range 3 {
		s.breaker.RecordFailure()
	}
	s.breaker.Reset()
	s.Equal(StateClosed, s.breaker.State())
	s.True(s.breaker.Allow())
	s.Equal("hash-cache", s.breaker.Name())
}
