package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAutoAdvanceThroughAllRounds(t *testing.T) {
	registry := NewRegistry()
	s, err := registry.Create(SessionConfig{
		ID:            "auto",
		Timeline:      testTimeline(10, map[string]float64{"AAPL": 100}),
		RoundDuration: 25 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, s.RegisterPlayer("alice"))

	s.Start()

	// Ten rounds at 25ms each should finish well inside two seconds,
	// with the session deactivated and deregistered by the timer alone.
	require.Eventually(t, func() bool {
		if s.Active() {
			return false
		}
		_, err := registry.Get("auto")
		return err != nil
	}, 2*time.Second, 5*time.Millisecond)

	status := s.Status()
	require.Equal(t, 10, status.CurrentRound, "round pointer stops at the final round")
	require.False(t, status.Active)

	// Every round closed with a cached leaderboard and a snapshot.
	for round := 1; round <= 10; round++ {
		_, err := s.LeaderBoardAtRound(round)
		require.NoError(t, err, "round %d", round)
		_, err = s.HoldingsAtRound("alice", round)
		require.NoError(t, err, "round %d", round)
	}
}

func TestEarlyAdvanceWhenAllSubmitted(t *testing.T) {
	s, err := NewSession(SessionConfig{
		ID:            "early",
		Timeline:      testTimeline(3, map[string]float64{"AAPL": 100, "TSLA": 200}),
		RoundDuration: 5 * time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, s.RegisterPlayer("alice"))
	require.NoError(t, s.RegisterPlayer("bob"))

	s.Start()

	_, err = s.SubmitTrade("alice", TradeRequest{Ticker: "AAPL", Quantity: 1, Type: TradeBuy})
	require.NoError(t, err)
	require.Equal(t, 1, s.Status().CurrentRound, "half the roster is not enough")

	_, err = s.SubmitTrade("bob", TradeRequest{Ticker: "TSLA", Quantity: 1, Type: TradeBuy})
	require.NoError(t, err)

	// The second submission advances the round synchronously, without
	// waiting out the 5s timer.
	require.Equal(t, 2, s.Status().CurrentRound)

	// And exactly once: no stale timer or double-advance race follows.
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 2, s.Status().CurrentRound)
	require.True(t, s.Active())

	s.End()
}

func TestStaleTimerCannotTouchEndedSession(t *testing.T) {
	s, err := NewSession(SessionConfig{
		ID:            "stale",
		Timeline:      testTimeline(3, map[string]float64{"AAPL": 100}),
		RoundDuration: 30 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, s.RegisterPlayer("alice"))

	s.Start()
	s.End()

	time.Sleep(100 * time.Millisecond)
	status := s.Status()
	require.False(t, status.Active)
	require.Equal(t, 1, status.CurrentRound, "cancelled timer must not advance anything")
}

func TestManualAdvanceRearmsTimer(t *testing.T) {
	s, err := NewSession(SessionConfig{
		ID:            "rearm",
		Timeline:      testTimeline(3, map[string]float64{"AAPL": 100}),
		RoundDuration: 40 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, s.RegisterPlayer("alice"))

	s.Start()
	require.NoError(t, s.NextRound())
	require.Equal(t, 2, s.Status().CurrentRound)

	// The manual advance reset the clock; the timer keeps driving the
	// remaining rounds to the end.
	require.Eventually(t, func() bool { return !s.Active() }, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, 3, s.Status().CurrentRound)
}

func TestStartIsIdempotent(t *testing.T) {
	s, err := NewSession(SessionConfig{
		ID:            "double-start",
		Timeline:      testTimeline(2, map[string]float64{"AAPL": 100}),
		RoundDuration: 30 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, s.RegisterPlayer("alice"))

	s.Start()
	s.Start()

	require.Eventually(t, func() bool { return !s.Active() }, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, 2, s.Status().CurrentRound)
}
