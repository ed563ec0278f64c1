package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBroadcaster captures published events for assertions.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingBroadcaster) Publish(event string, data interface{}) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recordingBroadcaster) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func TestConcurrentSubmissionsAdvanceExactlyOnce(t *testing.T) {
	s, err := NewSession(SessionConfig{
		ID:            "race",
		Timeline:      testTimeline(3, map[string]float64{"AAPL": 100}),
		RoundDuration: 5 * time.Second,
	})
	require.NoError(t, err)

	const players = 8
	ids := make([]string, players)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%02d", i)
		require.NoError(t, s.RegisterPlayer(ids[i]))
	}

	s.Start()

	// All players submit at once; whichever lands last completes the
	// roster and must advance the round exactly once.
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.SubmitTrade(id, TradeRequest{Ticker: "AAPL", Quantity: 1, Type: TradeBuy})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	require.Equal(t, 2, s.Status().CurrentRound)
	require.True(t, s.Active())
	s.End()
}

func TestConcurrentReadsDuringTrading(t *testing.T) {
	s, err := NewSession(SessionConfig{
		ID:            "readers",
		Timeline:      testTimeline(5, map[string]float64{"AAPL": 100, "TSLA": 200}),
		RoundDuration: time.Minute,
	})
	require.NoError(t, err)
	require.NoError(t, s.RegisterPlayer("alice"))
	require.NoError(t, s.RegisterPlayer("bob"))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.CurrentPrices()
				s.LeaderBoard()
				s.Status()
				s.AllSubmitted()
			}
		}()
	}
	for i := 0; i < 50; i++ {
		_, err := s.SubmitTrade("alice", TradeRequest{Ticker: "AAPL", Quantity: 1, Type: TradeBuy})
		require.NoError(t, err)
	}
	wg.Wait()

	view, err := s.Holdings("alice")
	require.NoError(t, err)
	require.Equal(t, 50, view.Holdings["AAPL"])
	require.Equal(t, 5000.0, view.Funds)
}

func TestSessionPublishesLifecycleEvents(t *testing.T) {
	rec := &recordingBroadcaster{}
	s, err := NewSession(SessionConfig{
		ID:            "events",
		Timeline:      testTimeline(2, map[string]float64{"AAPL": 100}),
		RoundDuration: time.Minute,
		Events:        rec,
	})
	require.NoError(t, err)
	require.NoError(t, s.RegisterPlayer("alice"))

	s.Start()
	_, err = s.SubmitTrade("alice", TradeRequest{Ticker: "AAPL", Quantity: 1, Type: TradeBuy})
	require.NoError(t, err)

	// alice is the whole roster, so her trade closes round 1 and opens
	// round 2; a second trade closes the final round and ends the game.
	_, err = s.SubmitTrade("alice", TradeRequest{Ticker: "AAPL", Quantity: 1, Type: TradeBuy})
	require.NoError(t, err)

	require.Equal(t, []string{
		"round_started",
		"trade_executed", "round_ended", "round_started",
		"trade_executed", "round_ended", "game_over",
	}, rec.names())
	require.False(t, s.Active())
}
