package game

import (
	"fmt"
	"sync"
	"time"
)

// Broadcaster receives session lifecycle events (round_started,
// trade_executed, round_ended, game_over). The websocket hub satisfies
// it. Publish must not block: sessions call it after releasing their
// lock, but never from a goroutine that can afford to stall.
type Broadcaster interface {
	Publish(event string, data interface{})
}

// event is a pending broadcast collected under the session lock and
// published after it is released.
type event struct {
	name string
	data interface{}
}

// SessionConfig carries everything a new session needs. Timeline and
// RoundDuration are required; StartingFunds defaults to
// DefaultStartingFunds and Events may be nil.
type SessionConfig struct {
	ID            string
	Timeline      Timeline
	RoundDuration time.Duration
	StartingFunds float64
	Events        Broadcaster
}

// Session is one timed run of the trading simulation: a fixed roster of
// players replaying a fixed price timeline round by round. It is the
// single concurrency boundary for everything it owns; every operation
// takes the one session mutex, and no I/O ever happens under it.
type Session struct {
	id            string
	timeline      Timeline
	roundDuration time.Duration
	startingFunds float64
	events        Broadcaster
	registry      *Registry

	mu             sync.Mutex
	currentRound   int
	active         bool
	started        bool
	startedAt      time.Time
	nextRoundStart time.Time
	players        map[string]*PlayerState
	sched          *scheduler

	// boards[r] is the leaderboard cached when round r closed, so
	// historical boards stay stable after the fact.
	boards [][]LeaderBoardEntry
}

// NewSession builds an unstarted session. The round timer is not armed
// until Start is called, but trades are accepted as soon as players are
// registered.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("session id must not be empty")
	}
	if err := cfg.Timeline.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timeline: %w", err)
	}
	if cfg.RoundDuration <= 0 {
		return nil, fmt.Errorf("round duration must be positive, got %v", cfg.RoundDuration)
	}
	funds := cfg.StartingFunds
	if funds <= 0 {
		funds = DefaultStartingFunds
	}

	s := &Session{
		id:             cfg.ID,
		timeline:       cfg.Timeline,
		roundDuration:  cfg.RoundDuration,
		startingFunds:  funds,
		events:         cfg.Events,
		currentRound:   1,
		active:         true,
		startedAt:      time.Now(),
		nextRoundStart: time.Now().Add(cfg.RoundDuration),
		players:        make(map[string]*PlayerState),
		boards:         make([][]LeaderBoardEntry, cfg.Timeline.Rounds()+1),
	}
	s.sched = newScheduler(s)
	return s, nil
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// Rounds returns the total number of rounds this session plays.
func (s *Session) Rounds() int { return s.timeline.Rounds() }

// Start arms the round timer. Calling Start on a started or ended
// session does nothing.
func (s *Session) Start() {
	s.mu.Lock()
	var events []event
	if s.active && !s.started {
		s.started = true
		s.startedAt = time.Now()
		s.nextRoundStart = time.Now().Add(s.roundDuration)
		s.sched.arm(s.roundDuration)
		events = append(events, s.roundStartedEventLocked())
	}
	s.mu.Unlock()
	s.publish(events)
}

// RegisterPlayer adds a player with the starting cash stake. A
// duplicate id fails loudly: it signals a caller bug, not a retry.
func (s *Session) RegisterPlayer(userID string) error {
	if userID == "" {
		return fmt.Errorf("player id must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return fmt.Errorf("%w: %s", ErrSessionInactive, s.id)
	}
	if _, ok := s.players[userID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, userID)
	}
	s.players[userID] = newPlayerState(userID, s.startingFunds, s.timeline.Rounds())
	return nil
}

// CurrentPrices returns a copy of the current round's price map.
func (s *Session) CurrentPrices() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	prices := s.timeline.PricesAt(s.currentRound)
	out := make(map[string]float64, len(prices))
	for symbol, price := range prices {
		out[symbol] = price
	}
	return out
}

// PriceHistory returns the symbol's closing prices from round 1 up to
// uptoRound, clamped to the current round so future prices never leak.
func (s *Session) PriceHistory(symbol string, uptoRound int) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timeline.HasSymbol(symbol) {
		return nil, fmt.Errorf("unknown symbol %q", symbol)
	}
	if uptoRound <= 0 || uptoRound > s.currentRound {
		uptoRound = s.currentRound
	}
	return s.timeline.History(symbol, uptoRound), nil
}

// SubmitTrade applies one buy or sell for the player at the current
// round's prices and marks the round submitted for them. If that makes
// every registered player submitted for the round, the round advances
// immediately instead of waiting out the timer; the lock guarantees
// exactly one advance per round no matter how submissions race.
func (s *Session) SubmitTrade(userID string, req TradeRequest) (LedgerEntry, error) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return LedgerEntry{}, fmt.Errorf("%w: %s", ErrSessionInactive, s.id)
	}
	player, ok := s.players[userID]
	if !ok {
		s.mu.Unlock()
		return LedgerEntry{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}

	entry, err := player.applyTrade(req, s.timeline.PricesAt(s.currentRound), s.currentRound)
	if err != nil {
		s.mu.Unlock()
		return LedgerEntry{}, err
	}
	player.markSubmitted(s.currentRound)

	events := []event{{
		name: "trade_executed",
		data: map[string]interface{}{
			"game_id": s.id,
			"player":  userID,
			"trade":   entry,
		},
	}}
	if s.started && s.allSubmittedLocked() {
		s.advanceLocked(&events)
	}
	s.mu.Unlock()

	s.publish(events)
	return entry, nil
}

// AllSubmitted reports whether every registered player has traded in
// the current round.
func (s *Session) AllSubmitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allSubmittedLocked()
}

func (s *Session) allSubmittedLocked() bool {
	if len(s.players) == 0 {
		return false
	}
	for _, p := range s.players {
		if !p.hasSubmitted(s.currentRound) {
			return false
		}
	}
	return true
}

// NextRound advances the session by one round, or ends it if the final
// round is already in play.
func (s *Session) NextRound() error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionInactive, s.id)
	}
	var events []event
	s.advanceLocked(&events)
	s.mu.Unlock()
	s.publish(events)
	return nil
}

// advanceLocked closes the current round: snapshots every player's
// holdings, caches the leaderboard, then either moves to the next round
// and re-arms the timer or ends the game after the final round. The
// round pointer only ever moves forward. Caller holds s.mu.
func (s *Session) advanceLocked(events *[]event) {
	round := s.currentRound
	for _, p := range s.players {
		p.snapshotHoldings(round)
	}
	board := computeLeaderBoard(s.players, s.timeline.PricesAt(round))
	s.boards[round] = board

	*events = append(*events, event{
		name: "round_ended",
		data: map[string]interface{}{
			"game_id":     s.id,
			"round":       round,
			"leaderboard": board,
		},
	})

	if round >= s.timeline.Rounds() {
		s.endLocked(events)
		return
	}

	s.currentRound = round + 1
	s.nextRoundStart = time.Now().Add(s.roundDuration)
	if s.started {
		s.sched.arm(s.roundDuration)
	}
	*events = append(*events, s.roundStartedEventLocked())
}

// End deactivates the session, cancels the timer, and removes it from
// the registry. Ending an ended session is a no-op.
func (s *Session) End() {
	s.mu.Lock()
	var events []event
	s.endLocked(&events)
	s.mu.Unlock()
	s.publish(events)
}

// endLocked is idempotent. Caller holds s.mu.
func (s *Session) endLocked(events *[]event) {
	if !s.active {
		return
	}
	s.active = false
	s.sched.stop()
	*events = append(*events, event{
		name: "game_over",
		data: map[string]interface{}{
			"game_id":     s.id,
			"leaderboard": computeLeaderBoard(s.players, s.timeline.PricesAt(s.currentRound)),
		},
	})
	if s.registry != nil {
		s.registry.remove(s.id)
	}
}

// Active reports whether the session still accepts mutations.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// LeaderBoard computes a fresh board from current player state and the
// current round's prices.
func (s *Session) LeaderBoard() []LeaderBoardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeLeaderBoard(s.players, s.timeline.PricesAt(s.currentRound))
}

// LeaderBoardAtRound returns the board cached when the given round
// closed. Rounds that have not closed yet have no board.
func (s *Session) LeaderBoardAtRound(round int) ([]LeaderBoardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if round < 1 || round > s.timeline.Rounds() {
		return nil, fmt.Errorf("round %d out of range [1, %d]", round, s.timeline.Rounds())
	}
	if s.boards[round] == nil {
		return nil, fmt.Errorf("round %d has not closed yet", round)
	}
	board := make([]LeaderBoardEntry, len(s.boards[round]))
	copy(board, s.boards[round])
	return board, nil
}

// PortfolioView is a point-in-time copy of a player's cash and
// holdings, safe for the caller to keep.
type PortfolioView struct {
	UserID   string         `json:"player"`
	Funds    float64        `json:"funds"`
	Holdings map[string]int `json:"holdings"`
}

// Holdings returns the player's current cash and share counts.
func (s *Session) Holdings(userID string) (PortfolioView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[userID]
	if !ok {
		return PortfolioView{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}
	return PortfolioView{
		UserID:   userID,
		Funds:    player.Funds,
		Holdings: copyHoldings(player.Holdings),
	}, nil
}

// HoldingsAtRound returns the player's share counts as snapshotted at
// the close of the given round.
func (s *Session) HoldingsAtRound(userID string, round int) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}
	holdings, ok := player.holdingsAtRound(round)
	if !ok {
		return nil, fmt.Errorf("no holdings snapshot for round %d", round)
	}
	return holdings, nil
}

// Ledger returns the player's applied trades in submission order.
func (s *Session) Ledger(userID string) ([]LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, userID)
	}
	ledger := make([]LedgerEntry, len(player.Ledger))
	copy(ledger, player.Ledger)
	return ledger, nil
}

// RoundStatus is the externally visible state of a session's clock.
type RoundStatus struct {
	GameID         string `json:"gameId"`
	CurrentRound   int    `json:"currentRound"`
	TotalRounds    int    `json:"totalRounds"`
	Active         bool   `json:"active"`
	AllSubmitted   bool   `json:"allSubmitted"`
	NextRoundStart int64  `json:"nextRoundStartTime"`
	Players        int    `json:"players"`
}

// Status reports the session's round pointer, liveness, and the
// wall-clock deadline (unix millis) for the next forced advance.
func (s *Session) Status() RoundStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RoundStatus{
		GameID:         s.id,
		CurrentRound:   s.currentRound,
		TotalRounds:    s.timeline.Rounds(),
		Active:         s.active,
		AllSubmitted:   s.allSubmittedLocked(),
		NextRoundStart: s.nextRoundStart.UnixMilli(),
		Players:        len(s.players),
	}
}

func (s *Session) roundStartedEventLocked() event {
	return event{
		name: "round_started",
		data: map[string]interface{}{
			"game_id": s.id,
			"round":   s.currentRound,
			"ends_at": s.nextRoundStart.UnixMilli(),
		},
	}
}

func (s *Session) publish(events []event) {
	if s.events == nil {
		return
	}
	for _, ev := range events {
		s.events.Publish(ev.name, ev.data)
	}
}
