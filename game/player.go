package game

// Trade sides accepted by SubmitTrade.
const (
	TradeBuy  = "buy"
	TradeSell = "sell"
)

// DefaultStartingFunds is each player's initial cash stake.
const DefaultStartingFunds = 10000.0

// TradeRequest is a single buy or sell order as submitted by a player.
type TradeRequest struct {
	Ticker   string `json:"ticker"`
	Quantity int    `json:"quantity"`
	Type     string `json:"type"`
}

// LedgerEntry is one applied trade in a player's history, priced at the
// round it executed in.
type LedgerEntry struct {
	Ticker   string  `json:"ticker"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Type     string  `json:"type"`
	Round    int     `json:"round"`
}

// PlayerState is one player's wallet and portfolio within a session.
// It has no locking of its own: the owning session's mutex guards every
// access.
type PlayerState struct {
	UserID   string
	Funds    float64
	Holdings map[string]int
	Ledger   []LedgerEntry

	// submitted holds the rounds this player has traded in at least once.
	submitted map[int]bool

	// snapshots[r] is a copy of Holdings captured when round r closed.
	// Rounds are bounded and sequential, so a slice indexed by round
	// beats a growing map.
	snapshots []map[string]int
}

func newPlayerState(userID string, funds float64, rounds int) *PlayerState {
	return &PlayerState{
		UserID:    userID,
		Funds:     funds,
		Holdings:  make(map[string]int),
		submitted: make(map[int]bool),
		snapshots: make([]map[string]int, rounds+1),
	}
}

// applyTrade validates and applies a single order against the given
// price map. On any rejection the player's state is left untouched.
func (p *PlayerState) applyTrade(req TradeRequest, prices map[string]float64, round int) (LedgerEntry, error) {
	if req.Quantity <= 0 {
		return LedgerEntry{}, invalidTransaction("quantity must be a positive integer, got %d", req.Quantity)
	}
	price, ok := prices[req.Ticker]
	if !ok {
		// Unknown symbols are rejected outright rather than priced at zero.
		return LedgerEntry{}, invalidTransaction("unknown symbol %q", req.Ticker)
	}

	switch req.Type {
	case TradeBuy:
		cost := price * float64(req.Quantity)
		if p.Funds < cost {
			return LedgerEntry{}, ErrInsufficientFunds
		}
		p.Funds -= cost
		p.Holdings[req.Ticker] += req.Quantity
	case TradeSell:
		if p.Holdings[req.Ticker] < req.Quantity {
			return LedgerEntry{}, ErrInsufficientShares
		}
		p.Funds += price * float64(req.Quantity)
		p.Holdings[req.Ticker] -= req.Quantity
		if p.Holdings[req.Ticker] == 0 {
			delete(p.Holdings, req.Ticker)
		}
	default:
		return LedgerEntry{}, invalidTransaction("trade type must be %q or %q, got %q", TradeBuy, TradeSell, req.Type)
	}

	entry := LedgerEntry{
		Ticker:   req.Ticker,
		Quantity: req.Quantity,
		Price:    price,
		Type:     req.Type,
		Round:    round,
	}
	p.Ledger = append(p.Ledger, entry)
	return entry, nil
}

func (p *PlayerState) markSubmitted(round int) {
	p.submitted[round] = true
}

func (p *PlayerState) hasSubmitted(round int) bool {
	return p.submitted[round]
}

// snapshotHoldings captures the player's holdings as of the close of
// round. Re-snapshotting the same round overwrites the earlier copy.
func (p *PlayerState) snapshotHoldings(round int) {
	if round < 1 || round >= len(p.snapshots) {
		return
	}
	p.snapshots[round] = copyHoldings(p.Holdings)
}

// holdingsAtRound returns the snapshot taken when round closed, or
// ok=false if that round has not closed yet.
func (p *PlayerState) holdingsAtRound(round int) (map[string]int, bool) {
	if round < 1 || round >= len(p.snapshots) || p.snapshots[round] == nil {
		return nil, false
	}
	return copyHoldings(p.snapshots[round]), true
}

// netWorth is cash plus the market value of all holdings. Symbols
// missing from the price map contribute nothing.
func (p *PlayerState) netWorth(prices map[string]float64) float64 {
	total := p.Funds
	for symbol, shares := range p.Holdings {
		total += float64(shares) * prices[symbol]
	}
	return total
}

func copyHoldings(h map[string]int) map[string]int {
	out := make(map[string]int, len(h))
	for symbol, shares := range h {
		out[symbol] = shares
	}
	return out
}
