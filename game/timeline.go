package game

import "fmt"

// TimelineDay is one day of replayed price history: every tradable
// symbol mapped to its closing price.
type TimelineDay struct {
	Date   string             `json:"date"`
	Prices map[string]float64 `json:"prices"`
}

// Timeline is the ordered price history a session replays, one day per
// round. It is supplied once at session creation and read-only after
// that; sessions hand out copies of its price maps, never the maps
// themselves.
type Timeline []TimelineDay

// Rounds is the number of rounds the timeline supports.
func (t Timeline) Rounds() int { return len(t) }

// PricesAt returns the price map for the given 1-based round. The
// caller must not mutate the result.
func (t Timeline) PricesAt(round int) map[string]float64 {
	return t[round-1].Prices
}

// HasSymbol reports whether the symbol trades anywhere on the timeline.
func (t Timeline) HasSymbol(symbol string) bool {
	for _, day := range t {
		if _, ok := day.Prices[symbol]; ok {
			return true
		}
	}
	return false
}

// History returns the closing prices of symbol for rounds 1 through
// uptoRound. Days where the symbol has no quote are reported as 0.
func (t Timeline) History(symbol string, uptoRound int) []float64 {
	if uptoRound > len(t) {
		uptoRound = len(t)
	}
	prices := make([]float64, 0, uptoRound)
	for i := 0; i < uptoRound; i++ {
		prices = append(prices, t[i].Prices[symbol])
	}
	return prices
}

// Validate checks the timeline is usable: at least one day, and prices
// on every day.
func (t Timeline) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("timeline has no days")
	}
	for i, day := range t {
		if len(day.Prices) == 0 {
			return fmt.Errorf("timeline day %d has no prices", i+1)
		}
	}
	return nil
}
