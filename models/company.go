package models

// Company is one tradable stock in the universe, with the closing-price
// history game timelines are built from. ClosingPrices is ordered
// oldest first; a game replays its trailing days.
type Company struct {
	Name          string    `json:"name" bson:"name"`
	Ticker        string    `json:"ticker" bson:"ticker"`
	Description   string    `json:"description" bson:"description"`
	ClosingPrices []float64 `json:"closingPrices" bson:"closingPrices"`
}
