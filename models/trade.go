package models

import (
	"time"
)

// Trade is one executed transaction as archived in Mongo. The live
// ledger lives inside the game session; this record is the durable
// after-the-fact copy.
type Trade struct {
	GameID    string    `json:"gameId" bson:"gameId"`
	Player    string    `json:"player" bson:"player"`
	Ticker    string    `json:"ticker" bson:"ticker"`
	Type      string    `json:"type" bson:"type"` // "buy" or "sell"
	Amount    int       `json:"amount" bson:"amount"`
	Price     float64   `json:"price" bson:"price"`
	Round     int       `json:"round" bson:"round"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
