package game

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned by registry lookups for unknown game ids.
	ErrSessionNotFound = errors.New("game session not found")

	// ErrDuplicateSession is returned when a game id is registered twice.
	ErrDuplicateSession = errors.New("game session id already registered")

	// ErrSessionInactive is returned by mutating calls against an ended game.
	ErrSessionInactive = errors.New("game session is no longer active")

	// ErrDuplicatePlayer is returned when a player id is registered twice in
	// the same game. A duplicate registration is a caller bug, never a no-op.
	ErrDuplicatePlayer = errors.New("player already registered")

	// ErrPlayerNotFound is returned for operations on an unregistered player.
	ErrPlayerNotFound = errors.New("player not found in game")

	// ErrInsufficientFunds rejects a buy the player cannot afford. The trade
	// is dropped and the player's state is left untouched.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares rejects a sell of more shares than the player holds.
	ErrInsufficientShares = errors.New("insufficient shares")
)

// InvalidTransactionError reports a malformed trade request: a
// non-positive quantity, an unknown symbol, or an unrecognized trade
// type. Economic rejections (ErrInsufficientFunds, ErrInsufficientShares)
// are business rules, not malformed input, and use their own sentinels.
type InvalidTransactionError struct {
	Reason string
}

func (e *InvalidTransactionError) Error() string {
	return "invalid transaction: " + e.Reason
}

func invalidTransaction(format string, args ...interface{}) error {
	return &InvalidTransactionError{Reason: fmt.Sprintf(format, args...)}
}
