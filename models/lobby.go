package models

import (
	"time"
)

// Lobby statuses.
const (
	LobbyOpen     = "open"
	LobbyLaunched = "launched"
)

// LobbyMember is one player waiting in a lobby.
type LobbyMember struct {
	Player string `json:"player" bson:"player"`
	Ready  bool   `json:"ready" bson:"ready"`
}

// Lobby gathers players before a game. Once every member is ready the
// lobby launches: a session is created from the company universe, all
// members are registered, and the lobby records the game id.
type Lobby struct {
	ID        string        `json:"id" bson:"id"`
	Members   []LobbyMember `json:"members" bson:"members"`
	Status    string        `json:"status" bson:"status"`
	GameID    string        `json:"gameId,omitempty" bson:"gameId,omitempty"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

// Member returns the index of player in Members, or -1.
func (l *Lobby) Member(player string) int {
	for i, m := range l.Members {
		if m.Player == player {
			return i
		}
	}
	return -1
}

// AllReady reports whether every member has readied up.
func (l *Lobby) AllReady() bool {
	if len(l.Members) == 0 {
		return false
	}
	for _, m := range l.Members {
		if !m.Ready {
			return false
		}
	}
	return true
}
