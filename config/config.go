package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads .env into the environment if present. A missing file is
// fine; deployed environments set variables directly.
func Load() {
	godotenv.Load()
}

// Port is the HTTP listen port.
func Port() string {
	return getString("PORT", "5000")
}

// MongoURI is the MongoDB connection string. Required.
func MongoURI() string {
	return os.Getenv("MONGODB_URI")
}

// RoundDuration is how long a round runs before it is force-advanced.
func RoundDuration() time.Duration {
	ms := getInt("ROUND_DURATION_MS", 30000)
	return time.Duration(ms) * time.Millisecond
}

// GameRounds is the number of timeline days a game replays.
func GameRounds() int {
	return getInt("GAME_ROUNDS", 10)
}

// StartingFunds is each player's initial cash stake.
func StartingFunds() float64 {
	return getFloat("STARTING_FUNDS", 10000)
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}
