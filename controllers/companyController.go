package controllers

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"replay-trader/config"
	"replay-trader/game"
	"replay-trader/models"
)

// defaultUniverse is the company set seeded when no real price feed is
// wired up. Histories are generated as a random walk over closing
// prices; games treat them as opaque externally supplied data.
var defaultUniverse = []models.Company{
	{Name: "Apple Inc.", Ticker: "AAPL", Description: "Consumer electronics and services"},
	{Name: "Tesla Inc.", Ticker: "TSLA", Description: "Electric vehicles and energy storage"},
	{Name: "Microsoft Corp.", Ticker: "MSFT", Description: "Software and cloud computing"},
	{Name: "Amazon.com Inc.", Ticker: "AMZN", Description: "E-commerce and cloud services"},
	{Name: "Alphabet Inc.", Ticker: "GOOG", Description: "Search, advertising, and cloud"},
	{Name: "NVIDIA Corp.", Ticker: "NVDA", Description: "Graphics and AI accelerators"},
	{Name: "Netflix Inc.", Ticker: "NFLX", Description: "Streaming entertainment"},
	{Name: "Meta Platforms Inc.", Ticker: "META", Description: "Social networks and advertising"},
}

// GetCompaniesHandler lists the company universe.
func GetCompaniesHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var companies []models.Company
	cursor, err := companyCollection.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var company models.Company
		if err := cursor.Decode(&company); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode company data"})
			return
		}
		companies = append(companies, company)
	}

	c.JSON(http.StatusOK, companies)
}

// SeedCompaniesHandler replaces the company universe with the default
// set, generating a fresh closing-price history. The `days` query
// parameter controls history length (default: enough for one game).
func SeedCompaniesHandler(hub *models.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := config.GameRounds()
		if v := c.Query("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
				return
			}
			days = n
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		if err := companyCollection.Drop(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear companies"})
			return
		}

		companies := make([]interface{}, 0, len(defaultUniverse))
		seeded := make([]models.Company, 0, len(defaultUniverse))
		for _, company := range defaultUniverse {
			company.ClosingPrices = generateClosingPrices(days)
			companies = append(companies, company)
			seeded = append(seeded, company)
		}
		if _, err := companyCollection.InsertMany(ctx, companies); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed companies: " + err.Error()})
			return
		}

		hub.Publish("companies_seeded", gin.H{"companies": len(seeded), "days": days})
		c.JSON(http.StatusOK, gin.H{"message": "companies seeded", "companies": seeded})
	}
}

// ClearDataHandler drops all persisted game data.
func ClearDataHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := companyCollection.Drop(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear companies"})
		return
	}
	if err := lobbyCollection.Drop(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear lobbies"})
		return
	}
	if err := tradeCollection.Drop(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear trades"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All game data cleared"})
}

// BuildTimeline assembles a game timeline from the trailing `days` of
// every company's price history. Every company must have enough
// history; the feed is the authority on prices, this only pivots them
// into day-major order.
func BuildTimeline(ctx context.Context, days int) (game.Timeline, error) {
	cursor, err := companyCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}
	defer cursor.Close(ctx)

	var companies []models.Company
	for cursor.Next(ctx) {
		var company models.Company
		if err := cursor.Decode(&company); err != nil {
			return nil, fmt.Errorf("failed to decode company: %w", err)
		}
		companies = append(companies, company)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("no companies available; seed the universe first")
	}

	timeline := make(game.Timeline, days)
	for i := range timeline {
		timeline[i] = game.TimelineDay{
			Date:   fmt.Sprintf("day-%02d", i+1),
			Prices: make(map[string]float64, len(companies)),
		}
	}
	for _, company := range companies {
		if len(company.ClosingPrices) < days {
			return nil, fmt.Errorf("company %s has %d days of history, need %d",
				company.Ticker, len(company.ClosingPrices), days)
		}
		trailing := company.ClosingPrices[len(company.ClosingPrices)-days:]
		for i, price := range trailing {
			timeline[i].Prices[company.Ticker] = price
		}
	}
	return timeline, nil
}

// generateClosingPrices walks a price randomly for the given number of
// days, rounded to cents.
func generateClosingPrices(days int) []float64 {
	price := 20 + rand.Float64()*280
	prices := make([]float64, days)
	for i := range prices {
		price *= 1 + (rand.Float64()-0.5)*0.08
		if price < 1 {
			price = 1
		}
		prices[i] = math.Round(price*100) / 100
	}
	return prices
}
