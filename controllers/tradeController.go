package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"replay-trader/models"
)

// ArchiveTrade persists an executed trade. The session's in-memory
// ledger is authoritative; this archive exists for history queries
// after the game is gone, so callers log failures instead of failing
// the trade.
func ArchiveTrade(ctx context.Context, trade models.Trade) error {
	if _, err := tradeCollection.InsertOne(ctx, trade); err != nil {
		return fmt.Errorf("failed to archive trade: %w", err)
	}
	return nil
}

// GetTradesHandler lists archived trades, optionally filtered by game
// and/or player.
func GetTradesHandler(c *gin.Context) {
	filter := bson.M{}
	if gameID := c.Query("game"); gameID != "" {
		filter["gameId"] = gameID
	}
	if player := c.Query("player"); player != "" {
		filter["player"] = player
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var trades []models.Trade
	cursor, err := tradeCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var trade models.Trade
		if err := cursor.Decode(&trade); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode trade data"})
			return
		}
		trades = append(trades, trade)
	}

	c.JSON(http.StatusOK, trades)
}

// DeleteTradesHandler clears the trade archive.
func DeleteTradesHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := tradeCollection.DeleteMany(ctx, bson.M{}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to delete trades: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all trades deleted"})
}
