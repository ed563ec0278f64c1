package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"replay-trader/config"
	"replay-trader/game"
	"replay-trader/models"
)

// GameController exposes live game sessions over HTTP. The registry is
// injected from main; there is no package-level session state.
type GameController struct {
	Registry *game.Registry
	Hub      *models.Hub
}

func NewGameController(registry *game.Registry, hub *models.Hub) *GameController {
	return &GameController{Registry: registry, Hub: hub}
}

type createGameRequest struct {
	Players         []string `json:"players" binding:"required"`
	Rounds          int      `json:"rounds"`
	RoundDurationMS int      `json:"roundDurationMs"`
}

// launchGame builds a timeline from the company universe, creates and
// registers a session for the roster, and starts its round timer.
func (gc *GameController) launchGame(ctx context.Context, players []string, rounds, roundDurationMS int) (*game.Session, error) {
	if rounds <= 0 {
		rounds = config.GameRounds()
	}
	duration := config.RoundDuration()
	if roundDurationMS > 0 {
		duration = time.Duration(roundDurationMS) * time.Millisecond
	}

	timeline, err := BuildTimeline(ctx, rounds)
	if err != nil {
		return nil, err
	}

	session, err := gc.Registry.Create(game.SessionConfig{
		ID:            uuid.NewString(),
		Timeline:      timeline,
		RoundDuration: duration,
		StartingFunds: config.StartingFunds(),
		Events:        gc.Hub,
	})
	if err != nil {
		return nil, err
	}
	for _, player := range players {
		if err := session.RegisterPlayer(player); err != nil {
			session.End()
			return nil, err
		}
	}

	session.Start()
	gc.Hub.Publish("game_started", gin.H{
		"game_id": session.ID(),
		"players": players,
		"rounds":  session.Rounds(),
	})
	log.Printf("game %s started with %d players, %d rounds", session.ID(), len(players), session.Rounds())
	return session, nil
}

// CreateGameHandler starts a game directly from a roster, bypassing the
// lobby flow.
func (gc *GameController) CreateGameHandler(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game request: " + err.Error()})
		return
	}
	if len(req.Players) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one player is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	session, err := gc.launchGame(ctx, req.Players, req.Rounds, req.RoundDurationMS)
	if err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "game started", "game_id": session.ID(), "status": session.Status()})
}

// GetRoundStatusHandler reports the session's round pointer, liveness,
// submission state, and next forced-advance deadline.
func (gc *GameController) GetRoundStatusHandler(c *gin.Context) {
	session, err := gc.Registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.Status())
}

// EndGameHandler ends a game explicitly. The session deregisters
// itself, so a repeat call 404s.
func (gc *GameController) EndGameHandler(c *gin.Context) {
	session, err := gc.Registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	session.End()
	c.JSON(http.StatusOK, gin.H{"message": "game ended", "game_id": session.ID()})
}

// GetCurrentPricesHandler returns the current round's price map.
func (gc *GameController) GetCurrentPricesHandler(c *gin.Context) {
	session, err := gc.Registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_id": session.ID(), "prices": session.CurrentPrices()})
}

// GetPriceHistoryHandler returns a symbol's closing prices up to the
// `upto` round (default: the current round).
func (gc *GameController) GetPriceHistoryHandler(c *gin.Context) {
	session, err := gc.Registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	upto := 0
	if v := c.Query("upto"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "upto must be an integer"})
			return
		}
		upto = n
	}
	symbol := c.Param("symbol")
	history, err := session.PriceHistory(symbol, upto)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_id": session.ID(), "ticker": symbol, "prices": history})
}

// GetLeaderBoardHandler returns the current leaderboard, or the board
// cached at the close of the `round` query parameter.
func (gc *GameController) GetLeaderBoardHandler(c *gin.Context) {
	session, err := gc.Registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if v := c.Query("round"); v != "" {
		round, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "round must be an integer"})
			return
		}
		board, err := session.LeaderBoardAtRound(round)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"game_id": session.ID(), "round": round, "leaderboard": board})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_id": session.ID(), "leaderboard": session.LeaderBoard()})
}

// GetHoldingsHandler returns a player's cash and holdings, or the
// holdings snapshot from the close of the `round` query parameter.
func (gc *GameController) GetHoldingsHandler(c *gin.Context) {
	session, err := gc.Registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	player := c.Param("player")
	if v := c.Query("round"); v != "" {
		round, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "round must be an integer"})
			return
		}
		holdings, err := session.HoldingsAtRound(player, round)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"game_id": session.ID(), "player": player, "round": round, "holdings": holdings})
		return
	}
	view, err := session.Holdings(player)
	if err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetLedgerHandler returns a player's applied trades for this game, in
// submission order.
func (gc *GameController) GetLedgerHandler(c *gin.Context) {
	session, err := gc.Registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	player := c.Param("player")
	ledger, err := session.Ledger(player)
	if err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game_id": session.ID(), "player": player, "trades": ledger})
}

type submitTradeRequest struct {
	Player   string `json:"player" binding:"required"`
	Ticker   string `json:"ticker" binding:"required"`
	Quantity int    `json:"quantity"`
	Type     string `json:"type" binding:"required"`
}

// SubmitTradeHandler applies a buy or sell to the player's portfolio at
// current-round prices and archives the executed trade. Rejections
// carry a reason; nothing is silently dropped.
func (gc *GameController) SubmitTradeHandler(c *gin.Context) {
	session, err := gc.Registry.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req submitTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trade data: " + err.Error()})
		return
	}

	entry, err := session.SubmitTrade(req.Player, game.TradeRequest{
		Ticker:   req.Ticker,
		Quantity: req.Quantity,
		Type:     req.Type,
	})
	if err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	// The trade already executed; the archive write is best-effort and
	// must never run under the session lock.
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	archived := models.Trade{
		GameID:    session.ID(),
		Player:    req.Player,
		Ticker:    entry.Ticker,
		Type:      entry.Type,
		Amount:    entry.Quantity,
		Price:     entry.Price,
		Round:     entry.Round,
		Timestamp: time.Now(),
	}
	if err := ArchiveTrade(ctx, archived); err != nil {
		log.Printf("game %s: %v", session.ID(), err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trade executed successfully", "trade": archived})
}

// gameErrorStatus maps game package errors onto HTTP status codes.
func gameErrorStatus(err error) int {
	var invalid *game.InvalidTransactionError
	switch {
	case errors.Is(err, game.ErrSessionNotFound),
		errors.Is(err, game.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrSessionInactive),
		errors.Is(err, game.ErrDuplicatePlayer),
		errors.Is(err, game.ErrDuplicateSession):
		return http.StatusConflict
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrInsufficientShares),
		errors.As(err, &invalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
