package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"replay-trader/models"
)

// LobbyController gathers players into Mongo-backed lobbies and hands
// full rosters to the game controller.
type LobbyController struct {
	Games *GameController
	Hub   *models.Hub
}

func NewLobbyController(games *GameController, hub *models.Hub) *LobbyController {
	return &LobbyController{Games: games, Hub: hub}
}

// CreateLobbyHandler opens a lobby with the creating player as its
// first member.
func (lc *LobbyController) CreateLobbyHandler(c *gin.Context) {
	player := c.Query("player")
	if player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player parameter is required"})
		return
	}

	lobby := models.Lobby{
		ID:        uuid.NewString(),
		Members:   []models.LobbyMember{{Player: player}},
		Status:    models.LobbyOpen,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	if _, err := lobbyCollection.InsertOne(ctx, lobby); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create lobby: " + err.Error()})
		return
	}

	lc.Hub.Publish("lobby_updated", lobby)
	c.JSON(http.StatusOK, gin.H{"message": "lobby created", "lobby": lobby})
}

// GetLobbiesHandler lists open lobbies.
func (lc *LobbyController) GetLobbiesHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var lobbies []models.Lobby
	cursor, err := lobbyCollection.Find(ctx, bson.M{"status": models.LobbyOpen})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var lobby models.Lobby
		if err := cursor.Decode(&lobby); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode lobby data"})
			return
		}
		lobbies = append(lobbies, lobby)
	}

	c.JSON(http.StatusOK, lobbies)
}

// JoinLobbyHandler adds a player to an open lobby. Joining a lobby you
// are already in is reported as a conflict, mirroring duplicate player
// registration in games.
func (lc *LobbyController) JoinLobbyHandler(c *gin.Context) {
	player := c.Query("player")
	if player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	lobby, err := findLobby(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if lobby.Status != models.LobbyOpen {
		c.JSON(http.StatusConflict, gin.H{"error": "lobby is no longer open"})
		return
	}
	if lobby.Member(player) >= 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "player already in lobby"})
		return
	}

	lobby.Members = append(lobby.Members, models.LobbyMember{Player: player})
	if err := saveLobby(ctx, lobby); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	lc.Hub.Publish("lobby_updated", lobby)
	c.JSON(http.StatusOK, gin.H{"message": "joined lobby", "lobby": lobby})
}

// ReadyLobbyHandler marks a member ready. When the last member readies
// up the lobby launches: a session is created for the full roster and
// the lobby is deleted.
func (lc *LobbyController) ReadyLobbyHandler(c *gin.Context) {
	player := c.Query("player")
	if player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	lobby, err := findLobby(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if lobby.Status != models.LobbyOpen {
		c.JSON(http.StatusConflict, gin.H{"error": "lobby is no longer open"})
		return
	}
	idx := lobby.Member(player)
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not in lobby"})
		return
	}

	lobby.Members[idx].Ready = true
	if !lobby.AllReady() {
		if err := saveLobby(ctx, lobby); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		lc.Hub.Publish("lobby_updated", lobby)
		c.JSON(http.StatusOK, gin.H{"message": "ready", "lobby": lobby})
		return
	}

	roster := make([]string, len(lobby.Members))
	for i, m := range lobby.Members {
		roster[i] = m.Player
	}
	session, err := lc.Games.launchGame(ctx, roster, 0, 0)
	if err != nil {
		c.JSON(gameErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if _, err := lobbyCollection.DeleteOne(ctx, bson.M{"id": lobby.ID}); err != nil {
		// The game is already running; a leftover lobby doc is only clutter.
		log.Printf("lobby %s: cleanup failed: %v", lobby.ID, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "game started", "game_id": session.ID()})
}

func findLobby(ctx context.Context, id string) (*models.Lobby, error) {
	var lobby models.Lobby
	err := lobbyCollection.FindOne(ctx, bson.M{"id": id}).Decode(&lobby)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("lobby not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lobby: %w", err)
	}
	return &lobby, nil
}

func saveLobby(ctx context.Context, lobby *models.Lobby) error {
	_, err := lobbyCollection.ReplaceOne(ctx, bson.M{"id": lobby.ID}, lobby)
	return err
}
