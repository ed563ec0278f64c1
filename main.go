package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"replay-trader/config"
	"replay-trader/controllers"
	"replay-trader/db"
	"replay-trader/game"
	"replay-trader/models"
	"replay-trader/routes"
)

func main() {
	config.Load()

	// Connect to the database
	db.ConnectDB()
	database := db.GetDB()

	// Initialize all collections
	controllers.SetCompanyCollection(database)
	controllers.SetLobbyCollection(database)
	controllers.SetTradeCollection(database)

	// The hub fans game events out to websocket clients
	hub := models.NewHub()
	go hub.Run()

	// One registry owns every live game session
	registry := game.NewRegistry()
	gameController := controllers.NewGameController(registry, hub)
	lobbyController := controllers.NewLobbyController(gameController, hub)

	r := gin.Default()
	routes.WebSocketRoutes(r, hub)
	routes.CompanyRoutes(r, hub)
	routes.TradeRoutes(r)
	routes.GameRoutes(r, gameController)
	routes.LobbyRoutes(r, lobbyController)

	port := config.Port()
	log.Println("Server running on port", port)
	r.Run(":" + port)
}
