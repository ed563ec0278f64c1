package routes

import (
	"github.com/gin-gonic/gin"

	"replay-trader/controllers"
)

func LobbyRoutes(r *gin.Engine, lc *controllers.LobbyController) {
	api := r.Group("/api")
	{
		api.GET("/lobbies", lc.GetLobbiesHandler)
		api.POST("/lobbies", lc.CreateLobbyHandler)
		api.POST("/lobbies/:id/join", lc.JoinLobbyHandler)
		api.POST("/lobbies/:id/ready", lc.ReadyLobbyHandler)
	}
}
