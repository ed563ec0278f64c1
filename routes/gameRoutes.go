package routes

import (
	"github.com/gin-gonic/gin"

	"replay-trader/controllers"
)

func GameRoutes(r *gin.Engine, gc *controllers.GameController) {
	api := r.Group("/api")
	{
		api.POST("/games", gc.CreateGameHandler)
		api.GET("/games/:id", gc.GetRoundStatusHandler)
		api.DELETE("/games/:id", gc.EndGameHandler)
		api.GET("/games/:id/prices", gc.GetCurrentPricesHandler)
		api.GET("/games/:id/prices/:symbol/history", gc.GetPriceHistoryHandler)
		api.GET("/games/:id/leaderboard", gc.GetLeaderBoardHandler)
		api.POST("/games/:id/trades", gc.SubmitTradeHandler)
		api.GET("/games/:id/players/:player/holdings", gc.GetHoldingsHandler)
		api.GET("/games/:id/players/:player/trades", gc.GetLedgerHandler)
	}
}
