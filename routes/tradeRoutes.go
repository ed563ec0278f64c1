package routes

import (
	"github.com/gin-gonic/gin"

	"replay-trader/controllers"
)

func TradeRoutes(r *gin.Engine) {
	r.GET("/api/trades", controllers.GetTradesHandler)
	r.DELETE("/api/trades", controllers.DeleteTradesHandler)
}
