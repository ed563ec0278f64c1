package routes

import (
	"github.com/gin-gonic/gin"

	"replay-trader/controllers"
	"replay-trader/models"
)

func CompanyRoutes(r *gin.Engine, hub *models.Hub) {
	r.GET("/api/companies", controllers.GetCompaniesHandler)
	r.POST("/api/companies/seed", controllers.SeedCompaniesHandler(hub))
	r.DELETE("/api/companies", controllers.ClearDataHandler)
}
