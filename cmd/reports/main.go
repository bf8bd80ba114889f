// cmd/reports/main.go
package main

import (
	"log"
	"os"

	"report-service/internal/api/handlers"
	"report-service/internal/api/responses"
	"report-service/internal/core/reports"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	responses.InitLogger()

	reportService := reports.NewService()
	reportHandler := handlers.NewReportHandler(reportService)

	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/reports/deposit-expiry", reportHandler.HandleDepositExpiry)
		apiV1.POST("/reports/revenue", reportHandler.HandleRevenue)
		apiV1.POST("/reports/deposit-purchase", reportHandler.HandleDepositPurchase)
		apiV1.POST("/reports/cash-in", reportHandler.HandleCashIn)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "report-service"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8084"
	}
	log.Printf("Report Service (Go) listening on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start the report server: ", err)
	}
}
