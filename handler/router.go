package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter registers every route on a gin engine with the default logger
// and recovery middleware.
func NewRouter(invoices *InvoiceHandler, csvs *CSVHandler, purchases *PurchaseHandler) *gin.Engine {
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Food Procurement Invoice Extraction",
		})
	})

	router.POST("/process-pdf", invoices.ProcessPDF)
	router.GET("/get-csv", csvs.GetCSV)
	router.POST("/save-csv", csvs.SaveCSV)

	api := router.Group("/api")
	{
		api.GET("/food-index", purchases.FoodIndex)
		api.POST("/filter-query", purchases.FilterQuery)
	}

	return router
}
