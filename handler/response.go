package handler

import (
	"log"

	"github.com/Aashish23092/food-procurement-ocr/dto"

	"github.com/gin-gonic/gin"
)

// sendError sends a structured error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Status:  dto.StatusError,
		Message: errorMsg,
		Code:    statusCode,
	})
}
