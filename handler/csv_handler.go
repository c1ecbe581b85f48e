package handler

import (
	"errors"
	"net/http"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/service"

	"github.com/gin-gonic/gin"
)

type CSVHandler struct {
	csvService *service.CSVService
}

func NewCSVHandler(csvService *service.CSVService) *CSVHandler {
	return &CSVHandler{csvService: csvService}
}

// GetCSV handles GET /get-csv?csvFileName=
func (h *CSVHandler) GetCSV(c *gin.Context) {
	name := c.Query("csvFileName")
	if err := dto.ValidateCSVFileName(name); err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	rows, err := h.csvService.GetCSV(c.Request.Context(), name)
	if errors.Is(err, dto.ErrObjectNotFound) {
		sendError(c, http.StatusNotFound, "CSV file not found", err)
		return
	}
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to read CSV", err)
		return
	}

	c.JSON(http.StatusOK, dto.CSVResponse{Status: dto.StatusSuccess, Data: rows})
}

// SaveCSV handles POST /save-csv
func (h *CSVHandler) SaveCSV(c *gin.Context) {
	var request dto.SaveCSVRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := request.Validate(); err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	url, err := h.csvService.SaveCSV(c.Request.Context(), &request)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to save CSV", err)
		return
	}

	c.JSON(http.StatusOK, dto.SaveCSVResponse{
		Status:  dto.StatusSuccess,
		Message: "CSV saved",
		CSVURL:  url,
	})
}
