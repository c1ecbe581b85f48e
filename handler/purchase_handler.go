package handler

import (
	"net/http"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/service"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseService *service.PurchaseService
	loadIndex       service.FoodIndexLoader
}

func NewPurchaseHandler(purchaseService *service.PurchaseService, loadIndex service.FoodIndexLoader) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
		loadIndex:       loadIndex,
	}
}

// FilterQuery handles POST /api/filter-query
func (h *PurchaseHandler) FilterQuery(c *gin.Context) {
	var request dto.FilterQueryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	request.Defaults()
	if err := request.Validate(); err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	response, err := h.purchaseService.FilterQuery(c.Request.Context(), request)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to query purchases", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// FoodIndex handles GET /api/food-index
func (h *PurchaseHandler) FoodIndex(c *gin.Context) {
	index, err := h.loadIndex()
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to load food index", err)
		return
	}
	c.JSON(http.StatusOK, dto.FoodIndexResponse{
		Status: dto.StatusSuccess,
		Data:   index.Entries(),
	})
}
