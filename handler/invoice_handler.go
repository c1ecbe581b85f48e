package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/service"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// ProcessPDF handles the POST /process-pdf endpoint
func (h *InvoiceHandler) ProcessPDF(c *gin.Context) {
	log.Println("Received invoice processing request")

	var request dto.ProcessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := request.Validate(); err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	log.Printf("Processing %d files", len(request.FileURLs))

	response, err := h.invoiceService.ProcessInvoices(c.Request.Context(), &request)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dto.ErrNoCSVOutput) {
			status = http.StatusUnprocessableEntity
		}
		sendError(c, status, "Failed to process invoices", err)
		return
	}

	log.Printf("Invoice processing completed: %s", response.CSVFileName)
	c.JSON(http.StatusOK, response)
}
