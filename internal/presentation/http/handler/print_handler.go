package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
)

const escposContentType = "application/vnd.escpos"

// PrintHandler handles thermal printing of receipts
type PrintHandler struct {
	printService *service.PrintService
}

// NewPrintHandler creates a new print handler
func NewPrintHandler(printService *service.PrintService) *PrintHandler {
	return &PrintHandler{printService: printService}
}

// Status reports the configured printer
// @Summary Printer status
// @Tags printing
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /printer/status [get]
func (h *PrintHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printService.Status(c.Request.Context()))
}

// Ticket returns the raw ESC/POS job so a client can print it locally
// @Summary Receipt ticket
// @Tags printing
// @Security BearerAuth
// @Produce application/octet-stream
// @Param id path string true "Receipt ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.APIResponse
// @Router /receipts/{id}/ticket [get]
func (h *PrintHandler) Ticket(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, err := h.printService.RenderReceipt(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="receipt-`+id.String()+`.bin"`)
	c.Data(http.StatusOK, escposContentType, data)
}

// Print sends a receipt to the store printer
// @Summary Print receipt
// @Tags printing
// @Security BearerAuth
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /receipts/{id}/print [post]
func (h *PrintHandler) Print(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.printService.PrintReceipt(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt sent to printer", gin.H{"printed": true})
}
