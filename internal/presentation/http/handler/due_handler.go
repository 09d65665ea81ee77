package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
)

// DueHandler handles due record HTTP requests
type DueHandler struct {
	dueService *service.DueService
}

// NewDueHandler creates a new due handler
func NewDueHandler(dueService *service.DueService) *DueHandler {
	return &DueHandler{dueService: dueService}
}

// ListUnpaid returns outstanding dues, oldest expected payment first
// @Summary List unpaid dues
// @Tags dues
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Customer name or contact"
// @Success 200 {object} response.APIResponse
// @Router /due [get]
func (h *DueHandler) ListUnpaid(c *gin.Context) {
	h.list(c, false, "Unpaid dues retrieved successfully")
}

// ListPaid returns settled dues, most recently paid first
// @Summary List paid dues
// @Tags dues
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Customer name or contact"
// @Success 200 {object} response.APIResponse
// @Router /due/paid [get]
func (h *DueHandler) ListPaid(c *gin.Context) {
	h.list(c, true, "Paid dues retrieved successfully")
}

func (h *DueHandler) list(c *gin.Context, paid bool, message string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var query request.ListDuesQuery
	if !bindQuery(c, &query) {
		return
	}

	result, err := h.dueService.ListDues(c.Request.Context(), userID, &repository.DueFilterParams{
		Pagination: pageParams(query.Page, query.PerPage),
		Paid:       paid,
		Search:     query.Search,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, message, result)
}

// Create records a due without a receipt
// @Summary Create due
// @Tags dues
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.CreateDueRequest true "Due data"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /due [post]
func (h *DueHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateDueRequest
	if !bindJSON(c, &req) {
		return
	}

	due, err := h.dueService.CreateDue(c.Request.Context(), &service.CreateDueInput{
		UserID:              userID,
		CustomerName:        req.CustomerName,
		CustomerContact:     req.CustomerContact,
		CountryCode:         req.CountryCode,
		ProductOrdered:      req.ProductOrdered,
		Quantity:            req.Quantity,
		AmountDue:           req.AmountDue,
		ExpectedPaymentDate: parseOptionalDate(req.ExpectedPaymentDate),
		ReceiptNumber:       req.ReceiptNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Due recorded successfully", gin.H{"due_record": due})
}

// Settle marks a due as paid and credits the ledger
// @Summary Settle due
// @Tags dues
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.SettleDueRequest true "Due to settle"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /due [put]
func (h *DueHandler) Settle(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.SettleDueRequest
	if !bindJSON(c, &req) {
		return
	}
	dueID, err := uuid.Parse(req.ID)
	if err != nil {
		response.BadRequest(c, "Invalid id")
		return
	}

	result, err := h.dueService.SettleDue(c.Request.Context(), userID, dueID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Due settled successfully", gin.H{
		"due_record":  result.DueRecord,
		"transaction": result.Transaction,
	})
}
