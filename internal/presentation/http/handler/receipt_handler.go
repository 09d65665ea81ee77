package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// NextNumber suggests the next receipt number for the store
// @Summary Next receipt number
// @Tags receipts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /receipts/next-number [get]
func (h *ReceiptHandler) NextNumber(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	number, err := h.receiptService.NextReceiptNumber(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next receipt number generated", gin.H{"receipt_number": number})
}

// Create records a sale
// @Summary Create receipt
// @Description Persist a receipt with its items, payment details, due record and ledger credit in one transaction
// @Tags receipts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.CreateReceiptRequest true "Receipt data"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateReceiptRequest
	if !bindJSON(c, &req) {
		return
	}

	input := &service.CreateReceiptInput{
		UserID:              userID,
		ReceiptNumber:       req.ReceiptNumber,
		CustomerName:        req.CustomerName,
		CustomerContact:     req.CustomerContact,
		CountryCode:         req.CountryCode,
		PaymentType:         enum.PaymentType(req.PaymentType),
		PaymentStatus:       enum.PaymentStatus(req.PaymentStatus),
		Notes:               req.Notes,
		ExpectedPaymentDate: parseOptionalDate(req.ExpectedPaymentDate),
	}
	if date := parseDate(req.Date); date != nil {
		input.Date = *date
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.ReceiptItemInput{
			Description:   item.Description,
			Quantity:      item.Quantity,
			Price:         item.Price,
			AdvanceAmount: item.AdvanceAmount,
			DueAmount:     item.DueAmount,
		})
	}
	if pd := req.PaymentDetails; pd != nil {
		input.PaymentDetails = &service.PaymentDetailsInput{
			CardNumber:  pd.CardNumber,
			PhoneNumber: pd.PhoneNumber,
			CountryCode: pd.CountryCode,
		}
	}

	output, err := h.receiptService.CreateReceipt(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created successfully", gin.H{
		"receipt":     output.Receipt,
		"due_record":  output.DueRecord,
		"transaction": output.Transaction,
	})
}

// List returns the user's receipts
// @Summary List receipts
// @Tags receipts
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Receipt number or customer name"
// @Param payment_status query string false "full, advance or due"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /receipts [get]
func (h *ReceiptHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var query request.ListReceiptsQuery
	if !bindQuery(c, &query) {
		return
	}

	params := &repository.ReceiptFilterParams{
		Pagination: pageParams(query.Page, query.PerPage),
		Search:     query.Search,
		StartDate:  parseDate(query.From),
		EndDate:    parseDate(query.To),
	}
	if query.PaymentStatus != "" {
		status := enum.PaymentStatus(query.PaymentStatus)
		params.PaymentStatus = &status
	}

	result, err := h.receiptService.ListReceipts(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, "Receipts retrieved successfully", result)
}

// Get returns one receipt with its items and payment details
// @Summary Get receipt
// @Tags receipts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /receipts/{id} [get]
func (h *ReceiptHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", gin.H{"receipt": receipt})
}
