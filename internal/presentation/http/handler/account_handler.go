package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
)

// AccountHandler handles ledger HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// List returns a page of the ledger with the current balances
// @Summary List transactions
// @Tags transactions
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param type query string false "credit or debit"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /transactions [get]
func (h *AccountHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var query request.ListTransactionsQuery
	if !bindQuery(c, &query) {
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: pageParams(query.Page, query.PerPage),
		StartDate:  parseDate(query.From),
		EndDate:    parseDate(query.To),
	}
	if query.Type != "" {
		txType := enum.TransactionType(query.Type)
		params.Type = &txType
	}

	history, err := h.accountService.History(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transactions retrieved successfully", history)
}

// Record adds a manual credit or debit
// @Summary Record transaction
// @Tags transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.RecordTransactionRequest true "Ledger entry"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /transactions [post]
func (h *AccountHandler) Record(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.RecordTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	txn, err := h.accountService.RecordEntry(c.Request.Context(), &service.RecordEntryInput{
		UserID:      userID,
		Particulars: req.Particulars,
		Amount:      req.Amount,
		Type:        enum.TransactionType(req.Type),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	balance, err := h.accountService.Balance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction recorded successfully", gin.H{
		"transaction":       txn,
		"balance":           balance.Balance,
		"total_due_balance": balance.TotalDueBalance,
	})
}

// Clear deletes the ledger after the password is confirmed
// @Summary Clear transaction history
// @Tags transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ClearHistoryRequest true "Current password"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /transactions [delete]
func (h *AccountHandler) Clear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.ClearHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	deleted, err := h.accountService.ClearHistory(c.Request.Context(), userID, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction history cleared", gin.H{"deleted": deleted})
}
