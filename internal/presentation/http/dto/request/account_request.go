package request

import "github.com/shopspring/decimal"

// RecordTransactionRequest represents a manual ledger entry
type RecordTransactionRequest struct {
	Particulars string          `json:"particulars"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

// ClearHistoryRequest re-authenticates before the ledger is wiped
type ClearHistoryRequest struct {
	Password string `json:"password" binding:"required"`
}

// ListTransactionsQuery represents ledger list filters
type ListTransactionsQuery struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Type    string `form:"type" binding:"omitempty,oneof=credit debit"`
	From    string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To      string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// ReportQuery represents the report date range
type ReportQuery struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}
