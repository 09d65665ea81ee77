package request

import "github.com/shopspring/decimal"

// CreateDueRequest represents a due recorded without a receipt
type CreateDueRequest struct {
	CustomerName        string          `json:"customer_name" binding:"max=255"`
	CustomerContact     string          `json:"customer_contact" binding:"max=50"`
	CountryCode         string          `json:"country_code" binding:"max=8"`
	ProductOrdered      string          `json:"product_ordered"`
	Quantity            int             `json:"quantity"`
	AmountDue           decimal.Decimal `json:"amount_due"`
	ExpectedPaymentDate *string         `json:"expected_payment_date" binding:"omitempty,datetime=2006-01-02"`
	ReceiptNumber       *string         `json:"receipt_number" binding:"omitempty,max=32"`
}

// SettleDueRequest identifies the due to settle
type SettleDueRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}

// ListDuesQuery represents due list filters
type ListDuesQuery struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Search  string `form:"search"`
}
