package request

import "github.com/shopspring/decimal"

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ReceiptItemRequest represents one receipt line
type ReceiptItemRequest struct {
	Description   string           `json:"description"`
	Quantity      int              `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	AdvanceAmount *decimal.Decimal `json:"advance_amount"`
	DueAmount     *decimal.Decimal `json:"due_amount"`
}

// PaymentDetailsRequest represents online payment metadata
type PaymentDetailsRequest struct {
	CardNumber  *string `json:"card_number" binding:"omitempty,max=32"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=32"`
	CountryCode *string `json:"country_code" binding:"omitempty,max=8"`
}

// CreateReceiptRequest represents a receipt creation request. Content rules
// are checked by the service so every violation is reported at once.
type CreateReceiptRequest struct {
	ReceiptNumber       string                 `json:"receipt_number" binding:"max=32"`
	Date                string                 `json:"date" binding:"omitempty,datetime=2006-01-02"`
	CustomerName        string                 `json:"customer_name" binding:"max=255"`
	CustomerContact     string                 `json:"customer_contact" binding:"max=50"`
	CountryCode         string                 `json:"country_code" binding:"max=8"`
	PaymentType         string                 `json:"payment_type"`
	PaymentStatus       string                 `json:"payment_status"`
	Notes               *string                `json:"notes"`
	ExpectedPaymentDate *string                `json:"expected_payment_date" binding:"omitempty,datetime=2006-01-02"`
	Items               []ReceiptItemRequest   `json:"items"`
	PaymentDetails      *PaymentDetailsRequest `json:"payment_details"`
}

// ListReceiptsQuery represents receipt list filters
type ListReceiptsQuery struct {
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
	Search        string `form:"search"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=full advance due"`
	From          string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To            string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}
