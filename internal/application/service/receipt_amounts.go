package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ReceiptAmounts are the totals derived from a receipt's items. Clients
// compute the same figures for display, so the rules must not drift.
type ReceiptAmounts struct {
	Total    decimal.Decimal
	PaidNow  decimal.Decimal
	DueTotal decimal.Decimal
}

// DeriveReceiptAmounts applies the per-status rules:
// full pays everything now, advance pays the sum of advances and owes the
// rest, due pays nothing now and owes the sum of due amounts.
func DeriveReceiptAmounts(status enum.PaymentStatus, items []ReceiptItemInput) ReceiptAmounts {
	total := decimal.Zero
	advance := decimal.Zero
	due := decimal.Zero

	for _, item := range items {
		total = total.Add(item.LineTotal())
		if item.AdvanceAmount != nil {
			advance = advance.Add(*item.AdvanceAmount)
		}
		if item.DueAmount != nil {
			due = due.Add(*item.DueAmount)
		}
	}

	switch status {
	case enum.PaymentStatusAdvance:
		return ReceiptAmounts{Total: total, PaidNow: advance, DueTotal: total.Sub(advance)}
	case enum.PaymentStatusDue:
		return ReceiptAmounts{Total: total, PaidNow: decimal.Zero, DueTotal: due}
	default:
		return ReceiptAmounts{Total: total, PaidNow: total, DueTotal: decimal.Zero}
	}
}

// buildReceiptItems turns inputs into rows, storing per-line advance and due
// amounts according to the payment status.
func buildReceiptItems(receiptID uuid.UUID, status enum.PaymentStatus, inputs []ReceiptItemInput) []entity.ReceiptItem {
	items := make([]entity.ReceiptItem, len(inputs))
	for i, in := range inputs {
		advance := decimal.Zero
		due := decimal.Zero
		switch status {
		case enum.PaymentStatusAdvance:
			advance = *in.AdvanceAmount
			due = in.LineTotal().Sub(advance)
		case enum.PaymentStatusDue:
			due = *in.DueAmount
		}
		items[i] = entity.ReceiptItem{
			ReceiptID:     receiptID,
			Position:      i + 1,
			Description:   strings.TrimSpace(in.Description),
			Quantity:      in.Quantity,
			Price:         in.Price,
			AdvanceAmount: advance,
			DueAmount:     due,
		}
	}
	return items
}

// describeItems is the product text stored on a due record.
func describeItems(inputs []ReceiptItemInput) (string, int) {
	names := make([]string, 0, len(inputs))
	quantity := 0
	for _, in := range inputs {
		names = append(names, strings.TrimSpace(in.Description))
		quantity += in.Quantity
	}
	return strings.Join(names, ", "), quantity
}

// maskCardNumber keeps the last four digits of a card number.
func maskCardNumber(number string) string {
	digits := make([]rune, 0, len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return strings.Repeat("*", len(digits)-4) + string(digits[len(digits)-4:])
}
