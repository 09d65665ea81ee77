package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/enum"
)

func TestDeriveReceiptAmounts(t *testing.T) {
	tests := []struct {
		name                     string
		status                   enum.PaymentStatus
		items                    []ReceiptItemInput
		total, paidNow, dueTotal string
	}{
		{
			name:   "advance",
			status: enum.PaymentStatusAdvance,
			items: []ReceiptItemInput{
				{Quantity: 2, Price: dec("100"), AdvanceAmount: decPtr("50")},
				{Quantity: 1, Price: dec("30"), AdvanceAmount: decPtr("30")},
			},
			total: "230", paidNow: "80", dueTotal: "150",
		},
		{
			name:   "due",
			status: enum.PaymentStatusDue,
			items: []ReceiptItemInput{
				{Quantity: 3, Price: dec("50"), DueAmount: decPtr("150")},
			},
			total: "150", paidNow: "0", dueTotal: "150",
		},
		{
			name:   "due with part of a line owed",
			status: enum.PaymentStatusDue,
			items: []ReceiptItemInput{
				{Quantity: 2, Price: dec("19.99"), DueAmount: decPtr("10")},
				{Quantity: 1, Price: dec("5"), DueAmount: decPtr("5")},
			},
			total: "44.98", paidNow: "0", dueTotal: "15",
		},
		{
			name:   "full ignores partial amounts",
			status: enum.PaymentStatusFull,
			items: []ReceiptItemInput{
				{Quantity: 4, Price: dec("2.50"), AdvanceAmount: decPtr("1")},
			},
			total: "10", paidNow: "10", dueTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveReceiptAmounts(tt.status, tt.items)
			assertDecimal(t, "total", got.Total, tt.total)
			assertDecimal(t, "paid_now", got.PaidNow, tt.paidNow)
			assertDecimal(t, "due_total", got.DueTotal, tt.dueTotal)
		})
	}
}

func TestBuildReceiptItemsSplitsAdvance(t *testing.T) {
	id := uuid.New()
	items := buildReceiptItems(id, enum.PaymentStatusAdvance, []ReceiptItemInput{
		{Description: " Chair ", Quantity: 2, Price: dec("100"), AdvanceAmount: decPtr("50")},
	})
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	item := items[0]
	if item.ReceiptID != id || item.Position != 1 || item.Description != "Chair" {
		t.Errorf("unexpected item %+v", item)
	}
	assertDecimal(t, "advance", item.AdvanceAmount, "50")
	assertDecimal(t, "due", item.DueAmount, "150")
}

func TestMaskCardNumber(t *testing.T) {
	tests := map[string]string{
		"4111 1111 1111 1234": "************1234",
		"4111-1111-1111-1234": "************1234",
		"123":                 "123",
		"":                    "",
	}
	for in, want := range tests {
		if got := maskCardNumber(in); got != want {
			t.Errorf("maskCardNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDescribeItems(t *testing.T) {
	product, quantity := describeItems([]ReceiptItemInput{
		{Description: "Widget", Quantity: 3},
		{Description: " Bolt ", Quantity: 10},
	})
	if product != "Widget, Bolt" || quantity != 13 {
		t.Errorf("describeItems = %q, %d", product, quantity)
	}
}
