package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/apperror"
)

func widgetReceipt(userID uuid.UUID, number string) *CreateReceiptInput {
	return &CreateReceiptInput{
		UserID:          userID,
		ReceiptNumber:   number,
		Date:            fixedNow,
		CustomerName:    "Asha",
		CustomerContact: "0712345678",
		CountryCode:     "+254",
		PaymentType:     enum.PaymentTypeCash,
		PaymentStatus:   enum.PaymentStatusDue,
		Items: []ReceiptItemInput{
			{Description: "Widget", Quantity: 3, Price: dec("50"), DueAmount: decPtr("150")},
		},
	}
}

func TestCreateReceiptDueScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	out, err := env.receiptSvc.CreateReceipt(ctx, widgetReceipt(user.ID, "AJE-00001"))
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}

	assertDecimal(t, "total", out.Receipt.Total, "150")
	assertDecimal(t, "due_total", out.Receipt.DueTotal, "150")
	assertDecimal(t, "amount_paid", out.Receipt.AmountPaid, "0")
	if out.Transaction != nil {
		t.Errorf("expected no ledger entry when nothing is paid, got %+v", out.Transaction)
	}
	if out.DueRecord == nil {
		t.Fatal("expected a due record")
	}
	assertDecimal(t, "amount_due", out.DueRecord.AmountDue, "150")
	if out.DueRecord.IsPaid {
		t.Error("new due record must be unpaid")
	}
	if want := dateOnly(fixedNow).AddDate(0, 0, 7); !out.DueRecord.ExpectedPaymentDate.Equal(want) {
		t.Errorf("expected_payment_date = %s, want %s", out.DueRecord.ExpectedPaymentDate, want)
	}
	if out.DueRecord.ReceiptNumber == nil || *out.DueRecord.ReceiptNumber != "AJE-00001" {
		t.Errorf("due receipt number = %v", out.DueRecord.ReceiptNumber)
	}

	b := env.balance(t, user.ID)
	assertDecimal(t, "balance", b.Balance, "0")
	assertDecimal(t, "total_due_balance", b.TotalDueBalance, "150")
	env.assertBalanceInvariant(t, user.ID)
}

func TestCreateReceiptAdvanceDerivesPaidAndDue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	input := widgetReceipt(user.ID, "AJE-00001")
	input.PaymentStatus = enum.PaymentStatusAdvance
	input.Items = []ReceiptItemInput{
		{Description: "Chair", Quantity: 2, Price: dec("100"), AdvanceAmount: decPtr("50")},
		{Description: "Cushion", Quantity: 1, Price: dec("30"), AdvanceAmount: decPtr("30")},
	}

	out, err := env.receiptSvc.CreateReceipt(ctx, input)
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}

	assertDecimal(t, "total", out.Receipt.Total, "230")
	assertDecimal(t, "amount_paid", out.Receipt.AmountPaid, "80")
	assertDecimal(t, "due_total", out.Receipt.DueTotal, "150")

	if out.Transaction == nil {
		t.Fatal("expected a credit for the advance")
	}
	if out.Transaction.Type != enum.TransactionCredit {
		t.Errorf("type = %s, want credit", out.Transaction.Type)
	}
	assertDecimal(t, "credit", out.Transaction.Amount, "80")
	if out.Transaction.ReceiptID == nil || *out.Transaction.ReceiptID != out.Receipt.ID {
		t.Error("credit must reference the receipt")
	}
	if out.DueRecord == nil {
		t.Fatal("expected a due record for the remainder")
	}
	assertDecimal(t, "amount_due", out.DueRecord.AmountDue, "150")

	stored, err := env.receiptSvc.GetReceipt(ctx, user.ID, out.Receipt.ID)
	if err != nil {
		t.Fatalf("GetReceipt: %v", err)
	}
	if len(stored.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(stored.Items))
	}
	if stored.Items[0].Description != "Chair" || stored.Items[1].Description != "Cushion" {
		t.Errorf("items out of order: %q, %q", stored.Items[0].Description, stored.Items[1].Description)
	}
	assertDecimal(t, "items[0].due_amount", stored.Items[0].DueAmount, "150")
	assertDecimal(t, "items[1].due_amount", stored.Items[1].DueAmount, "0")

	b := env.balance(t, user.ID)
	assertDecimal(t, "balance", b.Balance, "80")
	assertDecimal(t, "total_due_balance", b.TotalDueBalance, "150")
	env.assertBalanceInvariant(t, user.ID)
}

func TestCreateReceiptFullOnlinePayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	input := widgetReceipt(user.ID, "AJE-00001")
	input.PaymentStatus = enum.PaymentStatusFull
	input.PaymentType = enum.PaymentTypeOnline
	input.Items[0].DueAmount = nil
	input.PaymentDetails = &PaymentDetailsInput{CardNumber: strPtr("4111 1111 1111 1234")}

	out, err := env.receiptSvc.CreateReceipt(ctx, input)
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	if out.DueRecord != nil {
		t.Error("full payment must not leave a due record")
	}
	assertDecimal(t, "credit", out.Transaction.Amount, "150")

	stored, err := env.receiptSvc.GetReceipt(ctx, user.ID, out.Receipt.ID)
	if err != nil {
		t.Fatalf("GetReceipt: %v", err)
	}
	if stored.PaymentDetails == nil || stored.PaymentDetails.CardNumber == nil {
		t.Fatal("payment details not stored")
	}
	if got := *stored.PaymentDetails.CardNumber; got != "************1234" {
		t.Errorf("card number = %q, want masked", got)
	}
	env.assertBalanceInvariant(t, user.ID)
}

func TestCreateReceiptValidationLeavesNoRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	input := widgetReceipt(user.ID, "AJE-00001")
	input.CustomerName = " "
	input.Items = append(input.Items, ReceiptItemInput{Description: "Gadget", Quantity: 0, Price: dec("10"), DueAmount: decPtr("0")})

	_, err := env.receiptSvc.CreateReceipt(ctx, input)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, fe := range appErr.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"customer_name", "items[1].quantity"} {
		if !fields[want] {
			t.Errorf("missing field error for %s in %+v", want, appErr.Errors)
		}
	}

	for name, model := range map[string]interface{}{
		"receipts":             &entity.Receipt{},
		"receipt_items":        &entity.ReceiptItem{},
		"payment_details":      &entity.PaymentDetails{},
		"due_records":          &entity.DueRecord{},
		"account_transactions": &entity.AccountTransaction{},
	} {
		if n := env.count(t, model, "1 = 1"); n != 0 {
			t.Errorf("%s has %d rows after a rejected receipt", name, n)
		}
	}
}

func TestCreateReceiptWriteFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	// make the ledger insert fail after receipt, items and due were written
	if err := env.db.Exec("DROP TABLE account_transactions").Error; err != nil {
		t.Fatalf("drop table: %v", err)
	}

	input := widgetReceipt(user.ID, "AJE-00001")
	input.PaymentStatus = enum.PaymentStatusAdvance
	input.Items[0].DueAmount = nil
	input.Items[0].AdvanceAmount = decPtr("50")

	if _, err := env.receiptSvc.CreateReceipt(ctx, input); err == nil {
		t.Fatal("expected the ledger write to fail")
	}

	for name, model := range map[string]interface{}{
		"receipts":      &entity.Receipt{},
		"receipt_items": &entity.ReceiptItem{},
		"due_records":   &entity.DueRecord{},
	} {
		if n := env.count(t, model, "1 = 1"); n != 0 {
			t.Errorf("%s has %d rows after a failed receipt", name, n)
		}
	}
	assertDecimal(t, "total_due_balance", env.balance(t, user.ID).TotalDueBalance, "0")
}

func TestCreateReceiptRejectsDuplicateNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	if _, err := env.receiptSvc.CreateReceipt(ctx, widgetReceipt(user.ID, "AJE-00001")); err != nil {
		t.Fatalf("first receipt: %v", err)
	}
	_, err := env.receiptSvc.CreateReceipt(ctx, widgetReceipt(user.ID, "AJE-00001"))
	if !errors.Is(err, apperror.ErrReceiptNumberTaken) {
		t.Fatalf("expected ErrReceiptNumberTaken, got %v", err)
	}

	// numbers are scoped per owner
	other := env.createUser(t, "Omar", "Acme Store")
	if _, err := env.receiptSvc.CreateReceipt(ctx, widgetReceipt(other.ID, "AJE-00001")); err != nil {
		t.Fatalf("same number for another owner: %v", err)
	}

	if n := env.count(t, &entity.DueRecord{}, "user_id = ?", user.ID); n != 1 {
		t.Errorf("due records = %d, want 1", n)
	}
	env.assertBalanceInvariant(t, user.ID)
	env.assertBalanceInvariant(t, other.ID)
}

func TestCreateReceiptExpectedDateBeforeReceiptDate(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Jane", "Acme Store")

	input := widgetReceipt(user.ID, "AJE-00001")
	early := fixedNow.AddDate(0, 0, -1)
	input.ExpectedPaymentDate = &early

	_, err := env.receiptSvc.CreateReceipt(context.Background(), input)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || len(appErr.Errors) != 1 || appErr.Errors[0].Field != "expected_payment_date" {
		t.Fatalf("expected expected_payment_date error, got %v", err)
	}
}

func TestNextReceiptNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	number, err := env.receiptSvc.NextReceiptNumber(ctx, user.ID)
	if err != nil {
		t.Fatalf("NextReceiptNumber: %v", err)
	}
	if number != "AJE-00001" {
		t.Fatalf("first number = %q, want AJE-00001", number)
	}

	if _, err := env.receiptSvc.CreateReceipt(ctx, widgetReceipt(user.ID, number)); err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	number, err = env.receiptSvc.NextReceiptNumber(ctx, user.ID)
	if err != nil {
		t.Fatalf("NextReceiptNumber: %v", err)
	}
	if number != "AJE-00002" {
		t.Errorf("second number = %q, want AJE-00002", number)
	}

	incomplete := env.createUser(t, "Omar", "")
	if _, err := env.receiptSvc.NextReceiptNumber(ctx, incomplete.ID); !errors.Is(err, apperror.ErrProfileIncomplete) {
		t.Errorf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestListReceiptsFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	first := widgetReceipt(user.ID, "AJE-00001")
	second := widgetReceipt(user.ID, "AJE-00002")
	second.CustomerName = "Brian"
	second.PaymentStatus = enum.PaymentStatusFull
	second.Items[0].DueAmount = nil
	for _, in := range []*CreateReceiptInput{first, second} {
		if _, err := env.receiptSvc.CreateReceipt(ctx, in); err != nil {
			t.Fatalf("CreateReceipt: %v", err)
		}
	}

	all, err := env.receiptSvc.ListReceipts(ctx, user.ID, &repository.ReceiptFilterParams{})
	if err != nil {
		t.Fatalf("ListReceipts: %v", err)
	}
	if all.Pagination.Total != 2 || len(all.Items) != 2 {
		t.Fatalf("total = %d items = %d, want 2", all.Pagination.Total, len(all.Items))
	}

	found, err := env.receiptSvc.ListReceipts(ctx, user.ID, &repository.ReceiptFilterParams{Search: "bri"})
	if err != nil {
		t.Fatalf("ListReceipts search: %v", err)
	}
	if len(found.Items) != 1 || found.Items[0].CustomerName != "Brian" {
		t.Errorf("search returned %+v", found.Items)
	}

	status := enum.PaymentStatusDue
	dues, err := env.receiptSvc.ListReceipts(ctx, user.ID, &repository.ReceiptFilterParams{PaymentStatus: &status})
	if err != nil {
		t.Fatalf("ListReceipts status: %v", err)
	}
	if len(dues.Items) != 1 || dues.Items[0].ReceiptNumber != "AJE-00001" {
		t.Errorf("status filter returned %+v", dues.Items)
	}
}

func TestGetReceiptIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "Jane", "Acme Store")
	stranger := env.createUser(t, "Omar", "Other Shop")

	out, err := env.receiptSvc.CreateReceipt(ctx, widgetReceipt(owner.ID, "AJE-00001"))
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}

	_, err = env.receiptSvc.GetReceipt(ctx, stranger.ID, out.Receipt.ID)
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNextReceiptNumberPastPaddingWidth(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	for _, n := range []string{"AJE-99998", "AJE-99999", "AJE-100000"} {
		if _, err := env.receiptSvc.CreateReceipt(ctx, widgetReceipt(user.ID, n)); err != nil {
			t.Fatalf("CreateReceipt %s: %v", n, err)
		}
	}

	number, err := env.receiptSvc.NextReceiptNumber(ctx, user.ID)
	if err != nil {
		t.Fatalf("NextReceiptNumber: %v", err)
	}
	if number != "AJE-100001" {
		t.Fatalf("next number = %q, want AJE-100001", number)
	}
	if _, err := env.receiptSvc.CreateReceipt(ctx, widgetReceipt(user.ID, number)); err != nil {
		t.Errorf("CreateReceipt with suggested number: %v", err)
	}
}

func TestCreateReceiptRejectsOversizedAmounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	tests := []struct {
		name  string
		items []ReceiptItemInput
		field string
	}{
		{
			name:  "price",
			items: []ReceiptItemInput{{Description: "Shop", Quantity: 1, Price: dec("10000000000")}},
			field: "items[0].price",
		},
		{
			name:  "line total",
			items: []ReceiptItemInput{{Description: "Land", Quantity: 3, Price: dec("4000000000")}},
			field: "items[0].price",
		},
		{
			name: "receipt total",
			items: []ReceiptItemInput{
				{Description: "Plot A", Quantity: 1, Price: dec("6000000000")},
				{Description: "Plot B", Quantity: 1, Price: dec("6000000000")},
			},
			field: "items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := widgetReceipt(user.ID, "AJE-00001")
			input.PaymentStatus = enum.PaymentStatusFull
			input.Items = tt.items

			_, err := env.receiptSvc.CreateReceipt(ctx, input)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(appErr.Errors) != 1 || appErr.Errors[0].Field != tt.field {
				t.Errorf("field errors = %+v, want one for %s", appErr.Errors, tt.field)
			}
		})
	}

	if n := env.count(t, &entity.Receipt{}, "1 = 1"); n != 0 {
		t.Errorf("receipts = %d, want 0", n)
	}
}
