package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/pagination"
)

func TestRecordEntryUpdatesBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	entries := []RecordEntryInput{
		{UserID: user.ID, Particulars: "Opening float", Amount: dec("500"), Type: enum.TransactionCredit},
		{UserID: user.ID, Particulars: "Rent", Amount: dec("120.25"), Type: enum.TransactionDebit},
		{UserID: user.ID, Particulars: "Supplies", Amount: dec("30"), Type: enum.TransactionDebit},
	}
	for i := range entries {
		txn, err := env.accountSvc.RecordEntry(ctx, &entries[i])
		if err != nil {
			t.Fatalf("RecordEntry %d: %v", i, err)
		}
		if len(txn.Reference) < 3 || txn.Reference[:2] != "TX" {
			t.Errorf("reference = %q, want TX prefix", txn.Reference)
		}
	}

	assertDecimal(t, "balance", env.balance(t, user.ID).Balance, "349.75")
	env.assertBalanceInvariant(t, user.ID)
}

func TestRecordEntryValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Jane", "Acme Store")

	_, err := env.accountSvc.RecordEntry(context.Background(), &RecordEntryInput{
		UserID: user.ID,
		Amount: dec("10.005"),
		Type:   enum.TransactionType("refund"),
	})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(appErr.Errors) != 3 {
		t.Errorf("field errors = %+v, want particulars, amount and type", appErr.Errors)
	}
	if n := env.count(t, &entity.AccountTransaction{}, "1 = 1"); n != 0 {
		t.Errorf("transactions = %d, want 0", n)
	}
}

func TestHistoryReturnsBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	env.createWidgetDue(t, user.ID, "AJE-00001")
	for i := 0; i < 3; i++ {
		_, err := env.accountSvc.RecordEntry(ctx, &RecordEntryInput{
			UserID: user.ID, Particulars: "Sale", Amount: dec("10"), Type: enum.TransactionCredit,
		})
		if err != nil {
			t.Fatalf("RecordEntry: %v", err)
		}
	}

	history, err := env.accountSvc.History(ctx, user.ID, &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 2},
	})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history.Transactions) != 2 || history.Pagination.Total != 3 || !history.Pagination.HasNext {
		t.Errorf("page = %d items, total %d, has_next %v", len(history.Transactions), history.Pagination.Total, history.Pagination.HasNext)
	}
	assertDecimal(t, "balance", history.Balance, "30")
	assertDecimal(t, "total_due_balance", history.TotalDueBalance, "150")

	debit := enum.TransactionDebit
	debits, err := env.accountSvc.History(ctx, user.ID, &repository.TransactionFilterParams{Type: &debit})
	if err != nil {
		t.Fatalf("History debit: %v", err)
	}
	if len(debits.Transactions) != 0 {
		t.Errorf("debits = %d, want 0", len(debits.Transactions))
	}
}

func TestClearHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")

	due := env.createWidgetDue(t, user.ID, "AJE-00001")
	if _, err := env.dueSvc.SettleDue(ctx, user.ID, due.ID); err != nil {
		t.Fatalf("SettleDue: %v", err)
	}
	env.createWidgetDue(t, user.ID, "AJE-00002")

	if _, err := env.accountSvc.ClearHistory(ctx, user.ID, "wrong-password"); !errors.Is(err, apperror.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
	assertDecimal(t, "balance", env.balance(t, user.ID).Balance, "150")

	deleted, err := env.accountSvc.ClearHistory(ctx, user.ID, testPassword)
	if err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	b := env.balance(t, user.ID)
	assertDecimal(t, "balance", b.Balance, "0")
	assertDecimal(t, "total_due_balance", b.TotalDueBalance, "150")
	env.assertBalanceInvariant(t, user.ID)
}

func TestBalanceInvariantAcrossMixedOperations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "Jane", "Acme Store")
	other := env.createUser(t, "Omar", "Other Shop")

	advance := widgetReceipt(user.ID, "AJE-00001")
	advance.PaymentStatus = enum.PaymentStatusAdvance
	advance.Items[0].DueAmount = nil
	advance.Items[0].AdvanceAmount = decPtr("40")
	out, err := env.receiptSvc.CreateReceipt(ctx, advance)
	if err != nil {
		t.Fatalf("advance receipt: %v", err)
	}

	dueOnly := env.createWidgetDue(t, user.ID, "AJE-00002")
	env.createWidgetDue(t, other.ID, "OOP-00001")

	if _, err := env.dueSvc.SettleDue(ctx, user.ID, out.DueRecord.ID); err != nil {
		t.Fatalf("settle advance remainder: %v", err)
	}
	if _, err := env.accountSvc.RecordEntry(ctx, &RecordEntryInput{
		UserID: user.ID, Particulars: "Transport", Amount: dec("25.50"), Type: enum.TransactionDebit,
	}); err != nil {
		t.Fatalf("RecordEntry: %v", err)
	}
	if _, err := env.dueSvc.SettleDue(ctx, user.ID, dueOnly.ID); err != nil {
		t.Fatalf("settle due receipt: %v", err)
	}

	// 40 advance + 110 remainder - 25.50 transport + 150 due
	b := env.balance(t, user.ID)
	assertDecimal(t, "balance", b.Balance, "274.50")
	assertDecimal(t, "total_due_balance", b.TotalDueBalance, "0")
	env.assertBalanceInvariant(t, user.ID)

	assertDecimal(t, "other total_due_balance", env.balance(t, other.ID).TotalDueBalance, "150")
	env.assertBalanceInvariant(t, other.ID)
}

func TestRecordEntryRejectsOversizedAmount(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "Jane", "Acme Store")

	_, err := env.accountSvc.RecordEntry(context.Background(), &RecordEntryInput{
		UserID: user.ID, Particulars: "Windfall", Amount: dec("100000000000"), Type: enum.TransactionCredit,
	})
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || len(appErr.Errors) != 1 || appErr.Errors[0].Field != "amount" {
		t.Fatalf("expected amount error, got %v", err)
	}
	assertDecimal(t, "balance", env.balance(t, user.ID).Balance, "0")
}
