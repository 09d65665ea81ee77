package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerTotals aggregates ledger entries over a period
type LedgerTotals struct {
	Credits          decimal.Decimal `db:"credits"`
	Debits           decimal.Decimal `db:"debits"`
	TransactionCount int64           `db:"transaction_count"`
}

// SalesTotals aggregates receipts over a period
type SalesTotals struct {
	ReceiptCount int64           `db:"receipt_count"`
	SalesTotal   decimal.Decimal `db:"sales_total"`
	CollectedNow decimal.Decimal `db:"collected_now"`
	DueCreated   decimal.Decimal `db:"due_created"`
}

// DailyLedgerRow is one day of ledger movement
type DailyLedgerRow struct {
	Day     string          `db:"day"`
	Credits decimal.Decimal `db:"credits"`
	Debits  decimal.Decimal `db:"debits"`
}

// ReportRepository defines read-only reporting queries. from is inclusive and
// to is exclusive.
type ReportRepository interface {
	LedgerTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (*LedgerTotals, error)
	SalesTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (*SalesTotals, error)
	DailyLedger(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]DailyLedgerRow, error)
	OutstandingDue(ctx context.Context, userID uuid.UUID) (decimal.Decimal, int64, error)
}
