package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a reporting repository. Queries are read-only
// and run outside any workflow transaction.
func NewReportRepository(db *sqlx.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) LedgerTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domainRepo.LedgerTotals, error) {
	var totals domainRepo.LedgerTotals
	query := r.db.Rebind(`
		SELECT
			COALESCE(SUM(CASE WHEN type = 'credit' THEN amount ELSE 0 END), 0) AS credits,
			COALESCE(SUM(CASE WHEN type = 'debit' THEN amount ELSE 0 END), 0) AS debits,
			COUNT(*) AS transaction_count
		FROM account_transactions
		WHERE user_id = ? AND created_at >= ? AND created_at < ?
	`)
	if err := r.db.GetContext(ctx, &totals, query, userID, from, to); err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *reportRepository) SalesTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domainRepo.SalesTotals, error) {
	var totals domainRepo.SalesTotals
	query := r.db.Rebind(`
		SELECT
			COUNT(*) AS receipt_count,
			COALESCE(SUM(total), 0) AS sales_total,
			COALESCE(SUM(amount_paid), 0) AS collected_now,
			COALESCE(SUM(due_total), 0) AS due_created
		FROM receipts
		WHERE user_id = ? AND date >= ? AND date < ?
	`)
	if err := r.db.GetContext(ctx, &totals, query, userID, from, to); err != nil {
		return nil, err
	}
	return &totals, nil
}

// utcDay renders created_at as its UTC calendar day in the pool's dialect.
func (r *reportRepository) utcDay() string {
	if r.db.DriverName() == "sqlite" {
		return "strftime('%Y-%m-%d', created_at)"
	}
	return "TO_CHAR(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
}

func (r *reportRepository) DailyLedger(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domainRepo.DailyLedgerRow, error) {
	rows := []domainRepo.DailyLedgerRow{}
	query := r.db.Rebind(`
		SELECT
			` + r.utcDay() + ` AS day,
			COALESCE(SUM(CASE WHEN type = 'credit' THEN amount ELSE 0 END), 0) AS credits,
			COALESCE(SUM(CASE WHEN type = 'debit' THEN amount ELSE 0 END), 0) AS debits
		FROM account_transactions
		WHERE user_id = ? AND created_at >= ? AND created_at < ?
		GROUP BY day
		ORDER BY day ASC
	`)
	if err := r.db.SelectContext(ctx, &rows, query, userID, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reportRepository) OutstandingDue(ctx context.Context, userID uuid.UUID) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal `db:"total"`
		Count int64           `db:"count"`
	}
	query := r.db.Rebind(`
		SELECT COALESCE(SUM(amount_due), 0) AS total, COUNT(*) AS count
		FROM due_records
		WHERE user_id = ? AND is_paid = FALSE
	`)
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Count, nil
}
