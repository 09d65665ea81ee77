package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newReportRepo(t *testing.T, db *gorm.DB) *reportRepository {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	return &reportRepository{db: sqlx.NewDb(sqlDB, "sqlite")}
}

func createLedgerEntry(t *testing.T, db *gorm.DB, userID uuid.UUID, kind enum.TransactionType, amount string, at time.Time) {
	t.Helper()
	txn := &entity.AccountTransaction{
		UserID:      userID,
		Particulars: "entry",
		Amount:      decimal.RequireFromString(amount),
		Type:        kind,
		CreatedAt:   at,
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}
}

func utc(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC)
}

func TestReportRepositoryAggregates(t *testing.T) {
	db := newTestDB(t)
	repo := newReportRepo(t, db)
	ctx := context.Background()
	user := createTestUser(t, db)
	other := createTestUser(t, db)

	createLedgerEntry(t, db, user.ID, enum.TransactionCredit, "50", utc(8, 12, 0))
	createLedgerEntry(t, db, user.ID, enum.TransactionCredit, "100", utc(9, 23, 30))
	createLedgerEntry(t, db, user.ID, enum.TransactionDebit, "20.50", utc(10, 0, 15))
	createLedgerEntry(t, db, user.ID, enum.TransactionCredit, "175", utc(10, 18, 0))
	createLedgerEntry(t, db, user.ID, enum.TransactionCredit, "999", utc(11, 0, 0))
	createLedgerEntry(t, db, other.ID, enum.TransactionCredit, "400", utc(10, 9, 0))

	createTestReceipt(t, db, user.ID, "AJE-00001")
	createTestReceipt(t, db, user.ID, "AJE-00002")
	createTestReceipt(t, db, other.ID, "OOP-00001")

	createTestDue(t, db, user.ID, "150")
	paid := createTestDue(t, db, user.ID, "80")
	if _, err := NewDueRecordRepository(db).MarkPaid(ctx, paid, utc(10, 10, 0)); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	from, to := utc(9, 0, 0), utc(11, 0, 0)

	ledger, err := repo.LedgerTotals(ctx, user.ID, from, to)
	if err != nil {
		t.Fatalf("LedgerTotals: %v", err)
	}
	if !ledger.Credits.Equal(decimal.NewFromInt(275)) || !ledger.Debits.Equal(decimal.RequireFromString("20.50")) || ledger.TransactionCount != 3 {
		t.Errorf("ledger totals = credits %s, debits %s, count %d", ledger.Credits, ledger.Debits, ledger.TransactionCount)
	}

	sales, err := repo.SalesTotals(ctx, user.ID, from, to)
	if err != nil {
		t.Fatalf("SalesTotals: %v", err)
	}
	if sales.ReceiptCount != 2 || !sales.SalesTotal.Equal(decimal.NewFromInt(20)) {
		t.Errorf("sales totals = %d receipts, %s", sales.ReceiptCount, sales.SalesTotal)
	}

	outstanding, count, err := repo.OutstandingDue(ctx, user.ID)
	if err != nil {
		t.Fatalf("OutstandingDue: %v", err)
	}
	if !outstanding.Equal(decimal.NewFromInt(150)) || count != 1 {
		t.Errorf("outstanding = %s over %d dues, want 150 over 1", outstanding, count)
	}
}

func TestReportRepositoryDailyLedgerGroupsByUTCDay(t *testing.T) {
	db := newTestDB(t)
	repo := newReportRepo(t, db)
	ctx := context.Background()
	user := createTestUser(t, db)

	createLedgerEntry(t, db, user.ID, enum.TransactionCredit, "100", utc(9, 23, 30))
	createLedgerEntry(t, db, user.ID, enum.TransactionDebit, "20.50", utc(10, 0, 15))
	createLedgerEntry(t, db, user.ID, enum.TransactionCredit, "175", utc(10, 18, 0))
	createLedgerEntry(t, db, user.ID, enum.TransactionCredit, "999", utc(11, 0, 0))

	rows, err := repo.DailyLedger(ctx, user.ID, utc(9, 0, 0), utc(11, 0, 0))
	if err != nil {
		t.Fatalf("DailyLedger: %v", err)
	}

	type day struct{ day, credits, debits string }
	got := make([]day, 0, len(rows))
	for _, r := range rows {
		got = append(got, day{r.Day, r.Credits.StringFixed(2), r.Debits.StringFixed(2)})
	}
	want := []day{
		{"2024-03-09", "100.00", "0.00"},
		{"2024-03-10", "175.00", "20.50"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("daily ledger = %+v, want %+v", got, want)
	}
}

func TestReportRepositoryDayExpression(t *testing.T) {
	pg := &reportRepository{db: sqlx.NewDb(nil, "pgx")}
	if got := pg.utcDay(); got != "TO_CHAR(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')" {
		t.Errorf("postgres day expression = %q", got)
	}
}
