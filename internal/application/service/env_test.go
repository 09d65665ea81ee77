package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/billbook-api/internal/infrastructure/repository"
	"github.com/sangkips/billbook-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testPassword = "correct-horse"

var fixedNow = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

// testEnv wires the production repositories to an in-memory SQLite database.
// A single connection keeps every workflow on the same database and
// serialises transactions the way row locks do on Postgres.
type testEnv struct {
	db         *gorm.DB
	users      repository.UserRepository
	receipts   repository.ReceiptRepository
	dues       repository.DueRecordRepository
	accounts   repository.AccountRepository
	receiptSvc *ReceiptService
	dueSvc     *DueService
	accountSvc *AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &testEnv{
		db:       db,
		users:    infraRepo.NewUserRepository(db),
		receipts: infraRepo.NewReceiptRepository(db),
		dues:     infraRepo.NewDueRecordRepository(db),
		accounts: infraRepo.NewAccountRepository(db),
	}
	transactor := infraRepo.NewTransactor(db)
	logger := zap.NewNop()

	env.receiptSvc = NewReceiptService(transactor, env.users, env.receipts, env.dues, env.accounts, 7, logger)
	env.receiptSvc.now = func() time.Time { return fixedNow }
	env.dueSvc = NewDueService(transactor, env.dues, env.accounts, 7, logger)
	env.dueSvc.now = func() time.Time { return fixedNow }
	env.accountSvc = NewAccountService(transactor, env.users, env.accounts, logger)
	return env
}

func (e *testEnv) createUser(t *testing.T, name, storeName string) *entity.User {
	t.Helper()

	hash, err := utils.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &entity.User{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "." + uuid.NewString()[:8] + "@example.com",
		Password: hash,
		Superkey: utils.DigestSuperkey(utils.NewSuperkey()),
		Provider: providerLocal,
	}
	if storeName != "" {
		user.StoreName = &storeName
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEnv) balance(t *testing.T, userID uuid.UUID) *entity.AccountBalance {
	t.Helper()
	b, err := e.accounts.GetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	return b
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// assertBalanceInvariant recomputes both aggregates from their source rows.
func (e *testEnv) assertBalanceInvariant(t *testing.T, userID uuid.UUID) {
	t.Helper()

	sum := func(model interface{}, column, where string, args ...interface{}) decimal.Decimal {
		var total decimal.Decimal
		err := e.db.Model(model).
			Select("COALESCE(SUM("+column+"), 0)").
			Where(where, args...).
			Row().Scan(&total)
		if err != nil {
			t.Fatalf("sum %s: %v", column, err)
		}
		return total
	}

	credits := sum(&entity.AccountTransaction{}, "amount", "user_id = ? AND type = ?", userID, enum.TransactionCredit)
	debits := sum(&entity.AccountTransaction{}, "amount", "user_id = ? AND type = ?", userID, enum.TransactionDebit)
	unpaid := sum(&entity.DueRecord{}, "amount_due", "user_id = ? AND is_paid = ?", userID, false)

	b := e.balance(t, userID)
	if want := credits.Sub(debits); !b.Balance.Equal(want) {
		t.Errorf("balance = %s, want %s", b.Balance, want)
	}
	if !b.TotalDueBalance.Equal(unpaid) {
		t.Errorf("total_due_balance = %s, want %s", b.TotalDueBalance, unpaid)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
