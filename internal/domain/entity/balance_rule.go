package entity

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The hooks below keep account_balances consistent with account_transactions
// and due_records. GORM runs them on the connection of the triggering
// statement, so they commit or roll back together with it.

var (
	ErrImmutableRecord     = errors.New("record is immutable")
	ErrBalanceOwnerUnknown = errors.New("balance owner unknown")
)

// AfterCreate adds the signed amount to the owner's running balance.
func (t *AccountTransaction) AfterCreate(tx *gorm.DB) error {
	if err := ensureAccountBalance(tx, t.UserID); err != nil {
		return err
	}
	return tx.Model(&AccountBalance{}).
		Where("user_id = ?", t.UserID).
		Update("balance", gorm.Expr("balance + ?", t.SignedAmount())).Error
}

// BeforeUpdate rejects edits to ledger entries.
func (t *AccountTransaction) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

// AfterCreate recomputes the owner's outstanding due total.
func (d *DueRecord) AfterCreate(tx *gorm.DB) error {
	return RefreshTotalDue(tx, d.UserID)
}

// AfterUpdate recomputes the owner's outstanding due total. Updates must be
// issued with the loaded record as the model so the owner is known.
func (d *DueRecord) AfterUpdate(tx *gorm.DB) error {
	return RefreshTotalDue(tx, d.UserID)
}

// RefreshTotalDue sets total_due_balance to the sum of the owner's unpaid dues.
// The balance row is locked first so concurrent recomputations serialise and
// each one sees the others' committed dues.
func RefreshTotalDue(tx *gorm.DB, userID uuid.UUID) error {
	if err := lockAccountBalance(tx, userID); err != nil {
		return err
	}

	var total decimal.Decimal
	err := tx.Model(&DueRecord{}).
		Select("COALESCE(SUM(amount_due), 0)").
		Where("user_id = ? AND is_paid = ?", userID, false).
		Row().Scan(&total)
	if err != nil {
		return err
	}

	return tx.Model(&AccountBalance{}).
		Where("user_id = ?", userID).
		Update("total_due_balance", total).Error
}

// RebuildBalance recomputes the cash balance from the remaining ledger entries.
func RebuildBalance(tx *gorm.DB, userID uuid.UUID) error {
	if err := lockAccountBalance(tx, userID); err != nil {
		return err
	}

	var credits, debits decimal.Decimal
	sum := func(kind enum.TransactionType, dst *decimal.Decimal) error {
		return tx.Model(&AccountTransaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("user_id = ? AND type = ?", userID, kind).
			Row().Scan(dst)
	}
	if err := sum(enum.TransactionCredit, &credits); err != nil {
		return err
	}
	if err := sum(enum.TransactionDebit, &debits); err != nil {
		return err
	}

	return tx.Model(&AccountBalance{}).
		Where("user_id = ?", userID).
		Update("balance", credits.Sub(debits)).Error
}

func ensureAccountBalance(tx *gorm.DB, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrBalanceOwnerUnknown
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(ZeroBalance(userID)).Error
}

func lockAccountBalance(tx *gorm.DB, userID uuid.UUID) error {
	if err := ensureAccountBalance(tx, userID); err != nil {
		return err
	}
	var row AccountBalance
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&row).Error
}
