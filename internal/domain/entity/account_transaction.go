package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/pkg/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountTransaction is one immutable entry of a user's cash ledger.
// DueRecordID is unique so a due can be settled into the ledger only once.
type AccountTransaction struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID            `gorm:"type:uuid;not null;index:idx_account_tx_user_created,priority:1" json:"-"`
	Reference   string               `gorm:"size:32;not null;uniqueIndex" json:"reference"`
	Particulars string               `gorm:"size:255;not null" json:"particulars"`
	Amount      decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"amount"`
	Type        enum.TransactionType `gorm:"size:10;not null" json:"type"`
	ReceiptID   *uuid.UUID           `gorm:"type:uuid;index" json:"receipt_id,omitempty"`
	DueRecordID *uuid.UUID           `gorm:"type:uuid;uniqueIndex" json:"due_record_id,omitempty"`
	CreatedAt   time.Time            `gorm:"index:idx_account_tx_user_created,priority:2" json:"created_at"`

	// Relationships
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Receipt   *Receipt   `gorm:"foreignKey:ReceiptID;constraint:OnDelete:SET NULL" json:"-"`
	DueRecord *DueRecord `gorm:"foreignKey:DueRecordID;constraint:OnDelete:SET NULL" json:"-"`
}

// BeforeCreate assigns the id and the ledger reference.
func (t *AccountTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Reference == "" {
		t.Reference = utils.NewLedgerReference()
	}
	return nil
}

// TableName returns the table name for the AccountTransaction model
func (AccountTransaction) TableName() string {
	return "account_transactions"
}

// SignedAmount is positive for credits and negative for debits.
func (t *AccountTransaction) SignedAmount() decimal.Decimal {
	if t.Type == enum.TransactionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
