package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountBalance holds the per-user aggregates. The row is created lazily and
// is only ever written by the hooks in balance_rule.go.
type AccountBalance struct {
	UserID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	Balance         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"balance"`
	TotalDueBalance decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_due_balance"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for the AccountBalance model
func (AccountBalance) TableName() string {
	return "account_balances"
}

// ZeroBalance is what a user with no ledger activity sees.
func ZeroBalance(userID uuid.UUID) *AccountBalance {
	return &AccountBalance{
		UserID:          userID,
		Balance:         decimal.Zero,
		TotalDueBalance: decimal.Zero,
	}
}
