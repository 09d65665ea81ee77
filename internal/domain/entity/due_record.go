package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DueRecord is money a customer still owes. It moves from unpaid to paid
// exactly once and never back.
type DueRecord struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID              uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	CustomerName        string          `gorm:"size:255;not null" json:"customer_name"`
	CustomerContact     string          `gorm:"size:50;not null" json:"customer_contact"`
	CountryCode         string          `gorm:"size:8" json:"country_code,omitempty"`
	ProductOrdered      string          `gorm:"type:text;not null" json:"product_ordered"`
	Quantity            int             `gorm:"not null" json:"quantity"`
	AmountDue           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount_due"`
	ExpectedPaymentDate time.Time       `gorm:"type:date;not null" json:"expected_payment_date"`
	IsPaid              bool            `gorm:"not null;default:false;index" json:"is_paid"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
	ReceiptNumber       *string         `gorm:"size:32;index" json:"receipt_number,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	// Overdue is computed when dues are listed.
	Overdue bool `gorm:"-" json:"overdue"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate generates a UUID before creating a new due record
func (d *DueRecord) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DueRecord model
func (DueRecord) TableName() string {
	return "due_records"
}

// IsOverdue reports whether an unpaid due has passed its expected date.
func (d *DueRecord) IsOverdue(now time.Time) bool {
	if d.IsPaid {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.ExpectedPaymentDate.Before(today)
}
