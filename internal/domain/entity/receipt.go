package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt is an immutable record of a sale. ReceiptNumber is unique per owner.
type Receipt struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_receipts_user_number,priority:1" json:"-"`
	ReceiptNumber   string             `gorm:"size:32;not null;uniqueIndex:idx_receipts_user_number,priority:2" json:"receipt_number"`
	Date            time.Time          `gorm:"type:date;not null;index" json:"date"`
	CustomerName    string             `gorm:"size:255;not null" json:"customer_name"`
	CustomerContact string             `gorm:"size:50;not null" json:"customer_contact"`
	CountryCode     string             `gorm:"size:8" json:"country_code,omitempty"`
	PaymentType     enum.PaymentType   `gorm:"size:16;not null" json:"payment_type"`
	PaymentStatus   enum.PaymentStatus `gorm:"size:16;not null" json:"payment_status"`
	Notes           *string            `gorm:"type:text" json:"notes,omitempty"`
	Total           decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"total"`
	AmountPaid      decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"amount_paid"`
	DueTotal        decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"due_total"`
	CreatedAt       time.Time          `json:"created_at"`

	// Relationships
	User           *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items          []ReceiptItem   `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	PaymentDetails *PaymentDetails `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"payment_details,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeUpdate keeps issued receipts immutable.
func (r *Receipt) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptItem is one line of a receipt.
type ReceiptItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position      int             `gorm:"not null" json:"position"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	AdvanceAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"advance_amount"`
	DueAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"due_amount"`
}

// BeforeCreate generates a UUID before creating a new receipt item
func (i *ReceiptItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}

// LineTotal is quantity times unit price.
func (i *ReceiptItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PaymentDetails records how an online payment was made. At most one per receipt.
type PaymentDetails struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	ReceiptID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	CardNumber  *string   `gorm:"size:32" json:"card_number,omitempty"`
	PhoneNumber *string   `gorm:"size:32" json:"phone_number,omitempty"`
	CountryCode *string   `gorm:"size:8" json:"country_code,omitempty"`
}

// BeforeCreate generates a UUID before creating new payment details
func (p *PaymentDetails) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentDetails model
func (PaymentDetails) TableName() string {
	return "payment_details"
}
