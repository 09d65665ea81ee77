package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a store owner. Every other record belongs to exactly one user.
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Email            string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"size:255" json:"-"`
	Superkey         string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Provider         string    `gorm:"size:50;default:'local'" json:"provider"`
	ProviderID       *string   `gorm:"size:255;index" json:"-"`
	StoreName        *string   `gorm:"size:255" json:"store_name,omitempty"`
	StoreAddress     *string   `gorm:"type:text" json:"store_address,omitempty"`
	StorePhone       *string   `gorm:"size:50" json:"store_phone,omitempty"`
	StoreCountryCode *string   `gorm:"size:8" json:"store_country_code,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// ProfileComplete is derived from the store fields a receipt header needs.
func (u *User) ProfileComplete() bool {
	return nonBlank(u.StoreName) && nonBlank(u.StoreAddress) && nonBlank(u.StorePhone)
}

// HasPassword is false for accounts created through Google sign-in.
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// MarshalJSON adds the derived profile_complete flag.
func (u User) MarshalJSON() ([]byte, error) {
	type Alias User
	return json.Marshal(&struct {
		Alias
		ProfileComplete bool `json:"profile_complete"`
	}{
		Alias:           Alias(u),
		ProfileComplete: u.ProfileComplete(),
	})
}

func nonBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
