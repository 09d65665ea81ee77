package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
)

// UserRepository defines the interface for user data operations.
// Lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByProvider(ctx context.Context, provider, providerID string) (*entity.User, error)
	// LockByID loads the user with a row lock held until the surrounding
	// transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile ProfileFields) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	LinkProvider(ctx context.Context, id uuid.UUID, provider, providerID string) error
}

// ProfileFields are the user columns an owner may edit.
type ProfileFields struct {
	Name             string
	StoreName        *string
	StoreAddress     *string
	StorePhone       *string
	StoreCountryCode *string
}
