package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return translateError(conn(ctx, r.db).Create(user).Error)
}

func (r *userRepository) first(query *gorm.DB) (*entity.User, error) {
	var user entity.User
	err := query.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.first(conn(ctx, r.db).Where("id = ?", id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(conn(ctx, r.db).Where("email = ?", email))
}

func (r *userRepository) GetByProvider(ctx context.Context, provider, providerID string) (*entity.User, error) {
	return r.first(conn(ctx, r.db).Where("provider = ? AND provider_id = ?", provider, providerID))
}

func (r *userRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.first(conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, profile domainRepo.ProfileFields) error {
	return conn(ctx, r.db).Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":               profile.Name,
			"store_name":         profile.StoreName,
			"store_address":      profile.StoreAddress,
			"store_phone":        profile.StorePhone,
			"store_country_code": profile.StoreCountryCode,
		}).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return conn(ctx, r.db).Model(&entity.User{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error
}

func (r *userRepository) LinkProvider(ctx context.Context, id uuid.UUID, provider, providerID string) error {
	return conn(ctx, r.db).Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"provider": provider, "provider_id": providerID}).Error
}
