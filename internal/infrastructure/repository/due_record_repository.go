package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/pagination"
	"gorm.io/gorm"
)

type dueRecordRepository struct {
	db *gorm.DB
}

// NewDueRecordRepository creates a new due record repository
func NewDueRecordRepository(db *gorm.DB) domainRepo.DueRecordRepository {
	return &dueRecordRepository{db: db}
}

func (r *dueRecordRepository) Create(ctx context.Context, due *entity.DueRecord) error {
	return translateError(conn(ctx, r.db).Create(due).Error)
}

func (r *dueRecordRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.DueRecord, error) {
	var due entity.DueRecord
	err := conn(ctx, r.db).
		Scopes(OwnerScope(userID)).
		First(&due, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &due, nil
}

// MarkPaid issues a conditioned update so that of two concurrent settlements
// only one can affect a row.
func (r *dueRecordRepository) MarkPaid(ctx context.Context, due *entity.DueRecord, paidAt time.Time) (bool, error) {
	result := conn(ctx, r.db).Model(due).
		Where("user_id = ? AND is_paid = ?", due.UserID, false).
		Updates(map[string]interface{}{
			"is_paid": true,
			"paid_at": paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *dueRecordRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.DueFilterParams) ([]entity.DueRecord, int64, error) {
	var dues []entity.DueRecord
	var total int64

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	query := conn(ctx, r.db).Model(&entity.DueRecord{}).
		Scopes(OwnerScope(userID), SearchScope(params.Search, "customer_name", "customer_contact", "receipt_number")).
		Where("is_paid = ?", params.Paid)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	if params.Paid {
		query = query.Order("paid_at DESC")
	} else {
		query = query.Order("expected_payment_date ASC").Order("created_at ASC")
	}

	err := query.Order("id ASC").Find(&dues).Error
	return dues, total, err
}
