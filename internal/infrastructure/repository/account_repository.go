package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/pagination"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account ledger repository
func NewAccountRepository(db *gorm.DB) domainRepo.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateTransaction(ctx context.Context, txn *entity.AccountTransaction) error {
	return translateError(conn(ctx, r.db).Create(txn).Error)
}

func (r *accountRepository) ListTransactions(ctx context.Context, userID uuid.UUID, params *domainRepo.TransactionFilterParams) ([]entity.AccountTransaction, int64, error) {
	var txns []entity.AccountTransaction
	var total int64

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	query := conn(ctx, r.db).Model(&entity.AccountTransaction{}).Scopes(OwnerScope(userID))

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at < ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Order("reference DESC").
		Find(&txns).Error

	return txns, total, err
}

func (r *accountRepository) CountByDueRecord(ctx context.Context, dueRecordID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.AccountTransaction{}).
		Where("due_record_id = ?", dueRecordID).
		Count(&count).Error
	return count, err
}

func (r *accountRepository) GetBalance(ctx context.Context, userID uuid.UUID) (*entity.AccountBalance, error) {
	var balance entity.AccountBalance
	err := conn(ctx, r.db).First(&balance, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.ZeroBalance(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *accountRepository) ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error) {
	var deleted int64
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", userID).Delete(&entity.AccountTransaction{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return entity.RebuildBalance(tx, userID)
	})
	return deleted, err
}
