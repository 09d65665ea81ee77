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

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return translateError(conn(ctx, r.db).Omit("Items", "PaymentDetails").Create(receipt).Error)
}

func (r *receiptRepository) CreateItems(ctx context.Context, items []entity.ReceiptItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn(ctx, r.db).CreateInBatches(items, 100).Error
}

func (r *receiptRepository) CreatePaymentDetails(ctx context.Context, details *entity.PaymentDetails) error {
	return translateError(conn(ctx, r.db).Create(details).Error)
}

func (r *receiptRepository) ExistsByNumber(ctx context.Context, userID uuid.UUID, receiptNumber string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Receipt{}).
		Scopes(OwnerScope(userID)).
		Where("receipt_number = ?", receiptNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *receiptRepository) LatestNumber(ctx context.Context, userID uuid.UUID, prefix string) (string, error) {
	var numbers []string
	err := conn(ctx, r.db).Model(&entity.Receipt{}).
		Scopes(OwnerScope(userID)).
		Where("receipt_number LIKE ?", prefix+"-%").
		Order("LENGTH(receipt_number) DESC").
		Order("receipt_number DESC").
		Limit(1).
		Pluck("receipt_number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}

func (r *receiptRepository) GetWithDetails(ctx context.Context, userID, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).
		Scopes(OwnerScope(userID)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("PaymentDetails").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	query := conn(ctx, r.db).Model(&entity.Receipt{}).
		Scopes(OwnerScope(userID), SearchScope(params.Search, "receipt_number", "customer_name", "customer_contact"))

	if params.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *params.PaymentStatus)
	}
	if params.StartDate != nil {
		query = query.Where("date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("date DESC").
		Order("receipt_number DESC").
		Find(&receipts).Error

	return receipts, total, err
}
