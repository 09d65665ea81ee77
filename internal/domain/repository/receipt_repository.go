package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/pkg/pagination"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	CreateItems(ctx context.Context, items []entity.ReceiptItem) error
	CreatePaymentDetails(ctx context.Context, details *entity.PaymentDetails) error
	ExistsByNumber(ctx context.Context, userID uuid.UUID, receiptNumber string) (bool, error)
	// LatestNumber returns the user's highest receipt number starting with
	// prefix, longest first so counters past the padding width still sort
	// last, or "" when there is none.
	LatestNumber(ctx context.Context, userID uuid.UUID, prefix string) (string, error)
	GetWithDetails(ctx context.Context, userID, id uuid.UUID) (*entity.Receipt, error)
	List(ctx context.Context, userID uuid.UUID, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
}

// ReceiptFilterParams contains filtering parameters for receipt queries
type ReceiptFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	PaymentStatus *enum.PaymentStatus
	StartDate     *time.Time
	EndDate       *time.Time
}
