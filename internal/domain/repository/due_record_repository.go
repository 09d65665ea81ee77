package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/pkg/pagination"
)

// DueRecordRepository defines the interface for due record data operations
type DueRecordRepository interface {
	Create(ctx context.Context, due *entity.DueRecord) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.DueRecord, error)
	// MarkPaid flips an unpaid due to paid. It reports false when the due was
	// already paid, in which case nothing is written.
	MarkPaid(ctx context.Context, due *entity.DueRecord, paidAt time.Time) (bool, error)
	List(ctx context.Context, userID uuid.UUID, params *DueFilterParams) ([]entity.DueRecord, int64, error)
}

// DueFilterParams contains filtering parameters for due record queries
type DueFilterParams struct {
	Pagination *pagination.PaginationParams
	Paid       bool
	Search     string
}
