package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/pkg/pagination"
)

// AccountRepository defines the interface for the cash ledger
type AccountRepository interface {
	CreateTransaction(ctx context.Context, txn *entity.AccountTransaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID, params *TransactionFilterParams) ([]entity.AccountTransaction, int64, error)
	CountByDueRecord(ctx context.Context, dueRecordID uuid.UUID) (int64, error)
	// GetBalance returns a zero balance for users without ledger activity.
	GetBalance(ctx context.Context, userID uuid.UUID) (*entity.AccountBalance, error)
	// ClearHistory deletes every ledger entry of the user and rebuilds the
	// balance from what remains.
	ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error)
}

// TransactionFilterParams contains filtering parameters for ledger queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.TransactionType
	StartDate  *time.Time
	EndDate    *time.Time
}
