package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DueService manages money owed by customers
type DueService struct {
	transactor     repository.Transactor
	dueRepo        repository.DueRecordRepository
	accountRepo    repository.AccountRepository
	dueDefaultDays int
	logger         *zap.Logger
	now            func() time.Time
}

// NewDueService creates a new due service
func NewDueService(
	transactor repository.Transactor,
	dueRepo repository.DueRecordRepository,
	accountRepo repository.AccountRepository,
	dueDefaultDays int,
	logger *zap.Logger,
) *DueService {
	return &DueService{
		transactor:     transactor,
		dueRepo:        dueRepo,
		accountRepo:    accountRepo,
		dueDefaultDays: dueDefaultDays,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateDueInput represents a due recorded without a receipt
type CreateDueInput struct {
	UserID              uuid.UUID
	CustomerName        string
	CustomerContact     string
	CountryCode         string
	ProductOrdered      string
	Quantity            int
	AmountDue           decimal.Decimal
	ExpectedPaymentDate *time.Time
	ReceiptNumber       *string
}

// CreateDue records a due directly
func (s *DueService) CreateDue(ctx context.Context, input *CreateDueInput) (*entity.DueRecord, error) {
	var errs fieldErrors
	errs.required("customer_name", input.CustomerName)
	errs.required("customer_contact", input.CustomerContact)
	errs.required("product_ordered", input.ProductOrdered)
	if input.Quantity <= 0 {
		errs.add("quantity", "must be greater than zero")
	}
	errs.positiveMoney("amount_due", input.AmountDue)
	today := dateOnly(s.now())
	if input.ExpectedPaymentDate != nil && dateOnly(*input.ExpectedPaymentDate).Before(today) {
		errs.add("expected_payment_date", "must not be in the past")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	expected := today.AddDate(0, 0, s.dueDefaultDays)
	if input.ExpectedPaymentDate != nil {
		expected = dateOnly(*input.ExpectedPaymentDate)
	}

	var receiptNumber *string
	if !blank(input.ReceiptNumber) {
		trimmed := strings.TrimSpace(*input.ReceiptNumber)
		receiptNumber = &trimmed
	}

	due := &entity.DueRecord{
		UserID:              input.UserID,
		CustomerName:        strings.TrimSpace(input.CustomerName),
		CustomerContact:     strings.TrimSpace(input.CustomerContact),
		CountryCode:         strings.TrimSpace(input.CountryCode),
		ProductOrdered:      strings.TrimSpace(input.ProductOrdered),
		Quantity:            input.Quantity,
		AmountDue:           input.AmountDue,
		ExpectedPaymentDate: expected,
		ReceiptNumber:       receiptNumber,
	}
	if err := s.dueRepo.Create(ctx, due); err != nil {
		s.logger.Error("create due failed", zap.String("user_id", input.UserID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("due recorded",
		zap.String("user_id", input.UserID.String()),
		zap.String("due_id", due.ID.String()),
		zap.String("amount_due", due.AmountDue.StringFixed(2)))
	return due, nil
}

// SettlementResult holds the settled due and the credit it produced
type SettlementResult struct {
	DueRecord   *entity.DueRecord
	Transaction *entity.AccountTransaction
}

// SettleDue marks an unpaid due as paid and credits its amount to the ledger,
// exactly once. A due that is already paid yields ErrAlreadySettled.
func (s *DueService) SettleDue(ctx context.Context, userID, dueID uuid.UUID) (*SettlementResult, error) {
	result := &SettlementResult{}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		due, err := s.dueRepo.GetByID(ctx, userID, dueID)
		if err != nil {
			return fmt.Errorf("load due record: %w", err)
		}
		if due == nil {
			return apperror.NewNotFoundError("Due record")
		}
		if due.IsPaid {
			return apperror.ErrAlreadySettled
		}

		paidAt := s.now().UTC()
		updated, err := s.dueRepo.MarkPaid(ctx, due, paidAt)
		if err != nil {
			return fmt.Errorf("mark due paid: %w", err)
		}
		if !updated {
			return apperror.ErrAlreadySettled
		}
		due.IsPaid = true
		due.PaidAt = &paidAt

		txn := &entity.AccountTransaction{
			UserID:      userID,
			Particulars: truncate(settlementParticulars(due), maxParticularsLength),
			Amount:      due.AmountDue,
			Type:        enum.TransactionCredit,
			DueRecordID: &due.ID,
		}
		if err := s.accountRepo.CreateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("insert settlement credit: %w", err)
		}

		result.DueRecord = due
		result.Transaction = txn
		return nil
	})
	if err != nil {
		if !apperror.IsAppError(err) {
			s.logger.Error("settle due failed",
				zap.String("user_id", userID.String()),
				zap.String("due_id", dueID.String()),
				zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("due settled",
		zap.String("user_id", userID.String()),
		zap.String("due_id", dueID.String()),
		zap.String("amount", result.Transaction.Amount.StringFixed(2)))
	return result, nil
}

func settlementParticulars(due *entity.DueRecord) string {
	if due.ReceiptNumber != nil && *due.ReceiptNumber != "" {
		return fmt.Sprintf("Due payment from %s (receipt %s)", due.CustomerName, *due.ReceiptNumber)
	}
	return "Due payment from " + due.CustomerName
}

// ListDues lists unpaid dues by expected payment date, or paid dues newest first
func (s *DueService) ListDues(ctx context.Context, userID uuid.UUID, params *repository.DueFilterParams) (*pagination.PaginatedResult[entity.DueRecord], error) {
	params.Pagination = validPagination(params.Pagination)
	dues, total, err := s.dueRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range dues {
		dues[i].Overdue = dues[i].IsOverdue(now)
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(dues, p), nil
}
