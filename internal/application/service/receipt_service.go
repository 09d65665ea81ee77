package service

import (
	"context"
	"errors"
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

const maxParticularsLength = 255

// ReceiptService handles receipt creation and lookup
type ReceiptService struct {
	transactor     repository.Transactor
	userRepo       repository.UserRepository
	receiptRepo    repository.ReceiptRepository
	dueRepo        repository.DueRecordRepository
	accountRepo    repository.AccountRepository
	dueDefaultDays int
	logger         *zap.Logger
	now            func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	receiptRepo repository.ReceiptRepository,
	dueRepo repository.DueRecordRepository,
	accountRepo repository.AccountRepository,
	dueDefaultDays int,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		transactor:     transactor,
		userRepo:       userRepo,
		receiptRepo:    receiptRepo,
		dueRepo:        dueRepo,
		accountRepo:    accountRepo,
		dueDefaultDays: dueDefaultDays,
		logger:         logger,
		now:            time.Now,
	}
}

// ReceiptItemInput represents one line of a new receipt
type ReceiptItemInput struct {
	Description   string
	Quantity      int
	Price         decimal.Decimal
	AdvanceAmount *decimal.Decimal
	DueAmount     *decimal.Decimal
}

// LineTotal is quantity times unit price.
func (i ReceiptItemInput) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PaymentDetailsInput represents how an online payment was made
type PaymentDetailsInput struct {
	CardNumber  *string
	PhoneNumber *string
	CountryCode *string
}

// CreateReceiptInput represents the input for creating a receipt
type CreateReceiptInput struct {
	UserID              uuid.UUID
	ReceiptNumber       string
	Date                time.Time
	CustomerName        string
	CustomerContact     string
	CountryCode         string
	PaymentType         enum.PaymentType
	PaymentStatus       enum.PaymentStatus
	Notes               *string
	ExpectedPaymentDate *time.Time
	Items               []ReceiptItemInput
	PaymentDetails      *PaymentDetailsInput
}

// CreateReceiptOutput holds every row written for a receipt
type CreateReceiptOutput struct {
	Receipt     *entity.Receipt
	DueRecord   *entity.DueRecord
	Transaction *entity.AccountTransaction
}

// CreateReceipt persists a receipt with its items, optional payment details,
// optional due record and optional ledger credit in one transaction.
func (s *ReceiptService) CreateReceipt(ctx context.Context, input *CreateReceiptInput) (*CreateReceiptOutput, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	amounts := DeriveReceiptAmounts(input.PaymentStatus, input.Items)
	number := strings.TrimSpace(input.ReceiptNumber)
	customer := strings.TrimSpace(input.CustomerName)
	out := &CreateReceiptOutput{}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		// the owner row lock serialises numbering for this user
		owner, err := s.userRepo.LockByID(ctx, input.UserID)
		if err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}
		if owner == nil {
			return apperror.ErrUnauthorized
		}

		exists, err := s.receiptRepo.ExistsByNumber(ctx, input.UserID, number)
		if err != nil {
			return fmt.Errorf("check receipt number: %w", err)
		}
		if exists {
			return apperror.ErrReceiptNumberTaken
		}

		receipt := &entity.Receipt{
			UserID:          input.UserID,
			ReceiptNumber:   number,
			Date:            dateOnly(input.Date),
			CustomerName:    customer,
			CustomerContact: strings.TrimSpace(input.CustomerContact),
			CountryCode:     strings.TrimSpace(input.CountryCode),
			PaymentType:     input.PaymentType,
			PaymentStatus:   input.PaymentStatus,
			Notes:           input.Notes,
			Total:           amounts.Total,
			AmountPaid:      amounts.PaidNow,
			DueTotal:        amounts.DueTotal,
		}
		if err := s.receiptRepo.Create(ctx, receipt); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.ErrReceiptNumberTaken
			}
			return fmt.Errorf("insert receipt: %w", err)
		}

		items := buildReceiptItems(receipt.ID, input.PaymentStatus, input.Items)
		if err := s.receiptRepo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("insert receipt items: %w", err)
		}
		receipt.Items = items

		if pd := input.PaymentDetails; pd != nil {
			details := &entity.PaymentDetails{
				ReceiptID:   receipt.ID,
				PhoneNumber: pd.PhoneNumber,
				CountryCode: pd.CountryCode,
			}
			if pd.CardNumber != nil {
				masked := maskCardNumber(*pd.CardNumber)
				details.CardNumber = &masked
			}
			if err := s.receiptRepo.CreatePaymentDetails(ctx, details); err != nil {
				return fmt.Errorf("insert payment details: %w", err)
			}
			receipt.PaymentDetails = details
		}

		if input.PaymentStatus.LeavesDue() && amounts.DueTotal.IsPositive() {
			product, quantity := describeItems(input.Items)
			due := &entity.DueRecord{
				UserID:              input.UserID,
				CustomerName:        customer,
				CustomerContact:     receipt.CustomerContact,
				CountryCode:         receipt.CountryCode,
				ProductOrdered:      product,
				Quantity:            quantity,
				AmountDue:           amounts.DueTotal,
				ExpectedPaymentDate: s.expectedPaymentDate(input.ExpectedPaymentDate),
				ReceiptNumber:       &number,
			}
			if err := s.dueRepo.Create(ctx, due); err != nil {
				return fmt.Errorf("insert due record: %w", err)
			}
			out.DueRecord = due
		}

		if amounts.PaidNow.IsPositive() {
			txn := &entity.AccountTransaction{
				UserID:      input.UserID,
				Particulars: truncate(fmt.Sprintf("Receipt %s: payment from %s", number, customer), maxParticularsLength),
				Amount:      amounts.PaidNow,
				Type:        enum.TransactionCredit,
				ReceiptID:   &receipt.ID,
			}
			if err := s.accountRepo.CreateTransaction(ctx, txn); err != nil {
				return fmt.Errorf("insert receipt payment: %w", err)
			}
			out.Transaction = txn
		}

		out.Receipt = receipt
		return nil
	})
	if err != nil {
		if !apperror.IsAppError(err) {
			s.logger.Error("create receipt failed",
				zap.String("user_id", input.UserID.String()),
				zap.String("receipt_number", number),
				zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("receipt created",
		zap.String("user_id", input.UserID.String()),
		zap.String("receipt_number", number),
		zap.String("total", amounts.Total.StringFixed(2)),
		zap.String("due_total", amounts.DueTotal.StringFixed(2)))

	return out, nil
}

func (s *ReceiptService) validate(input *CreateReceiptInput) error {
	var errs fieldErrors

	errs.required("receipt_number", input.ReceiptNumber)
	if input.Date.IsZero() {
		errs.add("date", "is required")
	}
	errs.required("customer_name", input.CustomerName)
	errs.required("customer_contact", input.CustomerContact)
	if !input.PaymentType.IsValid() {
		errs.add("payment_type", "must be cash or online")
	}
	if !input.PaymentStatus.IsValid() {
		errs.add("payment_status", "must be full, advance or due")
	}

	if len(input.Items) == 0 {
		errs.add("items", "must contain at least one item")
	}
	total := decimal.Zero
	lineTooLarge := false
	for i, item := range input.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		errs.required(prefix+"description", item.Description)
		if item.Quantity <= 0 {
			errs.add(prefix+"quantity", "must be greater than zero")
		}
		errs.money(prefix+"price", item.Price)
		switch {
		case item.Price.GreaterThanOrEqual(maxAmount):
			lineTooLarge = true
		case item.Quantity > 0 && item.LineTotal().GreaterThanOrEqual(maxAmount):
			errs.add(prefix+"price", "quantity times price must be less than "+maxAmount.String())
			lineTooLarge = true
		}
		total = total.Add(item.LineTotal())

		switch input.PaymentStatus {
		case enum.PaymentStatusAdvance:
			errs.partialAmount(prefix+"advance_amount", item.AdvanceAmount, item.LineTotal())
		case enum.PaymentStatusDue:
			errs.partialAmount(prefix+"due_amount", item.DueAmount, item.LineTotal())
		}
	}

	if !lineTooLarge && total.GreaterThanOrEqual(maxAmount) {
		errs.add("items", "receipt total must be less than "+maxAmount.String())
	}

	if input.ExpectedPaymentDate != nil && !input.Date.IsZero() &&
		dateOnly(*input.ExpectedPaymentDate).Before(dateOnly(input.Date)) {
		errs.add("expected_payment_date", "must not be before the receipt date")
	}

	if pd := input.PaymentDetails; pd != nil && blank(pd.CardNumber) && blank(pd.PhoneNumber) {
		errs.add("payment_details", "needs a card number or a phone number")
	}

	return errs.err()
}

// partialAmount checks an advance or due amount against its line total.
func (f *fieldErrors) partialAmount(field string, amount *decimal.Decimal, lineTotal decimal.Decimal) {
	if amount == nil {
		f.add(field, "is required for this payment status")
		return
	}
	f.money(field, *amount)
	if amount.GreaterThan(lineTotal) {
		f.add(field, "must not exceed quantity times price")
	}
}

func (s *ReceiptService) expectedPaymentDate(requested *time.Time) time.Time {
	if requested != nil {
		return dateOnly(*requested)
	}
	return dateOnly(s.now()).AddDate(0, 0, s.dueDefaultDays)
}

// NextReceiptNumber returns the number the user's next receipt should carry.
// It is a suggestion: concurrent callers may be handed the same number, and
// the loser of the race gets ErrReceiptNumberTaken on create.
func (s *ReceiptService) NextReceiptNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperror.NewNotFoundError("User")
	}

	storeName := ""
	if user.StoreName != nil {
		storeName = *user.StoreName
	}
	prefix, ok := ReceiptNumberPrefix(storeName, user.Name)
	if !ok {
		return "", apperror.ErrProfileIncomplete
	}

	latest, err := s.receiptRepo.LatestNumber(ctx, userID, prefix)
	if err != nil {
		return "", err
	}
	return FormatReceiptNumber(prefix, NextReceiptCounter(prefix, latest)), nil
}

// GetReceipt returns a receipt with its items and payment details
func (s *ReceiptService) GetReceipt(ctx context.Context, userID, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithDetails(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceipts lists the user's receipts, newest first
func (s *ReceiptService) ListReceipts(ctx context.Context, userID uuid.UUID, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	params.Pagination = validPagination(params.Pagination)
	receipts, total, err := s.receiptRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(receipts, p), nil
}

func validPagination(p *pagination.PaginationParams) *pagination.PaginationParams {
	if p == nil {
		p = pagination.DefaultPagination()
	}
	p.Validate()
	return p
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
