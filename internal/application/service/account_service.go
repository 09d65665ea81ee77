package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/pagination"
	"github.com/sangkips/billbook-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountService handles the cash ledger
type AccountService struct {
	transactor  repository.Transactor
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	logger      *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		transactor:  transactor,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// RecordEntryInput represents a manual ledger entry
type RecordEntryInput struct {
	UserID      uuid.UUID
	Particulars string
	Amount      decimal.Decimal
	Type        enum.TransactionType
}

// RecordEntry adds a manual credit or debit to the ledger
func (s *AccountService) RecordEntry(ctx context.Context, input *RecordEntryInput) (*entity.AccountTransaction, error) {
	var errs fieldErrors
	errs.required("particulars", input.Particulars)
	if len([]rune(strings.TrimSpace(input.Particulars))) > maxParticularsLength {
		errs.add("particulars", "must be at most 255 characters")
	}
	errs.positiveMoney("amount", input.Amount)
	if !input.Type.IsValid() {
		errs.add("type", "must be credit or debit")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	txn := &entity.AccountTransaction{
		UserID:      input.UserID,
		Particulars: strings.TrimSpace(input.Particulars),
		Amount:      input.Amount,
		Type:        input.Type,
	}
	if err := s.accountRepo.CreateTransaction(ctx, txn); err != nil {
		s.logger.Error("record ledger entry failed", zap.String("user_id", input.UserID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("ledger entry recorded",
		zap.String("user_id", input.UserID.String()),
		zap.String("reference", txn.Reference),
		zap.String("type", txn.Type.String()),
		zap.String("amount", txn.Amount.StringFixed(2)))
	return txn, nil
}

// TransactionHistory is a page of ledger entries with the current aggregates
type TransactionHistory struct {
	Transactions    []entity.AccountTransaction `json:"transactions"`
	Pagination      *pagination.Pagination      `json:"pagination"`
	Balance         decimal.Decimal             `json:"balance"`
	TotalDueBalance decimal.Decimal             `json:"total_due_balance"`
}

// History returns a page of the ledger, newest first, with balances read in
// the same transaction.
func (s *AccountService) History(ctx context.Context, userID uuid.UUID, params *repository.TransactionFilterParams) (*TransactionHistory, error) {
	params.Pagination = validPagination(params.Pagination)
	history := &TransactionHistory{}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		txns, total, err := s.accountRepo.ListTransactions(ctx, userID, params)
		if err != nil {
			return err
		}
		balance, err := s.accountRepo.GetBalance(ctx, userID)
		if err != nil {
			return err
		}
		if txns == nil {
			txns = []entity.AccountTransaction{}
		}
		history.Transactions = txns
		history.Pagination = pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
		history.Balance = balance.Balance
		history.TotalDueBalance = balance.TotalDueBalance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// Balance returns the user's current aggregates
func (s *AccountService) Balance(ctx context.Context, userID uuid.UUID) (*entity.AccountBalance, error) {
	return s.accountRepo.GetBalance(ctx, userID)
}

// ClearHistory deletes every ledger entry after re-checking the password.
// Due records are untouched, so total_due_balance is kept.
func (s *AccountService) ClearHistory(ctx context.Context, userID uuid.UUID, password string) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, apperror.ErrUnauthorized
	}
	if !user.HasPassword() {
		return 0, apperror.NewBadRequestError("Set a password before clearing the transaction history")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return 0, apperror.ErrIncorrectPassword
	}

	var deleted int64
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		deleted, err = s.accountRepo.ClearHistory(ctx, userID)
		return err
	})
	if err != nil {
		s.logger.Error("clear history failed", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, err
	}

	s.logger.Info("transaction history cleared",
		zap.String("user_id", userID.String()),
		zap.Int64("deleted", deleted))
	return deleted, nil
}
