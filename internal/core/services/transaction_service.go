package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transactionService implements the TransactionSvcFacade interface.
// Incomes and expenses are written directly; debts always go through the ledger.
type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	ledger       portssvc.DebtLedgerWriterSvc
	categoryRepo portsrepo.CategoryReader
	parser       portssvc.TransactionParser
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionParser enables free text input.
func WithTransactionParser(parser portssvc.TransactionParser) TransactionServiceOption {
	return func(s *transactionService) {
		s.parser = parser
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	ledger portssvc.DebtLedgerWriterSvc,
	categoryRepo portsrepo.CategoryReader,
	options ...TransactionServiceOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:      txnRepo,
		ledger:       ledger,
		categoryRepo: categoryRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	txnType := domain.TransactionType(strings.ToLower(req.Type))
	if !txnType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid transaction type %q", req.Type))
	}

	params := domain.TransactionParams{
		UserID:     userID,
		Type:       txnType,
		CategoryID: normalizeOptionalID(req.CategoryID),
		PersonID:   normalizeOptionalID(req.PersonID),
		CreatedBy:  userID,
	}
	if req.Amount != nil {
		params.Amount = *req.Amount
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.DebtType != nil {
		debtType := domain.DebtType(*req.DebtType)
		params.DebtType = &debtType
	}
	if req.Date != nil {
		params.Date = req.Date.UTC()
	}

	if input := strings.TrimSpace(req.Input); input != "" {
		if err := s.applyParsedInput(ctx, input, &params, req); err != nil {
			return nil, err
		}
	}

	if params.Amount.IsZero() && req.Amount == nil {
		return nil, apperrors.NewValidationError("amount is required")
	}

	if txnType == domain.Debt {
		if params.DebtType == nil {
			return nil, apperrors.NewValidationError("debtType is required for debt transactions")
		}
		if params.PersonID == nil {
			return nil, apperrors.NewValidationError("person is required for debt transactions")
		}
		return s.ledger.CreateDebt(ctx, userID, params)
	}

	if err := s.checkCategory(ctx, userID, params.CategoryID, txnType); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	params.TransactionID = uuid.NewString()
	params.CreatedAt = now
	if params.Date.IsZero() {
		params.Date = now
	}

	txn, err := domain.NewTransaction(params)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("type", string(txnType)))
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

// applyParsedInput fills the fields the request left empty from the parser's output.
func (s *transactionService) applyParsedInput(ctx context.Context, input string, params *domain.TransactionParams, req dto.CreateTransactionRequest) error {
	if s.parser == nil {
		return apperrors.NewValidationError("free text input is not supported: no parser configured")
	}

	parsed, err := s.parser.ParseTransaction(ctx, input, params.Type)
	if err != nil {
		s.LogError(ctx, err, "Failed to parse transaction input")
		return apperrors.NewAppError(http.StatusBadRequest, "could not parse transaction input", errors.Join(apperrors.ErrValidation, err))
	}

	if req.Amount == nil {
		if parsed.Amount == nil {
			return apperrors.NewValidationError("parser could not determine an amount")
		}
		params.Amount = *parsed.Amount
	}
	if req.Description == nil {
		params.Description = parsed.Description
	}
	if params.Type == domain.Debt && req.DebtType == nil {
		if parsed.DebtType == nil || !parsed.DebtType.IsValid() {
			return apperrors.NewValidationError("parser could not determine a debt type")
		}
		params.DebtType = parsed.DebtType
	}

	s.LogDebug(ctx, "Transaction input parsed", slog.String("amount", params.Amount.String()))
	return nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("user_id", userID))
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nextToken, nil
}

func (s *transactionService) ListTransactionsByType(ctx context.Context, userID string, txnType domain.TransactionType, filter domain.TransactionFilter) (*domain.TransactionTotal, error) {
	if txnType != domain.Income && txnType != domain.Expense {
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot total transactions of type %q", txnType))
	}

	filter.Type = &txnType
	filter.Limit = 0
	filter.NextToken = nil
	txns, _, err := s.txnRepo.ListTransactions(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions by type", slog.String("type", string(txnType)))
		return nil, fmt.Errorf("failed to list %s transactions: %w", txnType, err)
	}

	amounts := make([]decimal.Decimal, len(txns))
	for i, txn := range txns {
		amounts[i] = txn.Amount
	}
	return &domain.TransactionTotal{Transactions: txns, Total: accounting.Sum(amounts...)}, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find transaction for update", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	if txn.IsDebt() {
		return s.ledger.UpdateDebt(ctx, userID, transactionID, req)
	}

	if normalizeOptionalID(req.PersonID) != nil || req.DebtType != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s transactions cannot carry debt fields", txn.Type))
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.Description != nil {
		txn.Description = strings.TrimSpace(*req.Description)
	}
	if req.Date != nil {
		txn.Date = req.Date.UTC()
	}
	if req.CategoryID != nil {
		txn.CategoryID = normalizeOptionalID(req.CategoryID)
		if err := s.checkCategory(ctx, userID, txn.CategoryID, txn.Type); err != nil {
			return nil, err
		}
	}
	if err := txn.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	txn.Touch(userID, time.Now().UTC())

	if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return txn, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	txn, err := s.txnRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find transaction for delete", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if txn.IsDebt() {
		return s.ledger.DeleteDebt(ctx, userID, transactionID)
	}

	if err := s.txnRepo.DeleteTransaction(ctx, userID, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// checkCategory verifies a referenced category exists and matches the transaction type.
func (s *transactionService) checkCategory(ctx context.Context, userID string, categoryID *string, txnType domain.TransactionType) error {
	if categoryID == nil {
		return nil
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, userID, *categoryID)
	if err != nil {
		s.LogError(ctx, err, "Referenced category not available", slog.String("category_id", *categoryID))
		return fmt.Errorf("invalid category: %w", err)
	}
	if string(category.Type) != string(txnType) {
		return apperrors.NewValidationError(fmt.Sprintf("category %q is for %s transactions", category.Name, category.Type))
	}
	return nil
}
