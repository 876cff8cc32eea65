package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/platform/metrics"
	"github.com/SscSPs/money_tracker/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger operation names, used as metric labels.
const (
	opCreateDebt       = "create_debt"
	opUpdateDebt       = "update_debt"
	opDeleteDebt       = "delete_debt"
	opUpdateDebtStatus = "update_debt_status"
	opRecalculate      = "recalculate_debt_status"
	opAddPayment       = "add_payment"
	opUpdatePayment    = "update_payment"
	opDeletePayment    = "delete_payment"
)

// ledgerService is the single writer of a debt's payment status.
// Every mutation runs as one unit of work: lock the debt, read its payments,
// write, recompute through the aggregator and store the derived status.
type ledgerService struct {
	BaseService
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	personRepo   portsrepo.PersonReader
	categoryRepo portsrepo.CategoryReader
	metrics      *metrics.Metrics
	retry        RetryPolicy
	now          func() time.Time
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerMetrics records operation outcomes and retries.
func WithLedgerMetrics(m *metrics.Metrics) LedgerServiceOption {
	return func(s *ledgerService) {
		s.metrics = m
	}
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(policy RetryPolicy) LedgerServiceOption {
	return func(s *ledgerService) {
		if policy.MaxRetries < 0 {
			policy.MaxRetries = 0
		}
		s.retry = policy
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new debt ledger service with the provided options
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	personRepo portsrepo.PersonReader,
	categoryRepo portsrepo.CategoryReader,
	options ...LedgerServiceOption,
) portssvc.DebtLedgerSvcFacade {
	svc := &ledgerService{
		ledgerRepo:   ledgerRepo,
		personRepo:   personRepo,
		categoryRepo: categoryRepo,
		retry:        DefaultRetryPolicy,
		now:          time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DebtLedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) timestamp() time.Time {
	return s.now().UTC()
}

// runUnitOfWork executes fn in a ledger transaction, re-running the whole unit on
// transaction failures. Each attempt re-reads everything it needs.
func (s *ledgerService) runUnitOfWork(ctx context.Context, op string, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	err := retryOnTxFailure(ctx, s.retry, func(attempt int) error {
		if attempt > 0 {
			s.metrics.IncLedgerRetry(op)
			s.LogDebug(ctx, "Retrying ledger unit of work", slog.String("operation", op), slog.Int("attempt", attempt))
		}
		return s.ledgerRepo.RunInTx(ctx, fn)
	})
	s.metrics.ObserveLedgerOperation(op, err)
	return err
}

// recompute derives the debt's status from amounts and stores it on the debt row.
func (s *ledgerService) recompute(ctx context.Context, tx portsrepo.LedgerTx, debt *domain.Transaction, amounts []decimal.Decimal, userID string, at time.Time) (domain.DebtTotals, error) {
	agg := accounting.AggregatePayments(debt.Amount, amounts)
	if err := tx.SetDebtStatus(ctx, debt.TransactionID, agg.Status, userID, at); err != nil {
		return domain.DebtTotals{}, err
	}
	status := agg.Status
	debt.PaymentStatus = &status
	debt.Touch(userID, at)
	return agg.Totals(debt.TransactionID, debt.Amount), nil
}

func (s *ledgerService) CreateDebt(ctx context.Context, userID string, params domain.TransactionParams) (*domain.Transaction, error) {
	if err := s.checkReferences(ctx, userID, params.PersonID, params.CategoryID); err != nil {
		return nil, err
	}

	now := s.timestamp()
	params.TransactionID = uuid.NewString()
	params.UserID = userID
	params.Type = domain.Debt
	params.CreatedBy = userID
	params.CreatedAt = now
	if params.Date.IsZero() {
		params.Date = now
	}

	debt, err := domain.NewTransaction(params)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = s.runUnitOfWork(ctx, opCreateDebt, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.SaveDebt(ctx, debt)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create debt", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to create debt: %w", err)
	}

	s.LogInfo(ctx, "Debt created",
		slog.String("debt_id", debt.TransactionID),
		slog.String("debt_type", string(*debt.DebtType)),
		slog.String("amount", debt.Amount.String()))
	return &debt, nil
}

func (s *ledgerService) UpdateDebt(ctx context.Context, userID, debtID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	if req.Amount != nil {
		if err := domain.ValidateAmount(*req.Amount); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if req.PersonID != nil && strings.TrimSpace(*req.PersonID) == "" {
		return nil, apperrors.NewValidationError("person is required for debt transactions")
	}
	categoryID := normalizeOptionalID(req.CategoryID)
	if err := s.checkReferences(ctx, userID, req.PersonID, categoryID); err != nil {
		return nil, err
	}

	var updated domain.Transaction
	err := s.runUnitOfWork(ctx, opUpdateDebt, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		debt, err := tx.LockDebt(ctx, userID, debtID)
		if err != nil {
			return err
		}

		if req.Amount != nil {
			debt.Amount = *req.Amount
		}
		if req.Description != nil {
			debt.Description = strings.TrimSpace(*req.Description)
		}
		if req.Date != nil {
			debt.Date = req.Date.UTC()
		}
		if req.CategoryID != nil {
			debt.CategoryID = categoryID
		}
		if req.PersonID != nil {
			personID := strings.TrimSpace(*req.PersonID)
			debt.PersonID = &personID
		}
		if req.DebtType != nil {
			debtType := domain.DebtType(*req.DebtType)
			debt.DebtType = &debtType
		}

		payments, err := tx.FindPaymentsByDebtID(ctx, debtID)
		if err != nil {
			return err
		}
		now := s.timestamp()
		agg := accounting.AggregatePayments(debt.Amount, domain.PaymentAmounts(payments, ""))
		debt.PaymentStatus = &agg.Status
		debt.Touch(userID, now)

		if err := debt.Validate(); err != nil {
			return apperrors.NewValidationError(err.Error())
		}
		if err := tx.UpdateDebt(ctx, *debt); err != nil {
			return err
		}
		updated = *debt
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update debt", slog.String("debt_id", debtID))
		return nil, fmt.Errorf("failed to update debt: %w", err)
	}

	s.LogInfo(ctx, "Debt updated", slog.String("debt_id", debtID), slog.String("status", string(updated.Status())))
	return &updated, nil
}

func (s *ledgerService) DeleteDebt(ctx context.Context, userID, debtID string) error {
	err := s.runUnitOfWork(ctx, opDeleteDebt, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.LockDebt(ctx, userID, debtID); err != nil {
			return err
		}
		return tx.DeleteDebt(ctx, debtID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete debt", slog.String("debt_id", debtID))
		return fmt.Errorf("failed to delete debt: %w", err)
	}

	s.LogInfo(ctx, "Debt deleted with its payments", slog.String("debt_id", debtID))
	return nil
}

// UpdateDebtStatus stores a manual override. The next payment mutation recomputes over it.
func (s *ledgerService) UpdateDebtStatus(ctx context.Context, userID, debtID string, status domain.PaymentStatus) (*domain.Transaction, error) {
	if !status.IsOverridable() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status %q: must be one of paid, unpaid", status))
	}

	var updated domain.Transaction
	err := s.runUnitOfWork(ctx, opUpdateDebtStatus, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		debt, err := tx.LockDebt(ctx, userID, debtID)
		if err != nil {
			return err
		}
		now := s.timestamp()
		if err := tx.SetDebtStatus(ctx, debtID, status, userID, now); err != nil {
			return err
		}
		debt.PaymentStatus = &status
		debt.Touch(userID, now)
		updated = *debt
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to override debt status", slog.String("debt_id", debtID))
		return nil, fmt.Errorf("failed to update debt status: %w", err)
	}

	s.LogInfo(ctx, "Debt status overridden", slog.String("debt_id", debtID), slog.String("status", string(status)))
	return &updated, nil
}

func (s *ledgerService) RecalculateDebtStatus(ctx context.Context, userID, debtID string) (*domain.DebtTotals, error) {
	var totals domain.DebtTotals
	err := s.runUnitOfWork(ctx, opRecalculate, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		debt, err := tx.LockDebt(ctx, userID, debtID)
		if err != nil {
			return err
		}
		payments, err := tx.FindPaymentsByDebtID(ctx, debtID)
		if err != nil {
			return err
		}
		totals, err = s.recompute(ctx, tx, debt, domain.PaymentAmounts(payments, ""), userID, s.timestamp())
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to recalculate debt status", slog.String("debt_id", debtID))
		return nil, fmt.Errorf("failed to recalculate debt status: %w", err)
	}

	s.LogInfo(ctx, "Debt status recalculated", slog.String("debt_id", debtID), slog.String("status", string(totals.Status)))
	return &totals, nil
}

func (s *ledgerService) AddPayment(ctx context.Context, userID, debtID string, req dto.CreatePaymentRequest) (*domain.PaymentResult, error) {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	var result domain.PaymentResult
	err := s.runUnitOfWork(ctx, opAddPayment, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		debt, err := tx.LockDebt(ctx, userID, debtID)
		if err != nil {
			return err
		}
		payments, err := tx.FindPaymentsByDebtID(ctx, debtID)
		if err != nil {
			return err
		}

		now := s.timestamp()
		payment := domain.Payment{
			PaymentID:   uuid.NewString(),
			DebtID:      debtID,
			Amount:      req.Amount,
			PaymentDate: now,
			Notes:       normalizeNotes(req.Notes),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if req.PaymentDate != nil {
			payment.PaymentDate = req.PaymentDate.UTC()
		}
		if err := tx.SavePayment(ctx, payment); err != nil {
			return err
		}

		amounts := append(domain.PaymentAmounts(payments, ""), payment.Amount)
		totals, err := s.recompute(ctx, tx, debt, amounts, userID, now)
		if err != nil {
			return err
		}
		result = domain.PaymentResult{Payment: payment, Totals: totals}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to add payment", slog.String("debt_id", debtID))
		return nil, fmt.Errorf("failed to add payment: %w", err)
	}

	s.LogInfo(ctx, "Payment added",
		slog.String("debt_id", debtID),
		slog.String("payment_id", result.Payment.PaymentID),
		slog.String("status", string(result.Totals.Status)))
	return &result, nil
}

func (s *ledgerService) UpdatePayment(ctx context.Context, userID, debtID, paymentID string, req dto.UpdatePaymentRequest) (*domain.PaymentResult, error) {
	if req.Amount == nil && req.PaymentDate == nil && req.Notes == nil {
		return nil, apperrors.NewValidationError("nothing to update: set amount, paymentDate or notes")
	}
	if req.Amount != nil {
		if err := domain.ValidateAmount(*req.Amount); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	var result domain.PaymentResult
	err := s.runUnitOfWork(ctx, opUpdatePayment, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		debt, err := tx.LockDebt(ctx, userID, debtID)
		if err != nil {
			return err
		}
		payments, err := tx.FindPaymentsByDebtID(ctx, debtID)
		if err != nil {
			return err
		}
		payment, err := findPayment(payments, paymentID)
		if err != nil {
			return err
		}

		now := s.timestamp()
		if req.Amount != nil {
			payment.Amount = *req.Amount
		}
		if req.PaymentDate != nil {
			payment.PaymentDate = req.PaymentDate.UTC()
		}
		if req.Notes != nil {
			payment.Notes = normalizeNotes(req.Notes)
		}
		payment.Touch(userID, now)
		if err := tx.UpdatePayment(ctx, payment); err != nil {
			return err
		}

		amounts := append(domain.PaymentAmounts(payments, paymentID), payment.Amount)
		totals, err := s.recompute(ctx, tx, debt, amounts, userID, now)
		if err != nil {
			return err
		}
		result = domain.PaymentResult{Payment: payment, Totals: totals}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update payment", slog.String("debt_id", debtID), slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	s.LogInfo(ctx, "Payment updated",
		slog.String("debt_id", debtID),
		slog.String("payment_id", paymentID),
		slog.String("status", string(result.Totals.Status)))
	return &result, nil
}

// DeletePayment recomputes from the payments read before the delete, minus the deleted one.
func (s *ledgerService) DeletePayment(ctx context.Context, userID, debtID, paymentID string) (*domain.DebtTotals, error) {
	var totals domain.DebtTotals
	err := s.runUnitOfWork(ctx, opDeletePayment, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		debt, err := tx.LockDebt(ctx, userID, debtID)
		if err != nil {
			return err
		}
		payments, err := tx.FindPaymentsByDebtID(ctx, debtID)
		if err != nil {
			return err
		}
		if _, err := findPayment(payments, paymentID); err != nil {
			return err
		}

		remaining := domain.PaymentAmounts(payments, paymentID)
		if err := tx.DeletePayment(ctx, debtID, paymentID); err != nil {
			return err
		}
		totals, err = s.recompute(ctx, tx, debt, remaining, userID, s.timestamp())
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete payment", slog.String("debt_id", debtID), slog.String("payment_id", paymentID))
		return nil, fmt.Errorf("failed to delete payment: %w", err)
	}

	s.LogInfo(ctx, "Payment deleted",
		slog.String("debt_id", debtID),
		slog.String("payment_id", paymentID),
		slog.String("status", string(totals.Status)))
	return &totals, nil
}

func (s *ledgerService) ListPayments(ctx context.Context, userID, debtID string) ([]domain.Payment, error) {
	if _, err := s.ledgerRepo.FindDebtByID(ctx, userID, debtID); err != nil {
		s.LogError(ctx, err, "Failed to find debt for payments", slog.String("debt_id", debtID))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	payments, err := s.ledgerRepo.FindPaymentsByDebtID(ctx, debtID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("debt_id", debtID))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// GetDebtSummary trusts the stored status; it never recomputes or writes.
func (s *ledgerService) GetDebtSummary(ctx context.Context, userID, debtID string) (*domain.DebtSummary, error) {
	debt, err := s.ledgerRepo.FindDebtByID(ctx, userID, debtID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find debt", slog.String("debt_id", debtID))
		return nil, fmt.Errorf("failed to get debt summary: %w", err)
	}
	payments, err := s.ledgerRepo.FindPaymentsByDebtID(ctx, debtID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("debt_id", debtID))
		return nil, fmt.Errorf("failed to get debt summary: %w", err)
	}

	var personName string
	if debt.PersonID != nil {
		person, err := s.personRepo.FindPersonByID(ctx, userID, *debt.PersonID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to get debt summary: %w", err)
		}
		if person != nil {
			personName = person.Name
		}
	}

	totals := accounting.AggregatePayments(debt.Amount, domain.PaymentAmounts(payments, "")).Totals(debtID, debt.Amount)
	totals.Status = debt.Status()

	return &domain.DebtSummary{
		Debt:       *debt,
		PersonName: personName,
		Totals:     totals,
		Payments:   payments,
	}, nil
}

// checkReferences verifies that the referenced person and category exist for userID.
func (s *ledgerService) checkReferences(ctx context.Context, userID string, personID, categoryID *string) error {
	if personID != nil && *personID != "" {
		if _, err := s.personRepo.FindPersonByID(ctx, userID, *personID); err != nil {
			s.LogError(ctx, err, "Referenced person not available", slog.String("person_id", *personID))
			return fmt.Errorf("invalid person: %w", err)
		}
	}
	if categoryID != nil && *categoryID != "" {
		if _, err := s.categoryRepo.FindCategoryByID(ctx, userID, *categoryID); err != nil {
			s.LogError(ctx, err, "Referenced category not available", slog.String("category_id", *categoryID))
			return fmt.Errorf("invalid category: %w", err)
		}
	}
	return nil
}

func findPayment(payments []domain.Payment, paymentID string) (domain.Payment, error) {
	for _, p := range payments {
		if p.PaymentID == paymentID {
			return p, nil
		}
	}
	return domain.Payment{}, apperrors.NewNotFoundError("payment")
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeOptionalID maps an explicit empty string to nil so a reference can be cleared.
func normalizeOptionalID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
