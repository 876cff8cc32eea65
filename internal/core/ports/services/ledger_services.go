package services

import (
	"context"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/dto"
)

// DebtLedgerReaderSvc defines reads of a single debt and its payments
type DebtLedgerReaderSvc interface {
	// ListPayments returns a debt's payments ordered by payment date, newest first.
	ListPayments(ctx context.Context, userID, debtID string) ([]domain.Payment, error)

	// GetDebtSummary returns the debt, its stored status, totals and payments without recomputing anything.
	GetDebtSummary(ctx context.Context, userID, debtID string) (*domain.DebtSummary, error)
}

// DebtLedgerWriterSvc defines every mutation that can move a debt's payment status.
type DebtLedgerWriterSvc interface {
	// CreateDebt persists a new debt in the unpaid state.
	CreateDebt(ctx context.Context, userID string, params domain.TransactionParams) (*domain.Transaction, error)

	// UpdateDebt patches a debt and recomputes its status in the same unit of work.
	UpdateDebt(ctx context.Context, userID, debtID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteDebt removes a debt together with its payments.
	DeleteDebt(ctx context.Context, userID, debtID string) error

	// UpdateDebtStatus manually overrides the status; only paid and unpaid are accepted.
	UpdateDebtStatus(ctx context.Context, userID, debtID string, status domain.PaymentStatus) (*domain.Transaction, error)

	// RecalculateDebtStatus re-derives the status from the stored payments, discarding any override.
	RecalculateDebtStatus(ctx context.Context, userID, debtID string) (*domain.DebtTotals, error)
}

// PaymentWriterSvc defines payment mutations. Each one recomputes the owning debt's status atomically.
type PaymentWriterSvc interface {
	AddPayment(ctx context.Context, userID, debtID string, req dto.CreatePaymentRequest) (*domain.PaymentResult, error)
	UpdatePayment(ctx context.Context, userID, debtID, paymentID string, req dto.UpdatePaymentRequest) (*domain.PaymentResult, error)
	DeletePayment(ctx context.Context, userID, debtID, paymentID string) (*domain.DebtTotals, error)
}

// DebtLedgerSvcFacade combines all ledger service interfaces
type DebtLedgerSvcFacade interface {
	DebtLedgerReaderSvc
	DebtLedgerWriterSvc
	PaymentWriterSvc
}
