package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// LedgerReader defines lock-free reads of debts and their payments.
type LedgerReader interface {
	// FindDebtByID retrieves a debt owned by userID. Non-debt transactions are reported as not found.
	FindDebtByID(ctx context.Context, userID, debtID string) (*domain.Transaction, error)

	// FindPaymentsByDebtID retrieves the payments of a debt ordered by payment date, newest first.
	FindPaymentsByDebtID(ctx context.Context, debtID string) ([]domain.Payment, error)
}

// LedgerTx is the set of operations available inside a ledger unit of work.
type LedgerTx interface {
	// LockDebt loads a debt owned by userID and holds a write lock on it until the unit of work ends.
	LockDebt(ctx context.Context, userID, debtID string) (*domain.Transaction, error)

	// FindPaymentsByDebtID retrieves the payments of a debt ordered by payment date, newest first.
	FindPaymentsByDebtID(ctx context.Context, debtID string) ([]domain.Payment, error)

	SaveDebt(ctx context.Context, debt domain.Transaction) error
	UpdateDebt(ctx context.Context, debt domain.Transaction) error
	SetDebtStatus(ctx context.Context, debtID string, status domain.PaymentStatus, updatedBy string, updatedAt time.Time) error
	// DeleteDebt removes the debt; its payments go with it.
	DeleteDebt(ctx context.Context, debtID string) error

	SavePayment(ctx context.Context, payment domain.Payment) error
	UpdatePayment(ctx context.Context, payment domain.Payment) error
	// DeletePayment removes a payment that belongs to debtID, ErrNotFound otherwise.
	DeletePayment(ctx context.Context, debtID, paymentID string) error
}

// LedgerRepositoryFacade combines ledger reads with the unit of work.
type LedgerRepositoryFacade interface {
	LedgerReader
	UnitOfWork
}
