package repositories

import (
	"context"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// TransactionReader defines read operations for transactions of every type.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction owned by userID.
	FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions ordered by date, newest first.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines writes for incomes and expenses. Debts are rejected; they are written through the ledger.
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
