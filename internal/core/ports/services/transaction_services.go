package services

import (
	"context"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a page of transactions and the token for the next one.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)

	// ListTransactionsByType returns every income or expense in the window together with their sum.
	ListTransactionsByType(ctx context.Context, userID string, txnType domain.TransactionType, filter domain.TransactionFilter) (*domain.TransactionTotal, error)
}

// TransactionWriterSvc defines write operations for transactions
type TransactionWriterSvc interface {
	// CreateTransaction creates an income, expense or debt, consulting the parser for free text input.
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction patches a transaction; debts are routed through the ledger.
	UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction deletes a transaction; debts take their payments with them.
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// TransactionSvcFacade combines all transaction service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}

// TransactionParser turns free text such as "lent Omar 250 for rent" into structured fields.
type TransactionParser interface {
	ParseTransaction(ctx context.Context, input string, txnType domain.TransactionType) (*domain.ParsedTransaction, error)
}
