package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
	"github.com/SscSPs/money_tracker/internal/utils/pagination"
)

type SQLiteTransactionRepository struct {
	BaseRepository
}

func newSQLiteTransactionRepository(db *sql.DB) portsrepo.TransactionRepositoryFacade {
	return &SQLiteTransactionRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.TransactionRepositoryFacade = (*SQLiteTransactionRepository)(nil)

func (r *SQLiteTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = ? AND user_id = ?;`
	m, err := scanTransaction(r.DB.QueryRowContext(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction")
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactions pages through a user's transactions ordered by date, created_at and id, newest first.
// A non-positive limit returns every match and no token.
func (r *SQLiteTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	conditions := []string{"user_id = ?"}
	args := []any{userID}

	if filter.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, string(*filter.Type))
	}
	if filter.From != nil {
		conditions = append(conditions, "transaction_date >= ?")
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "transaction_date <= ?")
		args = append(args, formatTime(*filter.To))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", errors.Join(apperrors.ErrValidation, err))
		}
		conditions = append(conditions, "(transaction_date, created_at, transaction_id) < (?, ?, ?)")
		args = append(args, formatTime(cursor.Date), formatTime(cursor.CreatedAt), cursor.ID)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC`
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit+1)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var nextToken *string
	if filter.Limit > 0 && len(modelTxns) > filter.Limit {
		last := modelTxns[filter.Limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
		modelTxns = modelTxns[:filter.Limit]
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nextToken, nil
}

func (r *SQLiteTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	if txn.IsDebt() {
		return apperrors.NewValidationError("debts must be created through the debt ledger")
	}
	return insertTransaction(ctx, r.DB, mapping.ToModelTransaction(txn))
}

func (r *SQLiteTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	if txn.IsDebt() {
		return apperrors.NewValidationError("debts must be updated through the debt ledger")
	}
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET amount = ?, description = ?, transaction_date = ?, category_id = ?,
		    last_updated_at = ?, last_updated_by = ?
		WHERE transaction_id = ? AND user_id = ? AND type <> 'debt';
	`
	res, err := r.DB.ExecContext(ctx, query,
		formatAmount(m.Amount), m.Description, formatTime(m.Date), m.CategoryID,
		formatTime(m.LastUpdatedAt), m.LastUpdatedBy,
		m.TransactionID, m.UserID,
	)
	return expectOne(res, err, "transaction", "failed to update transaction "+m.TransactionID)
}

func (r *SQLiteTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM transactions WHERE transaction_id = ? AND user_id = ? AND type <> 'debt';`,
		transactionID, userID)
	return expectOne(res, err, "transaction", "failed to delete transaction "+transactionID)
}
