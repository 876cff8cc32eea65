package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository stores debts and their payments.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// RunInTx runs fn in a single database transaction. Every write made through tx is rolled
// back when fn fails or the commit fails.
func (r *PgxLedgerRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxLedgerTx{q: tx})
	})
}

func (r *PgxLedgerRepository) FindDebtByID(ctx context.Context, userID, debtID string) (*domain.Transaction, error) {
	return findDebt(ctx, r.Pool, userID, debtID, false)
}

func (r *PgxLedgerRepository) FindPaymentsByDebtID(ctx context.Context, debtID string) ([]domain.Payment, error) {
	return findPayments(ctx, r.Pool, debtID)
}

// pgxLedgerTx implements portsrepo.LedgerTx on an open transaction.
type pgxLedgerTx struct {
	q querier
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// LockDebt takes a row lock that is held until the surrounding transaction ends.
func (t *pgxLedgerTx) LockDebt(ctx context.Context, userID, debtID string) (*domain.Transaction, error) {
	return findDebt(ctx, t.q, userID, debtID, true)
}

func (t *pgxLedgerTx) FindPaymentsByDebtID(ctx context.Context, debtID string) ([]domain.Payment, error) {
	return findPayments(ctx, t.q, debtID)
}

func (t *pgxLedgerTx) SaveDebt(ctx context.Context, debt domain.Transaction) error {
	if !debt.IsDebt() {
		return apperrors.NewValidationError("only debts can be saved through the ledger")
	}
	return insertTransaction(ctx, t.q, mapping.ToModelTransaction(debt))
}

func (t *pgxLedgerTx) UpdateDebt(ctx context.Context, debt domain.Transaction) error {
	m := mapping.ToModelTransaction(debt)
	query := `
		UPDATE transactions
		SET amount = $1, description = $2, transaction_date = $3, category_id = $4,
		    person_id = $5, debt_type = $6, payment_status = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE transaction_id = $10 AND type = 'debt';
	`
	cmdTag, err := t.q.Exec(ctx, query,
		m.Amount,
		m.Description,
		m.Date,
		m.CategoryID,
		m.PersonID,
		m.DebtType,
		m.PaymentStatus,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.TransactionID,
	)
	if err != nil {
		return mapPgError(err, "failed to update debt "+m.TransactionID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("debt")
	}
	return nil
}

func (t *pgxLedgerTx) SetDebtStatus(ctx context.Context, debtID string, status domain.PaymentStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE transactions
		SET payment_status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $4 AND type = 'debt';
	`
	cmdTag, err := t.q.Exec(ctx, query, string(status), updatedAt, updatedBy, debtID)
	if err != nil {
		return mapPgError(err, "failed to set status of debt "+debtID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("debt")
	}
	return nil
}

func (t *pgxLedgerTx) DeleteDebt(ctx context.Context, debtID string) error {
	cmdTag, err := t.q.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1 AND type = 'debt';`, debtID)
	if err != nil {
		return mapPgError(err, "failed to delete debt "+debtID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("debt")
	}
	return nil
}

func (t *pgxLedgerTx) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO debt_payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := t.q.Exec(ctx, query, paymentArgs(m)...)
	if err != nil {
		return mapPgError(err, "failed to save payment "+m.PaymentID)
	}
	return nil
}

func (t *pgxLedgerTx) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		UPDATE debt_payments
		SET amount = $1, payment_date = $2, notes = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_id = $6 AND debt_id = $7;
	`
	cmdTag, err := t.q.Exec(ctx, query, m.Amount, m.PaymentDate, m.Notes, m.LastUpdatedAt, m.LastUpdatedBy, m.PaymentID, m.DebtID)
	if err != nil {
		return mapPgError(err, "failed to update payment "+m.PaymentID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment")
	}
	return nil
}

func (t *pgxLedgerTx) DeletePayment(ctx context.Context, debtID, paymentID string) error {
	cmdTag, err := t.q.Exec(ctx, `DELETE FROM debt_payments WHERE payment_id = $1 AND debt_id = $2;`, paymentID, debtID)
	if err != nil {
		return mapPgError(err, "failed to delete payment "+paymentID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment")
	}
	return nil
}

func findDebt(ctx context.Context, q querier, userID, debtID string, forUpdate bool) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1 AND user_id = $2 AND type = 'debt'`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m, err := scanTransaction(q.QueryRow(ctx, query, debtID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("debt")
		}
		return nil, mapPgError(err, "failed to find debt "+debtID)
	}
	debt := mapping.ToDomainTransaction(m)
	return &debt, nil
}

func findPayments(ctx context.Context, q querier, debtID string) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM debt_payments
		WHERE debt_id = $1
		ORDER BY payment_date DESC, created_at DESC;
	`
	rows, err := q.Query(ctx, query, debtID)
	if err != nil {
		return nil, mapPgError(err, "failed to query payments of debt "+debtID)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating payment rows")
	}
	return payments, nil
}

func insertTransaction(ctx context.Context, q querier, m models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := q.Exec(ctx, query, transactionArgs(m)...)
	if err != nil {
		return mapPgError(err, "failed to save transaction "+m.TransactionID)
	}
	return nil
}

func transactionArgs(m models.Transaction) []any {
	return []any{
		m.TransactionID, m.UserID, m.Type, m.Amount, m.Description, m.Date,
		m.CategoryID, m.PersonID, m.DebtType, m.PaymentStatus,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func paymentArgs(m models.Payment) []any {
	return []any{
		m.PaymentID, m.DebtID, m.Amount, m.PaymentDate, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}
