package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
)

// SQLiteLedgerRepository stores debts and their payments.
type SQLiteLedgerRepository struct {
	BaseRepository
}

func newSQLiteLedgerRepository(db *sql.DB) portsrepo.LedgerRepositoryFacade {
	return &SQLiteLedgerRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.LedgerRepositoryFacade = (*SQLiteLedgerRepository)(nil)

// RunInTx runs fn in one IMMEDIATE transaction; concurrent units of work on the
// same database are serialized by SQLite's write lock.
func (r *SQLiteLedgerRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return fn(ctx, &sqliteLedgerTx{q: tx})
	})
}

func (r *SQLiteLedgerRepository) FindDebtByID(ctx context.Context, userID, debtID string) (*domain.Transaction, error) {
	return findDebt(ctx, r.DB, userID, debtID)
}

func (r *SQLiteLedgerRepository) FindPaymentsByDebtID(ctx context.Context, debtID string) ([]domain.Payment, error) {
	return findPayments(ctx, r.DB, debtID)
}

type sqliteLedgerTx struct {
	q querier
}

var _ portsrepo.LedgerTx = (*sqliteLedgerTx)(nil)

// LockDebt reads the debt. The IMMEDIATE transaction already holds the database write lock.
func (t *sqliteLedgerTx) LockDebt(ctx context.Context, userID, debtID string) (*domain.Transaction, error) {
	return findDebt(ctx, t.q, userID, debtID)
}

func (t *sqliteLedgerTx) FindPaymentsByDebtID(ctx context.Context, debtID string) ([]domain.Payment, error) {
	return findPayments(ctx, t.q, debtID)
}

func (t *sqliteLedgerTx) SaveDebt(ctx context.Context, debt domain.Transaction) error {
	if !debt.IsDebt() {
		return apperrors.NewValidationError("only debts can be saved through the ledger")
	}
	return insertTransaction(ctx, t.q, mapping.ToModelTransaction(debt))
}

func (t *sqliteLedgerTx) UpdateDebt(ctx context.Context, debt domain.Transaction) error {
	m := mapping.ToModelTransaction(debt)
	query := `
		UPDATE transactions
		SET amount = ?, description = ?, transaction_date = ?, category_id = ?,
		    person_id = ?, debt_type = ?, payment_status = ?,
		    last_updated_at = ?, last_updated_by = ?
		WHERE transaction_id = ? AND type = 'debt';
	`
	res, err := t.q.ExecContext(ctx, query,
		formatAmount(m.Amount),
		m.Description,
		formatTime(m.Date),
		m.CategoryID,
		m.PersonID,
		m.DebtType,
		m.PaymentStatus,
		formatTime(m.LastUpdatedAt),
		m.LastUpdatedBy,
		m.TransactionID,
	)
	return expectOne(res, err, "debt", "failed to update debt "+m.TransactionID)
}

func (t *sqliteLedgerTx) SetDebtStatus(ctx context.Context, debtID string, status domain.PaymentStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE transactions
		SET payment_status = ?, last_updated_at = ?, last_updated_by = ?
		WHERE transaction_id = ? AND type = 'debt';
	`
	res, err := t.q.ExecContext(ctx, query, string(status), formatTime(updatedAt), updatedBy, debtID)
	return expectOne(res, err, "debt", "failed to set status of debt "+debtID)
}

func (t *sqliteLedgerTx) DeleteDebt(ctx context.Context, debtID string) error {
	res, err := t.q.ExecContext(ctx, `DELETE FROM transactions WHERE transaction_id = ? AND type = 'debt';`, debtID)
	return expectOne(res, err, "debt", "failed to delete debt "+debtID)
}

func (t *sqliteLedgerTx) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `INSERT INTO debt_payments (` + paymentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`
	if _, err := t.q.ExecContext(ctx, query, paymentArgs(m)...); err != nil {
		return mapSQLiteError(err, "failed to save payment "+m.PaymentID)
	}
	return nil
}

func (t *sqliteLedgerTx) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		UPDATE debt_payments
		SET amount = ?, payment_date = ?, notes = ?, last_updated_at = ?, last_updated_by = ?
		WHERE payment_id = ? AND debt_id = ?;
	`
	res, err := t.q.ExecContext(ctx, query,
		formatAmount(m.Amount), formatTime(m.PaymentDate), m.Notes,
		formatTime(m.LastUpdatedAt), m.LastUpdatedBy,
		m.PaymentID, m.DebtID,
	)
	return expectOne(res, err, "payment", "failed to update payment "+m.PaymentID)
}

func (t *sqliteLedgerTx) DeletePayment(ctx context.Context, debtID, paymentID string) error {
	res, err := t.q.ExecContext(ctx, `DELETE FROM debt_payments WHERE payment_id = ? AND debt_id = ?;`, paymentID, debtID)
	return expectOne(res, err, "payment", "failed to delete payment "+paymentID)
}

// expectOne maps an exec result: driver errors are translated, zero affected rows is NotFound.
func expectOne(res sql.Result, err error, entity, action string) error {
	if err != nil {
		return mapSQLiteError(err, action)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NewNotFoundError(entity)
	}
	return nil
}

func findDebt(ctx context.Context, q querier, userID, debtID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = ? AND user_id = ? AND type = 'debt';
	`
	m, err := scanTransaction(q.QueryRowContext(ctx, query, debtID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("debt")
		}
		return nil, mapSQLiteError(err, "failed to find debt "+debtID)
	}
	debt := mapping.ToDomainTransaction(m)
	return &debt, nil
}

func findPayments(ctx context.Context, q querier, debtID string) ([]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM debt_payments
		WHERE debt_id = ?
		ORDER BY payment_date DESC, created_at DESC;
	`
	rows, err := q.QueryContext(ctx, query, debtID)
	if err != nil {
		return nil, mapSQLiteError(err, "failed to query payments of debt "+debtID)
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
		return nil, mapSQLiteError(err, "error iterating payment rows")
	}
	return payments, nil
}

func insertTransaction(ctx context.Context, q querier, m models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	if _, err := q.ExecContext(ctx, query, transactionArgs(m)...); err != nil {
		return mapSQLiteError(err, "failed to save transaction "+m.TransactionID)
	}
	return nil
}
