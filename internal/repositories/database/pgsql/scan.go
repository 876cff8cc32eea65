package pgsql

import (
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `transaction_id, user_id, type, amount, description, transaction_date,
	category_id, person_id, debt_type, payment_status,
	created_at, created_by, last_updated_at, last_updated_by`

const paymentColumns = `payment_id, debt_id, amount, payment_date, notes,
	created_at, created_by, last_updated_at, last_updated_by`

func transactionDest(m *models.Transaction) []any {
	return []any{
		&m.TransactionID,
		&m.UserID,
		&m.Type,
		&m.Amount,
		&m.Description,
		&m.Date,
		&m.CategoryID,
		&m.PersonID,
		&m.DebtType,
		&m.PaymentStatus,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	}
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(transactionDest(&m)...)
	return m, err
}

func paymentDest(m *models.Payment) []any {
	return []any{
		&m.PaymentID,
		&m.DebtID,
		&m.Amount,
		&m.PaymentDate,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	}
}

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(paymentDest(&m)...)
	return m, err
}
