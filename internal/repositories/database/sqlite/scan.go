package sqlite

import (
	"github.com/SscSPs/money_tracker/internal/models"
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
		timeColumn{&m.Date},
		&m.CategoryID,
		&m.PersonID,
		&m.DebtType,
		&m.PaymentStatus,
		timeColumn{&m.CreatedAt},
		&m.CreatedBy,
		timeColumn{&m.LastUpdatedAt},
		&m.LastUpdatedBy,
	}
}

func transactionArgs(m models.Transaction) []any {
	return []any{
		m.TransactionID, m.UserID, m.Type, formatAmount(m.Amount), m.Description, formatTime(m.Date),
		m.CategoryID, m.PersonID, m.DebtType, m.PaymentStatus,
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy,
	}
}

func scanTransaction(row scanner) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(transactionDest(&m)...)
	return m, err
}

func paymentDest(m *models.Payment) []any {
	return []any{
		&m.PaymentID,
		&m.DebtID,
		&m.Amount,
		timeColumn{&m.PaymentDate},
		&m.Notes,
		timeColumn{&m.CreatedAt},
		&m.CreatedBy,
		timeColumn{&m.LastUpdatedAt},
		&m.LastUpdatedBy,
	}
}

func paymentArgs(m models.Payment) []any {
	return []any{
		m.PaymentID, m.DebtID, formatAmount(m.Amount), formatTime(m.PaymentDate), m.Notes,
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy,
	}
}

func scanPayment(row scanner) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(paymentDest(&m)...)
	return m, err
}
