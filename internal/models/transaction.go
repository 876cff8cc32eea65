package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table. The debt columns are NULL for incomes and expenses.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	UserID        string          `db:"user_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	Description   string          `db:"description"`
	Date          time.Time       `db:"transaction_date"`
	CategoryID    *string         `db:"category_id"`
	PersonID      *string         `db:"person_id"`
	DebtType      *string         `db:"debt_type"`
	PaymentStatus *string         `db:"payment_status"`
	AuditFields
}

// Payment is a row of the debt_payments table.
type Payment struct {
	PaymentID   string          `db:"payment_id"`
	DebtID      string          `db:"debt_id"`
	Amount      decimal.Decimal `db:"amount"`
	PaymentDate time.Time       `db:"payment_date"`
	Notes       *string         `db:"notes"`
	AuditFields
}
