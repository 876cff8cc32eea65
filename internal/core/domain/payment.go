package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a partial or full repayment recorded against a debt.
type Payment struct {
	PaymentID   string          `json:"paymentID"`
	DebtID      string          `json:"debtID"` // FK -> transactions, cascade on delete
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Notes       *string         `json:"notes,omitempty"`
	AuditFields
}

// PaymentAmounts extracts the amounts of payments, optionally skipping one payment id.
func PaymentAmounts(payments []Payment, excludeID string) []decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(payments))
	for _, p := range payments {
		if excludeID != "" && p.PaymentID == excludeID {
			continue
		}
		amounts = append(amounts, p.Amount)
	}
	return amounts
}

// DebtTotals is the recomputed state of a debt after a ledger mutation.
type DebtTotals struct {
	DebtID    string          `json:"debtID"`
	Amount    decimal.Decimal `json:"amount"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    PaymentStatus   `json:"status"`
}

// PaymentResult is returned by payment create and update.
type PaymentResult struct {
	Payment Payment    `json:"payment"`
	Totals  DebtTotals `json:"totals"`
}

// DebtSummary is the read model for a single debt with its payments.
type DebtSummary struct {
	Debt       Transaction `json:"debt"`
	PersonName string      `json:"personName"`
	Totals     DebtTotals  `json:"totals"`
	Payments   []Payment   `json:"payments"`
}
