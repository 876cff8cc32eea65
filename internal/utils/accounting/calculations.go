package accounting

import (
	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentAggregate is the derived state of a debt given its payments.
type PaymentAggregate struct {
	TotalPaid decimal.Decimal
	Remaining decimal.Decimal
	Status    domain.PaymentStatus
}

// AggregatePayments sums payment amounts against a debt amount and derives the status.
// Remaining is not clamped: an overpaid debt reports a negative remainder.
func AggregatePayments(debtAmount decimal.Decimal, paymentAmounts []decimal.Decimal) PaymentAggregate {
	totalPaid := decimal.Zero
	for _, amount := range paymentAmounts {
		totalPaid = totalPaid.Add(amount)
	}

	return PaymentAggregate{
		TotalPaid: totalPaid.Round(domain.MoneyScale),
		Remaining: debtAmount.Sub(totalPaid).Round(domain.MoneyScale),
		Status:    DeriveStatus(debtAmount, totalPaid),
	}
}

// DeriveStatus classifies totalPaid against debtAmount.
func DeriveStatus(debtAmount, totalPaid decimal.Decimal) domain.PaymentStatus {
	switch {
	case totalPaid.GreaterThanOrEqual(debtAmount):
		return domain.StatusPaid
	case totalPaid.IsPositive():
		return domain.StatusPartial
	default:
		return domain.StatusUnpaid
	}
}

// Totals builds the DebtTotals view of an aggregate.
func (a PaymentAggregate) Totals(debtID string, debtAmount decimal.Decimal) domain.DebtTotals {
	return domain.DebtTotals{
		DebtID:    debtID,
		Amount:    debtAmount,
		TotalPaid: a.TotalPaid,
		Remaining: a.Remaining,
		Status:    a.Status,
	}
}

// Sum adds decimals without touching floating point.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}
