package accounting_test

import (
	"testing"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amounts(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestAggregatePayments(t *testing.T) {
	tests := []struct {
		name          string
		debtAmount    string
		payments      []decimal.Decimal
		wantTotalPaid string
		wantRemaining string
		wantStatus    domain.PaymentStatus
	}{
		{"no payments", "1000.00", nil, "0", "1000.00", domain.StatusUnpaid},
		{"exactly paid", "1000.00", amounts("600.00", "400.00"), "1000.00", "0", domain.StatusPaid},
		{"one cent short", "1000.00", amounts("500.00", "499.99"), "999.99", "0.01", domain.StatusPartial},
		{"overpaid keeps negative remainder", "100.00", amounts("150.00"), "150.00", "-50.00", domain.StatusPaid},
		{"single full payment", "200.00", amounts("200.00"), "200.00", "0", domain.StatusPaid},
		{"many cents without drift", "0.30", amounts("0.10", "0.10", "0.10"), "0.30", "0", domain.StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := accounting.AggregatePayments(decimal.RequireFromString(tt.debtAmount), tt.payments)

			assert.True(t, agg.TotalPaid.Equal(decimal.RequireFromString(tt.wantTotalPaid)), "totalPaid = %s", agg.TotalPaid)
			assert.True(t, agg.Remaining.Equal(decimal.RequireFromString(tt.wantRemaining)), "remaining = %s", agg.Remaining)
			assert.Equal(t, tt.wantStatus, agg.Status)
		})
	}
}

func TestAggregatePayments_OrderIrrelevant(t *testing.T) {
	debt := decimal.RequireFromString("90.00")
	forward := accounting.AggregatePayments(debt, amounts("10.01", "20.02", "30.03"))
	backward := accounting.AggregatePayments(debt, amounts("30.03", "20.02", "10.01"))

	assert.True(t, forward.TotalPaid.Equal(backward.TotalPaid))
	assert.Equal(t, forward.Status, backward.Status)
	assert.Equal(t, domain.StatusPartial, forward.Status)
}

func TestAggregatePayments_Idempotent(t *testing.T) {
	debt := decimal.RequireFromString("100.00")
	payments := amounts("40.00", "40.00")

	first := accounting.AggregatePayments(debt, payments)
	second := accounting.AggregatePayments(debt, payments)

	assert.Equal(t, first.Status, second.Status)
	assert.True(t, first.TotalPaid.Equal(second.TotalPaid))
	assert.True(t, first.TotalPaid.Equal(decimal.RequireFromString("80.00")))
}

func TestSum(t *testing.T) {
	assert.True(t, accounting.Sum().Equal(decimal.Zero))
	assert.True(t, accounting.Sum(amounts("0.10", "0.20")...).Equal(decimal.RequireFromString("0.30")))
}
