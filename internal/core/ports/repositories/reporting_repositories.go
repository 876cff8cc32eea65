package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// ReportingRepository defines read-only projections over debts and payments
type ReportingRepository interface {
	// ListDebtBalances retrieves debts matching filter with person name and summed payments, newest first.
	ListDebtBalances(ctx context.Context, userID string, filter domain.DebtFilter) ([]domain.DebtBalance, error)

	// ListPaymentsInRange retrieves payments dated within [from, to] joined with their debt and person.
	ListPaymentsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.PaymentReportRow, error)
}
