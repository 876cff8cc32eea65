package services

import (
	"context"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// ReportingService defines the read-only debt and payment projections
type ReportingService interface {
	// GetAllDebts returns debts matching filter grouped by direction.
	GetAllDebts(ctx context.Context, userID string, filter domain.DebtFilter) (*domain.GroupedDebts, error)

	// GetDebtsByType returns debts of one direction within the filter's window with totals.
	GetDebtsByType(ctx context.Context, userID string, debtType domain.DebtType, filter domain.DebtFilter) (*domain.DebtList, error)

	// GetDebtsByPerson groups debts by counterparty with borrowed and lent totals.
	GetDebtsByPerson(ctx context.Context, userID string) ([]domain.PersonDebts, error)

	// GetDebtsSummary aggregates totals and status counts per direction.
	GetDebtsSummary(ctx context.Context, userID string) (*domain.DebtsSummary, error)

	// GetDebtOverview returns the summary and the per-person grouping together.
	GetDebtOverview(ctx context.Context, userID string) (*domain.DebtOverview, error)

	// PaymentsByDateRange lists payments dated in [from, to] with debt and person context.
	PaymentsByDateRange(ctx context.Context, userID string, from, to time.Time) (*domain.PaymentReport, error)
}
