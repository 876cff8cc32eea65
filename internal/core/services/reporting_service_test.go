package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func balance(id, personID, personName string, debtType domain.DebtType, amount, paid string, status domain.PaymentStatus) domain.DebtBalance {
	return domain.DebtBalance{
		Debt: domain.Transaction{
			TransactionID: id,
			Type:          domain.Debt,
			Amount:        dec(amount),
			PersonID:      &personID,
			DebtType:      &debtType,
			PaymentStatus: &status,
		},
		PersonName: personName,
		TotalPaid:  dec(paid),
	}
}

func sampleBalances() []domain.DebtBalance {
	return []domain.DebtBalance{
		balance("d1", "p1", "Omar", domain.Lent, "250.00", "100.00", domain.StatusPartial),
		balance("d2", "p2", "Bea", domain.Borrowed, "1000.00", "1000.00", domain.StatusPaid),
		balance("d3", "p1", "Omar", domain.Borrowed, "40.00", "0", domain.StatusUnpaid),
		balance("d4", "p2", "Bea", domain.Lent, "0.30", "0", domain.StatusUnpaid),
	}
}

func newReportingService(repo *MockReportingRepository) portssvc.ReportingService {
	return services.NewReportingService(repo)
}

func TestGetAllDebts_GroupsByDirection(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	repo.On("ListDebtBalances", ctx, "u1", domain.DebtFilter{}).Return(sampleBalances(), nil).Once()

	grouped, err := newReportingService(repo).GetAllDebts(ctx, "u1", domain.DebtFilter{})

	require.NoError(t, err)
	assert.Len(t, grouped.Borrowed, 2)
	assert.Len(t, grouped.Lent, 2)
	assert.True(t, grouped.Lent[0].Remaining.Equal(dec("150.00")))
}

func TestGetDebtsByType_Totals(t *testing.T) {
	ctx := context.Background()
	lent := domain.Lent
	repo := new(MockReportingRepository)
	repo.On("ListDebtBalances", ctx, "u1", domain.DebtFilter{DebtType: &lent}).Return([]domain.DebtBalance{
		balance("d1", "p1", "Omar", domain.Lent, "250.00", "100.00", domain.StatusPartial),
		balance("d4", "p2", "Bea", domain.Lent, "0.30", "0", domain.StatusUnpaid),
	}, nil).Once()

	list, err := newReportingService(repo).GetDebtsByType(ctx, "u1", domain.Lent, domain.DebtFilter{})

	require.NoError(t, err)
	assert.Equal(t, domain.Lent, list.DebtType)
	assert.True(t, list.Total.Equal(dec("250.30")))
	assert.True(t, list.TotalPaid.Equal(dec("100.00")))
	assert.True(t, list.Remaining.Equal(dec("150.30")))
}

func TestGetDebtsByType_InvalidType(t *testing.T) {
	_, err := newReportingService(new(MockReportingRepository)).GetDebtsByType(context.Background(), "u1", "gifted", domain.DebtFilter{})

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestGetDebtsSummary(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	repo.On("ListDebtBalances", ctx, "u1", domain.DebtFilter{}).Return(sampleBalances(), nil).Once()

	summary, err := newReportingService(repo).GetDebtsSummary(ctx, "u1")

	require.NoError(t, err)
	assert.True(t, summary.Borrowed.Total.Equal(dec("1040.00")))
	assert.True(t, summary.Borrowed.Paid.Equal(dec("1000.00")))
	assert.True(t, summary.Borrowed.Remaining.Equal(dec("40.00")))
	assert.Equal(t, domain.StatusCounts{Total: 2, Unpaid: 1, Paid: 1}, summary.Borrowed.Count)
	assert.True(t, summary.Borrowed.AmountByStatus[domain.StatusPaid].Equal(dec("1000.00")))
	assert.Equal(t, domain.StatusCounts{Total: 2, Unpaid: 1, Partial: 1}, summary.Lent.Count)
	assert.True(t, summary.Lent.AmountByStatus[domain.StatusPartial].Equal(dec("250.00")))
}

func TestGetDebtsByPerson_NetAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportingRepository)
	repo.On("ListDebtBalances", ctx, "u1", domain.DebtFilter{}).Return(sampleBalances(), nil).Once()

	groups, err := newReportingService(repo).GetDebtsByPerson(ctx, "u1")

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Bea", groups[0].PersonName)
	assert.True(t, groups[0].Net.Equal(dec("-999.70")))
	assert.Equal(t, "Omar", groups[1].PersonName)
	assert.True(t, groups[1].TotalLent.Equal(dec("250.00")))
	assert.True(t, groups[1].TotalBorrowed.Equal(dec("40.00")))
	assert.True(t, groups[1].Net.Equal(dec("210.00")))
	assert.Len(t, groups[1].Debts, 2)
}

func TestGetDebtOverview(t *testing.T) {
	repo := new(MockReportingRepository)
	repo.On("ListDebtBalances", mock.Anything, "u1", domain.DebtFilter{}).Return(sampleBalances(), nil).Twice()

	overview, err := newReportingService(repo).GetDebtOverview(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 2, overview.Summary.Lent.Count.Total)
	assert.Len(t, overview.ByPerson, 2)
	repo.AssertExpectations(t)
}

func TestGetDebtOverview_PropagatesError(t *testing.T) {
	repo := new(MockReportingRepository)
	repo.On("ListDebtBalances", mock.Anything, "u1", domain.DebtFilter{}).Return(nil, errors.New("db down"))

	_, err := newReportingService(repo).GetDebtOverview(context.Background(), "u1")

	assert.Error(t, err)
}

func TestPaymentsByDateRange(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	repo := new(MockReportingRepository)
	repo.On("ListPaymentsInRange", ctx, "u1", from, to).Return([]domain.PaymentReportRow{
		{Payment: payment("pay1", "d1", "10.10"), DebtType: domain.Lent, PersonName: "Omar"},
		{Payment: payment("pay2", "d2", "0.20"), DebtType: domain.Borrowed, PersonName: "Bea"},
	}, nil).Once()

	report, err := newReportingService(repo).PaymentsByDateRange(ctx, "u1", from, to)

	require.NoError(t, err)
	assert.Len(t, report.Payments, 2)
	assert.True(t, report.Total.Equal(dec("10.30")))

	_, err = newReportingService(repo).PaymentsByDateRange(ctx, "u1", to, from)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
