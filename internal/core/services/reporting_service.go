package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// reportingService implements the ReportingService interface.
// It only reads; stored payment statuses are reported as they are.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(repo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{reportingRepo: repo}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// debtBalances loads the balances matching filter with Remaining filled in.
func (s *reportingService) debtBalances(ctx context.Context, userID string, filter domain.DebtFilter) ([]domain.DebtBalance, error) {
	balances, err := s.reportingRepo.ListDebtBalances(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve debt balances", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to retrieve debt balances: %w", err)
	}
	for i := range balances {
		agg := accounting.AggregatePayments(balances[i].Debt.Amount, []decimal.Decimal{balances[i].TotalPaid})
		balances[i].Remaining = agg.Remaining
	}
	return balances, nil
}

func (s *reportingService) GetAllDebts(ctx context.Context, userID string, filter domain.DebtFilter) (*domain.GroupedDebts, error) {
	balances, err := s.debtBalances(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	grouped := &domain.GroupedDebts{
		Borrowed: []domain.DebtBalance{},
		Lent:     []domain.DebtBalance{},
	}
	for _, b := range balances {
		if b.Debt.DebtType == nil {
			continue
		}
		switch *b.Debt.DebtType {
		case domain.Borrowed:
			grouped.Borrowed = append(grouped.Borrowed, b)
		case domain.Lent:
			grouped.Lent = append(grouped.Lent, b)
		}
	}
	return grouped, nil
}

func (s *reportingService) GetDebtsByType(ctx context.Context, userID string, debtType domain.DebtType, filter domain.DebtFilter) (*domain.DebtList, error) {
	if !debtType.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid debt type %q: must be borrowed or lent", debtType))
	}
	filter.DebtType = &debtType

	balances, err := s.debtBalances(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	list := &domain.DebtList{
		DebtType:  debtType,
		Debts:     balances,
		Total:     decimal.Zero,
		TotalPaid: decimal.Zero,
		Remaining: decimal.Zero,
	}
	for _, b := range balances {
		list.Total = list.Total.Add(b.Debt.Amount)
		list.TotalPaid = list.TotalPaid.Add(b.TotalPaid)
		list.Remaining = list.Remaining.Add(b.Remaining)
	}

	s.LogDebug(ctx, "Debts by type listed", slog.String("debt_type", string(debtType)), slog.Int("count", len(balances)))
	return list, nil
}

func (s *reportingService) GetDebtsByPerson(ctx context.Context, userID string) ([]domain.PersonDebts, error) {
	balances, err := s.debtBalances(ctx, userID, domain.DebtFilter{})
	if err != nil {
		return nil, err
	}
	return groupByPerson(balances), nil
}

func groupByPerson(balances []domain.DebtBalance) []domain.PersonDebts {
	index := make(map[string]int)
	groups := make([]domain.PersonDebts, 0)
	for _, b := range balances {
		personID := ""
		if b.Debt.PersonID != nil {
			personID = *b.Debt.PersonID
		}
		i, ok := index[personID]
		if !ok {
			i = len(groups)
			index[personID] = i
			groups = append(groups, domain.PersonDebts{
				PersonID:      personID,
				PersonName:    b.PersonName,
				TotalBorrowed: decimal.Zero,
				TotalLent:     decimal.Zero,
			})
		}

		g := &groups[i]
		g.Debts = append(g.Debts, b)
		if b.Debt.DebtType != nil && *b.Debt.DebtType == domain.Lent {
			g.TotalLent = g.TotalLent.Add(b.Debt.Amount)
		} else {
			g.TotalBorrowed = g.TotalBorrowed.Add(b.Debt.Amount)
		}
	}

	for i := range groups {
		groups[i].Net = groups[i].TotalLent.Sub(groups[i].TotalBorrowed)
	}
	slices.SortStableFunc(groups, func(a, b domain.PersonDebts) int {
		return strings.Compare(strings.ToLower(a.PersonName), strings.ToLower(b.PersonName))
	})
	return groups
}

func (s *reportingService) GetDebtsSummary(ctx context.Context, userID string) (*domain.DebtsSummary, error) {
	balances, err := s.debtBalances(ctx, userID, domain.DebtFilter{})
	if err != nil {
		return nil, err
	}
	return summarize(balances), nil
}

func newDebtTypeSummary() domain.DebtTypeSummary {
	return domain.DebtTypeSummary{
		Total:     decimal.Zero,
		Paid:      decimal.Zero,
		Remaining: decimal.Zero,
		AmountByStatus: map[domain.PaymentStatus]decimal.Decimal{
			domain.StatusUnpaid:  decimal.Zero,
			domain.StatusPartial: decimal.Zero,
			domain.StatusPaid:    decimal.Zero,
		},
	}
}

func summarize(balances []domain.DebtBalance) *domain.DebtsSummary {
	summary := &domain.DebtsSummary{
		Borrowed: newDebtTypeSummary(),
		Lent:     newDebtTypeSummary(),
	}
	for _, b := range balances {
		if b.Debt.DebtType == nil {
			continue
		}
		target := &summary.Borrowed
		if *b.Debt.DebtType == domain.Lent {
			target = &summary.Lent
		}

		status := b.Debt.Status()
		target.Total = target.Total.Add(b.Debt.Amount)
		target.Paid = target.Paid.Add(b.TotalPaid)
		target.Remaining = target.Remaining.Add(b.Remaining)
		target.AmountByStatus[status] = target.AmountByStatus[status].Add(b.Debt.Amount)

		target.Count.Total++
		switch status {
		case domain.StatusUnpaid:
			target.Count.Unpaid++
		case domain.StatusPartial:
			target.Count.Partial++
		case domain.StatusPaid:
			target.Count.Paid++
		}
	}
	return summary
}

// GetDebtOverview fetches the summary and the per-person grouping concurrently.
func (s *reportingService) GetDebtOverview(ctx context.Context, userID string) (*domain.DebtOverview, error) {
	var (
		summary  *domain.DebtsSummary
		byPerson []domain.PersonDebts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.GetDebtsSummary(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		byPerson, err = s.GetDebtsByPerson(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build debt overview: %w", err)
	}

	return &domain.DebtOverview{Summary: *summary, ByPerson: byPerson}, nil
}

func (s *reportingService) PaymentsByDateRange(ctx context.Context, userID string, from, to time.Time) (*domain.PaymentReport, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("endDate must not be before startDate")
	}

	rows, err := s.reportingRepo.ListPaymentsInRange(ctx, userID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve payments in range",
			slog.String("from", from.Format(time.RFC3339)),
			slog.String("to", to.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}

	amounts := make([]decimal.Decimal, len(rows))
	for i, row := range rows {
		amounts[i] = row.Payment.Amount
	}

	s.LogInfo(ctx, "Payment report generated",
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.Int("row_count", len(rows)))
	return &domain.PaymentReport{
		From:     from,
		To:       to,
		Payments: rows,
		Total:    accounting.Sum(amounts...),
	}, nil
}
