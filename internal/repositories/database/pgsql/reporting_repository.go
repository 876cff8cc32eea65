package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// likeEscaper makes user text match literally inside a LIKE pattern using ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// ListDebtBalances retrieves debts with their counterparty name and summed payments.
func (r *reportingRepository) ListDebtBalances(ctx context.Context, userID string, filter domain.DebtFilter) ([]domain.DebtBalance, error) {
	conditions := []string{"t.user_id = $1", "t.type = 'debt'"}
	args := []any{userID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != nil {
		conditions = append(conditions, "t.payment_status = "+arg(string(*filter.Status)))
	}
	if filter.DebtType != nil {
		conditions = append(conditions, "t.debt_type = "+arg(string(*filter.DebtType)))
	}
	if filter.PersonName != "" {
		conditions = append(conditions, "p.name ILIKE '%' || "+arg(escapeLike(filter.PersonName))+` || '%' ESCAPE '\'`)
	}
	if filter.From != nil {
		conditions = append(conditions, "t.transaction_date >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "t.transaction_date <= "+arg(*filter.To))
	}

	query := `
		SELECT
			t.transaction_id, t.user_id, t.type, t.amount, t.description, t.transaction_date,
			t.category_id, t.person_id, t.debt_type, t.payment_status,
			t.created_at, t.created_by, t.last_updated_at, t.last_updated_by,
			p.name,
			COALESCE(SUM(dp.amount), 0) AS total_paid
		FROM transactions t
		JOIN persons p ON p.person_id = t.person_id
		LEFT JOIN debt_payments dp ON dp.debt_id = t.transaction_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		GROUP BY t.transaction_id, p.name
		ORDER BY t.transaction_date DESC, t.created_at DESC;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying debt balances: %w", err)
	}
	defer rows.Close()

	result := []domain.DebtBalance{}
	for rows.Next() {
		var (
			m          models.Transaction
			personName string
			totalPaid  decimal.Decimal
		)
		dest := append(transactionDest(&m), &personName, &totalPaid)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning debt balance row: %w", err)
		}
		result = append(result, domain.DebtBalance{
			Debt:       mapping.ToDomainTransaction(m),
			PersonName: personName,
			TotalPaid:  totalPaid,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debt balance rows: %w", err)
	}
	return result, nil
}

// ListPaymentsInRange retrieves payments dated within [from, to], newest first.
func (r *reportingRepository) ListPaymentsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.PaymentReportRow, error) {
	query := `
		SELECT
			dp.payment_id, dp.debt_id, dp.amount, dp.payment_date, dp.notes,
			dp.created_at, dp.created_by, dp.last_updated_at, dp.last_updated_by,
			t.debt_type, t.description, p.name
		FROM debt_payments dp
		JOIN transactions t ON t.transaction_id = dp.debt_id
		JOIN persons p ON p.person_id = t.person_id
		WHERE t.user_id = $1 AND dp.payment_date >= $2 AND dp.payment_date <= $3
		ORDER BY dp.payment_date DESC, dp.created_at DESC;
	`

	rows, err := r.Pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying payments in range: %w", err)
	}
	defer rows.Close()

	result := []domain.PaymentReportRow{}
	for rows.Next() {
		var (
			m           models.Payment
			debtType    string
			description string
			personName  string
		)
		dest := append(paymentDest(&m), &debtType, &description, &personName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning payment row: %w", err)
		}
		result = append(result, domain.PaymentReportRow{
			Payment:         mapping.ToDomainPayment(m),
			DebtType:        domain.DebtType(debtType),
			DebtDescription: description,
			PersonName:      personName,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return result, nil
}
