package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *sql.DB) portsrepo.ReportingRepository {
	return &reportingRepository{BaseRepository: BaseRepository{DB: db}}
}

// likeEscaper makes user text match literally inside a LIKE pattern using ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// ListDebtBalances retrieves debts with their counterparty name and summed payments.
// SQLite has no exact decimal SUM, so payment amounts are summed here from one row per payment.
func (r *reportingRepository) ListDebtBalances(ctx context.Context, userID string, filter domain.DebtFilter) ([]domain.DebtBalance, error) {
	conditions := []string{"t.user_id = ?", "t.type = 'debt'"}
	args := []any{userID}

	if filter.Status != nil {
		conditions = append(conditions, "t.payment_status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.DebtType != nil {
		conditions = append(conditions, "t.debt_type = ?")
		args = append(args, string(*filter.DebtType))
	}
	if filter.PersonName != "" {
		// LIKE is case-insensitive for ASCII in SQLite.
		conditions = append(conditions, `p.name LIKE '%' || ? || '%' ESCAPE '\'`)
		args = append(args, escapeLike(filter.PersonName))
	}
	if filter.From != nil {
		conditions = append(conditions, "t.transaction_date >= ?")
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "t.transaction_date <= ?")
		args = append(args, formatTime(*filter.To))
	}

	query := `
		SELECT
			t.transaction_id, t.user_id, t.type, t.amount, t.description, t.transaction_date,
			t.category_id, t.person_id, t.debt_type, t.payment_status,
			t.created_at, t.created_by, t.last_updated_at, t.last_updated_by,
			p.name,
			dp.amount
		FROM transactions t
		JOIN persons p ON p.person_id = t.person_id
		LEFT JOIN debt_payments dp ON dp.debt_id = t.transaction_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY t.transaction_date DESC, t.created_at DESC, t.transaction_id DESC;
	`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying debt balances: %w", err)
	}
	defer rows.Close()

	result := []domain.DebtBalance{}
	index := map[string]int{}
	for rows.Next() {
		var (
			m             models.Transaction
			personName    string
			paymentAmount decimal.NullDecimal
		)
		dest := append(transactionDest(&m), &personName, &paymentAmount)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning debt balance row: %w", err)
		}

		i, seen := index[m.TransactionID]
		if !seen {
			i = len(result)
			index[m.TransactionID] = i
			result = append(result, domain.DebtBalance{
				Debt:       mapping.ToDomainTransaction(m),
				PersonName: personName,
				TotalPaid:  decimal.Zero,
			})
		}
		if paymentAmount.Valid {
			result[i].TotalPaid = result[i].TotalPaid.Add(paymentAmount.Decimal)
		}
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
		WHERE t.user_id = ? AND dp.payment_date >= ? AND dp.payment_date <= ?
		ORDER BY dp.payment_date DESC, dp.created_at DESC;
	`

	rows, err := r.DB.QueryContext(ctx, query, userID, formatTime(from), formatTime(to))
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
