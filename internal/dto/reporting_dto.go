package dto

import (
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListDebtsParams filters the grouped debt listing.
type ListDebtsParams struct {
	Status string `form:"status" binding:"omitempty,paymentstatus"`
	Type   string `form:"type" binding:"omitempty,debttype"`
	Search string `form:"search" binding:"max=100"`
}

// PaymentsByDateRangeParams selects the payment statistics window.
type PaymentsByDateRangeParams struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
	Format    string `form:"format" binding:"omitempty,oneof=json csv"`
}

// DebtBalanceResponse is a debt with its counterparty and payment totals.
type DebtBalanceResponse struct {
	TransactionResponse
	PersonName string          `json:"personName"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	Remaining  decimal.Decimal `json:"remaining"`
}

type GroupedDebtsResponse struct {
	Borrowed []DebtBalanceResponse `json:"borrowed"`
	Lent     []DebtBalanceResponse `json:"lent"`
}

type DebtListResponse struct {
	DebtType  string                `json:"debtType"`
	Debts     []DebtBalanceResponse `json:"debts"`
	Total     decimal.Decimal       `json:"total"`
	TotalPaid decimal.Decimal       `json:"totalPaid"`
	Remaining decimal.Decimal       `json:"remaining"`
}

type StatusCountsResponse struct {
	Total   int `json:"total"`
	Unpaid  int `json:"unpaid"`
	Partial int `json:"partial"`
	Paid    int `json:"paid"`
}

type DebtTypeSummaryResponse struct {
	Total          decimal.Decimal            `json:"total"`
	Paid           decimal.Decimal            `json:"paid"`
	Remaining      decimal.Decimal            `json:"remaining"`
	AmountByStatus map[string]decimal.Decimal `json:"amountByStatus"`
	Count          StatusCountsResponse       `json:"count"`
}

type DebtsSummaryResponse struct {
	Borrowed DebtTypeSummaryResponse `json:"borrowed"`
	Lent     DebtTypeSummaryResponse `json:"lent"`
}

type PersonDebtsResponse struct {
	PersonID      string                `json:"personID"`
	PersonName    string                `json:"personName"`
	TotalBorrowed decimal.Decimal       `json:"totalBorrowed"`
	TotalLent     decimal.Decimal       `json:"totalLent"`
	Net           decimal.Decimal       `json:"net"`
	Debts         []DebtBalanceResponse `json:"debts"`
}

type DebtOverviewResponse struct {
	Summary  DebtsSummaryResponse  `json:"summary"`
	ByPerson []PersonDebtsResponse `json:"byPerson"`
}

type PaymentReportRowResponse struct {
	PaymentResponse
	DebtType        string `json:"debtType"`
	DebtDescription string `json:"debtDescription"`
	PersonName      string `json:"personName"`
}

type PaymentReportResponse struct {
	StartDate time.Time                  `json:"startDate"`
	EndDate   time.Time                  `json:"endDate"`
	Payments  []PaymentReportRowResponse `json:"payments"`
	Total     decimal.Decimal            `json:"total"`
}

// PaymentReportCSVRow is the CSV export shape of a payment statistics row.
type PaymentReportCSVRow struct {
	PaymentID   string `csv:"payment_id"`
	PaymentDate string `csv:"payment_date"`
	Amount      string `csv:"amount"`
	DebtID      string `csv:"debt_id"`
	DebtType    string `csv:"debt_type"`
	PersonName  string `csv:"person_name"`
	Description string `csv:"description"`
}

func ToDebtBalanceResponse(b *domain.DebtBalance) DebtBalanceResponse {
	return DebtBalanceResponse{
		TransactionResponse: ToTransactionResponse(&b.Debt),
		PersonName:          b.PersonName,
		TotalPaid:           b.TotalPaid,
		Remaining:           b.Remaining,
	}
}

func ToDebtBalanceResponses(balances []domain.DebtBalance) []DebtBalanceResponse {
	out := make([]DebtBalanceResponse, len(balances))
	for i := range balances {
		out[i] = ToDebtBalanceResponse(&balances[i])
	}
	return out
}

func ToGroupedDebtsResponse(g *domain.GroupedDebts) GroupedDebtsResponse {
	return GroupedDebtsResponse{
		Borrowed: ToDebtBalanceResponses(g.Borrowed),
		Lent:     ToDebtBalanceResponses(g.Lent),
	}
}

func ToDebtListResponse(l *domain.DebtList) DebtListResponse {
	return DebtListResponse{
		DebtType:  string(l.DebtType),
		Debts:     ToDebtBalanceResponses(l.Debts),
		Total:     l.Total,
		TotalPaid: l.TotalPaid,
		Remaining: l.Remaining,
	}
}

func toDebtTypeSummaryResponse(s domain.DebtTypeSummary) DebtTypeSummaryResponse {
	byStatus := make(map[string]decimal.Decimal, len(s.AmountByStatus))
	for status, amount := range s.AmountByStatus {
		byStatus[string(status)] = amount
	}
	return DebtTypeSummaryResponse{
		Total:          s.Total,
		Paid:           s.Paid,
		Remaining:      s.Remaining,
		AmountByStatus: byStatus,
		Count: StatusCountsResponse{
			Total:   s.Count.Total,
			Unpaid:  s.Count.Unpaid,
			Partial: s.Count.Partial,
			Paid:    s.Count.Paid,
		},
	}
}

func ToDebtsSummaryResponse(s *domain.DebtsSummary) DebtsSummaryResponse {
	return DebtsSummaryResponse{
		Borrowed: toDebtTypeSummaryResponse(s.Borrowed),
		Lent:     toDebtTypeSummaryResponse(s.Lent),
	}
}

func ToPersonDebtsResponses(groups []domain.PersonDebts) []PersonDebtsResponse {
	out := make([]PersonDebtsResponse, len(groups))
	for i, g := range groups {
		out[i] = PersonDebtsResponse{
			PersonID:      g.PersonID,
			PersonName:    g.PersonName,
			TotalBorrowed: g.TotalBorrowed,
			TotalLent:     g.TotalLent,
			Net:           g.Net,
			Debts:         ToDebtBalanceResponses(g.Debts),
		}
	}
	return out
}

func ToDebtOverviewResponse(o *domain.DebtOverview) DebtOverviewResponse {
	return DebtOverviewResponse{
		Summary:  ToDebtsSummaryResponse(&o.Summary),
		ByPerson: ToPersonDebtsResponses(o.ByPerson),
	}
}

func ToPaymentReportResponse(r *domain.PaymentReport) PaymentReportResponse {
	rows := make([]PaymentReportRowResponse, len(r.Payments))
	for i := range r.Payments {
		row := r.Payments[i]
		rows[i] = PaymentReportRowResponse{
			PaymentResponse: ToPaymentResponse(&row.Payment),
			DebtType:        string(row.DebtType),
			DebtDescription: row.DebtDescription,
			PersonName:      row.PersonName,
		}
	}
	return PaymentReportResponse{
		StartDate: r.From,
		EndDate:   r.To,
		Payments:  rows,
		Total:     r.Total,
	}
}

func ToPaymentReportCSVRows(r *domain.PaymentReport) []*PaymentReportCSVRow {
	rows := make([]*PaymentReportCSVRow, len(r.Payments))
	for i, row := range r.Payments {
		rows[i] = &PaymentReportCSVRow{
			PaymentID:   row.Payment.PaymentID,
			PaymentDate: row.Payment.PaymentDate.Format(time.RFC3339),
			Amount:      row.Payment.Amount.StringFixed(domain.MoneyScale),
			DebtID:      row.Payment.DebtID,
			DebtType:    string(row.DebtType),
			PersonName:  row.PersonName,
			Description: row.DebtDescription,
		}
	}
	return rows
}
