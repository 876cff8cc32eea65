package dto

import (
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records a repayment against a debt.
type CreatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	PaymentDate *time.Time      `json:"paymentDate"` // defaults to now
	Notes       *string         `json:"notes" binding:"omitempty,max=500"`
}

// UpdatePaymentRequest changes only the fields that are present.
// An empty notes string clears the notes.
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string"`
	PaymentDate *time.Time       `json:"paymentDate"`
	Notes       *string          `json:"notes" binding:"omitempty,max=500"`
}

// UpdateDebtStatusRequest is the manual status override.
type UpdateDebtStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PaymentResponse struct {
	PaymentID   string          `json:"paymentID"`
	DebtID      string          `json:"debtID"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Notes       *string         `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PaymentCSVRow is the CSV export shape of a payment.
type PaymentCSVRow struct {
	PaymentID   string `csv:"payment_id"`
	PaymentDate string `csv:"payment_date"`
	Amount      string `csv:"amount"`
	Notes       string `csv:"notes"`
}

type DebtTotalsResponse struct {
	DebtID    string          `json:"debtID"`
	Amount    decimal.Decimal `json:"amount"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    string          `json:"status"`
}

type PaymentResultResponse struct {
	Payment PaymentResponse    `json:"payment"`
	Debt    DebtTotalsResponse `json:"debt"`
}

type DebtSummaryResponse struct {
	Debt       TransactionResponse `json:"debt"`
	PersonName string              `json:"personName"`
	Amount     decimal.Decimal     `json:"amount"`
	TotalPaid  decimal.Decimal     `json:"totalPaid"`
	Remaining  decimal.Decimal     `json:"remaining"`
	Status     string              `json:"status"`
	Payments   []PaymentResponse   `json:"payments"`
}

func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		DebtID:      p.DebtID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out
}

func ToPaymentCSVRows(payments []domain.Payment) []*PaymentCSVRow {
	rows := make([]*PaymentCSVRow, len(payments))
	for i, p := range payments {
		notes := ""
		if p.Notes != nil {
			notes = *p.Notes
		}
		rows[i] = &PaymentCSVRow{
			PaymentID:   p.PaymentID,
			PaymentDate: p.PaymentDate.Format(time.RFC3339),
			Amount:      p.Amount.StringFixed(domain.MoneyScale),
			Notes:       notes,
		}
	}
	return rows
}

func ToDebtTotalsResponse(t domain.DebtTotals) DebtTotalsResponse {
	return DebtTotalsResponse{
		DebtID:    t.DebtID,
		Amount:    t.Amount,
		TotalPaid: t.TotalPaid,
		Remaining: t.Remaining,
		Status:    string(t.Status),
	}
}

func ToPaymentResultResponse(r *domain.PaymentResult) PaymentResultResponse {
	return PaymentResultResponse{
		Payment: ToPaymentResponse(&r.Payment),
		Debt:    ToDebtTotalsResponse(r.Totals),
	}
}

func ToDebtSummaryResponse(s *domain.DebtSummary) DebtSummaryResponse {
	return DebtSummaryResponse{
		Debt:       ToTransactionResponse(&s.Debt),
		PersonName: s.PersonName,
		Amount:     s.Totals.Amount,
		TotalPaid:  s.Totals.TotalPaid,
		Remaining:  s.Totals.Remaining,
		Status:     string(s.Totals.Status),
		Payments:   ToPaymentResponses(s.Payments),
	}
}
