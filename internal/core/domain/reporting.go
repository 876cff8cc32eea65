package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtBalance is a debt joined with its counterparty name and payment total.
type DebtBalance struct {
	Debt       Transaction     `json:"debt"`
	PersonName string          `json:"personName"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// DebtFilter narrows debt listings. Zero values mean no filter.
type DebtFilter struct {
	Status     *PaymentStatus
	DebtType   *DebtType
	PersonName string // case-insensitive substring
	From       *time.Time
	To         *time.Time
}

// GroupedDebts splits debts by direction.
type GroupedDebts struct {
	Borrowed []DebtBalance `json:"borrowed"`
	Lent     []DebtBalance `json:"lent"`
}

// DebtList is a list of debts of one type with decimal totals.
type DebtList struct {
	DebtType  DebtType        `json:"debtType"`
	Debts     []DebtBalance   `json:"debts"`
	Total     decimal.Decimal `json:"total"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// StatusCounts counts debts per payment status.
type StatusCounts struct {
	Total   int `json:"total"`
	Unpaid  int `json:"unpaid"`
	Partial int `json:"partial"`
	Paid    int `json:"paid"`
}

// DebtTypeSummary aggregates all debts of one direction.
type DebtTypeSummary struct {
	Total          decimal.Decimal                   `json:"total"`
	Paid           decimal.Decimal                   `json:"paid"`
	Remaining      decimal.Decimal                   `json:"remaining"`
	AmountByStatus map[PaymentStatus]decimal.Decimal `json:"amountByStatus"`
	Count          StatusCounts                      `json:"count"`
}

// DebtsSummary holds one DebtTypeSummary per direction.
type DebtsSummary struct {
	Borrowed DebtTypeSummary `json:"borrowed"`
	Lent     DebtTypeSummary `json:"lent"`
}

// PersonDebts groups a counterparty's debts with running totals.
type PersonDebts struct {
	PersonID      string          `json:"personID"`
	PersonName    string          `json:"personName"`
	TotalBorrowed decimal.Decimal `json:"totalBorrowed"`
	TotalLent     decimal.Decimal `json:"totalLent"`
	Net           decimal.Decimal `json:"net"` // lent minus borrowed
	Debts         []DebtBalance   `json:"debts"`
}

// DebtOverview bundles the dashboard projections.
type DebtOverview struct {
	Summary  DebtsSummary  `json:"summary"`
	ByPerson []PersonDebts `json:"byPerson"`
}

// PaymentReportRow is a payment joined with its debt and counterparty.
type PaymentReportRow struct {
	Payment         Payment  `json:"payment"`
	DebtType        DebtType `json:"debtType"`
	DebtDescription string   `json:"debtDescription"`
	PersonName      string   `json:"personName"`
}

// PaymentReport is the result of a payments-by-date-range query.
type PaymentReport struct {
	From     time.Time          `json:"from"`
	To       time.Time          `json:"to"`
	Payments []PaymentReportRow `json:"payments"`
	Total    decimal.Decimal    `json:"total"`
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Type      *TransactionType
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}

// TransactionTotal is a list of transactions with their decimal sum.
type TransactionTotal struct {
	Transactions []Transaction   `json:"transactions"`
	Total        decimal.Decimal `json:"total"`
}
