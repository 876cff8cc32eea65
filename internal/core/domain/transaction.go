package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes incomes, expenses and debts.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
	Debt    TransactionType = "debt"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Debt:
		return true
	}
	return false
}

// DebtType is the direction of a debt.
type DebtType string

const (
	// Borrowed is money owed by the ledger owner.
	Borrowed DebtType = "borrowed"
	// Lent is money owed to the ledger owner.
	Lent DebtType = "lent"
)

func (d DebtType) IsValid() bool {
	return d == Borrowed || d == Lent
}

// PaymentStatus is the repayment progress of a debt.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPartial PaymentStatus = "partial"
	StatusPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusUnpaid, StatusPartial, StatusPaid:
		return true
	}
	return false
}

// IsOverridable reports whether s may be set directly by a user. Partial is derived only.
func (s PaymentStatus) IsOverridable() bool {
	return s == StatusPaid || s == StatusUnpaid
}

// MoneyScale is the number of decimal places every stored amount carries.
const MoneyScale = 2

// Transaction is an income, expense or debt record owned by a user.
// DebtType, PersonID and PaymentStatus are only ever set for debts.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	UserID        string          `json:"userID"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	CategoryID    *string         `json:"categoryID,omitempty"`
	PersonID      *string         `json:"personID,omitempty"`
	DebtType      *DebtType       `json:"debtType,omitempty"`
	PaymentStatus *PaymentStatus  `json:"paymentStatus,omitempty"`
	AuditFields
}

// IsDebt reports whether the transaction is a debt.
func (t Transaction) IsDebt() bool {
	return t.Type == Debt
}

// Status returns the stored payment status, or unpaid for a debt that has none yet.
func (t Transaction) Status() PaymentStatus {
	if t.PaymentStatus == nil {
		return StatusUnpaid
	}
	return *t.PaymentStatus
}

// TransactionParams holds the fields accepted by NewTransaction.
type TransactionParams struct {
	TransactionID string
	UserID        string
	Type          TransactionType
	Amount        decimal.Decimal
	Description   string
	Date          time.Time
	CategoryID    *string
	PersonID      *string
	DebtType      *DebtType
	CreatedBy     string
	CreatedAt     time.Time
}

// NewTransaction builds a transaction and enforces the per-type field rules.
// A debt starts unpaid; a non-debt never carries a debt type, person or status.
func NewTransaction(p TransactionParams) (Transaction, error) {
	if !p.Type.IsValid() {
		return Transaction{}, fmt.Errorf("invalid transaction type %q", p.Type)
	}
	if err := ValidateAmount(p.Amount); err != nil {
		return Transaction{}, err
	}

	txn := Transaction{
		TransactionID: p.TransactionID,
		UserID:        p.UserID,
		Type:          p.Type,
		Amount:        p.Amount,
		Description:   strings.TrimSpace(p.Description),
		Date:          p.Date,
		CategoryID:    p.CategoryID,
		AuditFields: AuditFields{
			CreatedAt:     p.CreatedAt,
			CreatedBy:     p.CreatedBy,
			LastUpdatedAt: p.CreatedAt,
			LastUpdatedBy: p.CreatedBy,
		},
	}

	if p.Type == Debt {
		status := StatusUnpaid
		txn.PersonID = p.PersonID
		txn.DebtType = p.DebtType
		txn.PaymentStatus = &status
	} else if p.DebtType != nil || (p.PersonID != nil && *p.PersonID != "") {
		return Transaction{}, fmt.Errorf("%s transactions cannot carry debt fields", p.Type)
	}

	if err := txn.Validate(); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

// Validate checks the per-type field rules on an existing transaction.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("invalid transaction type %q", t.Type)
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if t.Type != Debt {
		if t.DebtType != nil || t.PaymentStatus != nil || t.PersonID != nil {
			return fmt.Errorf("%s transactions cannot carry debt fields", t.Type)
		}
		return nil
	}
	if t.PersonID == nil || *t.PersonID == "" {
		return fmt.Errorf("person is required for debt transactions")
	}
	if t.DebtType == nil || !t.DebtType.IsValid() {
		return fmt.Errorf("debt type must be one of borrowed, lent")
	}
	if t.PaymentStatus == nil || !t.PaymentStatus.IsValid() {
		return fmt.Errorf("debt must carry a payment status")
	}
	return nil
}

// ValidateAmount checks an amount is positive and has at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	if !amount.Equal(amount.Round(MoneyScale)) {
		return fmt.Errorf("amount must have at most %d decimal places", MoneyScale)
	}
	return nil
}

// ParsedTransaction is what the natural language parser extracted from free text.
// Fields it could not determine are left nil or empty.
type ParsedTransaction struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	DebtType    *DebtType        `json:"debtType"`
}
