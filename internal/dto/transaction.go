package dto

import (
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest creates an income, expense or debt.
// Either Input (free text for the parser) or Amount must be supplied; explicit fields win over parsed ones.
type CreateTransactionRequest struct {
	Type        string           `json:"type" binding:"required,txtype"`
	Input       string           `json:"input" binding:"max=500"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
	DebtType    *string          `json:"debtType" binding:"omitempty,debttype"`
	CategoryID  *string          `json:"categoryID"`
	PersonID    *string          `json:"personID"`
	Date        *time.Time       `json:"date"`
}

// UpdateTransactionRequest patches a transaction. The type is immutable.
type UpdateTransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Date        *time.Time       `json:"date"`
	CategoryID  *string          `json:"categoryID"`
	PersonID    *string          `json:"personID"`
	DebtType    *string          `json:"debtType" binding:"omitempty,debttype"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Type      string `form:"type" binding:"omitempty,txtype"`
	Period    string `form:"period" binding:"omitempty,period"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Limit     int    `form:"limit,default=50" binding:"min=1,max=200"`
	NextToken string `form:"nextToken"`
}

// PeriodParams selects a date window by keyword or explicit dates.
type PeriodParams struct {
	Period    string `form:"period" binding:"omitempty,period"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	CategoryID    *string         `json:"categoryID,omitempty"`
	PersonID      *string         `json:"personID,omitempty"`
	DebtType      *string         `json:"debtType,omitempty"`
	PaymentStatus *string         `json:"paymentStatus,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// TransactionTotalResponse is a list of transactions with their sum.
type TransactionTotalResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        decimal.Decimal       `json:"total"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: txn.TransactionID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		Description:   txn.Description,
		Date:          txn.Date,
		CategoryID:    txn.CategoryID,
		PersonID:      txn.PersonID,
		CreatedAt:     txn.CreatedAt,
		LastUpdatedAt: txn.LastUpdatedAt,
	}
	if txn.DebtType != nil {
		v := string(*txn.DebtType)
		resp.DebtType = &v
	}
	if txn.PaymentStatus != nil {
		v := string(*txn.PaymentStatus)
		resp.PaymentStatus = &v
	}
	return resp
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

func ToTransactionTotalResponse(t *domain.TransactionTotal) TransactionTotalResponse {
	return TransactionTotalResponse{
		Transactions: ToTransactionResponses(t.Transactions),
		Total:        t.Total,
	}
}
