package domain

// CategoryType limits categories to incomes or expenses.
type CategoryType string

const (
	IncomeCategory  CategoryType = "income"
	ExpenseCategory CategoryType = "expense"
)

func (c CategoryType) IsValid() bool {
	return c == IncomeCategory || c == ExpenseCategory
}

// Category groups incomes and expenses.
type Category struct {
	CategoryID string       `json:"categoryID"`
	UserID     string       `json:"userID"`
	Name       string       `json:"name"`
	Type       CategoryType `json:"type"`
	AuditFields
}
