package domain

// Person is a counterparty debts are recorded against.
type Person struct {
	PersonID string `json:"personID"`
	UserID   string `json:"userID"`
	Name     string `json:"name"`
	AuditFields
}
