package models

// Person is a row of the persons table.
type Person struct {
	PersonID string `db:"person_id"`
	UserID   string `db:"user_id"`
	Name     string `db:"name"`
	AuditFields
}

// Category is a row of the categories table.
type Category struct {
	CategoryID string `db:"category_id"`
	UserID     string `db:"user_id"`
	Name       string `db:"name"`
	Type       string `db:"type"`
	AuditFields
}
