package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
)

type SQLitePersonRepository struct {
	db *sql.DB
}

func newSQLitePersonRepository(db *sql.DB) portsrepo.PersonRepositoryFacade {
	return &SQLitePersonRepository{db: db}
}

var _ portsrepo.PersonRepositoryFacade = (*SQLitePersonRepository)(nil)

const personColumns = `person_id, user_id, name, created_at, created_by, last_updated_at, last_updated_by`

func scanPerson(row scanner) (models.Person, error) {
	var m models.Person
	err := row.Scan(&m.PersonID, &m.UserID, &m.Name,
		timeColumn{&m.CreatedAt}, &m.CreatedBy, timeColumn{&m.LastUpdatedAt}, &m.LastUpdatedBy)
	return m, err
}

func (r *SQLitePersonRepository) SavePerson(ctx context.Context, person domain.Person) error {
	m := mapping.ToModelPerson(person)
	query := `INSERT INTO persons (` + personColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?);`
	_, err := r.db.ExecContext(ctx, query, m.PersonID, m.UserID, m.Name,
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy)
	if err != nil {
		return mapSQLiteError(err, "person "+m.Name+" already exists or could not be saved")
	}
	return nil
}

func (r *SQLitePersonRepository) FindPersonByID(ctx context.Context, userID, personID string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE person_id = ? AND user_id = ?;`
	m, err := scanPerson(r.db.QueryRowContext(ctx, query, personID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("person")
		}
		return nil, fmt.Errorf("failed to find person %s: %w", personID, err)
	}
	person := mapping.ToDomainPerson(m)
	return &person, nil
}

func (r *SQLitePersonRepository) ListPersons(ctx context.Context, userID string) ([]domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE user_id = ? ORDER BY name ASC;`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query persons: %w", err)
	}
	defer rows.Close()

	persons := []domain.Person{}
	for rows.Next() {
		m, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person row: %w", err)
		}
		persons = append(persons, mapping.ToDomainPerson(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating person rows: %w", err)
	}
	return persons, nil
}

func (r *SQLitePersonRepository) UpdatePerson(ctx context.Context, person domain.Person) error {
	m := mapping.ToModelPerson(person)
	res, err := r.db.ExecContext(ctx,
		`UPDATE persons SET name = ?, last_updated_at = ?, last_updated_by = ? WHERE person_id = ? AND user_id = ?;`,
		m.Name, formatTime(m.LastUpdatedAt), m.LastUpdatedBy, m.PersonID, m.UserID)
	return expectOne(res, err, "person", "failed to update person "+m.PersonID)
}

func (r *SQLitePersonRepository) DeletePerson(ctx context.Context, userID, personID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE person_id = ? AND user_id = ?;`, personID, userID)
	return expectOne(res, err, "person", "person "+personID+" still has debts")
}
