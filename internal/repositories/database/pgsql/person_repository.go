package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/models"
	"github.com/SscSPs/money_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPersonRepository struct {
	db *pgxpool.Pool
}

func newPgxPersonRepository(db *pgxpool.Pool) portsrepo.PersonRepositoryFacade {
	return &PgxPersonRepository{db: db}
}

var _ portsrepo.PersonRepositoryFacade = (*PgxPersonRepository)(nil)

func (r *PgxPersonRepository) SavePerson(ctx context.Context, person domain.Person) error {
	m := mapping.ToModelPerson(person)
	query := `
		INSERT INTO persons (person_id, user_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query, m.PersonID, m.UserID, m.Name, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "person "+m.Name+" already exists or could not be saved")
	}
	return nil
}

func (r *PgxPersonRepository) FindPersonByID(ctx context.Context, userID, personID string) (*domain.Person, error) {
	query := `
		SELECT person_id, user_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM persons
		WHERE person_id = $1 AND user_id = $2;
	`
	var m models.Person
	err := r.db.QueryRow(ctx, query, personID, userID).Scan(
		&m.PersonID, &m.UserID, &m.Name,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("person")
		}
		return nil, fmt.Errorf("failed to find person %s: %w", personID, err)
	}
	person := mapping.ToDomainPerson(m)
	return &person, nil
}

func (r *PgxPersonRepository) ListPersons(ctx context.Context, userID string) ([]domain.Person, error) {
	query := `
		SELECT person_id, user_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM persons
		WHERE user_id = $1
		ORDER BY name ASC;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query persons: %w", err)
	}
	defer rows.Close()

	persons := []domain.Person{}
	for rows.Next() {
		var m models.Person
		if err := rows.Scan(&m.PersonID, &m.UserID, &m.Name, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan person row: %w", err)
		}
		persons = append(persons, mapping.ToDomainPerson(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating person rows: %w", err)
	}
	return persons, nil
}

func (r *PgxPersonRepository) UpdatePerson(ctx context.Context, person domain.Person) error {
	m := mapping.ToModelPerson(person)
	query := `
		UPDATE persons SET name = $1, last_updated_at = $2, last_updated_by = $3
		WHERE person_id = $4 AND user_id = $5;
	`
	cmdTag, err := r.db.Exec(ctx, query, m.Name, m.LastUpdatedAt, m.LastUpdatedBy, m.PersonID, m.UserID)
	if err != nil {
		return mapPgError(err, "failed to update person "+m.PersonID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("person")
	}
	return nil
}

func (r *PgxPersonRepository) DeletePerson(ctx context.Context, userID, personID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM persons WHERE person_id = $1 AND user_id = $2;`, personID, userID)
	if err != nil {
		return mapPgError(err, "person "+personID+" still has debts")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("person")
	}
	return nil
}
