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

type SQLiteCategoryRepository struct {
	db *sql.DB
}

func newSQLiteCategoryRepository(db *sql.DB) portsrepo.CategoryRepositoryFacade {
	return &SQLiteCategoryRepository{db: db}
}

var _ portsrepo.CategoryRepositoryFacade = (*SQLiteCategoryRepository)(nil)

const categoryColumns = `category_id, user_id, name, type, created_at, created_by, last_updated_at, last_updated_by`

func scanCategory(row scanner) (models.Category, error) {
	var m models.Category
	err := row.Scan(&m.CategoryID, &m.UserID, &m.Name, &m.Type,
		timeColumn{&m.CreatedAt}, &m.CreatedBy, timeColumn{&m.LastUpdatedAt}, &m.LastUpdatedBy)
	return m, err
}

func (r *SQLiteCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := r.db.ExecContext(ctx, query, m.CategoryID, m.UserID, m.Name, m.Type,
		formatTime(m.CreatedAt), m.CreatedBy, formatTime(m.LastUpdatedAt), m.LastUpdatedBy)
	if err != nil {
		return mapSQLiteError(err, "category "+m.Name+" already exists or could not be saved")
	}
	return nil
}

func (r *SQLiteCategoryRepository) FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = ? AND user_id = ?;`
	m, err := scanCategory(r.db.QueryRowContext(ctx, query, categoryID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("category")
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	category := mapping.ToDomainCategory(m)
	return &category, nil
}

func (r *SQLiteCategoryRepository) ListCategories(ctx context.Context, userID string, categoryType *domain.CategoryType) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = ?`
	args := []any{userID}
	if categoryType != nil {
		query += ` AND type = ?`
		args = append(args, string(*categoryType))
	}
	query += ` ORDER BY type ASC, name ASC;`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, mapping.ToDomainCategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *SQLiteCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, last_updated_at = ?, last_updated_by = ? WHERE category_id = ? AND user_id = ?;`,
		m.Name, m.Type, formatTime(m.LastUpdatedAt), m.LastUpdatedBy, m.CategoryID, m.UserID)
	return expectOne(res, err, "category", "failed to update category "+m.CategoryID)
}

func (r *SQLiteCategoryRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = ? AND user_id = ?;`, categoryID, userID)
	return expectOne(res, err, "category", "category "+categoryID+" is still used by transactions")
}
