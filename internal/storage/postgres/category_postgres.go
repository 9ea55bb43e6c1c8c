package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
)

type CategoryPostgres struct {
	db *pgxpool.Pool
}

func NewCategoryPostgres(db *pgxpool.Pool) *CategoryPostgres {
	return &CategoryPostgres{db: db}
}

func (r *CategoryPostgres) Create(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now().UTC()
	query := `INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, category.ID, category.Name, category.CreatedAt)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return app_errors.ErrCategoryExists
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (r *CategoryPostgres) ByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT id, name, created_at FROM categories WHERE id = $1`
	var c models.Category
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryPostgres) List(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, name, created_at FROM categories ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *CategoryPostgres) Rename(ctx context.Context, id uuid.UUID, name string) error {
	query := `UPDATE categories SET name = $2 WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, name)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return app_errors.ErrCategoryExists
		}
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryPostgres) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCategoryNotFound
	}
	return nil
}

// InUse reports whether any course, regardless of lifecycle state, still
// references the category.
func (r *CategoryPostgres) InUse(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM courses WHERE category_id = $1)`
	var used bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&used); err != nil {
		return false, err
	}
	return used, nil
}
