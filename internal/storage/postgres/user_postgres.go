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

type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

const userColumns = `id, first_name, last_name, user_name, email, phone_number, role, password, status, created_at, deactivated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email,
		&u.PhoneNumber, &u.Role, &u.Password, &u.Status, &u.CreatedAt, &u.DeactivatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserPostgres) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserPostgres) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserPostgres) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO users (id, first_name, last_name, user_name, email, phone_number, role, password, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Username, user.Email,
		user.PhoneNumber, user.Role, user.Password, user.Status, user.CreatedAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return nil, app_errors.ErrUserExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &user, nil
}

func (r *UserPostgres) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		   SET first_name = $2, last_name = $3, user_name = $4, phone_number = $5
		 WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Username, user.PhoneNumber,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrUserNotFound
	}
	return nil
}

func (r *UserPostgres) UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error {
	query := `UPDATE users SET password = $2 WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, hashed)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrUserNotFound
	}
	return nil
}

func (r *UserPostgres) SetStatus(ctx context.Context, id uuid.UUID, status string, deactivatedAt *time.Time) error {
	query := `UPDATE users SET status = $2, deactivated_at = $3 WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, status, deactivatedAt)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrUserNotFound
	}
	return nil
}

func (r *UserPostgres) ListByRole(ctx context.Context, role string, status string, limit, offset int) ([]models.User, int, error) {
	where := `WHERE role = $1`
	args := []any{role}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM users %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		userColumns, where, limit, offset,
	)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email,
			&u.PhoneNumber, &u.Role, &u.Password, &u.Status, &u.CreatedAt, &u.DeactivatedAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, nil
}
