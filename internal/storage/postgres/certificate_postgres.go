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

type CertificatePostgres struct {
	db *pgxpool.Pool
}

func NewCertificatePostgres(db *pgxpool.Pool) *CertificatePostgres {
	return &CertificatePostgres{db: db}
}

const certificateColumns = `id, user_id, course_id, quiz_id, score, out_of, object_key, awarded_at`

// Create persists an awarded certificate. The unique index on
// (user_id, course_id, quiz_id) makes issuance idempotent: a concurrent or
// repeated award surfaces as ErrCertificateExists so the caller can return
// the already-stored record instead of a duplicate artifact.
func (r *CertificatePostgres) Create(ctx context.Context, cert *models.Certificate) error {
	if cert.ID == uuid.Nil {
		cert.ID = uuid.New()
	}
	cert.AwardedAt = time.Now().UTC()
	query := `
		INSERT INTO certificates (` + certificateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		cert.ID, cert.UserID, cert.CourseID, cert.QuizID,
		cert.Score, cert.OutOf, cert.ObjectKey, cert.AwardedAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return app_errors.ErrCertificateExists
		}
		return fmt.Errorf("failed to insert certificate: %w", err)
	}
	return nil
}

func scanCertificate(row pgx.Row) (*models.Certificate, error) {
	var c models.Certificate
	err := row.Scan(
		&c.ID, &c.UserID, &c.CourseID, &c.QuizID,
		&c.Score, &c.OutOf, &c.ObjectKey, &c.AwardedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCertificateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CertificatePostgres) ByOwner(ctx context.Context, userID, courseID, quizID uuid.UUID) (*models.Certificate, error) {
	query := `
		SELECT ` + certificateColumns + `
		FROM certificates
		WHERE user_id = $1 AND course_id = $2 AND quiz_id = $3
	`
	return scanCertificate(r.db.QueryRow(ctx, query, userID, courseID, quizID))
}

func (r *CertificatePostgres) ByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error) {
	query := `
		SELECT ` + certificateColumns + `
		FROM certificates
		WHERE user_id = $1 AND course_id = $2
		ORDER BY awarded_at ASC
		LIMIT 1
	`
	return scanCertificate(r.db.QueryRow(ctx, query, userID, courseID))
}

func (r *CertificatePostgres) listQuery(ctx context.Context, query string, args ...any) ([]models.Certificate, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var certs []models.Certificate
	for rows.Next() {
		var c models.Certificate
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.CourseID, &c.QuizID,
			&c.Score, &c.OutOf, &c.ObjectKey, &c.AwardedAt,
		); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

func (r *CertificatePostgres) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE user_id = $1 ORDER BY awarded_at DESC`
	return r.listQuery(ctx, query, userID)
}

func (r *CertificatePostgres) ListAll(ctx context.Context) ([]models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates ORDER BY awarded_at DESC`
	return r.listQuery(ctx, query)
}
