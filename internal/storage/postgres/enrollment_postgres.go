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

type EnrollmentPostgres struct {
	db *pgxpool.Pool
}

func NewEnrollmentPostgres(db *pgxpool.Pool) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

// Create inserts a fresh enrollment. The unique index on (user_id, course_id)
// is the only safeguard against concurrent enrolls; a losing racer gets
// ErrAlreadyEnrolled instead of a crash.
func (r *EnrollmentPostgres) Create(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now().UTC(),
	}
	query := `
		INSERT INTO enrollments (id, user_id, course_id, ready_for_quiz, is_completed, enrolled_at)
		VALUES ($1, $2, $3, FALSE, FALSE, $4)
	`
	_, err := r.db.Exec(ctx, query, enrollment.ID, userID, courseID, enrollment.EnrolledAt)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == uniqueViolation {
			return nil, app_errors.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return enrollment, nil
}

// ByUserAndCourse looks the enrollment up by its composite identity. Ownership
// is enforced here: callers never address enrollments by bare id.
func (r *EnrollmentPostgres) ByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, ready_for_quiz, is_completed, enrolled_at, completed_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
	`
	var e models.Enrollment
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&e.ID, &e.UserID, &e.CourseID, &e.ReadyForQuiz, &e.IsCompleted, &e.EnrolledAt, &e.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrNotEnrolled
		}
		return nil, err
	}
	if err := r.loadCompletedLessons(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentPostgres) loadCompletedLessons(ctx context.Context, e *models.Enrollment) error {
	query := `
		SELECT chapter_id, lesson_id
		FROM enrollment_lessons
		WHERE enrollment_id = $1
		ORDER BY completed_at ASC
	`
	rows, err := r.db.Query(ctx, query, e.ID)
	if err != nil {
		return fmt.Errorf("failed to query completed lessons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref models.LessonRef
		if err := rows.Scan(&ref.ChapterID, &ref.LessonID); err != nil {
			return err
		}
		e.CompletedLessons = append(e.CompletedLessons, ref)
	}
	return rows.Err()
}

func (r *EnrollmentPostgres) ListByUser(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, ready_for_quiz, is_completed, enrolled_at, completed_at
		FROM enrollments
		WHERE user_id = $1
	`
	args := []any{userID}
	if completed != nil {
		query += ` AND is_completed = $2`
		args = append(args, *completed)
	}
	query += ` ORDER BY enrolled_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.CourseID, &e.ReadyForQuiz, &e.IsCompleted, &e.EnrolledAt, &e.CompletedAt,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range enrollments {
		if err := r.loadCompletedLessons(ctx, &enrollments[i]); err != nil {
			return nil, err
		}
	}
	return enrollments, nil
}

// AddCompletedLesson records one completed lesson. ON CONFLICT DO NOTHING
// gives the completion set idempotency under concurrent double submission.
func (r *EnrollmentPostgres) AddCompletedLesson(ctx context.Context, enrollmentID uuid.UUID, ref models.LessonRef) error {
	query := `
		INSERT INTO enrollment_lessons (enrollment_id, chapter_id, lesson_id, completed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (enrollment_id, chapter_id, lesson_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, enrollmentID, ref.ChapterID, ref.LessonID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert completed lesson: %w", err)
	}
	return nil
}

func (r *EnrollmentPostgres) SetReadyForQuiz(ctx context.Context, enrollmentID uuid.UUID, ready bool) error {
	query := `UPDATE enrollments SET ready_for_quiz = $2 WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, enrollmentID, ready)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrNotEnrolled
	}
	return nil
}

// MarkCompleted flips the terminal flag. COALESCE keeps the first completion
// timestamp on re-passes.
func (r *EnrollmentPostgres) MarkCompleted(ctx context.Context, enrollmentID uuid.UUID, completedAt time.Time) error {
	query := `
		UPDATE enrollments
		   SET is_completed = TRUE,
		       completed_at = COALESCE(completed_at, $2)
		 WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query, enrollmentID, completedAt)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrNotEnrolled
	}
	return nil
}
