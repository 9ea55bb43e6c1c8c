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

type QuizPostgres struct {
	db *pgxpool.Pool
}

func NewQuizPostgres(db *pgxpool.Pool) *QuizPostgres {
	return &QuizPostgres{db: db}
}

func (r *QuizPostgres) Create(ctx context.Context, quiz *models.Quiz) (uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback(ctx)

	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	quiz.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO quizzes (id, course_id, title, pass_marks, duration_minutes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.Exec(ctx, query,
		quiz.ID, quiz.CourseID, quiz.Title, quiz.PassMarks, quiz.DurationMinutes, quiz.Status, quiz.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert quiz: %w", err)
	}

	if err := insertQuestions(ctx, tx, quiz); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, err
	}
	return quiz.ID, nil
}

func insertQuestions(ctx context.Context, tx pgx.Tx, quiz *models.Quiz) error {
	query := `
		INSERT INTO quiz_questions (id, quiz_id, text, options, correct_index, marks, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.Position = i + 1
		if _, err := tx.Exec(ctx, query,
			q.ID, quiz.ID, q.Text, q.Options, q.CorrectIndex, q.Marks, q.Position,
		); err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
	}
	return nil
}

// Update replaces the quiz row and its whole question set in one transaction.
func (r *QuizPostgres) Update(ctx context.Context, quiz *models.Quiz) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE quizzes
		   SET course_id = $2, title = $3, pass_marks = $4, duration_minutes = $5
		 WHERE id = $1
	`
	cmdTag, err := tx.Exec(ctx, query,
		quiz.ID, quiz.CourseID, quiz.Title, quiz.PassMarks, quiz.DurationMinutes,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrQuizNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM quiz_questions WHERE quiz_id = $1`, quiz.ID); err != nil {
		return err
	}
	if err := insertQuestions(ctx, tx, quiz); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *QuizPostgres) QuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	query := `
		SELECT id, course_id, title, pass_marks, duration_minutes, status, created_at
		FROM quizzes
		WHERE id = $1
	`
	quiz := &models.Quiz{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&quiz.ID, &quiz.CourseID, &quiz.Title, &quiz.PassMarks,
		&quiz.DurationMinutes, &quiz.Status, &quiz.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrQuizNotFound
		}
		return nil, err
	}

	qQuery := `
		SELECT id, text, options, correct_index, marks, position
		FROM quiz_questions
		WHERE quiz_id = $1
		ORDER BY position ASC
	`
	rows, err := r.db.Query(ctx, qQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.Options, &q.CorrectIndex, &q.Marks, &q.Position); err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (r *QuizPostgres) List(ctx context.Context, courseID *uuid.UUID, includeInactive bool, limit, offset int) ([]models.Quiz, int, error) {
	where := ` WHERE 1=1`
	var args []any
	if !includeInactive {
		args = append(args, models.QuizActive)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if courseID != nil {
		args = append(args, *courseID)
		where += fmt.Sprintf(` AND course_id = $%d`, len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quizzes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	query := `
		SELECT id, course_id, title, pass_marks, duration_minutes, status, created_at
		FROM quizzes` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []models.Quiz
	for rows.Next() {
		var q models.Quiz
		if err := rows.Scan(
			&q.ID, &q.CourseID, &q.Title, &q.PassMarks, &q.DurationMinutes, &q.Status, &q.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, total, rows.Err()
}

func (r *QuizPostgres) ChangeStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE quizzes SET status = $2 WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrQuizNotFound
	}
	return nil
}
