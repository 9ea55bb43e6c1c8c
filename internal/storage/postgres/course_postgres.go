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

type CoursePostgres struct {
	db *pgxpool.Pool
}

func NewCoursePostgres(db *pgxpool.Pool) *CoursePostgres {
	return &CoursePostgres{db: db}
}

const courseColumns = `id, title, category_id, level, language, short_description, description, image_object_key, status, created_at, updated_at`

func (r *CoursePostgres) Create(ctx context.Context, course *models.Course) (uuid.UUID, error) {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		course.ID, course.Title, course.CategoryID, course.Level, course.Language,
		course.ShortDescription, course.Description, course.ImageObjectKey,
		course.Status, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert course: %w", err)
	}
	return course.ID, nil
}

// CourseByID loads the course together with its ordered chapter/lesson tree.
func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	course := &models.Course{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID, &course.Title, &course.CategoryID, &course.Level, &course.Language,
		&course.ShortDescription, &course.Description, &course.ImageObjectKey,
		&course.Status, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, err
	}

	if err := r.loadTree(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (r *CoursePostgres) loadTree(ctx context.Context, course *models.Course) error {
	chapterQuery := `
		SELECT id, title, position, created_at
		FROM chapters
		WHERE course_id = $1
		ORDER BY position ASC
	`
	rows, err := r.db.Query(ctx, chapterQuery, course.ID)
	if err != nil {
		return fmt.Errorf("failed to query chapters: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]int)
	for rows.Next() {
		var ch models.Chapter
		if err := rows.Scan(&ch.ID, &ch.Title, &ch.Position, &ch.CreatedAt); err != nil {
			return err
		}
		byID[ch.ID] = len(course.Chapters)
		course.Chapters = append(course.Chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	lessonQuery := `
		SELECT l.id, l.chapter_id, l.name, l.description, l.video_object_key, l.thumb_object_key, l.duration_seconds, l.position, l.created_at
		FROM lessons l
		INNER JOIN chapters ch ON ch.id = l.chapter_id
		WHERE ch.course_id = $1
		ORDER BY ch.position ASC, l.position ASC
	`
	lrows, err := r.db.Query(ctx, lessonQuery, course.ID)
	if err != nil {
		return fmt.Errorf("failed to query lessons: %w", err)
	}
	defer lrows.Close()

	for lrows.Next() {
		var ls models.Lesson
		var chapterID uuid.UUID
		if err := lrows.Scan(
			&ls.ID, &chapterID, &ls.Name, &ls.Description,
			&ls.VideoObjectKey, &ls.ThumbObjectKey, &ls.DurationSeconds, &ls.Position, &ls.CreatedAt,
		); err != nil {
			return err
		}
		if i, ok := byID[chapterID]; ok {
			course.Chapters[i].Lessons = append(course.Chapters[i].Lessons, ls)
		}
	}
	return lrows.Err()
}

func (r *CoursePostgres) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		   SET title = $2, category_id = $3, level = $4, language = $5,
		       short_description = $6, description = $7, status = $8,
		       updated_at = NOW()
		 WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query,
		course.ID, course.Title, course.CategoryID, course.Level, course.Language,
		course.ShortDescription, course.Description, course.Status,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) ChangeStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE courses
		   SET status = $2, updated_at = NOW()
		 WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func (r *CoursePostgres) UpdateCourseImage(ctx context.Context, id uuid.UUID, objectKey string) error {
	query := `UPDATE courses SET image_object_key = $2, updated_at = NOW() WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, objectKey)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}
	return nil
}

func buildCourseWhere(filter models.CourseFilter) (string, []any) {
	where := ` WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !filter.IncludeInactive {
		where += ` AND status <> ` + arg(models.CourseDeleted)
	}
	if filter.Status != "" {
		where += ` AND status = ` + arg(filter.Status)
	}
	if filter.CategoryID != nil {
		where += ` AND category_id = ` + arg(*filter.CategoryID)
	}
	if filter.Level != "" {
		where += ` AND level = ` + arg(filter.Level)
	}
	if filter.Language != "" {
		where += ` AND language = ` + arg(filter.Language)
	}
	return where, args
}

// List returns matching courses without their lesson trees; listings only
// need the flat fields.
func (r *CoursePostgres) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	where, args := buildCourseWhere(filter)
	query := `SELECT ` + courseColumns + ` FROM courses` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(
			&c.ID, &c.Title, &c.CategoryID, &c.Level, &c.Language,
			&c.ShortDescription, &c.Description, &c.ImageObjectKey,
			&c.Status, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListByIDs returns the matching subset of the given ids, preserving the
// input order. Used to hydrate search hits.
func (r *CoursePostgres) ListByIDs(ctx context.Context, ids []uuid.UUID, filter models.CourseFilter) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	where, args := buildCourseWhere(filter)
	args = append(args, ids)
	where += fmt.Sprintf(` AND id = ANY($%d)`, len(args))

	rows, err := r.db.Query(ctx, `SELECT `+courseColumns+` FROM courses`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]models.Course, len(ids))
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(
			&c.ID, &c.Title, &c.CategoryID, &c.Level, &c.Language,
			&c.ShortDescription, &c.Description, &c.ImageObjectKey,
			&c.Status, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(byID))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (r *CoursePostgres) Count(ctx context.Context, filter models.CourseFilter) (int, error) {
	where, args := buildCourseWhere(filter)
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return total, nil
}

func (r *CoursePostgres) AddChapter(ctx context.Context, courseID uuid.UUID, title string) (*models.Chapter, error) {
	ch := &models.Chapter{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	query := `
		INSERT INTO chapters (id, course_id, title, position, created_at)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM chapters WHERE course_id = $2),
			$4)
		RETURNING position
	`
	err := r.db.QueryRow(ctx, query, ch.ID, courseID, ch.Title, ch.CreatedAt).Scan(&ch.Position)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == "23503" {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to insert chapter: %w", err)
	}
	return ch, nil
}

func (r *CoursePostgres) AddLesson(ctx context.Context, chapterID uuid.UUID, lesson models.Lesson) (*models.Lesson, error) {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	lesson.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO lessons (id, chapter_id, name, description, video_object_key, thumb_object_key, duration_seconds, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM lessons WHERE chapter_id = $2),
			$8)
		RETURNING position
	`
	err := r.db.QueryRow(ctx, query,
		lesson.ID, chapterID, lesson.Name, lesson.Description,
		lesson.VideoObjectKey, lesson.ThumbObjectKey, lesson.DurationSeconds, lesson.CreatedAt,
	).Scan(&lesson.Position)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == "23503" {
			return nil, app_errors.ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to insert lesson: %w", err)
	}
	return &lesson, nil
}
