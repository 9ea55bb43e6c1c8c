package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type enrollmentRepo interface {
	Create(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	ByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.Enrollment, error)
	AddCompletedLesson(ctx context.Context, enrollmentID uuid.UUID, ref models.LessonRef) error
	SetReadyForQuiz(ctx context.Context, enrollmentID uuid.UUID, ready bool) error
}

type certificateRepo interface {
	ByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error)
}

type EnrollmentService struct {
	log            logger.Log
	courseRepo     courseRepo
	enrollmentRepo enrollmentRepo
	certRepo       certificateRepo
}

func NewEnrollmentService(l logger.Log, c courseRepo, e enrollmentRepo, cert certificateRepo) *EnrollmentService {
	return &EnrollmentService{
		log:            l,
		courseRepo:     c,
		enrollmentRepo: e,
		certRepo:       cert,
	}
}

// Enroll creates the (user, course) enrollment. The course must exist and be
// published; a lost race against a concurrent enroll surfaces as
// ErrAlreadyEnrolled from the storage layer.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsAvailable() {
		return nil, app_errors.ErrCourseNotFound
	}
	return s.enrollmentRepo.Create(ctx, userID, courseID)
}

// MarkLessonComplete records one completed lesson and re-evaluates quiz
// readiness against the live course tree. Completing an already-completed
// lesson is an idempotent no-op. A (chapter, lesson) pair that does not
// exist in the course is rejected so phantom refs cannot inflate progress.
//
// The total lesson count is always taken from the current tree: content
// added after a user reached 100% takes readiness re-evaluation into the
// next completion event, and readiness is never downgraded automatically.
func (s *EnrollmentService) MarkLessonComplete(ctx context.Context, userID, courseID, chapterID, lessonID uuid.UUID) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.ByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	ref := models.LessonRef{ChapterID: chapterID, LessonID: lessonID}
	if enrollment.HasCompleted(ref) {
		return enrollment, nil
	}

	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.HasLesson(ref) {
		return nil, app_errors.ErrLessonNotFound
	}

	if err := s.enrollmentRepo.AddCompletedLesson(ctx, enrollment.ID, ref); err != nil {
		return nil, err
	}
	enrollment.CompletedLessons = append(enrollment.CompletedLessons, ref)

	totalLessons := course.TotalLessons()
	if !enrollment.ReadyForQuiz && totalLessons > 0 && len(enrollment.CompletedLessons) >= totalLessons {
		if err := s.enrollmentRepo.SetReadyForQuiz(ctx, enrollment.ID, true); err != nil {
			return nil, err
		}
		enrollment.ReadyForQuiz = true
		s.log.Info("enrollment ready for quiz",
			"user_id", userID, "course_id", courseID,
		)
	}

	return enrollment, nil
}

func (s *EnrollmentService) Progress(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	return s.enrollmentRepo.ByUserAndCourse(ctx, userID, courseID)
}

// NextLesson returns the first incomplete lesson in document order, or nil
// when every lesson is done.
func (s *EnrollmentService) NextLesson(ctx context.Context, userID, courseID uuid.UUID) (*models.LessonRef, *models.Lesson, error) {
	enrollment, err := s.enrollmentRepo.ByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	completed := enrollment.CompletedSet()
	ref := course.NextLessonRef(completed)
	if ref == nil {
		return nil, nil, nil
	}
	return ref, course.NextLesson(completed), nil
}

func (s *EnrollmentService) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]models.Enrollment, error) {
	var completed *bool
	switch status {
	case "active":
		f := false
		completed = &f
	case "completed":
		t := true
		completed = &t
	}
	return s.enrollmentRepo.ListByUser(ctx, userID, completed)
}

// DashboardItem aggregates one enrollment for the employee dashboard.
type DashboardItem struct {
	EnrollmentID     uuid.UUID           `json:"enrollment_id"`
	CourseID         uuid.UUID           `json:"course_id"`
	CourseTitle      string              `json:"course_title"`
	CourseStatus     string              `json:"course_status"`
	TotalLessons     int                 `json:"total_lessons"`
	CompletedLessons int                 `json:"completed_lessons"`
	Progress         int                 `json:"progress"`
	NextLesson       *models.LessonRef   `json:"next_lesson"`
	IsCompleted      bool                `json:"is_completed"`
	Certificate      *models.Certificate `json:"certificate"`
	EnrolledAt       time.Time           `json:"enrolled_at"`
	CompletedAt      *time.Time          `json:"completed_at"`
}

// Dashboard reports progress for every course the user is enrolled in.
// Percentages are computed from the live lesson counts at read time.
func (s *EnrollmentService) Dashboard(ctx context.Context, userID uuid.UUID) ([]DashboardItem, error) {
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	items := make([]DashboardItem, 0, len(enrollments))
	for _, en := range enrollments {
		course, err := s.courseRepo.CourseByID(ctx, en.CourseID)
		if err != nil {
			s.log.ErrorErr("dashboard: failed to load course", err, "course_id", en.CourseID)
			continue
		}

		totalLessons := course.TotalLessons()
		completedCount := len(en.CompletedLessons)
		progress := 0
		if totalLessons > 0 {
			progress = completedCount * 100 / totalLessons
		}

		item := DashboardItem{
			EnrollmentID:     en.ID,
			CourseID:         course.ID,
			CourseTitle:      course.Title,
			CourseStatus:     course.Status,
			TotalLessons:     totalLessons,
			CompletedLessons: completedCount,
			Progress:         progress,
			NextLesson:       course.NextLessonRef(en.CompletedSet()),
			IsCompleted:      en.IsCompleted,
			EnrolledAt:       en.EnrolledAt,
			CompletedAt:      en.CompletedAt,
		}

		if en.IsCompleted {
			cert, err := s.certRepo.ByUserAndCourse(ctx, userID, course.ID)
			if err != nil && !errors.Is(err, app_errors.ErrCertificateNotFound) {
				s.log.ErrorErr("dashboard: failed to load certificate", err, "course_id", course.ID)
			}
			item.Certificate = cert
		}

		items = append(items, item)
	}
	return items, nil
}
