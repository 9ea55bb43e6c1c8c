package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type quizRepo interface {
	Create(ctx context.Context, quiz *models.Quiz) (uuid.UUID, error)
	Update(ctx context.Context, quiz *models.Quiz) error
	QuizByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	List(ctx context.Context, courseID *uuid.UUID, includeInactive bool, limit, offset int) ([]models.Quiz, int, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) error
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type enrollmentRepo interface {
	ByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	MarkCompleted(ctx context.Context, enrollmentID uuid.UUID, completedAt time.Time) error
}

// certificateIssuer is the rendering collaborator. Issue must be idempotent
// per (user, course, quiz).
type certificateIssuer interface {
	Issue(ctx context.Context, userID, courseID, quizID uuid.UUID, score, outOf int) (*models.Certificate, error)
}

type QuizService struct {
	log            logger.Log
	quizRepo       quizRepo
	courseRepo     courseRepo
	enrollmentRepo enrollmentRepo
	certificates   certificateIssuer
}

func NewQuizService(l logger.Log, q quizRepo, c courseRepo, e enrollmentRepo, cert certificateIssuer) *QuizService {
	return &QuizService{
		log:            l,
		quizRepo:       q,
		courseRepo:     c,
		enrollmentRepo: e,
		certificates:   cert,
	}
}

// validate runs the authoring rules shared by create and update. Nothing is
// persisted when it fails.
func validate(quiz *models.Quiz) error {
	if len(quiz.Questions) == 0 {
		return app_errors.ErrQuizNoQuestions
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return app_errors.ErrBadCorrectIndex
		}
	}
	if quiz.PassMarks > quiz.TotalMarks() {
		return app_errors.ErrPassMarksExceedTotal
	}
	return nil
}

func (s *QuizService) CreateQuiz(ctx context.Context, quiz models.Quiz) (uuid.UUID, error) {
	if err := validate(&quiz); err != nil {
		return uuid.Nil, err
	}
	if quiz.CourseID != nil {
		if _, err := s.courseRepo.CourseByID(ctx, *quiz.CourseID); err != nil {
			return uuid.Nil, err
		}
	}
	quiz.Status = models.QuizActive
	return s.quizRepo.Create(ctx, &quiz)
}

func (s *QuizService) UpdateQuiz(ctx context.Context, quiz models.Quiz) error {
	if err := validate(&quiz); err != nil {
		return err
	}
	if quiz.CourseID != nil {
		if _, err := s.courseRepo.CourseByID(ctx, *quiz.CourseID); err != nil {
			return err
		}
	}
	return s.quizRepo.Update(ctx, &quiz)
}

func (s *QuizService) DeactivateQuiz(ctx context.Context, id uuid.UUID) error {
	quiz, err := s.quizRepo.QuizByID(ctx, id)
	if err != nil {
		return err
	}
	if !quiz.IsActive() {
		return app_errors.ErrQuizInactive
	}
	return s.quizRepo.ChangeStatus(ctx, id, models.QuizInactive)
}

// QuizByID applies attempt-side visibility: inactive quizzes read as absent
// unless the caller is an admin. Reading and attempting have different rules.
func (s *QuizService) QuizByID(ctx context.Context, id uuid.UUID, isAdmin bool) (*models.Quiz, error) {
	quiz, err := s.quizRepo.QuizByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive() && !isAdmin {
		return nil, app_errors.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzes(ctx context.Context, courseID *uuid.UUID, includeInactive, isAdmin bool, limit, offset int) ([]models.Quiz, int, error) {
	return s.quizRepo.List(ctx, courseID, includeInactive && isAdmin, limit, offset)
}

// Attempt grades a submission and drives the completion state machine.
//
// For a course-linked quiz the caller must be enrolled and ready; a public
// quiz (no course link) bypasses gating entirely and never issues a
// certificate. On a passing course-linked attempt the enrollment is marked
// completed first, then the certificate is requested. A certificate failure
// never rolls the completion back: the result still carries the accurate
// pass outcome alongside an error wrapping ErrCertificateIssue.
func (s *QuizService) Attempt(ctx context.Context, userID, quizID uuid.UUID, answers []models.Answer) (*models.AttemptResult, error) {
	quiz, err := s.quizRepo.QuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive() {
		return nil, app_errors.ErrQuizNotFound
	}

	var enrollment *models.Enrollment
	if quiz.CourseID != nil {
		enrollment, err = s.enrollmentRepo.ByUserAndCourse(ctx, userID, *quiz.CourseID)
		if err != nil {
			return nil, err
		}
		if !enrollment.ReadyForQuiz {
			return nil, app_errors.ErrQuizNotReady
		}
	}

	score, total := Grade(quiz, answers)
	passed := score >= PassTarget(quiz.PassMarks, total)

	result := &models.AttemptResult{
		Score:  score,
		Total:  total,
		Passed: passed,
	}

	if !passed || quiz.CourseID == nil {
		return result, nil
	}

	if err := s.enrollmentRepo.MarkCompleted(ctx, enrollment.ID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to mark enrollment completed: %w", err)
	}

	cert, err := s.certificates.Issue(ctx, userID, *quiz.CourseID, quiz.ID, score, total)
	if err != nil {
		s.log.ErrorErr("certificate issuance failed", err,
			"user_id", userID, "quiz_id", quiz.ID,
		)
		// Completion is already committed; report the pass with a
		// distinct issuance error instead of rolling back.
		return result, errors.Join(app_errors.ErrCertificateIssue, err)
	}
	result.Certificate = cert

	return result, nil
}
