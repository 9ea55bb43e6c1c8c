package quiz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type fakeQuizRepo struct {
	quizzes map[uuid.UUID]*models.Quiz
}

func (f *fakeQuizRepo) Create(_ context.Context, quiz *models.Quiz) (uuid.UUID, error) {
	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	f.quizzes[quiz.ID] = quiz
	return quiz.ID, nil
}

func (f *fakeQuizRepo) Update(_ context.Context, quiz *models.Quiz) error {
	if _, ok := f.quizzes[quiz.ID]; !ok {
		return app_errors.ErrQuizNotFound
	}
	f.quizzes[quiz.ID] = quiz
	return nil
}

func (f *fakeQuizRepo) QuizByID(_ context.Context, id uuid.UUID) (*models.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return nil, app_errors.ErrQuizNotFound
	}
	return quiz, nil
}

func (f *fakeQuizRepo) List(_ context.Context, courseID *uuid.UUID, includeInactive bool, limit, offset int) ([]models.Quiz, int, error) {
	var out []models.Quiz
	for _, q := range f.quizzes {
		if !includeInactive && !q.IsActive() {
			continue
		}
		if courseID != nil && (q.CourseID == nil || *q.CourseID != *courseID) {
			continue
		}
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (f *fakeQuizRepo) ChangeStatus(_ context.Context, id uuid.UUID, status string) error {
	quiz, ok := f.quizzes[id]
	if !ok {
		return app_errors.ErrQuizNotFound
	}
	quiz.Status = status
	return nil
}

type fakeCourseRepo struct {
	courses map[uuid.UUID]*models.Course
}

func (f *fakeCourseRepo) CourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	return course, nil
}

type fakeEnrollmentRepo struct {
	enrollments map[uuid.UUID]*models.Enrollment
	completed   []uuid.UUID
}

func (f *fakeEnrollmentRepo) ByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return e, nil
		}
	}
	return nil, app_errors.ErrNotEnrolled
}

func (f *fakeEnrollmentRepo) MarkCompleted(_ context.Context, enrollmentID uuid.UUID, completedAt time.Time) error {
	e, ok := f.enrollments[enrollmentID]
	if !ok {
		return app_errors.ErrNotEnrolled
	}
	e.IsCompleted = true
	if e.CompletedAt == nil {
		e.CompletedAt = &completedAt
	}
	f.completed = append(f.completed, enrollmentID)
	return nil
}

type fakeIssuer struct {
	issued map[string]*models.Certificate
	fail   error
	calls  int
}

func (f *fakeIssuer) Issue(_ context.Context, userID, courseID, quizID uuid.UUID, score, outOf int) (*models.Certificate, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	key := userID.String() + courseID.String() + quizID.String()
	if cert, ok := f.issued[key]; ok {
		return cert, nil
	}
	cert := &models.Certificate{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		QuizID:   quizID,
		Score:    score,
		OutOf:    outOf,
	}
	f.issued[key] = cert
	return cert, nil
}

type quizFixture struct {
	service     *QuizService
	quizzes     *fakeQuizRepo
	courses     *fakeCourseRepo
	enrollments *fakeEnrollmentRepo
	issuer      *fakeIssuer
}

func newQuizFixture() *quizFixture {
	quizzes := &fakeQuizRepo{quizzes: map[uuid.UUID]*models.Quiz{}}
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*models.Course{}}
	enrollments := &fakeEnrollmentRepo{enrollments: map[uuid.UUID]*models.Enrollment{}}
	issuer := &fakeIssuer{issued: map[string]*models.Certificate{}}
	return &quizFixture{
		service:     NewQuizService(logger.New("local"), quizzes, courses, enrollments, issuer),
		quizzes:     quizzes,
		courses:     courses,
		enrollments: enrollments,
		issuer:      issuer,
	}
}

func (f *quizFixture) addCourseQuiz(t *testing.T, passMarks int) (*models.Quiz, uuid.UUID) {
	t.Helper()
	courseID := uuid.New()
	f.courses.courses[courseID] = &models.Course{ID: courseID, Status: models.CoursePublished}
	quiz := threeQuestionQuiz()
	quiz.CourseID = &courseID
	quiz.PassMarks = passMarks
	f.quizzes.quizzes[quiz.ID] = quiz
	return quiz, courseID
}

func (f *quizFixture) enroll(userID, courseID uuid.UUID, ready bool) *models.Enrollment {
	e := &models.Enrollment{
		ID:           uuid.New(),
		UserID:       userID,
		CourseID:     courseID,
		ReadyForQuiz: ready,
		EnrolledAt:   time.Now(),
	}
	f.enrollments.enrollments[e.ID] = e
	return e
}

func TestCreateQuizValidation(t *testing.T) {
	f := newQuizFixture()
	ctx := context.Background()

	_, err := f.service.CreateQuiz(ctx, models.Quiz{Title: "empty"})
	assert.ErrorIs(t, err, app_errors.ErrQuizNoQuestions)

	_, err = f.service.CreateQuiz(ctx, models.Quiz{
		Title:     "bad index",
		PassMarks: 1,
		Questions: []models.Question{
			{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 2},
		},
	})
	assert.ErrorIs(t, err, app_errors.ErrBadCorrectIndex)

	_, err = f.service.CreateQuiz(ctx, models.Quiz{
		Title:     "pass marks too high",
		PassMarks: 10,
		Questions: []models.Question{
			{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 0, Marks: 2},
		},
	})
	assert.ErrorIs(t, err, app_errors.ErrPassMarksExceedTotal)

	id, err := f.service.CreateQuiz(ctx, models.Quiz{
		Title:     "valid",
		PassMarks: 2,
		Questions: []models.Question{
			{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 0, Marks: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.QuizActive, f.quizzes.quizzes[id].Status)
}

func TestCreateQuizUnknownCourse(t *testing.T) {
	f := newQuizFixture()
	missing := uuid.New()
	_, err := f.service.CreateQuiz(context.Background(), models.Quiz{
		Title:     "orphan",
		CourseID:  &missing,
		PassMarks: 1,
		Questions: []models.Question{
			{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 0},
		},
	})
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}

func TestDeactivateQuiz(t *testing.T) {
	f := newQuizFixture()
	quiz, _ := f.addCourseQuiz(t, 2)
	ctx := context.Background()

	require.NoError(t, f.service.DeactivateQuiz(ctx, quiz.ID))
	assert.ErrorIs(t, f.service.DeactivateQuiz(ctx, quiz.ID), app_errors.ErrQuizInactive)
}

func TestAttemptInactiveQuizNotFound(t *testing.T) {
	f := newQuizFixture()
	quiz, courseID := f.addCourseQuiz(t, 2)
	quiz.Status = models.QuizInactive
	userID := uuid.New()
	f.enroll(userID, courseID, true)

	_, err := f.service.Attempt(context.Background(), userID, quiz.ID, nil)
	assert.ErrorIs(t, err, app_errors.ErrQuizNotFound)
}

func TestAttemptRequiresEnrollment(t *testing.T) {
	f := newQuizFixture()
	quiz, _ := f.addCourseQuiz(t, 2)

	_, err := f.service.Attempt(context.Background(), uuid.New(), quiz.ID, nil)
	assert.ErrorIs(t, err, app_errors.ErrNotEnrolled)
}

func TestAttemptGatedUntilReady(t *testing.T) {
	f := newQuizFixture()
	quiz, courseID := f.addCourseQuiz(t, 2)
	userID := uuid.New()
	f.enroll(userID, courseID, false)

	_, err := f.service.Attempt(context.Background(), userID, quiz.ID, answersFor(quiz, 0, 1, 2))
	assert.ErrorIs(t, err, app_errors.ErrQuizNotReady)
	assert.Zero(t, f.issuer.calls)
}

func TestAttemptPublicQuizBypassesGate(t *testing.T) {
	f := newQuizFixture()
	quiz := threeQuestionQuiz()
	f.quizzes.quizzes[quiz.ID] = quiz

	result, err := f.service.Attempt(context.Background(), uuid.New(), quiz.ID, answersFor(quiz, 0, 1, 2))
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Nil(t, result.Certificate, "public quizzes never award certificates")
	assert.Zero(t, f.issuer.calls)
}

func TestAttemptFailedNoCompletion(t *testing.T) {
	f := newQuizFixture()
	quiz, courseID := f.addCourseQuiz(t, 3)
	userID := uuid.New()
	en := f.enroll(userID, courseID, true)

	result, err := f.service.Attempt(context.Background(), userID, quiz.ID, answersFor(quiz, 0))
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.Score)
	assert.False(t, en.IsCompleted)
	assert.Zero(t, f.issuer.calls)
}

func TestAttemptPassCompletesAndCertifies(t *testing.T) {
	f := newQuizFixture()
	quiz, courseID := f.addCourseQuiz(t, 2)
	userID := uuid.New()
	en := f.enroll(userID, courseID, true)

	result, err := f.service.Attempt(context.Background(), userID, quiz.ID, answersFor(quiz, 0, 1, 2))
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 3, result.Score)
	assert.True(t, en.IsCompleted)
	require.NotNil(t, result.Certificate)
	assert.Equal(t, userID, result.Certificate.UserID)
	assert.Equal(t, courseID, result.Certificate.CourseID)
}

func TestAttemptRePassReturnsExistingCertificate(t *testing.T) {
	f := newQuizFixture()
	quiz, courseID := f.addCourseQuiz(t, 2)
	userID := uuid.New()
	en := f.enroll(userID, courseID, true)

	first, err := f.service.Attempt(context.Background(), userID, quiz.ID, answersFor(quiz, 0, 1, 2))
	require.NoError(t, err)
	firstCompletedAt := en.CompletedAt

	second, err := f.service.Attempt(context.Background(), userID, quiz.ID, answersFor(quiz, 0, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, first.Certificate.ID, second.Certificate.ID)
	assert.Equal(t, firstCompletedAt, en.CompletedAt, "completion timestamp is immutable")
}

func TestAttemptCertificateFailureKeepsCompletion(t *testing.T) {
	f := newQuizFixture()
	quiz, courseID := f.addCourseQuiz(t, 2)
	userID := uuid.New()
	en := f.enroll(userID, courseID, true)
	f.issuer.fail = errors.New("minio down")

	result, err := f.service.Attempt(context.Background(), userID, quiz.ID, answersFor(quiz, 0, 1, 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, app_errors.ErrCertificateIssue)
	require.NotNil(t, result)
	assert.True(t, result.Passed, "pass outcome is reported despite issuance failure")
	assert.True(t, en.IsCompleted, "completion is not rolled back")
}

func TestAttemptPassAtExactThreshold(t *testing.T) {
	f := newQuizFixture()
	quiz, courseID := f.addCourseQuiz(t, 2)
	userID := uuid.New()
	f.enroll(userID, courseID, true)

	// Two of three correct lands exactly on pass_marks.
	result, err := f.service.Attempt(context.Background(), userID, quiz.ID, answersFor(quiz, 0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Score)
	assert.True(t, result.Passed)
}

func TestAttemptPassMarksAboveTotalStillPassable(t *testing.T) {
	f := newQuizFixture()
	quiz, courseID := f.addCourseQuiz(t, 2)
	// Questions trimmed after authoring can leave pass_marks above the
	// live total; the target clamps to the total.
	quiz.Questions = quiz.Questions[:1]
	quiz.PassMarks = 3
	userID := uuid.New()
	f.enroll(userID, courseID, true)

	result, err := f.service.Attempt(context.Background(), userID, quiz.ID, answersFor(quiz, 0))
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 1, result.Total)
}

func TestQuizByIDVisibility(t *testing.T) {
	f := newQuizFixture()
	quiz, _ := f.addCourseQuiz(t, 2)
	quiz.Status = models.QuizInactive
	ctx := context.Background()

	_, err := f.service.QuizByID(ctx, quiz.ID, false)
	assert.ErrorIs(t, err, app_errors.ErrQuizNotFound)

	got, err := f.service.QuizByID(ctx, quiz.ID, true)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, got.ID)
}
