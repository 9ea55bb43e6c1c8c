package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type fakeQuizService struct {
	attemptResult *models.AttemptResult
	attemptErr    error
}

func (f *fakeQuizService) CreateQuiz(_ context.Context, _ models.Quiz) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeQuizService) UpdateQuiz(_ context.Context, _ models.Quiz) error { return nil }

func (f *fakeQuizService) DeactivateQuiz(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeQuizService) QuizByID(_ context.Context, _ uuid.UUID, _ bool) (*models.Quiz, error) {
	return nil, app_errors.ErrQuizNotFound
}

func (f *fakeQuizService) ListQuizzes(_ context.Context, _ *uuid.UUID, _, _ bool, _, _ int) ([]models.Quiz, int, error) {
	return nil, 0, nil
}

func (f *fakeQuizService) Attempt(_ context.Context, _, _ uuid.UUID, _ []models.Answer) (*models.AttemptResult, error) {
	return f.attemptResult, f.attemptErr
}

func attemptRouter(svc QuizService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewQuizHandler(logger.New("local"), svc)
	r := gin.New()
	r.POST("/quizzes/:quiz_id/attempt", func(c *gin.Context) {
		c.Set(ClientIDCtx, uuid.New())
		c.Set(ClientRoleCtx, models.EmployeeRole)
	}, handler.Attempt)
	return r
}

func postAttempt(t *testing.T, r *gin.Engine, quizID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"answers":[{"question_id":%q,"answer_index":0}]}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/quizzes/"+quizID.String()+"/attempt", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAttemptWithoutEnrollmentForbidden(t *testing.T) {
	r := attemptRouter(&fakeQuizService{attemptErr: app_errors.ErrNotEnrolled})

	w := postAttempt(t, r, uuid.New())

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), app_errors.ErrNotEnrolled.Error())
}

func TestNotEnrolledStaysNotFoundOutsideAttempt(t *testing.T) {
	// Progress and completion routes treat the enrollment as the resource.
	status, known := statusFor(app_errors.ErrNotEnrolled)
	require.True(t, known)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAttemptCertificateFailureStillReportsResult(t *testing.T) {
	result := &models.AttemptResult{Score: 3, Total: 3, Passed: true}
	r := attemptRouter(&fakeQuizService{
		attemptResult: result,
		attemptErr:    app_errors.ErrCertificateIssue,
	})

	w := postAttempt(t, r, uuid.New())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), app_errors.ErrCertificateIssue.Error())
	assert.Contains(t, w.Body.String(), `"passed":true`)
}
