package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type QuizService interface {
	CreateQuiz(ctx context.Context, quiz models.Quiz) (uuid.UUID, error)
	UpdateQuiz(ctx context.Context, quiz models.Quiz) error
	DeactivateQuiz(ctx context.Context, id uuid.UUID) error
	QuizByID(ctx context.Context, id uuid.UUID, isAdmin bool) (*models.Quiz, error)
	ListQuizzes(ctx context.Context, courseID *uuid.UUID, includeInactive, isAdmin bool, limit, offset int) ([]models.Quiz, int, error)
	Attempt(ctx context.Context, userID, quizID uuid.UUID, answers []models.Answer) (*models.AttemptResult, error)
}

type QuizHandler struct {
	log     logger.Log
	service QuizService
}

func NewQuizHandler(l logger.Log, s QuizService) *QuizHandler {
	return &QuizHandler{log: l, service: s}
}

type questionRequest struct {
	Text         string   `json:"text" binding:"required"`
	Options      []string `json:"options" binding:"required,min=2"`
	CorrectIndex int      `json:"correct_index"`
	Marks        int      `json:"marks"`
}

type quizRequest struct {
	Title           string            `json:"title" binding:"required"`
	CourseID        *uuid.UUID        `json:"course_id"`
	PassMarks       int               `json:"pass_marks" binding:"required,min=1"`
	DurationMinutes int               `json:"duration_minutes"`
	Questions       []questionRequest `json:"questions" binding:"required"`
}

func (r quizRequest) toModel() models.Quiz {
	quiz := models.Quiz{
		Title:           r.Title,
		CourseID:        r.CourseID,
		PassMarks:       r.PassMarks,
		DurationMinutes: r.DurationMinutes,
	}
	for i, q := range r.Questions {
		quiz.Questions = append(quiz.Questions, models.Question{
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Marks:        q.Marks,
			Position:     i + 1,
		})
	}
	return quiz
}

func (h *QuizHandler) Create(c *gin.Context) {
	var input quizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.service.CreateQuiz(c.Request.Context(), input.toModel())
	if err != nil {
		respondError(c, h.log, "error creating quiz", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *QuizHandler) Update(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz_id"})
		return
	}
	var input quizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quiz := input.toModel()
	quiz.ID = quizID
	if err := h.service.UpdateQuiz(c.Request.Context(), quiz); err != nil {
		respondError(c, h.log, "error updating quiz", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quiz updated"})
}

func (h *QuizHandler) Deactivate(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz_id"})
		return
	}
	if err := h.service.DeactivateQuiz(c.Request.Context(), quizID); err != nil {
		respondError(c, h.log, "error deactivating quiz", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quiz deactivated"})
}

// quizView hides the correct answers from non-admin readers.
type quizView struct {
	ID              uuid.UUID          `json:"id"`
	CourseID        *uuid.UUID         `json:"course_id"`
	Title           string             `json:"title"`
	PassMarks       int                `json:"pass_marks"`
	TotalMarks      int                `json:"total_marks"`
	DurationMinutes int                `json:"duration_minutes"`
	Status          string             `json:"status"`
	Questions       []quizQuestionView `json:"questions"`
}

type quizQuestionView struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Options  []string  `json:"options"`
	Marks    int       `json:"marks"`
	Position int       `json:"position"`
}

func toQuizView(q *models.Quiz) quizView {
	view := quizView{
		ID:              q.ID,
		CourseID:        q.CourseID,
		Title:           q.Title,
		PassMarks:       q.PassMarks,
		TotalMarks:      q.TotalMarks(),
		DurationMinutes: q.DurationMinutes,
		Status:          q.Status,
	}
	for _, question := range q.Questions {
		view.Questions = append(view.Questions, quizQuestionView{
			ID:       question.ID,
			Text:     question.Text,
			Options:  question.Options,
			Marks:    question.Weight(),
			Position: question.Position,
		})
	}
	return view
}

func (h *QuizHandler) Get(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz_id"})
		return
	}
	quiz, err := h.service.QuizByID(c.Request.Context(), quizID, isAdmin(c))
	if err != nil {
		respondError(c, h.log, "error loading quiz", err)
		return
	}
	if isAdmin(c) {
		c.JSON(http.StatusOK, quiz)
		return
	}
	c.JSON(http.StatusOK, toQuizView(quiz))
}

func (h *QuizHandler) List(c *gin.Context) {
	var courseID *uuid.UUID
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
			return
		}
		courseID = &id
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	includeInactive := c.Query("include_inactive") == "true"

	quizzes, total, err := h.service.ListQuizzes(c.Request.Context(), courseID, includeInactive, isAdmin(c), limit, (page-1)*limit)
	if err != nil {
		respondError(c, h.log, "error listing quizzes", err)
		return
	}

	views := make([]quizView, 0, len(quizzes))
	for i := range quizzes {
		views = append(views, toQuizView(&quizzes[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"quizzes": views,
		"total":   total,
		"page":    page,
	})
}

type answerRequest struct {
	QuestionID  uuid.UUID `json:"question_id" binding:"required"`
	AnswerIndex int       `json:"answer_index"`
}

type attemptRequest struct {
	Answers []answerRequest `json:"answers" binding:"required"`
}

func (h *QuizHandler) Attempt(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz_id"})
		return
	}
	var input attemptRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answers := make([]models.Answer, 0, len(input.Answers))
	for _, a := range input.Answers {
		answers = append(answers, models.Answer{
			QuestionID:  a.QuestionID,
			AnswerIndex: a.AnswerIndex,
		})
	}

	result, err := h.service.Attempt(c.Request.Context(), clientID(c), quizID, answers)
	if err != nil {
		// Attempting without enrollment is an authorization failure here,
		// unlike the progress routes where the enrollment is the resource.
		if errors.Is(err, app_errors.ErrNotEnrolled) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		// A passed attempt with a failed certificate still reports the
		// result; the client can retry the download later.
		if errors.Is(err, app_errors.ErrCertificateIssue) && result != nil {
			c.JSON(http.StatusOK, gin.H{
				"result":  result,
				"warning": app_errors.ErrCertificateIssue.Error(),
			})
			return
		}
		respondError(c, h.log, "error grading attempt", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
