package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/internal/service/enrollment"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	MarkLessonComplete(ctx context.Context, userID, courseID, chapterID, lessonID uuid.UUID) (*models.Enrollment, error)
	Progress(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	NextLesson(ctx context.Context, userID, courseID uuid.UUID) (*models.LessonRef, *models.Lesson, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]models.Enrollment, error)
	Dashboard(ctx context.Context, userID uuid.UUID) ([]enrollment.DashboardItem, error)
}

type EnrollmentHandler struct {
	log     logger.Log
	service EnrollmentService
}

func NewEnrollmentHandler(l logger.Log, s EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{log: l, service: s}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	en, err := h.service.Enroll(c.Request.Context(), clientID(c), courseID)
	if err != nil {
		respondError(c, h.log, "error enrolling", err)
		return
	}
	c.JSON(http.StatusCreated, en)
}

type completeLessonRequest struct {
	ChapterID uuid.UUID `json:"chapter_id" binding:"required"`
	LessonID  uuid.UUID `json:"lesson_id" binding:"required"`
}

func (h *EnrollmentHandler) CompleteLesson(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	var input completeLessonRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	en, err := h.service.MarkLessonComplete(c.Request.Context(), clientID(c), courseID, input.ChapterID, input.LessonID)
	if err != nil {
		respondError(c, h.log, "error completing lesson", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"completed_lessons": len(en.CompletedLessons),
		"ready_for_quiz":    en.ReadyForQuiz,
	})
}

func (h *EnrollmentHandler) Progress(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	en, err := h.service.Progress(c.Request.Context(), clientID(c), courseID)
	if err != nil {
		respondError(c, h.log, "error loading progress", err)
		return
	}
	c.JSON(http.StatusOK, en)
}

func (h *EnrollmentHandler) NextLesson(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	ref, lesson, err := h.service.NextLesson(c.Request.Context(), clientID(c), courseID)
	if err != nil {
		respondError(c, h.log, "error loading next lesson", err)
		return
	}
	if ref == nil {
		c.JSON(http.StatusOK, gin.H{"next_lesson": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"next_lesson": ref,
		"lesson":      lesson,
	})
}

func (h *EnrollmentHandler) MyEnrollments(c *gin.Context) {
	enrollments, err := h.service.ListByUser(c.Request.Context(), clientID(c), c.Query("status"))
	if err != nil {
		respondError(c, h.log, "error listing enrollments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

func (h *EnrollmentHandler) Dashboard(c *gin.Context) {
	items, err := h.service.Dashboard(c.Request.Context(), clientID(c))
	if err != nil {
		respondError(c, h.log, "error loading dashboard", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": items})
}
