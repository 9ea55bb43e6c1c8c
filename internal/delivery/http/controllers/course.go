package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/internal/service/course"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type CourseService interface {
	Create(ctx context.Context, c models.Course) (uuid.UUID, error)
	Update(ctx context.Context, c models.Course) error
	Publish(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params course.ListParams, isAdmin bool) ([]course.CourseItem, int, error)
	Detail(ctx context.Context, id uuid.UUID, userID *uuid.UUID, isAdmin bool) (*course.CourseDetail, error)
	AddChapter(ctx context.Context, courseID uuid.UUID, title string) (*models.Chapter, error)
	AddLesson(ctx context.Context, courseID, chapterID uuid.UUID, lesson models.Lesson, video, thumb *course.MediaUpload) (*models.Lesson, error)
	UploadImage(ctx context.Context, courseID uuid.UUID, upload course.MediaUpload) error
}

type CourseHandler struct {
	log     logger.Log
	service CourseService
}

func NewCourseHandler(l logger.Log, s CourseService) *CourseHandler {
	return &CourseHandler{log: l, service: s}
}

type courseRequest struct {
	Title            string    `json:"title" binding:"required"`
	CategoryID       uuid.UUID `json:"category_id" binding:"required"`
	Level            string    `json:"level" binding:"required,oneof=Easy Intermediate Hard"`
	Language         string    `json:"language" binding:"required"`
	ShortDescription string    `json:"short_description" binding:"required"`
	Description      string    `json:"description"`
}

func (h *CourseHandler) Create(c *gin.Context) {
	var input courseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.service.Create(c.Request.Context(), models.Course{
		Title:            input.Title,
		CategoryID:       input.CategoryID,
		Level:            input.Level,
		Language:         input.Language,
		ShortDescription: input.ShortDescription,
		Description:      input.Description,
	})
	if err != nil {
		respondError(c, h.log, "error creating course", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CourseHandler) Update(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	var input courseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err = h.service.Update(c.Request.Context(), models.Course{
		ID:               courseID,
		Title:            input.Title,
		CategoryID:       input.CategoryID,
		Level:            input.Level,
		Language:         input.Language,
		ShortDescription: input.ShortDescription,
		Description:      input.Description,
	})
	if err != nil {
		respondError(c, h.log, "error updating course", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course updated"})
}

func (h *CourseHandler) Publish(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	if err := h.service.Publish(c.Request.Context(), courseID); err != nil {
		respondError(c, h.log, "error publishing course", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course published"})
}

func (h *CourseHandler) Delete(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), courseID); err != nil {
		respondError(c, h.log, "error deleting course", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}

func (h *CourseHandler) List(c *gin.Context) {
	params := course.ListParams{
		Query:    c.Query("q"),
		Level:    c.Query("level"),
		Language: c.Query("language"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		params.CategoryID = &id
	}
	params.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, total, err := h.service.List(c.Request.Context(), params, isAdmin(c))
	if err != nil {
		respondError(c, h.log, "error listing courses", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"courses": items,
		"total":   total,
		"page":    params.Page,
	})
}

func (h *CourseHandler) Detail(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	var userID *uuid.UUID
	if id := clientID(c); id != uuid.Nil {
		userID = &id
	}

	detail, err := h.service.Detail(c.Request.Context(), courseID, userID, isAdmin(c))
	if err != nil {
		respondError(c, h.log, "error loading course", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type chapterRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *CourseHandler) AddChapter(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	var input chapterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chapter, err := h.service.AddChapter(c.Request.Context(), courseID, input.Title)
	if err != nil {
		respondError(c, h.log, "error adding chapter", err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

func formUpload(c *gin.Context, field string) (*course.MediaUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	return &course.MediaUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      f,
	}, nil
}

// AddLesson accepts multipart form data: lesson fields plus an optional
// video and thumbnail.
func (h *CourseHandler) AddLesson(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	chapterID, err := uuid.Parse(c.Param("chapter_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter_id"})
		return
	}

	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	duration, _ := strconv.Atoi(c.PostForm("duration_seconds"))
	lesson := models.Lesson{
		Name:            name,
		Description:     c.PostForm("description"),
		DurationSeconds: duration,
	}

	video, err := formUpload(c, "video")
	if err != nil && err != http.ErrMissingFile {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	thumb, err := formUpload(c, "thumbnail")
	if err != nil && err != http.ErrMissingFile {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.AddLesson(c.Request.Context(), courseID, chapterID, lesson, video, thumb)
	if err != nil {
		respondError(c, h.log, "error adding lesson", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CourseHandler) UploadImage(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	upload, err := formUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if err := h.service.UploadImage(c.Request.Context(), courseID, *upload); err != nil {
		respondError(c, h.log, "error uploading course image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image uploaded"})
}
