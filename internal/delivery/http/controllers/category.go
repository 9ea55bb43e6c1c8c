package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type CategoryService interface {
	Create(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryHandler struct {
	log     logger.Log
	service CategoryService
}

func NewCategoryHandler(l logger.Log, s CategoryService) *CategoryHandler {
	return &CategoryHandler{log: l, service: s}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var input categoryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.service.Create(c.Request.Context(), input.Name)
	if err != nil {
		respondError(c, h.log, "error creating category", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "error listing categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoryHandler) Rename(c *gin.Context) {
	id, err := uuid.Parse(c.Param("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
		return
	}
	var input categoryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Rename(c.Request.Context(), id, input.Name); err != nil {
		respondError(c, h.log, "error renaming category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category renamed"})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "error deleting category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
