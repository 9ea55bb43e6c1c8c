package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type AdminService interface {
	RegisterEmployee(ctx context.Context, user models.User, password string) (*models.User, string, error)
	ListEmployees(ctx context.Context, status string, limit, offset int) ([]models.User, int, error)
	SetEmployeeStatus(ctx context.Context, id uuid.UUID, status string) error
}

// AdminHandler covers employee account administration.
type AdminHandler struct {
	log     logger.Log
	service AdminService
}

func NewAdminHandler(l logger.Log, s AdminService) *AdminHandler {
	return &AdminHandler{log: l, service: s}
}

type registerEmployeeRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name"`
	Username    string `json:"user_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// RegisterEmployee creates an employee account. When no password is supplied
// a temporary one is generated and echoed back once.
func (h *AdminHandler) RegisterEmployee(c *gin.Context) {
	var input registerEmployeeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Username:    input.Username,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
	}
	created, tempPassword, err := h.service.RegisterEmployee(c.Request.Context(), user, input.Password)
	if err != nil {
		respondError(c, h.log, "error registering employee", err)
		return
	}
	resp := gin.H{"employee": created}
	if tempPassword != "" {
		resp["temporary_password"] = tempPassword
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AdminHandler) ListEmployees(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, total, err := h.service.ListEmployees(c.Request.Context(), c.Query("status"), limit, (page-1)*limit)
	if err != nil {
		respondError(c, h.log, "error listing employees", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"employees": users,
		"total":     total,
		"page":      page,
	})
}

type employeeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive deleted"`
}

func (h *AdminHandler) SetEmployeeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("employee_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee_id"})
		return
	}
	var input employeeStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SetEmployeeStatus(c.Request.Context(), id, input.Status); err != nil {
		respondError(c, h.log, "error updating employee status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "employee status updated"})
}
