package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshTokens(ctx context.Context, token string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	AccessClaims(ctx context.Context, token string) (userID uuid.UUID, role string, err error)
	User(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

type AuthHandler struct {
	AuthService AuthService
	log         logger.Log
}

func NewAuthHandler(l logger.Log, auth AuthService) *AuthHandler {
	return &AuthHandler{
		AuthService: auth,
		log:         l,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, refreshToken, err := h.AuthService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, h.log, "error handling login", err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

type tokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var input tokenRefreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenPair, err := h.AuthService.RefreshTokens(c.Request.Context(), input.RefreshToken)
	if err != nil {
		respondError(c, h.log, "error refreshing tokens", err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken:  tokenPair.AccessToken.Raw,
		RefreshToken: tokenPair.RefreshToken.Raw,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.AuthService.Logout(c.Request.Context(), clientID(c)); err != nil {
		respondError(c, h.log, "error handling logout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.AuthService.User(c.Request.Context(), clientID(c))
	if err != nil {
		respondError(c, h.log, "error retrieving user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name"`
	Username    string `json:"user_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var input updateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		ID:          clientID(c),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Username:    input.Username,
		PhoneNumber: input.PhoneNumber,
	}
	if err := h.AuthService.UpdateProfile(c.Request.Context(), user); err != nil {
		respondError(c, h.log, "error updating profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input changePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.AuthService.ChangePassword(c.Request.Context(), clientID(c), input.OldPassword, input.NewPassword)
	if err != nil {
		respondError(c, h.log, "error changing password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}
