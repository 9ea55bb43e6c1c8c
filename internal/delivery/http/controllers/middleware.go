package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

const (
	ClientIDCtx   = "client_id"
	ClientRoleCtx = "client_role"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
		return parts[1]
	}
	return ""
}

// AuthMiddleware requires a valid access token and an active account. It
// stores the caller's id and role in the request context.
func (h *AuthHandler) AuthMiddleware(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID, role, err := h.AuthService.AccessClaims(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, app_errors.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "cant parse token"})
		return
	}

	user, err := h.AuthService.User(c.Request.Context(), userID)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if !user.IsActive() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": app_errors.ErrAccountDeactivated.Error()})
		return
	}

	c.Set(ClientIDCtx, user.ID)
	c.Set(ClientRoleCtx, role)
	c.Next()
}

// OptionalAuth resolves the caller when a valid token is present and stays
// silent otherwise. Public course pages use it to annotate progress.
func (h *AuthHandler) OptionalAuth(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.Next()
		return
	}
	userID, role, err := h.AuthService.AccessClaims(c.Request.Context(), token)
	if err != nil {
		c.Next()
		return
	}
	user, err := h.AuthService.User(c.Request.Context(), userID)
	if err != nil || !user.IsActive() {
		c.Next()
		return
	}
	c.Set(ClientIDCtx, user.ID)
	c.Set(ClientRoleCtx, role)
	c.Next()
}

func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(ClientRoleCtx)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role not found"})
			return
		}
		role, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// clientID returns the authenticated caller's id, or uuid.Nil when the
// request is anonymous.
func clientID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ClientIDCtx)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func isAdmin(c *gin.Context) bool {
	roleVal, exists := c.Get(ClientRoleCtx)
	if !exists {
		return false
	}
	role, _ := roleVal.(string)
	return role == models.AdminRole
}

func LoggingMiddleware(logger logger.Log) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery
		if rawQuery != "" {
			path = fmt.Sprintf("%s?%s", path, rawQuery)
		}
		status := c.Writer.Status()

		msg := fmt.Sprintf("%s %s", method, path)

		logger.Info(msg,
			"status", status,
			"latency", latency,
			"client_ip", clientIP,
		)

		for _, ginErr := range c.Errors {
			logger.ErrorErr("HTTP request error", ginErr.Err,
				"status", status,
				"method", method,
				"path", path,
			)
		}
	}
}
