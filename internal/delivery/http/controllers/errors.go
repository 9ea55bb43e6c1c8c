package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

// statusFor maps domain errors to HTTP status codes. Unknown errors fall
// through to 500 and are logged by the caller.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, app_errors.ErrUserNotFound),
		errors.Is(err, app_errors.ErrCategoryNotFound),
		errors.Is(err, app_errors.ErrCourseNotFound),
		errors.Is(err, app_errors.ErrChapterNotFound),
		errors.Is(err, app_errors.ErrLessonNotFound),
		errors.Is(err, app_errors.ErrQuizNotFound),
		errors.Is(err, app_errors.ErrCertificateNotFound),
		errors.Is(err, app_errors.ErrNotEnrolled):
		return http.StatusNotFound, true

	case errors.Is(err, app_errors.ErrUserExists),
		errors.Is(err, app_errors.ErrCategoryExists),
		errors.Is(err, app_errors.ErrAlreadyEnrolled),
		errors.Is(err, app_errors.ErrCategoryInUse),
		errors.Is(err, app_errors.ErrQuizInactive),
		errors.Is(err, app_errors.ErrEmployeeDeactivated):
		return http.StatusConflict, true

	case errors.Is(err, app_errors.ErrIncorrectPassword),
		errors.Is(err, app_errors.ErrTokenNotFound),
		errors.Is(err, app_errors.ErrTokenExpired):
		return http.StatusUnauthorized, true

	case errors.Is(err, app_errors.ErrAccountDeactivated),
		errors.Is(err, app_errors.ErrQuizNotReady):
		return http.StatusForbidden, true

	case errors.Is(err, app_errors.ErrQuizNoQuestions),
		errors.Is(err, app_errors.ErrBadCorrectIndex),
		errors.Is(err, app_errors.ErrPassMarksExceedTotal),
		errors.Is(err, app_errors.ErrNotEmployee):
		return http.StatusBadRequest, true
	}
	return http.StatusInternalServerError, false
}

func respondError(c *gin.Context, log logger.Log, msg string, err error) {
	status, known := statusFor(err)
	if !known {
		log.ErrorErr(msg, err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
