package service

import (
	"github.com/anooppassi66/lms-development/internal/service/auth"
	"github.com/anooppassi66/lms-development/internal/service/category"
	"github.com/anooppassi66/lms-development/internal/service/certificate"
	"github.com/anooppassi66/lms-development/internal/service/course"
	"github.com/anooppassi66/lms-development/internal/service/enrollment"
	"github.com/anooppassi66/lms-development/internal/service/quiz"
)

type Collection struct {
	*auth.AuthService
	*category.CategoryService
	*course.CourseService
	*enrollment.EnrollmentService
	*quiz.QuizService
	*certificate.CertificateService
}
