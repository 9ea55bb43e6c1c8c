package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/anooppassi66/lms-development/internal/delivery/http/controllers"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/internal/service"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

func InitRoutes(l logger.Log, u service.Collection) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(config))

	statusController := controllers.NewStatusHandler()
	authController := controllers.NewAuthHandler(l, u.AuthService)
	categoryController := controllers.NewCategoryHandler(l, u.CategoryService)
	courseController := controllers.NewCourseHandler(l, u.CourseService)
	enrollmentController := controllers.NewEnrollmentHandler(l, u.EnrollmentService)
	quizController := controllers.NewQuizHandler(l, u.QuizService)
	certificateController := controllers.NewCertificateHandler(l, u.CertificateService)
	adminController := controllers.NewAdminHandler(l, u.AuthService)

	v1 := r.Group("/v1", controllers.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", authController.Login)
			auth.POST("/refresh", authController.Refresh)
			auth.POST("/logout", authController.AuthMiddleware, authController.Logout)
		}

		me := v1.Group("/me", authController.AuthMiddleware)
		{
			me.GET("", authController.Me)
			me.PUT("", authController.UpdateProfile)
			me.PUT("/password", authController.ChangePassword)
			me.GET("/dashboard", enrollmentController.Dashboard)
			me.GET("/enrollments", enrollmentController.MyEnrollments)
			me.GET("/certificates", certificateController.MyCertificates)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoryController.List)

			admin := categories.Group("", authController.AuthMiddleware, controllers.RequireRoles(models.AdminRole))
			{
				admin.POST("", categoryController.Create)
				admin.PUT("/:category_id", categoryController.Rename)
				admin.DELETE("/:category_id", categoryController.Delete)
			}
		}

		courses := v1.Group("/courses")
		{
			courses.GET("", authController.OptionalAuth, courseController.List)
			courses.GET("/:course_id", authController.OptionalAuth, courseController.Detail)

			admin := courses.Group("", authController.AuthMiddleware, controllers.RequireRoles(models.AdminRole))
			{
				admin.POST("", courseController.Create)
				admin.PUT("/:course_id", courseController.Update)
				admin.PATCH("/:course_id/publish", courseController.Publish)
				admin.DELETE("/:course_id", courseController.Delete)
				admin.PUT("/:course_id/image", courseController.UploadImage)
				admin.POST("/:course_id/chapters", courseController.AddChapter)
				admin.POST("/:course_id/chapters/:chapter_id/lessons", courseController.AddLesson)
			}

			employee := courses.Group("", authController.AuthMiddleware, controllers.RequireRoles(models.EmployeeRole))
			{
				employee.POST("/:course_id/enroll", enrollmentController.Enroll)
				employee.POST("/:course_id/lessons/complete", enrollmentController.CompleteLesson)
				employee.GET("/:course_id/progress", enrollmentController.Progress)
				employee.GET("/:course_id/next-lesson", enrollmentController.NextLesson)
			}
		}

		quizzes := v1.Group("/quizzes", authController.AuthMiddleware)
		{
			quizzes.GET("", quizController.List)
			quizzes.GET("/:quiz_id", quizController.Get)
			// Any authenticated user may attempt; the enrollment gate
			// protects course-linked quizzes on its own.
			quizzes.POST("/:quiz_id/attempt", quizController.Attempt)

			admin := quizzes.Group("", controllers.RequireRoles(models.AdminRole))
			{
				admin.POST("", quizController.Create)
				admin.PUT("/:quiz_id", quizController.Update)
				admin.PATCH("/:quiz_id/deactivate", quizController.Deactivate)
			}
		}

		admin := v1.Group("/admin", authController.AuthMiddleware, controllers.RequireRoles(models.AdminRole))
		{
			admin.POST("/employees", adminController.RegisterEmployee)
			admin.GET("/employees", adminController.ListEmployees)
			admin.PATCH("/employees/:employee_id/status", adminController.SetEmployeeStatus)
			admin.GET("/certificates", certificateController.ListAll)
		}
	}
	return r
}
