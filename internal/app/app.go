package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/anooppassi66/lms-development/internal/app/server"
	"github.com/anooppassi66/lms-development/internal/config"
	"github.com/anooppassi66/lms-development/internal/delivery/http"
	"github.com/anooppassi66/lms-development/internal/service"
	"github.com/anooppassi66/lms-development/internal/service/auth"
	"github.com/anooppassi66/lms-development/internal/service/category"
	"github.com/anooppassi66/lms-development/internal/service/certificate"
	"github.com/anooppassi66/lms-development/internal/service/course"
	"github.com/anooppassi66/lms-development/internal/service/enrollment"
	"github.com/anooppassi66/lms-development/internal/service/quiz"
	"github.com/anooppassi66/lms-development/internal/storage/elastic"
	"github.com/anooppassi66/lms-development/internal/storage/minio_storage"
	"github.com/anooppassi66/lms-development/internal/storage/postgres"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	minioStorage, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.Buckets)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	mediaStorage, err := minio_storage.NewMediaStorage(minioStorage)
	if err != nil {
		log.FatalErr("error initializing media storage", err)
	}
	certStorage, err := minio_storage.NewCertificateStorage(minioStorage)
	if err != nil {
		log.FatalErr("error initializing certificate storage", err)
	}

	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	courseSearch := elastic.NewCourseSearchRepository(esClient, cfg.ES.Index)
	if err := courseSearch.CreateIndexIfNotExist(context.Background()); err != nil {
		log.FatalErr("error creating search index", err)
	}

	userRepo := postgres.NewUserPostgres(pg.Pool)
	tokenRepo := postgres.NewTokensPostgres(pg.Pool)
	categoryRepo := postgres.NewCategoryPostgres(pg.Pool)
	courseRepo := postgres.NewCoursePostgres(pg.Pool)
	enrollmentRepo := postgres.NewEnrollmentPostgres(pg.Pool)
	quizRepo := postgres.NewQuizPostgres(pg.Pool)
	certRepo := postgres.NewCertificatePostgres(pg.Pool)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, "lms", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := auth.NewAuthService(log, jwtManager, userRepo, tokenRepo)
	categoryService := category.NewCategoryService(log, categoryRepo)
	courseService := course.NewCourseService(log, courseRepo, categoryRepo, enrollmentRepo, courseSearch, mediaStorage)
	enrollmentService := enrollment.NewEnrollmentService(log, courseRepo, enrollmentRepo, certRepo)
	certificateService := certificate.NewCertificateService(log, certRepo, userRepo, courseRepo, certStorage)
	quizService := quiz.NewQuizService(log, quizRepo, courseRepo, enrollmentRepo, certificateService)

	if err := authService.SeedAdmin(context.Background(), cfg.AdminSeed.Email, cfg.AdminSeed.Password); err != nil {
		log.FatalErr("error seeding admin account", err)
	}

	u := service.Collection{
		AuthService:        authService,
		CategoryService:    categoryService,
		CourseService:      courseService,
		EnrollmentService:  enrollmentService,
		QuizService:        quizService,
		CertificateService: certificateService,
	}

	r := http.InitRoutes(log, u)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server error", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("shutdown error", err)
	}
}
