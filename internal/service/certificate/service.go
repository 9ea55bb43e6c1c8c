package certificate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type certificateRepo interface {
	Create(ctx context.Context, cert *models.Certificate) error
	ByOwner(ctx context.Context, userID, courseID, quizID uuid.UUID) (*models.Certificate, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error)
	ListAll(ctx context.Context) ([]models.Certificate, error)
}

type userRepo interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type fileStorage interface {
	Upload(ctx context.Context, userID, courseID uuid.UUID, image []byte) (string, error)
	GetURL(ctx context.Context, objectKey string) (string, error)
}

type CertificateService struct {
	log        logger.Log
	certRepo   certificateRepo
	userRepo   userRepo
	courseRepo courseRepo
	files      fileStorage
}

func NewCertificateService(l logger.Log, c certificateRepo, u userRepo, co courseRepo, f fileStorage) *CertificateService {
	return &CertificateService{
		log:        l,
		certRepo:   c,
		userRepo:   u,
		courseRepo: co,
		files:      f,
	}
}

// Issue renders, stores and records a certificate for a passed quiz. It is
// idempotent per (user, course, quiz): when the record already exists, the
// stored certificate is returned and no new artifact is rendered. A lost
// insert race is resolved the same way, by re-reading the winner's row.
func (s *CertificateService) Issue(ctx context.Context, userID, courseID, quizID uuid.UUID, score, outOf int) (*models.Certificate, error) {
	existing, err := s.certRepo.ByOwner(ctx, userID, courseID, quizID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, app_errors.ErrCertificateNotFound) {
		return nil, err
	}

	user, err := s.userRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.Username
	}

	awardedAt := time.Now().UTC()
	image, err := renderPNG(name, course.Title, score, outOf, awardedAt)
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}

	objectKey, err := s.files.Upload(ctx, userID, courseID, image)
	if err != nil {
		return nil, fmt.Errorf("upload certificate: %w", err)
	}

	cert := &models.Certificate{
		UserID:    userID,
		CourseID:  courseID,
		QuizID:    quizID,
		Score:     score,
		OutOf:     outOf,
		ObjectKey: objectKey,
	}
	if err := s.certRepo.Create(ctx, cert); err != nil {
		if errors.Is(err, app_errors.ErrCertificateExists) {
			return s.certRepo.ByOwner(ctx, userID, courseID, quizID)
		}
		return nil, err
	}

	s.log.Info("certificate awarded",
		"user_id", userID, "course_id", courseID, "quiz_id", quizID,
	)
	return cert, nil
}

// CertificateView is a certificate with its presigned download link.
type CertificateView struct {
	models.Certificate
	DownloadURL string `json:"download_url"`
}

func (s *CertificateService) withURLs(ctx context.Context, certs []models.Certificate) []CertificateView {
	views := make([]CertificateView, 0, len(certs))
	for _, c := range certs {
		view := CertificateView{Certificate: c}
		if c.ObjectKey != "" {
			url, err := s.files.GetURL(ctx, c.ObjectKey)
			if err != nil {
				s.log.ErrorErr("failed to presign certificate url", err, "certificate_id", c.ID)
			} else {
				view.DownloadURL = url
			}
		}
		views = append(views, view)
	}
	return views
}

// ListByUser returns the caller's certificates with download links.
func (s *CertificateService) ListByUser(ctx context.Context, userID uuid.UUID) ([]CertificateView, error) {
	certs, err := s.certRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withURLs(ctx, certs), nil
}

// ListAll is the admin view across every user.
func (s *CertificateService) ListAll(ctx context.Context) ([]CertificateView, error) {
	certs, err := s.certRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.withURLs(ctx, certs), nil
}
