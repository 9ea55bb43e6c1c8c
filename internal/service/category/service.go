package category

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type categoryRepo interface {
	Create(ctx context.Context, category *models.Category) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	InUse(ctx context.Context, id uuid.UUID) (bool, error)
}

type CategoryService struct {
	log  logger.Log
	repo categoryRepo
}

func NewCategoryService(l logger.Log, repo categoryRepo) *CategoryService {
	return &CategoryService{log: l, repo: repo}
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{Name: strings.TrimSpace(name)}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) ByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.repo.ByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Rename(ctx context.Context, id uuid.UUID, name string) error {
	return s.repo.Rename(ctx, id, strings.TrimSpace(name))
}

// Delete refuses to remove a category that any course still references,
// including drafts and soft-deleted courses.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	used, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return app_errors.ErrCategoryInUse
	}
	return s.repo.Delete(ctx, id)
}
