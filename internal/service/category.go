package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

// CategoryService manages topic categories.
type CategoryService struct {
	repo   repository.CategoryRepository
	logger *slog.Logger
}

func NewCategoryService(repo repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

// Create adds a category. A duplicate name is apperror.ErrConflict.
func (s *CategoryService) Create(ctx context.Context, name string) (int64, error) {
	name, err := cleanText("name", name, MaxCategoryNameLength)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("creating category: %w", err)
	}

	s.logger.Info("category created", slog.Int64("id", id), slog.String("name", name))
	return id, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return s.repo.GetCategory(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}
