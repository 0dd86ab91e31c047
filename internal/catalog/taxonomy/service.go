package taxonomy

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListGenres(context context.Context) ([]*Genre, error) {
	return service.repo.ListGenres(context)
}

func (service *Service) GetGenreBySlug(context context.Context, slug string) (*Genre, error) {
	return service.repo.GetGenreBySlug(context, slug)
}

func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.ListCategories(context)
}

func (service *Service) GetCategoryBySlug(context context.Context, slug string) (*Category, error) {
	return service.repo.GetCategoryBySlug(context, slug)
}
