package category

import (
	"context"
	"log/slog"

	"github.com/taibuivan/anngon/internal/platform/validate"
	"github.com/taibuivan/anngon/pkg/slug"
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

func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.repo.ListCategories(context)
}

func (service *Service) GetCategory(context context.Context, id int) (*Category, error) {
	return service.repo.GetCategoryByID(context, id)
}

func (service *Service) GetCategoryBySlug(context context.Context, categorySlug string) (*Category, error) {
	return service.repo.GetCategoryBySlug(context, categorySlug)
}

func (service *Service) CreateCategory(context context.Context, category *Category) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).MaxLen(FieldName, category.Name, 100)

	if category.IconURL != nil {
		validator.URL(FieldIconURL, *category.IconURL)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	category.Slug = slug.From(category.Name)

	if err := service.repo.CreateCategory(context, category); err != nil {
		return err
	}

	service.logger.Info("category_created", slog.String("name", category.Name))
	return nil
}

func (service *Service) UpdateCategory(context context.Context, id int, category *Category) error {
	category.ID = id
	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).MaxLen(FieldName, category.Name, 100)

	if category.IconURL != nil {
		validator.URL(FieldIconURL, *category.IconURL)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	category.Slug = slug.From(category.Name)

	if err := service.repo.UpdateCategory(context, category); err != nil {
		return err
	}

	service.logger.Info("category_updated", slog.Int("category_id", category.ID))
	return nil
}

func (service *Service) DeleteCategory(context context.Context, id int) error {
	if err := service.repo.DeleteCategory(context, id); err != nil {
		return err
	}

	service.logger.Warn("category_deleted", slog.Int("category_id", id))
	return nil
}
