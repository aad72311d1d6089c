package food

import (
	"context"
	"log/slog"

	"github.com/taibuivan/anngon/internal/core/stall"
	"github.com/taibuivan/anngon/internal/platform/sec"
	"github.com/taibuivan/anngon/internal/platform/validate"
	"github.com/taibuivan/anngon/pkg/slug"
	"github.com/taibuivan/anngon/pkg/uuid"
)

// StallGuard confirms that an actor manages a stall before its menu is mutated.
type StallGuard interface {
	RequireOwnership(context context.Context, actorID string, actorRole sec.UserRole, stallID string) (*stall.Stall, error)
}

type Service struct {
	repo   Repository
	stalls StallGuard
	logger *slog.Logger
}

func NewService(repo Repository, stalls StallGuard, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		stalls: stalls,
		logger: logger,
	}
}

func (service *Service) ListFoods(context context.Context, filter Filter, limit, offset int) ([]*Food, int, error) {
	return service.repo.ListFoods(context, filter, limit, offset)
}

func (service *Service) GetFood(context context.Context, id string) (*Food, error) {
	return service.repo.GetFood(context, id)
}

func (service *Service) validateFood(food *Food) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, food.Name).MaxLen(FieldName, food.Name, 150)
	validator.Custom(FieldPrice, food.Price < 1000, "must be at least 1,000 dong")
	validator.Custom(FieldCategoryID, food.CategoryID < 1, "is required")

	if food.ImageURL != nil {
		validator.URL(FieldImageURL, *food.ImageURL)
	}

	return validator.Err()
}

func (service *Service) CreateFood(context context.Context, actorID string, actorRole sec.UserRole, food *Food) error {
	if _, err := service.stalls.RequireOwnership(context, actorID, actorRole, food.StallID); err != nil {
		return err
	}

	if err := service.validateFood(food); err != nil {
		return err
	}

	food.ID = uuid.New()
	food.Slug = slug.From(food.Name)
	food.IsAvailable = true

	if err := service.repo.CreateFood(context, food); err != nil {
		return err
	}

	service.logger.Info("food_created",
		slog.String("food_id", food.ID),
		slog.String("stall_id", food.StallID),
	)
	return nil
}

func (service *Service) UpdateFood(context context.Context, actorID string, actorRole sec.UserRole, id string, input *Food) (*Food, error) {
	existing, err := service.repo.GetFood(context, id)
	if err != nil {
		return nil, err
	}

	if _, err := service.stalls.RequireOwnership(context, actorID, actorRole, existing.StallID); err != nil {
		return nil, err
	}

	if err := service.validateFood(input); err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Slug = slug.From(input.Name)
	existing.CategoryID = input.CategoryID
	existing.Description = input.Description
	existing.Price = input.Price
	existing.ImageURL = input.ImageURL

	if err := service.repo.UpdateFood(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("food_updated", slog.String("food_id", id))
	return existing, nil
}

func (service *Service) SetAvailable(context context.Context, actorID string, actorRole sec.UserRole, id string, available bool) error {
	existing, err := service.repo.GetFood(context, id)
	if err != nil {
		return err
	}

	if _, err := service.stalls.RequireOwnership(context, actorID, actorRole, existing.StallID); err != nil {
		return err
	}

	if err := service.repo.SetAvailable(context, id, available); err != nil {
		return err
	}

	service.logger.Info("food_availability_changed",
		slog.String("food_id", id),
		slog.Bool("available", available),
	)
	return nil
}

func (service *Service) DeleteFood(context context.Context, actorID string, actorRole sec.UserRole, id string) error {
	existing, err := service.repo.GetFood(context, id)
	if err != nil {
		return err
	}

	if _, err := service.stalls.RequireOwnership(context, actorID, actorRole, existing.StallID); err != nil {
		return err
	}

	if err := service.repo.DeleteFood(context, id); err != nil {
		return err
	}

	service.logger.Warn("food_deleted", slog.String("food_id", id))
	return nil
}
