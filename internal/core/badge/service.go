package badge

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

func (service *Service) ListBadges(context context.Context) ([]*Badge, error) {
	return service.repo.ListBadges(context)
}

func (service *Service) GetBadge(context context.Context, id int) (*Badge, error) {
	return service.repo.GetBadgeByID(context, id)
}

func (service *Service) ListStallBadges(context context.Context, stallID string) ([]*Award, error) {
	return service.repo.ListAwardsByStall(context, stallID)
}

func (service *Service) CreateBadge(context context.Context, badge *Badge) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, badge.Name).MaxLen(FieldName, badge.Name, 100)

	if badge.IconURL != nil {
		validator.URL(FieldIconURL, *badge.IconURL)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	badge.Slug = slug.From(badge.Name)

	if err := service.repo.CreateBadge(context, badge); err != nil {
		return err
	}

	service.logger.Info("badge_created", slog.String("name", badge.Name))
	return nil
}

func (service *Service) UpdateBadge(context context.Context, id int, badge *Badge) error {
	badge.ID = id
	validator := &validate.Validator{}
	validator.Required(FieldName, badge.Name).MaxLen(FieldName, badge.Name, 100)

	if badge.IconURL != nil {
		validator.URL(FieldIconURL, *badge.IconURL)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	badge.Slug = slug.From(badge.Name)

	if err := service.repo.UpdateBadge(context, badge); err != nil {
		return err
	}

	service.logger.Info("badge_updated", slog.Int("badge_id", badge.ID))
	return nil
}

func (service *Service) DeleteBadge(context context.Context, id int) error {
	if err := service.repo.DeleteBadge(context, id); err != nil {
		return err
	}

	service.logger.Warn("badge_deleted", slog.Int("badge_id", id))
	return nil
}

func (service *Service) AwardBadge(context context.Context, badgeID int, stallID string) error {
	if err := service.repo.AwardBadge(context, badgeID, stallID); err != nil {
		return err
	}

	service.logger.Info("badge_awarded",
		slog.Int("badge_id", badgeID),
		slog.String("stall_id", stallID),
	)
	return nil
}

func (service *Service) RevokeBadge(context context.Context, badgeID int, stallID string) error {
	if err := service.repo.RevokeBadge(context, badgeID, stallID); err != nil {
		return err
	}

	service.logger.Info("badge_revoked",
		slog.Int("badge_id", badgeID),
		slog.String("stall_id", stallID),
	)
	return nil
}
