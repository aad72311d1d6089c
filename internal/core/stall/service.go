package stall

import (
	"context"
	"log/slog"

	"github.com/taibuivan/anngon/internal/platform/apperr"
	"github.com/taibuivan/anngon/internal/platform/sec"
	"github.com/taibuivan/anngon/internal/platform/validate"
	"github.com/taibuivan/anngon/pkg/slug"
	"github.com/taibuivan/anngon/pkg/uuid"
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

func (service *Service) ListStalls(context context.Context, filter Filter, limit, offset int) ([]*Stall, int, error) {
	return service.repo.ListStalls(context, filter, limit, offset)
}

func (service *Service) GetStall(context context.Context, id string) (*Stall, error) {
	return service.repo.GetStall(context, id)
}

func (service *Service) GetStallBySlug(context context.Context, stallSlug string) (*Stall, error) {
	return service.repo.GetStallBySlug(context, stallSlug)
}

func (service *Service) CreateStall(context context.Context, ownerID string, stall *Stall) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, stall.Name).MaxLen(FieldName, stall.Name, 150)
	validator.Required(FieldAddress, stall.Address).MaxLen(FieldAddress, stall.Address, 500)
	validator.Required(FieldPhone, stall.Phone).MaxLen(FieldPhone, stall.Phone, 15)

	if stall.AvatarURL != nil {
		validator.URL(FieldAvatarURL, *stall.AvatarURL)
	}
	if stall.CoverURL != nil {
		validator.URL(FieldCoverURL, *stall.CoverURL)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	stall.ID = uuid.New()
	stall.OwnerID = ownerID
	stall.Slug = slug.From(stall.Name)
	stall.IsOpen = true

	if err := service.repo.CreateStall(context, stall); err != nil {
		return err
	}

	service.logger.Info("stall_created",
		slog.String("stall_id", stall.ID),
		slog.String("owner_id", ownerID),
	)
	return nil
}

func (service *Service) UpdateStall(context context.Context, actorID string, actorRole sec.UserRole, id string, input *Stall) (*Stall, error) {
	existing, err := service.repo.GetStall(context, id)
	if err != nil {
		return nil, err
	}

	// Ownership gate: only the stall owner or an admin may mutate
	if existing.OwnerID != actorID && !actorRole.AtLeast(sec.RoleAdmin) {
		return nil, apperr.Forbidden("You do not manage this stall")
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 150)
	validator.Required(FieldAddress, input.Address).MaxLen(FieldAddress, input.Address, 500)
	validator.Required(FieldPhone, input.Phone).MaxLen(FieldPhone, input.Phone, 15)

	if input.AvatarURL != nil {
		validator.URL(FieldAvatarURL, *input.AvatarURL)
	}
	if input.CoverURL != nil {
		validator.URL(FieldCoverURL, *input.CoverURL)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Slug = slug.From(input.Name)
	existing.Description = input.Description
	existing.Address = input.Address
	existing.Phone = input.Phone
	existing.AvatarURL = input.AvatarURL
	existing.CoverURL = input.CoverURL

	if err := service.repo.UpdateStall(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("stall_updated", slog.String("stall_id", id))
	return existing, nil
}

func (service *Service) SetOpen(context context.Context, actorID string, actorRole sec.UserRole, id string, open bool) error {
	existing, err := service.repo.GetStall(context, id)
	if err != nil {
		return err
	}

	if existing.OwnerID != actorID && !actorRole.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("You do not manage this stall")
	}

	if err := service.repo.SetOpen(context, id, open); err != nil {
		return err
	}

	service.logger.Info("stall_open_changed",
		slog.String("stall_id", id),
		slog.Bool("open", open),
	)
	return nil
}

func (service *Service) DeleteStall(context context.Context, actorID string, actorRole sec.UserRole, id string) error {
	existing, err := service.repo.GetStall(context, id)
	if err != nil {
		return err
	}

	if existing.OwnerID != actorID && !actorRole.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("You do not manage this stall")
	}

	if err := service.repo.DeleteStall(context, id); err != nil {
		return err
	}

	service.logger.Warn("stall_deleted", slog.String("stall_id", id))
	return nil
}

// RequireOwnership is used by sibling domains (menu, orders) that need to
// confirm the actor controls a stall before acting on its resources.
func (service *Service) RequireOwnership(context context.Context, actorID string, actorRole sec.UserRole, stallID string) (*Stall, error) {
	existing, err := service.repo.GetStall(context, stallID)
	if err != nil {
		return nil, err
	}

	if existing.OwnerID != actorID && !actorRole.AtLeast(sec.RoleAdmin) {
		return nil, apperr.Forbidden("You do not manage this stall")
	}

	return existing, nil
}
