package rating

import (
	"context"
	"log/slog"

	"github.com/taibuivan/anngon/internal/platform/apperr"
	"github.com/taibuivan/anngon/internal/platform/validate"
	"github.com/taibuivan/anngon/pkg/pointer"
	"github.com/taibuivan/anngon/pkg/uuid"
)

// PurchaseChecker gates ratings to customers who actually received the dish.
type PurchaseChecker interface {
	HasCompletedPurchase(context context.Context, userID, foodID string) (bool, error)
}

type Service struct {
	repo      Repository
	purchases PurchaseChecker
	logger    *slog.Logger
}

func NewService(repo Repository, purchases PurchaseChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		purchases: purchases,
		logger:    logger,
	}
}

func (service *Service) ListByFood(context context.Context, foodID string, limit, offset int) ([]*Rating, int, error) {
	return service.repo.ListByFood(context, foodID, limit, offset)
}

func (service *Service) GetOwn(context context.Context, userID, foodID string) (*Rating, error) {
	return service.repo.GetByUserAndFood(context, userID, foodID)
}

// RateFood records or overwrites the user's rating for a dish.
//
// Only customers with a completed order containing the dish may rate it.
func (service *Service) RateFood(context context.Context, userID string, input *Rating) (*Rating, error) {
	validator := &validate.Validator{}
	validator.Required(FieldFoodID, input.FoodID)
	validator.Range(FieldScore, input.Score, 1, 5)
	validator.MaxLen(FieldComment, pointer.Val(input.Comment), 1000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	purchased, err := service.purchases.HasCompletedPurchase(context, userID, input.FoodID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, apperr.Forbidden("You can only rate dishes from completed orders")
	}

	input.ID = uuid.New()
	input.UserID = userID

	if err := service.repo.Upsert(context, input); err != nil {
		return nil, err
	}

	service.logger.Info("food_rated",
		slog.String("user_id", userID),
		slog.String("food_id", input.FoodID),
		slog.Int("score", input.Score),
	)
	return input, nil
}

func (service *Service) DeleteRating(context context.Context, userID, foodID string) error {
	if err := service.repo.Delete(context, userID, foodID); err != nil {
		return err
	}

	service.logger.Info("food_rating_deleted",
		slog.String("user_id", userID),
		slog.String("food_id", foodID),
	)
	return nil
}
