package rating

import "context"

type Repository interface {
	// Upsert writes the rating and refreshes the dish's aggregate
	// ratingavg/ratingcount in the same transaction.
	Upsert(context context.Context, r *Rating) error

	ListByFood(context context.Context, foodID string, limit, offset int) ([]*Rating, int, error)
	GetByUserAndFood(context context.Context, userID, foodID string) (*Rating, error)

	// Delete removes the rating and refreshes the dish aggregates.
	Delete(context context.Context, userID, foodID string) error
}
