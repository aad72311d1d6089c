package food

import "context"

type Repository interface {
	ListFoods(context context.Context, f Filter, limit, offset int) ([]*Food, int, error)
	GetFood(context context.Context, id string) (*Food, error)
	CreateFood(context context.Context, f *Food) error
	UpdateFood(context context.Context, f *Food) error
	SetAvailable(context context.Context, id string, available bool) error
	DeleteFood(context context.Context, id string) error
}
