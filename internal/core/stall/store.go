package stall

import "context"

type Repository interface {
	ListStalls(context context.Context, f Filter, limit, offset int) ([]*Stall, int, error)
	GetStall(context context.Context, id string) (*Stall, error)
	GetStallBySlug(context context.Context, slug string) (*Stall, error)
	CreateStall(context context.Context, s *Stall) error
	UpdateStall(context context.Context, s *Stall) error
	SetOpen(context context.Context, id string, open bool) error
	DeleteStall(context context.Context, id string) error
}
