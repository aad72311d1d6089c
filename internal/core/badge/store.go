package badge

import "context"

type Repository interface {
	ListBadges(context context.Context) ([]*Badge, error)
	GetBadgeByID(context context.Context, id int) (*Badge, error)
	CreateBadge(context context.Context, b *Badge) error
	UpdateBadge(context context.Context, b *Badge) error
	DeleteBadge(context context.Context, id int) error

	ListAwardsByStall(context context.Context, stallID string) ([]*Award, error)
	AwardBadge(context context.Context, badgeID int, stallID string) error
	RevokeBadge(context context.Context, badgeID int, stallID string) error
}
