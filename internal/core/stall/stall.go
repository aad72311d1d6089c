package stall

import "time"

// Stall represents a merchant storefront selling food on the platform.
type Stall struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	Address     string     `json:"address"`
	Phone       string     `json:"phone"`
	AvatarURL   *string    `json:"avatar_url"`
	CoverURL    *string    `json:"cover_url"`
	IsOpen      bool       `json:"is_open"`
	RatingAvg   float64    `json:"rating_avg"`
	RatingCount int        `json:"rating_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"` // soft-delete tracker
}

// Filter holds the parameters for a paginated stall search.
type Filter struct {
	Query    string // ILIKE search against name and address
	OwnerID  string // Restrict to stalls owned by a specific user
	OpenOnly bool   // Exclude stalls that are currently closed
}

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldAddress     = "address"
	FieldPhone       = "phone"
	FieldAvatarURL   = "avatar_url"
	FieldCoverURL    = "cover_url"
)
