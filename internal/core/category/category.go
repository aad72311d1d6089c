package category

import "time"

// Category is a flat reference list used to classify dishes (noodles, rice,
// drinks, desserts...). Managed by platform admins.
type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IconURL   *string   `json:"icon_url"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"-"`
}

const (
	FieldName    = "name"
	FieldIconURL = "icon_url"
)
