package badge

import "time"

// Badge is an achievement awarded to stalls by platform admins
// (e.g. "Verified Kitchen", "Top Seller 2026").
type Badge struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	IconURL     *string   `json:"icon_url"`
	CreatedAt   time.Time `json:"-"`
}

// Award links a badge to a stall with the time of the grant.
type Award struct {
	Badge     Badge     `json:"badge"`
	StallID   string    `json:"stall_id"`
	AwardedAt time.Time `json:"awarded_at"`
}

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldIconURL     = "icon_url"
)
