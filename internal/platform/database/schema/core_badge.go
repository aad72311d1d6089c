package schema

// CoreBadgeTable represents the 'core.badge' table
type CoreBadgeTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	IconURL     string
	CreatedAt   string
}

// CoreBadge is the schema definition for core.badge
var CoreBadge = CoreBadgeTable{
	Table:       "core.badge",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	IconURL:     "iconurl",
	CreatedAt:   "createdat",
}

// CoreStallBadgeTable represents the 'core.stallbadge' join table
type CoreStallBadgeTable struct {
	Table     string
	StallID   string
	BadgeID   string
	AwardedAt string
}

// CoreStallBadge is the schema definition for core.stallbadge
var CoreStallBadge = CoreStallBadgeTable{
	Table:     "core.stallbadge",
	StallID:   "stallid",
	BadgeID:   "badgeid",
	AwardedAt: "awardedat",
}
