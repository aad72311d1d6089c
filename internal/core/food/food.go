package food

import "time"

// Food represents a single dish on a stall's menu.
//
// Price is stored in Vietnamese dong as an integer amount. The platform never
// deals in fractional currency.
type Food struct {
	ID          string     `json:"id"`
	StallID     string     `json:"stall_id"`
	CategoryID  int        `json:"category_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	Price       int64      `json:"price"`
	ImageURL    *string    `json:"image_url"`
	IsAvailable bool       `json:"is_available"`
	RatingAvg   float64    `json:"rating_avg"`
	RatingCount int        `json:"rating_count"`
	SoldCount   int        `json:"sold_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"` // soft-delete tracker
}

// Filter holds the parameters for a paginated menu search.
type Filter struct {
	Query         string // ILIKE search against the dish name
	StallID       string // Restrict to a single stall's menu
	CategoryID    int    // Restrict to a category (0 = all)
	AvailableOnly bool   // Exclude dishes marked unavailable
	MinPrice      int64  // Lower price bound in dong (0 = unbounded)
	MaxPrice      int64  // Upper price bound in dong (0 = unbounded)
}

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldImageURL    = "image_url"
	FieldCategoryID  = "category_id"
	FieldStallID     = "stall_id"
)
