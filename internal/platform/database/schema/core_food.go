package schema

// CoreFoodTable represents the 'core.food' table
type CoreFoodTable struct {
	Table       string
	ID          string
	StallID     string
	CategoryID  string
	Name        string
	Slug        string
	Description string
	Price       string
	ImageURL    string
	IsAvailable string
	RatingAvg   string
	RatingCount string
	SoldCount   string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// CoreFood is the schema definition for core.food
var CoreFood = CoreFoodTable{
	Table:       "core.food",
	ID:          "id",
	StallID:     "stallid",
	CategoryID:  "categoryid",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	Price:       "price",
	ImageURL:    "imageurl",
	IsAvailable: "isavailable",
	RatingAvg:   "ratingavg",
	RatingCount: "ratingcount",
	SoldCount:   "soldcount",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns all standard column names
func (t CoreFoodTable) Columns() []string {
	return []string{
		t.ID, t.StallID, t.CategoryID, t.Name, t.Slug, t.Description, t.Price,
		t.ImageURL, t.IsAvailable, t.RatingAvg, t.RatingCount, t.SoldCount,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
