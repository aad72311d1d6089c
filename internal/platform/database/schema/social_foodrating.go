package schema

// SocialFoodRatingTable represents the 'social.foodrating' table
type SocialFoodRatingTable struct {
	Table     string
	ID        string
	UserID    string
	FoodID    string
	Score     string
	Comment   string
	CreatedAt string
	UpdatedAt string
}

// SocialFoodRating is the schema definition for social.foodrating
var SocialFoodRating = SocialFoodRatingTable{
	Table:     "social.foodrating",
	ID:        "id",
	UserID:    "userid",
	FoodID:    "foodid",
	Score:     "score",
	Comment:   "comment",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
