package rating

import "time"

// Rating is one customer's 1-5 star verdict on a dish, optionally with a
// comment. A user holds at most one rating per dish; re-rating overwrites.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FoodID    string    `json:"food_id"`
	Score     int       `json:"score"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	FieldScore   = "score"
	FieldComment = "comment"
	FieldFoodID  = "food_id"
)
