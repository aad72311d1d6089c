package schema

// CoreStallTable represents the 'core.stall' table
type CoreStallTable struct {
	Table       string
	ID          string
	OwnerID     string
	Name        string
	Slug        string
	Description string
	Address     string
	Phone       string
	AvatarURL   string
	CoverURL    string
	IsOpen      string
	RatingAvg   string
	RatingCount string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// CoreStall is the schema definition for core.stall
var CoreStall = CoreStallTable{
	Table:       "core.stall",
	ID:          "id",
	OwnerID:     "ownerid",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	Address:     "address",
	Phone:       "phone",
	AvatarURL:   "avatarurl",
	CoverURL:    "coverurl",
	IsOpen:      "isopen",
	RatingAvg:   "ratingavg",
	RatingCount: "ratingcount",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns all standard column names
func (t CoreStallTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Name, t.Slug, t.Description, t.Address, t.Phone,
		t.AvatarURL, t.CoverURL, t.IsOpen, t.RatingAvg, t.RatingCount,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
