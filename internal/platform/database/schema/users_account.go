package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	Password    string
	Role        string
	IsVerified  string
	IsActive    string
	LastLoginAt string
	FirstName   string
	LastName    string
	Phone       string
	Address     string
	AvatarURL   string
	GoogleID    string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	Password:    "passwordhash",
	Role:        "role",
	IsVerified:  "isverified",
	IsActive:    "isactive",
	LastLoginAt: "lastloginat",
	FirstName:   "firstname",
	LastName:    "lastname",
	Phone:       "phone",
	Address:     "address",
	AvatarURL:   "avatarurl",
	GoogleID:    "googleid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.Role, t.IsVerified,
		t.IsActive, t.LastLoginAt, t.FirstName, t.LastName, t.Phone,
		t.Address, t.AvatarURL, t.GoogleID, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
