package schema

// UsersAccountTable represents the 'users.account' table
type UsersAccountTable struct {
	Table         string
	ID            string
	Username      string
	UsernameLower string
	PasswordHash  string
	IsAdmin       string
	CreatedAt     string
	UpdatedAt     string
}

// UsersAccount is the schema definition for users.account
var UsersAccount = UsersAccountTable{
	Table:         "users.account",
	ID:            "id",
	Username:      "username",
	UsernameLower: "username_lower",
	PasswordHash:  "password_hash",
	IsAdmin:       "is_admin",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}

func (t UsersAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.UsernameLower, t.PasswordHash, t.IsAdmin,
		t.CreatedAt, t.UpdatedAt,
	}
}
