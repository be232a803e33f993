package schema

// UsersBookmarkTable represents the 'users.bookmark' table
type UsersBookmarkTable struct {
	Table     string
	ID        string
	UserID    string
	AnimeID   string
	CreatedAt string
}

// UsersBookmark is the schema definition for users.bookmark
var UsersBookmark = UsersBookmarkTable{
	Table:     "users.bookmark",
	ID:        "id",
	UserID:    "user_id",
	AnimeID:   "anime_id",
	CreatedAt: "created_at",
}

func (t UsersBookmarkTable) Columns() []string {
	return []string{t.ID, t.UserID, t.AnimeID, t.CreatedAt}
}
