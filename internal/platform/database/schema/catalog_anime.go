package schema

// CatalogAnimeTable represents the 'catalog.anime' table
type CatalogAnimeTable struct {
	Table       string
	ID          string
	Title       string
	TitleLower  string
	AltTitle    string
	Slug        string
	Synopsis    string
	Image       string
	Genres      string
	Info        string
	EpisodeList string
	Characters  string
	ViewCount   string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogAnime is the schema definition for catalog.anime
var CatalogAnime = CatalogAnimeTable{
	Table:       "catalog.anime",
	ID:          "id",
	Title:       "title",
	TitleLower:  "title_lower",
	AltTitle:    "alt_title",
	Slug:        "slug",
	Synopsis:    "synopsis",
	Image:       "image",
	Genres:      "genres",
	Info:        "info",
	EpisodeList: "episode_list",
	Characters:  "characters",
	ViewCount:   "view_count",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t CatalogAnimeTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.TitleLower, t.AltTitle, t.Slug, t.Synopsis, t.Image,
		t.Genres, t.Info, t.EpisodeList, t.Characters, t.ViewCount,
		t.CreatedAt, t.UpdatedAt,
	}
}
