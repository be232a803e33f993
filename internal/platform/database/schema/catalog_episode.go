package schema

// CatalogEpisodeTable represents the 'catalog.episode' table
type CatalogEpisodeTable struct {
	Table      string
	ID         string
	Title      string
	Slug       string
	AnimeTitle string
	AnimeSlug  string
	AnimeImage string
	Thumbnail  string
	Streaming  string
	Downloads  string
	CreatedAt  string
	UpdatedAt  string
}

// CatalogEpisode is the schema definition for catalog.episode
var CatalogEpisode = CatalogEpisodeTable{
	Table:      "catalog.episode",
	ID:         "id",
	Title:      "title",
	Slug:       "slug",
	AnimeTitle: "anime_title",
	AnimeSlug:  "anime_slug",
	AnimeImage: "anime_image",
	Thumbnail:  "thumbnail",
	Streaming:  "streaming",
	Downloads:  "downloads",
	CreatedAt:  "created_at",
	UpdatedAt:  "updated_at",
}

func (t CatalogEpisodeTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.AnimeTitle, t.AnimeSlug, t.AnimeImage,
		t.Thumbnail, t.Streaming, t.Downloads, t.CreatedAt, t.UpdatedAt,
	}
}
