package model

// Movie is one entry of the local catalog mirror.  Catalog-sourced movies
// carry the identifier assigned by the external catalog; seed movies use
// small locally assigned identifiers.
//
// Fields:
//
//	ID         – catalog identifier, unique within one catalog snapshot.
//	Title      – display title.
//	Year       – release year (0 when unknown).
//	Rating     – average rating on a 0–10 scale, one decimal.
//	Language   – display language name (e.g. "Hindi").
//	Poster     – poster image URL (placeholder when the source has none).
//	Backdrop   – backdrop image URL (placeholder when the source has none).
//	Plot       – synopsis.
//	Genre      – comma separated genre names (only populated by lookups by id).
//	VoteCount  – number of votes behind Rating.
//	Popularity – catalog popularity score.
//	Cities     – cities where the movie is showing; non-empty once published.
//	TMDBID     – mirror of ID for catalog-sourced movies, zero for seed data.
type Movie struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Year       int      `json:"year"`
	Rating     float64  `json:"rating"`
	Language   string   `json:"language"`
	Poster     string   `json:"poster"`
	Backdrop   string   `json:"backdrop,omitempty"`
	Plot       string   `json:"plot,omitempty"`
	Genre      string   `json:"genre,omitempty"`
	VoteCount  int      `json:"voteCount,omitempty"`
	Popularity float64  `json:"popularity,omitempty"`
	Cities     []string `json:"cities"`
	TMDBID     int64    `json:"tmdbId,omitempty"`
}

// ShowsIn reports whether the movie is listed for the given city.
func (m Movie) ShowsIn(city string) bool {
	for _, c := range m.Cities {
		if c == city {
			return true
		}
	}
	return false
}

// MovieIDs returns the identifiers of movies in order.
func MovieIDs(movies []Movie) []int64 {
	ids := make([]int64, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	return ids
}
