package model

// Cinema represents a movie theatre venue and the movies it screens.
// Every id in MovieIDs must reference a movie of the current catalog
// snapshot; the catalog sync engine repairs the list after each refresh.
type Cinema struct {
	ID       int64   `json:"id"`       // stable identifier from the canonical list
	Name     string  `json:"name"`     // display name, e.g. "PVR Cinemas"
	Location string  `json:"location"` // mall / neighbourhood line
	City     string  `json:"city"`     // city the venue belongs to
	MovieIDs []int64 `json:"movieIds"` // movies currently screened
}

// Screens reports whether the cinema lists the movie.
func (c Cinema) Screens(movieID int64) bool {
	for _, id := range c.MovieIDs {
		if id == movieID {
			return true
		}
	}
	return false
}
