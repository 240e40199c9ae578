package catalogsync

import (
	"github.com/iliyamo/cinebook/internal/catalog"
	"github.com/iliyamo/cinebook/internal/model"
)

// seedIDCeiling separates locally assigned seed identifiers from catalog
// identifiers.  A persisted catalog holding any id below it is seed data.
const seedIDCeiling = 100

// SeedMovies returns the built-in catalog used when the external catalog
// is unconfigured or unreachable and nothing has been stored yet.
func SeedMovies() []model.Movie {
	return []model.Movie{
		{ID: 1, Title: "Inception", Year: 2010, Rating: 8.8, Language: "English",
			Poster: "https://images.unsplash.com/photo-1536440136628-849c177e76a1?w=400&h=600&fit=crop",
			Cities: []string{"Mumbai", "Delhi", "Bangalore", "Hyderabad"}},
		{ID: 2, Title: "The Dark Knight", Year: 2008, Rating: 9.0, Language: "English",
			Poster: "https://images.unsplash.com/photo-1509347528160-9a9e33742cdb?w=400&h=600&fit=crop",
			Cities: []string{"Mumbai", "Delhi", "Bangalore"}},
		{ID: 3, Title: "Interstellar", Year: 2014, Rating: 8.6, Language: "English",
			Poster: "https://images.unsplash.com/photo-1518676590629-3dcbd9c5a5c9?w=400&h=600&fit=crop",
			Cities: []string{"Mumbai", "Bangalore", "Hyderabad", "Chennai"}},
		{ID: 4, Title: "Avengers: Endgame", Year: 2019, Rating: 8.4, Language: "English",
			Poster: "https://images.unsplash.com/photo-1635805737707-575885ab0820?w=400&h=600&fit=crop",
			Cities: []string{"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Chennai", "Pune"}},
		{ID: 5, Title: "Dangal", Year: 2016, Rating: 8.3, Language: "Hindi",
			Poster: "https://images.unsplash.com/photo-1574267432644-f610f5b45b8f?w=400&h=600&fit=crop",
			Cities: []string{"Mumbai", "Delhi", "Bangalore", "Hyderabad"}},
		{ID: 6, Title: "RRR", Year: 2022, Rating: 8.0, Language: "Telugu",
			Poster: "https://images.unsplash.com/photo-1594908900066-3f47337549d8?w=400&h=600&fit=crop",
			Cities: []string{"Hyderabad", "Bangalore", "Chennai", "Mumbai"}},
	}
}

// CanonicalCinemas returns the reference cinema list shipped with this
// build.  Movie id lists are left empty; the engine points them at the
// current catalog.
func CanonicalCinemas() []model.Cinema {
	return []model.Cinema{
		{ID: 1, Name: "PVR Cinemas", Location: "Phoenix Mall, Mumbai", City: "Mumbai"},
		{ID: 2, Name: "INOX Megaplex", Location: "Inorbit Mall, Mumbai", City: "Mumbai"},
		{ID: 3, Name: "Cinepolis", Location: "Connaught Place, Delhi", City: "Delhi"},
		{ID: 4, Name: "PVR Director's Cut", Location: "Ambience Mall, Delhi", City: "Delhi"},
		{ID: 5, Name: "INOX", Location: "Garuda Mall, Bangalore", City: "Bangalore"},
		{ID: 6, Name: "PVR", Location: "Forum Mall, Bangalore", City: "Bangalore"},
		{ID: 7, Name: "AMB Cinemas", Location: "Gachibowli, Hyderabad", City: "Hyderabad"},
		{ID: 8, Name: "PVR", Location: "Inorbit Mall, Hyderabad", City: "Hyderabad"},
		{ID: 9, Name: "Sathyam Cinemas", Location: "Royapettah, Chennai", City: "Chennai"},
		{ID: 10, Name: "INOX", Location: "Amanora Mall, Pune", City: "Pune"},
		{ID: 11, Name: "PVR", Location: "Pavillion Mall, Pune", City: "Pune"},
		{ID: 12, Name: "Cinepolis", Location: "Acropolis Mall, Kolkata", City: "Kolkata"},
		{ID: 13, Name: "PVR", Location: "Mani Square, Kolkata", City: "Kolkata"},
		{ID: 14, Name: "Cinepolis", Location: "Alpha One Mall, Ahmedabad", City: "Ahmedabad"},
		{ID: 15, Name: "PVR", Location: "Elante Mall, Chandigarh", City: "Chandigarh"},
	}
}

// TopCities are the cities offered for selection ahead of the rest.
var TopCities = []string{
	"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Ahmedabad",
	"Chandigarh", "Chennai", "Pune", "Kolkata", "Kochi",
}

// SelectableCities lists every city a user may pick: TopCities, the cities
// movies are distributed over and every canonical cinema city, without
// repeats.
func SelectableCities() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, c := range TopCities {
		add(c)
	}
	for _, c := range catalog.Cities {
		add(c)
	}
	for _, c := range CanonicalCinemas() {
		add(c.City)
	}
	return out
}

// ShowTimings are the daily show slots offered at every cinema.
func ShowTimings() []string {
	return []string{"10:00 AM", "1:00 PM", "4:00 PM", "7:00 PM", "10:00 PM"}
}
