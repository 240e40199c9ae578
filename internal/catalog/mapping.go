package catalog

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/iliyamo/cinebook/internal/model"
)

const (
	posterPlaceholder   = "https://via.placeholder.com/500x750?text=No+Poster"
	backdropPlaceholder = "https://via.placeholder.com/1280x720?text=No+Backdrop"
	posterSize          = "w500"
	backdropSize        = "w1280"
	defaultLanguage     = "English"
)

var languages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"te": "Telugu",
	"ta": "Tamil",
	"ml": "Malayalam",
	"kn": "Kannada",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
}

// Cities is the fixed list movies are distributed over.
var Cities = []string{"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Chennai", "Kolkata", "Pune"}

// LanguageName resolves an ISO 639-1 code, defaulting to English.
func LanguageName(code string) string {
	if name, ok := languages[code]; ok {
		return name
	}
	return defaultLanguage
}

// Rand is the random source used for city sampling.  *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// CitySampler picks 3–6 distinct cities per movie.  It is safe for
// concurrent use.
type CitySampler struct {
	mu  sync.Mutex
	rnd Rand
}

func NewCitySampler(r Rand) *CitySampler { return &CitySampler{rnd: r} }

// Sample returns between 3 and 6 cities drawn from Cities.
func (s *CitySampler) Sample() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool := make([]string, len(Cities))
	copy(pool, Cities)
	for i := len(pool) - 1; i > 0; i-- {
		j := s.rnd.IntN(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	n := 3 + s.rnd.IntN(4)
	return pool[:n]
}

// tmdbMovie is the subset of a TMDB movie record the mapper reads.
type tmdbMovie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	OriginalLanguage string  `json:"original_language"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type tmdbPage struct {
	Page    int         `json:"page"`
	Results []tmdbMovie `json:"results"`
}

// roundRating keeps one decimal.
func roundRating(v float64) float64 { return math.Round(v*10) / 10 }

// releaseYear reads the year of a YYYY-MM-DD date, 0 when unparseable.
func releaseYear(date string) int {
	head, _, _ := strings.Cut(date, "-")
	y, err := strconv.Atoi(head)
	if err != nil || y < 0 {
		return 0
	}
	return y
}

func imageURL(base, size, path, placeholder string) string {
	if path == "" {
		return placeholder
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}

func (c *Client) mapMovie(t tmdbMovie) model.Movie {
	title := t.Title
	if title == "" {
		title = t.OriginalTitle
	}
	genres := make([]string, 0, len(t.Genres))
	for _, g := range t.Genres {
		genres = append(genres, g.Name)
	}
	return model.Movie{
		ID:         t.ID,
		Title:      title,
		Year:       releaseYear(t.ReleaseDate),
		Rating:     roundRating(t.VoteAverage),
		Language:   LanguageName(t.OriginalLanguage),
		Poster:     imageURL(c.cfg.ImageBaseURL, posterSize, t.PosterPath, posterPlaceholder),
		Backdrop:   imageURL(c.cfg.ImageBaseURL, backdropSize, t.BackdropPath, backdropPlaceholder),
		Plot:       t.Overview,
		Genre:      strings.Join(genres, ", "),
		VoteCount:  t.VoteCount,
		Popularity: t.Popularity,
		Cities:     c.cities.Sample(),
		TMDBID:     t.ID,
	}
}
