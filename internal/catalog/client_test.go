package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(results ...map[string]any) map[string]any {
	if results == nil {
		results = []map[string]any{}
	}
	return map[string]any{"page": 1, "results": results}
}

func raw(id int64, title string) map[string]any {
	return map[string]any{
		"id":                id,
		"title":             title,
		"release_date":      "2023-07-21",
		"vote_average":      8.456,
		"vote_count":        1200,
		"original_language": "hi",
		"poster_path":       "/p.jpg",
		"backdrop_path":     "",
		"overview":          "plot",
		"popularity":        99.5,
	}
}

func newTestClient(t *testing.T, routes map[string]any) (*Client, *[]string) {
	t.Helper()
	var (
		mu   sync.Mutex
		hits []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.Path)
		mu.Unlock()
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "status_message": "The resource you requested could not be found."})
			return
		}
		if code, isCode := body.(int); isCode {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"status_message":"Invalid API key"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(Config{APIKey: "secret-key", BaseURL: srv.URL, ImageBaseURL: "https://img.test/t/p"},
		WithRand(rand.New(rand.NewPCG(1, 2))))
	return c, &hits
}

func TestClient_MapsRecords(t *testing.T) {
	c, _ := newTestClient(t, map[string]any{
		"/movie/top_rated": page(raw(42, "Jawan"), map[string]any{"id": 7, "original_title": "Orig", "original_language": "xx"}),
	})

	movies, err := c.FetchTopRated(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, movies, 2)

	m := movies[0]
	assert.Equal(t, int64(42), m.ID)
	assert.Equal(t, int64(42), m.TMDBID)
	assert.Equal(t, "Jawan", m.Title)
	assert.Equal(t, 2023, m.Year)
	assert.Equal(t, 8.5, m.Rating)
	assert.Equal(t, "Hindi", m.Language)
	assert.Equal(t, "https://img.test/t/p/w500/p.jpg", m.Poster)
	assert.Equal(t, backdropPlaceholder, m.Backdrop)
	assert.Equal(t, 1200, m.VoteCount)

	fallback := movies[1]
	assert.Equal(t, "Orig", fallback.Title)
	assert.Equal(t, 0, fallback.Year)
	assert.Equal(t, 0.0, fallback.Rating)
	assert.Equal(t, "English", fallback.Language)
	assert.Equal(t, posterPlaceholder, fallback.Poster)
}

func TestClient_NowPlayingFallsBackToPopular(t *testing.T) {
	c, hits := newTestClient(t, map[string]any{
		"/movie/now_playing": page(),
		"/movie/popular":     page(raw(1, "A"), raw(2, "B")),
	})

	movies, err := c.FetchNowPlaying(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, movies, 2)
	assert.Equal(t, []string{"/movie/now_playing", "/movie/popular"}, *hits)
}

func TestClient_EmptyAndUnavailable(t *testing.T) {
	c, _ := newTestClient(t, map[string]any{
		"/movie/top_rated": page(),
		"/discover/movie":  http.StatusUnauthorized,
	})
	ctx := context.Background()

	_, err := c.FetchTopRated(ctx, 1)
	assert.ErrorIs(t, err, ErrCatalogEmpty)

	_, err = c.FetchRegional(ctx, "hi", 1)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "Invalid API key", se.Message)
}

func TestClient_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{APIKey: "secret-key", BaseURL: url})
	_, err := c.FetchPopular(context.Background(), 1)
	require.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestClient_NotConfigured(t *testing.T) {
	for _, key := range []string{"", PlaceholderAPIKey} {
		c := NewClient(Config{APIKey: key})
		assert.False(t, c.Configured())
		_, err := c.FetchNowPlaying(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNotConfigured)
	}
}

func TestClient_FetchByIDAndSearch(t *testing.T) {
	detail := raw(99, "Detail")
	detail["genres"] = []map[string]any{{"name": "Action"}, {"name": "Drama"}}
	c, _ := newTestClient(t, map[string]any{
		"/movie/99":     detail,
		"/search/movie": page(),
	})
	ctx := context.Background()

	m, err := c.FetchByID(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, "Action, Drama", m.Genre)

	_, err = c.FetchByID(ctx, 100)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	found, err := c.Search(ctx, "nothing", 1)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestClient_SendsQuery(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(page(raw(1, "A")))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.FetchRegional(context.Background(), "hi", 0)
	require.NoError(t, err)
	assert.True(t, strings.Contains(got, "with_original_language=hi"))
	assert.True(t, strings.Contains(got, "page=1"))
	assert.True(t, strings.Contains(got, "api_key=k"))
}

func TestCitySampler_Bounds(t *testing.T) {
	s := NewCitySampler(rand.New(rand.NewPCG(7, 11)))
	sizes := map[int]bool{}
	for i := 0; i < 500; i++ {
		cities := s.Sample()
		require.GreaterOrEqual(t, len(cities), 3)
		require.LessOrEqual(t, len(cities), 6)
		sizes[len(cities)] = true

		seen := map[string]bool{}
		for _, c := range cities {
			assert.Contains(t, Cities, c)
			assert.False(t, seen[c], "duplicate city %s", c)
			seen[c] = true
		}
	}
	assert.Len(t, sizes, 4)
}

func TestCitySampler_DeterministicForSeed(t *testing.T) {
	a := NewCitySampler(rand.New(rand.NewPCG(3, 4)))
	b := NewCitySampler(rand.New(rand.NewPCG(3, 4)))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Sample(), b.Sample())
	}
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Telugu", LanguageName("te"))
	assert.Equal(t, "English", LanguageName("pt"))
	assert.Equal(t, "English", LanguageName(""))
}
