package infra_tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/humanbelnik/kinofav/core/internal/config"
	"github.com/humanbelnik/kinofav/core/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TMDBInfraSuite struct {
	suite.Suite
}

func testConfig(baseURL string) config.TMDB {
	return config.TMDB{
		BaseURL:  baseURL,
		APIKey:   "key",
		Language: "ja",
		Region:   "JP",
		Timeout:  time.Second,
	}
}

const discoverBody = `{
	"page": 2,
	"results": [
		{"id": 42, "title": "Example", "poster_path": "/example.jpg", "vote_average": 7.25, "vote_count": 1200, "release_date": "2024-05-01", "overview": "An example."},
		{"id": 7, "title": "Other", "poster_path": null, "vote_average": 0, "vote_count": 0}
	],
	"total_pages": 10,
	"total_results": 200
}`

func (s *TMDBInfraSuite) TestDiscover(t provider.T) {
	t.Run("Should send catalog parameters and map results", func(t provider.T) {
		var got url.Values
		var path string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			got = r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(discoverBody))
		}))
		defer srv.Close()

		movies, err := New(testConfig(srv.URL)).Discover(context.Background(), 2)

		require.NoError(t, err)
		assert.Equal(t, "/discover/movie", path)
		assert.Equal(t, "key", got.Get("api_key"))
		assert.Equal(t, "ja", got.Get("language"))
		assert.Equal(t, "JP", got.Get("region"))
		assert.Equal(t, "false", got.Get("include_adult"))
		assert.Equal(t, "2", got.Get("page"))
		assert.False(t, got.Has("query"))

		require.Len(t, movies, 2)
		assert.Equal(t, model.MovieSummary{
			ID:          42,
			Title:       "Example",
			PosterPath:  "/example.jpg",
			VoteAverage: 7.25,
			VoteCount:   1200,
			ReleaseDate: "2024-05-01",
			Overview:    "An example.",
		}, movies[0])
		assert.Empty(t, movies[1].PosterPath)
	})

	t.Run("Should surface status message of a failed request", func(t provider.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status_code": 7, "status_message": "Invalid API key"}`))
		}))
		defer srv.Close()

		movies, err := New(testConfig(srv.URL)).Discover(context.Background(), 1)

		assert.Nil(t, movies)
		assert.ErrorIs(t, err, ErrBadStatus)
		assert.ErrorContains(t, err, "Invalid API key")
	})

	t.Run("Should fail on undecodable body", func(t provider.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		_, err := New(testConfig(srv.URL)).Discover(context.Background(), 1)

		assert.ErrorContains(t, err, "failed to decode response")
	})

	t.Run("Should refuse to call without api key", func(t provider.T) {
		cfg := testConfig("http://127.0.0.1:1")
		cfg.APIKey = ""

		_, err := New(cfg).Discover(context.Background(), 1)

		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("Should report unreachable catalog", func(t provider.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		_, err := New(testConfig(base)).Discover(context.Background(), 1)

		assert.ErrorContains(t, err, "request failed")
	})
}

func (s *TMDBInfraSuite) TestSearch(t provider.T) {
	t.Run("Should pass query and return empty results", func(t provider.T) {
		var got url.Values
		var path string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			got = r.URL.Query()
			_, _ = w.Write([]byte(`{"page": 1, "results": []}`))
		}))
		defer srv.Close()

		movies, err := New(testConfig(srv.URL)).Search(context.Background(), "spirited away", 1)

		require.NoError(t, err)
		assert.Empty(t, movies)
		assert.Equal(t, "/search/movie", path)
		assert.Equal(t, "spirited away", got.Get("query"))
		assert.Equal(t, "1", got.Get("page"))
	})
}

func TestTMDBSuite(t *testing.T) {
	suite.RunSuite(t, new(TMDBInfraSuite))
}
