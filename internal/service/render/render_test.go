package service_render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/humanbelnik/kinofav/core/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageBase = "https://image.tmdb.org/t/p/w300_and_h450_bestv2"

type RenderUnitSuite struct {
	suite.Suite
}

func movies() []model.MovieSummary {
	return []model.MovieSummary{
		{ID: 42, Title: "Example", PosterPath: "/example.jpg", VoteAverage: 7.25, VoteCount: 1200},
		{ID: 7, Title: "Other", VoteAverage: 6, VoteCount: 3},
		{ID: 9, Title: "<script>alert(1)</script>", PosterPath: "/x.jpg"},
	}
}

func (s *RenderUnitSuite) TestCards(t provider.T) {
	r := MustNew(imageBase)

	t.Run("Should mark favorites by stringified id", func(t provider.T) {
		cards := r.Cards(movies(), model.NewMembership("42", "9"))

		require.Len(t, cards, 3)
		for _, c := range cards {
			want := c.Key == "42" || c.Key == "9"
			assert.Equal(t, want, c.Favorite, c.Key)
			assert.Equal(t, Indicator(want), c.Indicator)
		}
	})

	t.Run("Should be a pure function of its inputs", func(t provider.T) {
		membership := model.NewMembership("7")

		first := r.Cards(movies(), membership)
		second := r.Cards(movies(), membership)

		assert.Equal(t, first, second)
		assert.Equal(t, model.NewMembership("7"), membership)
	})

	t.Run("Should format rating and poster", func(t provider.T) {
		cards := r.Cards(movies(), nil)

		assert.Equal(t, "★7.2", cards[0].Rating)
		assert.Equal(t, imageBase+"/example.jpg", cards[0].PosterURL)
		assert.Equal(t, "★6.0", cards[1].Rating)
		assert.Empty(t, cards[1].PosterURL)
	})

	t.Run("Should name untitled movies", func(t provider.T) {
		cards := r.Cards([]model.MovieSummary{{ID: 1}}, nil)

		assert.Equal(t, untitled, cards[0].Title)
	})

	t.Run("Should return empty list for no movies", func(t provider.T) {
		assert.Empty(t, r.Cards(nil, model.NewMembership("1")))
	})
}

func (s *RenderUnitSuite) TestList(t provider.T) {
	r := MustNew(imageBase)

	t.Run("Should render indicator per card and escape titles", func(t provider.T) {
		html, err := r.List(movies(), model.NewMembership("42"))
		require.NoError(t, err)

		assert.Equal(t, 3, strings.Count(html, `class="movie-card"`))
		assert.Equal(t, 1, strings.Count(html, IndicatorFavorite))
		assert.Equal(t, 2, strings.Count(html, IndicatorNotFavorite))
		assert.Contains(t, html, `data-id="42"`)
		assert.NotContains(t, html, "<script>alert(1)</script>")
		assert.Contains(t, html, "No image")
	})

	t.Run("Should render favorite records newest first as given", func(t provider.T) {
		at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		records := []model.FavoriteRecord{
			{ID: 2, Title: "Second", CreatedAt: at.Add(time.Hour)},
			{ID: 1, Title: "First", CreatedAt: at},
		}

		html, err := r.FavoriteList(records, model.MembershipOf(records))
		require.NoError(t, err)

		assert.Less(t, strings.Index(html, "Second"), strings.Index(html, "First"))
		assert.Equal(t, 2, strings.Count(html, IndicatorFavorite))
	})
}

func (s *RenderUnitSuite) TestMessageAndDetail(t provider.T) {
	r := MustNew(imageBase)

	msg, err := r.Message("No results found.")
	require.NoError(t, err)
	assert.Equal(t, `<p class="message">No results found.</p>`, msg)

	detail, err := r.Detail(model.MovieSummary{
		ID:          42,
		Title:       "Example",
		PosterPath:  "/example.jpg",
		ReleaseDate: "2024-05-01",
		Overview:    "An example.",
	}, true)
	require.NoError(t, err)
	assert.Contains(t, detail, "2024-05-01")
	assert.Contains(t, detail, "An example.")
	assert.Contains(t, detail, IndicatorFavorite)
}

func (s *RenderUnitSuite) TestPage(t provider.T) {
	r := MustNew(imageBase)
	var buf bytes.Buffer

	require.NoError(t, r.Page(&buf, PageData{Title: "Kinofav", WSPath: "/api/v1/ws", AssetPath: "/static"}))

	assert.Contains(t, buf.String(), `data-ws="/api/v1/ws"`)
	assert.Contains(t, buf.String(), `src="/static/app.js"`)
	assert.Contains(t, buf.String(), "Not signed in")
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(RenderUnitSuite))
}
