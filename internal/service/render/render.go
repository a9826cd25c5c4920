package service_render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/humanbelnik/kinofav/core/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	IndicatorFavorite    = "♥"
	IndicatorNotFavorite = "♡"

	untitled = "Untitled"
)

// Card is one movie as the browse view draws it.
type Card struct {
	ID          int64
	Key         string
	Title       string
	PosterURL   string
	Rating      string
	VoteCount   int
	ReleaseDate string
	Overview    string
	Favorite    bool
	Indicator   string
}

type PageData struct {
	Title     string
	WSPath    string
	AssetPath string
}

type Renderer struct {
	imageBaseURL string
	templates    *template.Template
}

func New(imageBaseURL string) (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		templates:    tmpl,
	}, nil
}

func MustNew(imageBaseURL string) *Renderer {
	r, err := New(imageBaseURL)
	if err != nil {
		panic(err)
	}
	return r
}

// Cards depends only on its arguments; same input, same output.
func (r *Renderer) Cards(movies []model.MovieSummary, membership model.Membership) []Card {
	cards := make([]Card, len(movies))
	for i, m := range movies {
		cards[i] = r.card(m, membership.Has(m.Key()))
	}
	return cards
}

func (r *Renderer) card(m model.MovieSummary, favorite bool) Card {
	title := m.Title
	if title == model.EmptyTitle {
		title = untitled
	}

	c := Card{
		ID:          m.ID,
		Key:         m.Key(),
		Title:       title,
		PosterURL:   r.PosterURL(m.PosterPath),
		Rating:      fmt.Sprintf("★%.1f", m.VoteAverage),
		VoteCount:   m.VoteCount,
		ReleaseDate: m.ReleaseDate,
		Overview:    m.Overview,
		Favorite:    favorite,
		Indicator:   Indicator(favorite),
	}
	return c
}

func (r *Renderer) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	if !strings.HasPrefix(posterPath, "/") {
		posterPath = "/" + posterPath
	}
	return r.imageBaseURL + posterPath
}

func Indicator(favorite bool) string {
	if favorite {
		return IndicatorFavorite
	}
	return IndicatorNotFavorite
}

// List renders movie cards as an HTML fragment.
func (r *Renderer) List(movies []model.MovieSummary, membership model.Membership) (string, error) {
	return r.execute("cards", r.Cards(movies, membership))
}

// FavoriteList renders stored favorites; the indicator still follows membership.
func (r *Renderer) FavoriteList(records []model.FavoriteRecord, membership model.Membership) (string, error) {
	movies := make([]model.MovieSummary, len(records))
	for i, rec := range records {
		movies[i] = rec.Summary()
	}
	return r.List(movies, membership)
}

func (r *Renderer) Message(text string) (string, error) {
	return r.execute("message", text)
}

func (r *Renderer) Detail(movie model.MovieSummary, favorite bool) (string, error) {
	return r.execute("detail", r.card(movie, favorite))
}

func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.templates.ExecuteTemplate(w, "index", data)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
