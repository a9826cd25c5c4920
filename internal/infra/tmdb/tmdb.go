package infra_tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/humanbelnik/kinofav/core/internal/config"
	infra_metrics "github.com/humanbelnik/kinofav/core/internal/infra/metrics"
	"github.com/humanbelnik/kinofav/core/internal/model"
	"golang.org/x/time/rate"
)

const (
	kindDiscover = "discover"
	kindSearch   = "search"
)

var (
	ErrMissingAPIKey = errors.New("tmdb api key is not configured")
	ErrBadStatus     = errors.New("tmdb returned non-success status")
)

type movieDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
}

func (m movieDTO) toDomain() model.MovieSummary {
	return model.MovieSummary{
		ID:          m.ID,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
		ReleaseDate: m.ReleaseDate,
		Overview:    m.Overview,
	}
}

type pageResponse struct {
	Page    int        `json:"page"`
	Results []movieDTO `json:"results"`
}

type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// Client talks to the TMDB v3 REST API. One attempt per call, no retries.
type Client struct {
	baseURL      string
	apiKey       string
	language     string
	region       string
	includeAdult bool

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func New(cfg config.TMDB, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		region:       cfg.Region,
		includeAdult: cfg.IncludeAdult,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Discover(ctx context.Context, page int) ([]model.MovieSummary, error) {
	q := c.baseQuery(page)
	return c.fetch(ctx, kindDiscover, "/discover/movie", q)
}

func (c *Client) Search(ctx context.Context, query string, page int) ([]model.MovieSummary, error) {
	q := c.baseQuery(page)
	q.Set("query", query)
	return c.fetch(ctx, kindSearch, "/search/movie", q)
}

func (c *Client) baseQuery(page int) url.Values {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	q.Set("region", c.region)
	q.Set("include_adult", strconv.FormatBool(c.includeAdult))
	q.Set("page", strconv.Itoa(page))
	return q
}

func (c *Client) fetch(ctx context.Context, kind, path string, q url.Values) (movies []model.MovieSummary, err error) {
	start := time.Now()
	defer func() {
		result := infra_metrics.ResultOK
		if err != nil {
			result = infra_metrics.ResultError
		}
		infra_metrics.CatalogRequests.WithLabelValues(kind, result).Inc()
		infra_metrics.CatalogLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		c.logger.Warn("tmdb request failed",
			slog.String("kind", kind),
			slog.Int("status", resp.StatusCode),
			slog.String("message", e.StatusMessage),
		)
		if e.StatusMessage != "" {
			return nil, fmt.Errorf("%w: %d %s", ErrBadStatus, resp.StatusCode, e.StatusMessage)
		}
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var page pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	movies = make([]model.MovieSummary, len(page.Results))
	for i, m := range page.Results {
		movies[i] = m.toDomain()
	}
	return movies, nil
}
