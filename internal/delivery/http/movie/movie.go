package http_movie

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinofav/core/internal/delivery/http/common"
	"github.com/humanbelnik/kinofav/core/internal/model"
	usecase_catalog "github.com/humanbelnik/kinofav/core/internal/usecase/catalog"
)

type Catalog interface {
	FetchPage(ctx context.Context, page int) ([]model.MovieSummary, error)
	Search(ctx context.Context, query string) ([]model.MovieSummary, error)
}

type PosterResolver interface {
	PosterURL(posterPath string) string
}

// MovieResponseDTO представляет фильм каталога
type MovieResponseDTO struct {
	ID          int64   `json:"id" example:"129"`
	Title       string  `json:"title" example:"千と千尋の神隠し"`
	PosterURL   string  `json:"poster_url,omitempty" example:"https://image.tmdb.org/t/p/w300_and_h450_bestv2/39wmItIWsg5sZMyRUHLkWBcuVCM.jpg"`
	VoteAverage float64 `json:"vote_average" example:"8.5"`
	VoteCount   int     `json:"vote_count" example:"17000"`
	ReleaseDate string  `json:"release_date,omitempty" example:"2001-07-20"`
	Overview    string  `json:"overview,omitempty"`
}

// MoviesListResponseDTO DTO для страницы каталога
type MoviesListResponseDTO struct {
	Page   int                `json:"page" example:"1"`
	Movies []MovieResponseDTO `json:"movies"`
}

func (c *Controller) convert(movies []model.MovieSummary) []MovieResponseDTO {
	out := make([]MovieResponseDTO, len(movies))
	for i, m := range movies {
		out[i] = MovieResponseDTO{
			ID:          m.ID,
			Title:       m.Title,
			PosterURL:   c.posters.PosterURL(m.PosterPath),
			VoteAverage: m.VoteAverage,
			VoteCount:   m.VoteCount,
			ReleaseDate: m.ReleaseDate,
			Overview:    m.Overview,
		}
	}
	return out
}

type Controller struct {
	catalog Catalog
	posters PosterResolver

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(catalog Catalog,
	posters PosterResolver,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		catalog: catalog,
		posters: posters,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	movies := router.Group("/movies")
	movies.GET("", c.getMovies)
	movies.GET("/search", c.searchMovies)
}

// @Summary Страница каталога
// @Description Возвращает страницу популярных фильмов
// @Tags Movies operations
// @Produce json
// @Param page query int false "Номер страницы, начиная с 1" default(1)
// @Success 200 {object} MoviesListResponseDTO
// @Failure 400 {object} http_common.ErrorResponse "Неверный номер страницы"
// @Failure 502 {object} http_common.ErrorResponse "Каталог недоступен"
// @Router /movies [get]
func (c *Controller) getMovies(ctx *gin.Context) {
	page := 1
	if raw := ctx.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			c.logger.Warn("invalid page", slog.String("page", raw))
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "invalid page",
			})
			return
		}
		page = p
	}

	movies, err := c.catalog.FetchPage(ctx.Request.Context(), page)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, MoviesListResponseDTO{
		Page:   page,
		Movies: c.convert(movies),
	})
}

// @Summary Поиск фильмов
// @Description Возвращает первую страницу результатов поиска по названию
// @Tags Movies operations
// @Produce json
// @Param query query string true "Поисковый запрос"
// @Success 200 {object} MoviesListResponseDTO
// @Failure 400 {object} http_common.ErrorResponse "Пустой запрос"
// @Failure 502 {object} http_common.ErrorResponse "Каталог недоступен"
// @Router /movies/search [get]
func (c *Controller) searchMovies(ctx *gin.Context) {
	movies, err := c.catalog.Search(ctx.Request.Context(), ctx.Query("query"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, MoviesListResponseDTO{
		Page:   1,
		Movies: c.convert(movies),
	})
}

func (c *Controller) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase_catalog.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, usecase_catalog.ErrFetchFailed):
		c.logger.Error("catalog request failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "catalog unavailable",
		})
	default:
		c.logger.Error("internal catalog error", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
	}
}
