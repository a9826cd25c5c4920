package usecase_catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/humanbelnik/kinofav/core/internal/model"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrFetchFailed  = errors.New("failed to fetch movies")
)

// Search always asks for the first page.
const searchPage = 1

//go:generate mockery --name=CatalogAPI --output=./mocks/catalog --filename=catalog.go
type CatalogAPI interface {
	Discover(ctx context.Context, page int) ([]model.MovieSummary, error)
	Search(ctx context.Context, query string, page int) ([]model.MovieSummary, error)
}

type Usecase struct {
	api CatalogAPI
}

func New(api CatalogAPI) *Usecase {
	return &Usecase{
		api: api,
	}
}

// FetchPage returns one page of the discover listing. Single attempt.
func (u *Usecase) FetchPage(ctx context.Context, page int) ([]model.MovieSummary, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be positive", ErrInvalidInput)
	}

	movies, err := u.api.Discover(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return movies, nil
}

func (u *Usecase) Search(ctx context.Context, query string) ([]model.MovieSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", ErrInvalidInput)
	}

	movies, err := u.api.Search(ctx, query, searchPage)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return movies, nil
}
