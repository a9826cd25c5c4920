package infra_postgres_favorite

import (
	"time"

	"github.com/humanbelnik/kinofav/core/internal/model"
)

type FavoriteDB struct {
	UserID      string    `db:"user_id"`
	MovieID     int64     `db:"movie_id"`
	Title       string    `db:"title"`
	PosterPath  string    `db:"poster_path"`
	VoteAverage float64   `db:"vote_average"`
	VoteCount   int       `db:"vote_count"`
	CreatedAt   time.Time `db:"created_at"`
}

func (f *FavoriteDB) ToDomain() model.FavoriteRecord {
	return model.FavoriteRecord{
		ID:          f.MovieID,
		Title:       f.Title,
		PosterPath:  f.PosterPath,
		VoteAverage: f.VoteAverage,
		VoteCount:   f.VoteCount,
		CreatedAt:   f.CreatedAt,
	}
}

func FromDomain(userID string, rec model.FavoriteRecord) FavoriteDB {
	return FavoriteDB{
		UserID:      userID,
		MovieID:     rec.ID,
		Title:       rec.Title,
		PosterPath:  rec.PosterPath,
		VoteAverage: rec.VoteAverage,
		VoteCount:   rec.VoteCount,
		CreatedAt:   rec.CreatedAt,
	}
}
