package infra_postgres_favorite

import (
	"context"
	"fmt"

	"github.com/humanbelnik/kinofav/core/internal/model"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Upsert(ctx context.Context, userID string, rec model.FavoriteRecord) error {
	favoriteDB := FromDomain(userID, rec)

	query := `
		INSERT INTO favorites (user_id, movie_id, title, poster_path, vote_average, vote_count, created_at)
		VALUES (:user_id, :movie_id, :title, :poster_path, :vote_average, :vote_count, :created_at)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			title = EXCLUDED.title,
			poster_path = EXCLUDED.poster_path,
			vote_average = EXCLUDED.vote_average,
			vote_count = EXCLUDED.vote_count,
			created_at = EXCLUDED.created_at
	`

	_, err := r.db.NamedExecContext(ctx, query, favoriteDB)
	if err != nil {
		return fmt.Errorf("failed to store favorite: %w", err)
	}

	return nil
}

// Delete is idempotent: removing a missing favorite is not an error.
func (r *Repository) Delete(ctx context.Context, userID string, movieID int64) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND movie_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, movieID); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]model.FavoriteRecord, error) {
	query := `
		SELECT user_id, movie_id, title, poster_path, vote_average, vote_count, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, movie_id
	`

	var favoritesDB []FavoriteDB
	if err := r.db.SelectContext(ctx, &favoritesDB, query, userID); err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	favorites := make([]model.FavoriteRecord, len(favoritesDB))
	for i, f := range favoritesDB {
		favorites[i] = f.ToDomain()
	}

	return favorites, nil
}
