package storage_favorite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/humanbelnik/kinofav/core/internal/model"
)

var ErrInternal = errors.New("internal error")

//go:generate mockery --name=Repository --output=./mocks/repository --filename=repository.go
type Repository interface {
	Upsert(ctx context.Context, userID string, rec model.FavoriteRecord) error
	Delete(ctx context.Context, userID string, movieID int64) error
	ListByUser(ctx context.Context, userID string) ([]model.FavoriteRecord, error)
}

//go:generate mockery --name=Notifier --output=./mocks/notifier --filename=notifier.go
type Notifier interface {
	Publish(ctx context.Context, channel string, payload string) error
	Subscribe(ctx context.Context, channel string) (model.Feed, error)
}

// Storage is a collection-oriented document store on top of a relational
// repository. Writers announce changes on the collection channel and
// every open stream reloads the collection when it hears one.
type Storage struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

type Option func(*Storage)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}

func New(
	repo Repository,
	notifier Notifier,
	opts ...Option,
) *Storage {
	s := &Storage{
		repo:     repo,
		notifier: notifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubscribeCollection listens before loading so a write landing between
// the two is not lost.
func (s *Storage) SubscribeCollection(ctx context.Context, path model.CollectionPath) (model.FavoriteStream, error) {
	if path.UserID == "" {
		return nil, model.ErrInvalidPath
	}

	feed, err := s.notifier.Subscribe(ctx, path.String())
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	records, err := s.repo.ListByUser(ctx, path.UserID)
	if err != nil {
		_ = feed.Close()
		return nil, errors.Join(ErrInternal, err)
	}

	st := newStream(path, feed, s.repo, s.logger)
	st.snapshots <- records
	go st.loop()

	return st, nil
}

func (s *Storage) SetDocument(ctx context.Context, path model.DocumentPath, rec model.FavoriteRecord) error {
	movieID, err := movieIDOf(path)
	if err != nil {
		return err
	}
	if rec.ID != movieID {
		return fmt.Errorf("%w: record %d stored under %s", model.ErrInvalidPath, rec.ID, path)
	}

	if err := s.repo.Upsert(ctx, path.UserID, rec); err != nil {
		return errors.Join(ErrInternal, err)
	}

	s.announce(ctx, path, "set")
	return nil
}

func (s *Storage) DeleteDocument(ctx context.Context, path model.DocumentPath) error {
	movieID, err := movieIDOf(path)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, path.UserID, movieID); err != nil {
		return errors.Join(ErrInternal, err)
	}

	s.announce(ctx, path, "delete")
	return nil
}

// announce does not fail the write: the row is already stored and
// streams catch up on the next change.
func (s *Storage) announce(ctx context.Context, path model.DocumentPath, op string) {
	channel := path.Collection().String()
	if err := s.notifier.Publish(ctx, channel, op+":"+path.MovieKey); err != nil {
		s.logger.Warn("failed to announce favorite change",
			slog.String("channel", channel),
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}
}

func movieIDOf(path model.DocumentPath) (int64, error) {
	if path.UserID == "" {
		return 0, model.ErrInvalidPath
	}
	id, err := strconv.ParseInt(path.MovieKey, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", model.ErrInvalidPath, path)
	}
	return id, nil
}
