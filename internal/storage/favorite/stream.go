package storage_favorite

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/humanbelnik/kinofav/core/internal/model"
)

type stream struct {
	path   model.CollectionPath
	feed   model.Feed
	repo   Repository
	logger *slog.Logger

	snapshots chan []model.FavoriteRecord
	errs      chan error

	ctx      context.Context
	cancel   context.CancelFunc
	finished chan struct{}
	once     sync.Once
	closeErr error
}

func newStream(path model.CollectionPath, feed model.Feed, repo Repository, logger *slog.Logger) *stream {
	ctx, cancel := context.WithCancel(context.Background())
	return &stream{
		path:      path,
		feed:      feed,
		repo:      repo,
		logger:    logger,
		snapshots: make(chan []model.FavoriteRecord, 1),
		errs:      make(chan error, 1),
		ctx:       ctx,
		cancel:    cancel,
		finished:  make(chan struct{}),
	}
}

func (s *stream) Snapshots() <-chan []model.FavoriteRecord { return s.snapshots }
func (s *stream) Errors() <-chan error                     { return s.errs }

func (s *stream) Close() error {
	s.once.Do(func() {
		s.cancel()
		s.closeErr = s.feed.Close()
		<-s.finished
	})
	return s.closeErr
}

func (s *stream) loop() {
	defer func() {
		close(s.snapshots)
		close(s.errs)
		close(s.finished)
	}()

	msgs := s.feed.Messages()
	feedErrs := s.feed.Errors()

	for {
		select {
		case <-s.ctx.Done():
			return

		case _, ok := <-msgs:
			if !ok {
				return
			}
			if !s.reload() {
				return
			}

		case err, ok := <-feedErrs:
			if !ok {
				feedErrs = nil
				continue
			}
			offer(s.errs, errors.Join(ErrInternal, err))
			// Changes made while the feed was broken were never announced.
			if !s.reload() {
				return
			}
		}
	}
}

// reload publishes a fresh snapshot; false once the stream is closing.
func (s *stream) reload() bool {
	records, err := s.repo.ListByUser(s.ctx, s.path.UserID)
	if err != nil {
		if s.ctx.Err() != nil {
			return false
		}
		s.logger.Warn("failed to reload favorites",
			slog.String("collection", s.path.String()),
			slog.String("error", err.Error()),
		)
		offer(s.errs, errors.Join(ErrInternal, err))
		return true
	}
	offer(s.snapshots, records)
	return true
}

// offer replaces an undelivered value; only loop sends on ch.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
