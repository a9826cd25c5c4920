package usecase_favorites

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/humanbelnik/kinofav/core/internal/model"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrWriteFailed        = errors.New("favorite write failed")
	ErrSubscriptionFailed = errors.New("favorites subscription failed")
	ErrInvalidInput       = errors.New("invalid input")
)

//go:generate mockery --name=DocumentStore --output=./mocks/store --filename=store.go
type DocumentStore interface {
	SubscribeCollection(ctx context.Context, path model.CollectionPath) (model.FavoriteStream, error)
	SetDocument(ctx context.Context, path model.DocumentPath, rec model.FavoriteRecord) error
	DeleteDocument(ctx context.Context, path model.DocumentPath) error
}

type Option func(*Synchronizer)

func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		s.now = now
	}
}

// Synchronizer owns the membership set of one browsing session.
// The set changes only on subscription delivery and on Clear.
type Synchronizer struct {
	store DocumentStore
	now   func() time.Time

	mu         sync.RWMutex
	owner      string
	membership model.Membership
	records    []model.FavoriteRecord
}

func New(store DocumentStore, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:      store,
		now:        time.Now,
		membership: model.NewMembership(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe opens a standing subscription to the user's favorites.
// Every subscription gets its own stream; all of them feed the same set
// as long as they belong to the current owner.
func (s *Synchronizer) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}

	stream, err := s.store.SubscribeCollection(ctx, model.FavoritesOf(userID))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubscriptionFailed, err)
	}

	s.mu.Lock()
	if s.owner != userID {
		s.owner = userID
		s.membership = model.NewMembership()
		s.records = nil
	}
	s.mu.Unlock()

	sub := newSubscription(userID, stream, s.apply)
	go sub.pump()
	return sub, nil
}

// Toggle issues a single remote write. The local set is not touched here.
func (s *Synchronizer) Toggle(ctx context.Context, user *model.User, movie model.MovieSummary) (model.ToggleOutcome, error) {
	if user == nil || user.ID == "" {
		return 0, ErrNotAuthenticated
	}

	path := model.FavoritesOf(user.ID).Doc(movie.Key())

	if s.IsFavorite(movie.Key()) {
		if err := s.store.DeleteDocument(ctx, path); err != nil {
			return 0, fmt.Errorf("%w: delete %s: %w", ErrWriteFailed, path, err)
		}
		return model.FavoriteRemoved, nil
	}

	if err := s.store.SetDocument(ctx, path, model.NewFavoriteRecord(movie, s.now())); err != nil {
		return 0, fmt.Errorf("%w: set %s: %w", ErrWriteFailed, path, err)
	}
	return model.FavoriteAdded, nil
}

// Clear drops the local set. No remote effect.
func (s *Synchronizer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.owner = ""
	s.membership = model.NewMembership()
	s.records = nil
}

func (s *Synchronizer) IsFavorite(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.membership.Has(key)
}

func (s *Synchronizer) Membership() model.Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.membership.Clone()
}

// Favorites returns the last delivered records, newest first.
func (s *Synchronizer) Favorites() []model.FavoriteRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.FavoriteRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Synchronizer) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// apply replaces the set with a delivered snapshot. Deliveries for anyone
// but the current owner are dropped.
func (s *Synchronizer) apply(userID string, records []model.FavoriteRecord) (model.Membership, bool) {
	sorted := make([]model.FavoriteRecord, len(records))
	copy(sorted, records)
	model.SortNewestFirst(sorted)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner != userID {
		return nil, false
	}
	s.records = sorted
	s.membership = model.MembershipOf(sorted)
	return s.membership.Clone(), true
}
