package usecase_favorites

import (
	"fmt"
	"sync"

	"github.com/humanbelnik/kinofav/core/internal/model"
)

type Update struct {
	UserID     string
	Membership model.Membership
	Favorites  []model.FavoriteRecord
	// Current is false when the synchronizer has moved on to another user
	// and the delivery was not applied.
	Current bool
}

type applyFunc func(userID string, records []model.FavoriteRecord) (model.Membership, bool)

// Subscription is a live favorites stream. It ends only on Close.
type Subscription struct {
	userID string
	stream model.FavoriteStream
	apply  applyFunc

	updates chan Update
	errs    chan error

	done     chan struct{}
	finished chan struct{}
	once     sync.Once
	closeErr error
}

func newSubscription(userID string, stream model.FavoriteStream, apply applyFunc) *Subscription {
	return &Subscription{
		userID:   userID,
		stream:   stream,
		apply:    apply,
		updates:  make(chan Update, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (s *Subscription) UserID() string {
	return s.userID
}

// Updates yields the latest state; a slow reader only misses intermediate ones.
func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

func (s *Subscription) Errors() <-chan error {
	return s.errs
}

func (s *Subscription) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.closeErr = s.stream.Close()
		<-s.finished
	})
	return s.closeErr
}

func (s *Subscription) pump() {
	defer func() {
		close(s.updates)
		close(s.errs)
		close(s.finished)
	}()

	snapshots := s.stream.Snapshots()
	errs := s.stream.Errors()

	for {
		select {
		case <-s.done:
			return

		case records, ok := <-snapshots:
			if !ok {
				return
			}
			u := Update{UserID: s.userID}
			if m, applied := s.apply(s.userID, records); applied {
				u.Membership = m
				u.Current = true
			} else {
				u.Membership = model.MembershipOf(records)
			}
			u.Favorites = make([]model.FavoriteRecord, len(records))
			copy(u.Favorites, records)
			model.SortNewestFirst(u.Favorites)
			offerLatest(s.updates, u)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			offerLatest(s.errs, fmt.Errorf("%w: %w", ErrSubscriptionFailed, err))
		}
	}
}

// offerLatest never blocks; the caller must be the only sender on ch.
func offerLatest[T any](ch chan T, v T) {
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
