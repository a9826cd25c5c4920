// Package memstore keeps favorites, sessions and notifications in process memory.
// It is used when STORAGE_DRIVER=memory and in tests.
package memstore

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/humanbelnik/kinofav/core/internal/model"
)

var ErrClosed = errors.New("store closed")

type FavoriteStore struct {
	mu      sync.Mutex
	docs    map[string]map[string]model.FavoriteRecord
	streams map[string]map[*stream]struct{}
	closed  bool
}

func NewFavoriteStore() *FavoriteStore {
	return &FavoriteStore{
		docs:    make(map[string]map[string]model.FavoriteRecord),
		streams: make(map[string]map[*stream]struct{}),
	}
}

func (s *FavoriteStore) SubscribeCollection(ctx context.Context, path model.CollectionPath) (model.FavoriteStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	st := &stream{
		store:     s,
		userID:    path.UserID,
		snapshots: make(chan []model.FavoriteRecord, 1),
		errs:      make(chan error, 1),
	}
	if s.streams[path.UserID] == nil {
		s.streams[path.UserID] = make(map[*stream]struct{})
	}
	s.streams[path.UserID][st] = struct{}{}

	st.offer(s.snapshotLocked(path.UserID))
	return st, nil
}

func (s *FavoriteStore) SetDocument(ctx context.Context, path model.DocumentPath, rec model.FavoriteRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strconv.FormatInt(rec.ID, 10) != path.MovieKey {
		return model.ErrInvalidPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.docs[path.UserID] == nil {
		s.docs[path.UserID] = make(map[string]model.FavoriteRecord)
	}
	s.docs[path.UserID][path.MovieKey] = rec
	s.notifyLocked(path.UserID)
	return nil
}

func (s *FavoriteStore) DeleteDocument(ctx context.Context, path model.DocumentPath) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	delete(s.docs[path.UserID], path.MovieKey)
	s.notifyLocked(path.UserID)
	return nil
}

// Close ends every open stream.
func (s *FavoriteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for _, set := range s.streams {
		for st := range set {
			st.closeLocked()
		}
	}
	s.streams = make(map[string]map[*stream]struct{})
	return nil
}

// Subscribers reports how many streams are open for the user.
func (s *FavoriteStore) Subscribers(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.streams[userID])
}

func (s *FavoriteStore) snapshotLocked(userID string) []model.FavoriteRecord {
	out := make([]model.FavoriteRecord, 0, len(s.docs[userID]))
	for _, rec := range s.docs[userID] {
		out = append(out, rec)
	}
	model.SortNewestFirst(out)
	return out
}

func (s *FavoriteStore) notifyLocked(userID string) {
	snap := s.snapshotLocked(userID)
	for st := range s.streams[userID] {
		cp := make([]model.FavoriteRecord, len(snap))
		copy(cp, snap)
		st.offer(cp)
	}
}

type stream struct {
	store     *FavoriteStore
	userID    string
	snapshots chan []model.FavoriteRecord
	errs      chan error
	closed    bool
}

func (st *stream) Snapshots() <-chan []model.FavoriteRecord { return st.snapshots }
func (st *stream) Errors() <-chan error                     { return st.errs }

func (st *stream) Close() error {
	st.store.mu.Lock()
	defer st.store.mu.Unlock()

	delete(st.store.streams[st.userID], st)
	st.closeLocked()
	return nil
}

func (st *stream) closeLocked() {
	if st.closed {
		return
	}
	st.closed = true
	close(st.snapshots)
	close(st.errs)
}

// offer replaces an undelivered snapshot with the newer one. Store lock held.
func (st *stream) offer(snap []model.FavoriteRecord) {
	if st.closed {
		return
	}
	select {
	case <-st.snapshots:
	default:
	}
	st.snapshots <- snap
}
