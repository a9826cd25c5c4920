package model

import (
	"sort"
	"time"
)

type FavoriteRecord struct {
	ID          int64
	Title       string
	PosterPath  string
	VoteAverage float64
	VoteCount   int
	CreatedAt   time.Time
}

func NewFavoriteRecord(m MovieSummary, at time.Time) FavoriteRecord {
	return FavoriteRecord{
		ID:          m.ID,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
		CreatedAt:   at,
	}
}

func (r FavoriteRecord) Key() string {
	return MovieKey(r.ID)
}

// Summary turns a record back into something the renderer can draw.
func (r FavoriteRecord) Summary() MovieSummary {
	return MovieSummary{
		ID:          r.ID,
		Title:       r.Title,
		PosterPath:  r.PosterPath,
		VoteAverage: r.VoteAverage,
		VoteCount:   r.VoteCount,
	}
}

// SortNewestFirst orders records by creation time, ties broken by id.
func SortNewestFirst(records []FavoriteRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}

type ToggleOutcome int

const (
	FavoriteAdded ToggleOutcome = iota + 1
	FavoriteRemoved
)

func (o ToggleOutcome) String() string {
	switch o {
	case FavoriteAdded:
		return "added"
	case FavoriteRemoved:
		return "removed"
	}
	return "unknown"
}

// Membership is the set of favorite movie keys of one user.
type Membership map[string]struct{}

func NewMembership(keys ...string) Membership {
	m := make(Membership, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

func MembershipOf(records []FavoriteRecord) Membership {
	m := make(Membership, len(records))
	for _, r := range records {
		m[r.Key()] = struct{}{}
	}
	return m
}

func (m Membership) Has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m Membership) Clone() Membership {
	c := make(Membership, len(m))
	for k := range m {
		c[k] = struct{}{}
	}
	return c
}
