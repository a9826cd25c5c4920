package model

import "strconv"

const EmptyTitle string = ""

// MovieSummary is a movie as the catalog returns it. Never mutated after fetch.
type MovieSummary struct {
	ID          int64
	Title       string
	PosterPath  string
	VoteAverage float64
	VoteCount   int

	ReleaseDate string
	Overview    string
}

// Key is the identifier used for membership tests and document paths.
func (m MovieSummary) Key() string {
	return MovieKey(m.ID)
}

func MovieKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
