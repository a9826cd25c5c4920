package model

// FeedResync is delivered after a feed recovers from a broken connection.
// Notifications published while it was down are lost, so consumers reload.
const FeedResync = "resync"

// Feed is a stream of raw notification payloads.
type Feed interface {
	Messages() <-chan string
	Errors() <-chan error
	Close() error
}

// FavoriteStream delivers the whole favorites collection on every change.
type FavoriteStream interface {
	Snapshots() <-chan []FavoriteRecord
	Errors() <-chan error
	Close() error
}
