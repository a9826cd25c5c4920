package memstore

import (
	"context"
	"sync"

	"github.com/humanbelnik/kinofav/core/internal/model"
)

// Notifier is an in-process publish/subscribe hub.
type Notifier struct {
	mu    sync.Mutex
	feeds map[string]map[*feed]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{feeds: make(map[string]map[*feed]struct{})}
}

func (n *Notifier) Publish(ctx context.Context, channel string, payload string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for f := range n.feeds[channel] {
		select {
		case f.msgs <- payload:
		default:
			// slow reader, it will reload state on the next message anyway
		}
	}
	return nil
}

type feed struct {
	n       *Notifier
	channel string
	msgs    chan string
	errs    chan error
	once    sync.Once
}

func (n *Notifier) Subscribe(ctx context.Context, channel string) (model.Feed, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	f := &feed{
		n:       n,
		channel: channel,
		msgs:    make(chan string, 16),
		errs:    make(chan error),
	}
	if n.feeds[channel] == nil {
		n.feeds[channel] = make(map[*feed]struct{})
	}
	n.feeds[channel][f] = struct{}{}
	return f, nil
}

func (f *feed) Messages() <-chan string { return f.msgs }
func (f *feed) Errors() <-chan error    { return f.errs }

func (f *feed) Close() error {
	f.once.Do(func() {
		f.n.mu.Lock()
		defer f.n.mu.Unlock()
		delete(f.n.feeds[f.channel], f)
		close(f.msgs)
		close(f.errs)
	})
	return nil
}
