package infra_redis_notifier

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/kinofav/core/internal/model"
)

const (
	// Pause between failed receives; the next receive reconnects.
	receivePause = time.Second
	// Idle time before the connection is checked with a ping.
	receiveTimeout = 30 * time.Second
)

type Driver struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

func New(
	client *redis.Client,
	prefix string,
) *Driver {
	return &Driver{
		client: client,
		prefix: prefix,
		logger: slog.Default(),
	}
}

func (d *Driver) Publish(ctx context.Context, channel string, payload string) error {
	return d.client.Publish(d.getFullChannel(channel), payload).Err()
}

func (d *Driver) Subscribe(ctx context.Context, channel string) (model.Feed, error) {
	ps := d.client.Subscribe(d.getFullChannel(channel))
	// Wait for the subscription confirmation so no publish after this call is missed.
	if _, err := ps.Receive(); err != nil {
		_ = ps.Close()
		return nil, err
	}

	f := &Feed{
		ps:     ps,
		msgs:   make(chan string, 16),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
		logger: d.logger,
	}
	go f.loop()
	return f, nil
}

func (d *Driver) getFullChannel(channel string) string {
	if d.prefix != "" {
		return d.prefix + ":" + channel
	}
	return channel
}

type Feed struct {
	ps   *redis.PubSub
	msgs chan string
	errs chan error

	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func (f *Feed) Messages() <-chan string { return f.msgs }
func (f *Feed) Errors() <-chan error    { return f.errs }

func (f *Feed) Close() error {
	var err error
	f.once.Do(func() {
		close(f.done)
		err = f.ps.Close()
	})
	return err
}

func (f *Feed) loop() {
	defer func() {
		close(f.msgs)
		close(f.errs)
	}()

	broken := false
	for {
		m, err := f.ps.ReceiveTimeout(receiveTimeout)
		if err != nil && isTimeout(err) {
			err = f.ps.Ping()
			if err == nil {
				continue
			}
		}
		if err != nil {
			if f.stopped() {
				return
			}
			f.logger.Warn("pubsub receive failed", slog.String("error", err.Error()))
			select {
			case f.errs <- err:
			default:
			}
			broken = true
			select {
			case <-f.done:
				return
			case <-time.After(receivePause):
			}
			continue
		}

		if broken {
			broken = false
			f.logger.Info("pubsub recovered")
			if !f.deliver(model.FeedResync) {
				return
			}
		}

		switch msg := m.(type) {
		case *redis.Message:
			if !f.deliver(msg.Payload) {
				return
			}
		case *redis.Subscription, *redis.Pong:
		}
	}
}

func (f *Feed) deliver(payload string) bool {
	select {
	case f.msgs <- payload:
		return true
	case <-f.done:
		return false
	}
}

func (f *Feed) stopped() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
