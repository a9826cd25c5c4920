package service_auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/kinofav/core/internal/model"
)

var (
	ErrInternal       = errors.New("internal error")
	ErrInvalidToken   = errors.New("invalid session token")
	ErrInvalidState   = errors.New("unknown or expired sign-in state")
	ErrProviderFailed = errors.New("identity provider failed")
	ErrNoSession      = errors.New("no session")
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	signInStateTTL    = 10 * time.Minute

	sessionKeyPrefix = "session:"
	stateKeyPrefix   = "oauth_state:"
	authStatePrefix  = "auth_state:"

	eventSignedIn  = "signed_in"
	eventSignedOut = "signed_out"
)

type SessionCache interface {
	Set(key string, value string, ttl time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
}

type Notifier interface {
	Publish(ctx context.Context, channel string, payload string) error
	Subscribe(ctx context.Context, channel string) (model.Feed, error)
}

type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (model.User, error)
}

// Service keeps one identity per browser session. Sign-in and sign-out are
// announced on the session's auth state channel so every open view of that
// session follows along.
type Service struct {
	secret       []byte
	ttl          time.Duration
	sessionCache SessionCache
	notifier     Notifier
	provider     OAuthProvider
	logger       *slog.Logger
	now          func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(
	secret string,
	ttl time.Duration,
	sessionCache SessionCache,
	notifier Notifier,
	provider OAuthProvider,
	opts ...Option,
) *Service {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if secret == "" {
		secret = "shared"
	}

	s := &Service{
		secret:       []byte(secret),
		ttl:          ttl,
		sessionCache: sessionCache,
		notifier:     notifier,
		provider:     provider,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueSession starts an anonymous browser session with nobody signed in.
func (s *Service) IssueSession() (sessionID string, token string, err error) {
	sessionID = uuid.New().String()
	token, err = generateToken(sessionID, s.secret, s.now(), s.ttl)
	if err != nil {
		return "", "", errors.Join(ErrInternal, err)
	}
	return sessionID, token, nil
}

func (s *Service) ParseToken(token string) (string, error) {
	return sessionIDFromToken(token, s.secret, s.now())
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// CurrentUser returns nil when nobody is signed in.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	raw, err := s.sessionCache.Get(sessionKeyPrefix + sessionID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	if raw == "" {
		return nil, nil
	}

	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return &u, nil
}

func (s *Service) SignInAnonymously(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	u := model.User{
		ID:        model.ProviderAnonymous + ":" + uuid.New().String(),
		Anonymous: true,
		Provider:  model.ProviderAnonymous,
	}
	if err := s.signIn(ctx, sessionID, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// BeginPopupSignIn returns the provider URL the popup window should open.
func (s *Service) BeginPopupSignIn(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrNoSession
	}

	state := uuid.New().String()
	if err := s.sessionCache.Set(stateKeyPrefix+state, sessionID, signInStateTTL); err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	return s.provider.AuthCodeURL(state), nil
}

// CompletePopupSignIn finishes the flow started by BeginPopupSignIn. The state
// is single use.
func (s *Service) CompletePopupSignIn(ctx context.Context, state, code string) (*model.User, error) {
	if state == "" {
		return nil, ErrInvalidState
	}

	sessionID, err := s.sessionCache.Get(stateKeyPrefix + state)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	if sessionID == "" {
		return nil, ErrInvalidState
	}
	if err := s.sessionCache.Delete(stateKeyPrefix + state); err != nil {
		s.logger.Warn("failed to drop sign-in state", slog.String("error", err.Error()))
	}

	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", ErrProviderFailed)
	}

	u, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderFailed, err)
	}

	if err := s.signIn(ctx, sessionID, u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrNoSession
	}

	if err := s.sessionCache.Delete(sessionKeyPrefix + sessionID); err != nil {
		return errors.Join(ErrInternal, err)
	}

	s.announce(ctx, sessionID, eventSignedOut)
	return nil
}

func (s *Service) signIn(ctx context.Context, sessionID string, u model.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	if err := s.sessionCache.Set(sessionKeyPrefix+sessionID, string(raw), s.ttl); err != nil {
		return errors.Join(ErrInternal, err)
	}

	s.announce(ctx, sessionID, eventSignedIn)
	return nil
}

func (s *Service) announce(ctx context.Context, sessionID, event string) {
	if err := s.notifier.Publish(ctx, authStatePrefix+sessionID, event); err != nil {
		s.logger.Warn("failed to announce auth state",
			slog.String("session", sessionID),
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}

// WatchAuthState calls fn with the current user right away and again after
// every sign-in or sign-out of the session. Calls come from a single
// goroutine and never after stop returns; fn must not call stop itself.
func (s *Service) WatchAuthState(ctx context.Context, sessionID string, fn func(*model.User)) (stop func(), err error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	feed, err := s.notifier.Subscribe(ctx, authStatePrefix+sessionID)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	w := &watcher{
		service:   s,
		sessionID: sessionID,
		feed:      feed,
		fn:        fn,
		done:      make(chan struct{}),
	}
	go w.loop()

	return w.stop, nil
}

type watcher struct {
	service   *Service
	sessionID string
	feed      model.Feed
	fn        func(*model.User)

	// held while fn runs so stop can wait for an in-flight call
	mu      sync.Mutex
	stopped bool
	done    chan struct{}
	once    sync.Once
}

func (w *watcher) stop() {
	w.once.Do(func() {
		close(w.done)
		_ = w.feed.Close()
	})
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
}

func (w *watcher) loop() {
	w.deliver()

	msgs := w.feed.Messages()
	for {
		select {
		case <-w.done:
			return
		case _, ok := <-msgs:
			if !ok {
				return
			}
			w.deliver()
		}
	}
}

func (w *watcher) deliver() {
	u, err := w.service.CurrentUser(context.Background(), w.sessionID)
	if err != nil {
		w.service.logger.Warn("failed to resolve auth state",
			slog.String("session", w.sessionID),
			slog.String("error", err.Error()),
		)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.fn(u)
}
