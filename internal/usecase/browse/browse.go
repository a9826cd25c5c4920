package usecase_browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	infra_metrics "github.com/humanbelnik/kinofav/core/internal/infra/metrics"
	"github.com/humanbelnik/kinofav/core/internal/model"
	usecase_favorites "github.com/humanbelnik/kinofav/core/internal/usecase/favorites"
)

var (
	ErrNotAuthenticated = usecase_favorites.ErrNotAuthenticated
	ErrUnknownMovie     = errors.New("movie is not on screen")
	ErrClosed           = errors.New("browse session closed")
	ErrAuthWatch        = errors.New("failed to watch auth state")
)

const (
	MsgNoResults              = "No results found."
	MsgError                  = "An error occurred."
	MsgLoginRequired          = "Login required."
	MsgNoFavorites            = "No favorite movies yet."
	MsgFavoritesFailed        = "Failed to load favorites."
	MsgFavoritesLoginRequired = "Login required to view favorites."
	MsgAddFavoriteFailed      = "Failed to add favorite."
	MsgRemoveFavoriteFailed   = "Failed to remove favorite."
)

const (
	StatusNotSignedIn         = "Not signed in"
	StatusSignedInAnonymously = "Signed in anonymously"

	statusSignedInPrefix = "Signed in: "
	fallbackDisplayName  = "User"
)

const firstPage = 1

type Target string

const (
	TargetMovies    Target = "#app"
	TargetFavorites Target = "#favoriteMoviesContainer"
	TargetDetail    Target = "#detail"
)

type Section string

const (
	SectionMovies    Section = "movies"
	SectionFavorites Section = "favorites"
	SectionDetail    Section = "detail"
)

// View is the presentation surface of one browser tab.
type View interface {
	Replace(target Target, html string)
	SetStatus(text string)
	Alert(text string)
	SetFavorite(movieID int64, favorite bool)
	Show(section Section)
}

type Identity interface {
	WatchAuthState(ctx context.Context, sessionID string, fn func(*model.User)) (stop func(), err error)
}

type Catalog interface {
	FetchPage(ctx context.Context, page int) ([]model.MovieSummary, error)
	Search(ctx context.Context, query string) ([]model.MovieSummary, error)
}

type Favorites interface {
	Subscribe(ctx context.Context, userID string) (*usecase_favorites.Subscription, error)
	Toggle(ctx context.Context, user *model.User, movie model.MovieSummary) (model.ToggleOutcome, error)
	Clear()
	IsFavorite(key string) bool
	Membership() model.Membership
	Favorites() []model.FavoriteRecord
}

type Renderer interface {
	List(movies []model.MovieSummary, membership model.Membership) (string, error)
	FavoriteList(records []model.FavoriteRecord, membership model.Membership) (string, error)
	Message(text string) (string, error)
	Detail(movie model.MovieSummary, favorite bool) (string, error)
}

func StatusText(u *model.User) string {
	switch {
	case u == nil:
		return StatusNotSignedIn
	case u.Anonymous:
		return StatusSignedInAnonymously
	case u.DisplayName == "":
		return statusSignedInPrefix + fallbackDisplayName
	default:
		return statusSignedInPrefix + u.DisplayName
	}
}

// Session drives one browse view: it follows the auth state of its browser
// session, keeps a favorites subscription for the signed-in user and
// re-renders whenever movies or membership change.
//
// Catalog fetches are not sequenced: when two page loads overlap, the one
// that completes last is what stays on screen.
type Session struct {
	id        string
	identity  Identity
	catalog   Catalog
	favorites Favorites
	renderer  Renderer
	view      View
	logger    *slog.Logger

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	stopAuth  func()
	user      *model.User
	page      int
	movies    []model.MovieSummary
	notice    string
	detail    *model.MovieSummary
	section   Section
	returnTo  Section
	sub       *usecase_favorites.Subscription
	subFailed bool
	closed    bool

	consumers sync.WaitGroup
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func New(
	sessionID string,
	identity Identity,
	catalog Catalog,
	favorites Favorites,
	renderer Renderer,
	view View,
	opts ...Option,
) *Session {
	s := &Session{
		id:        sessionID,
		identity:  identity,
		catalog:   catalog,
		favorites: favorites,
		renderer:  renderer,
		view:      view,
		logger:    slog.Default(),
		page:      firstPage,
		section:   SectionMovies,
		returnTo:  SectionMovies,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("session", sessionID))
	return s
}

// Start begins following auth state and loads the first page.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	lifetime := s.ctx
	s.mu.Unlock()

	stop, err := s.identity.WatchAuthState(lifetime, s.id, s.onAuthState)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthWatch, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		stop()
		return ErrClosed
	}
	s.stopAuth = stop
	s.mu.Unlock()

	return s.loadPage(lifetime, firstPage)
}

// Close tears down the auth watch and the favorites subscription.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stop := s.stopAuth
	sub := s.sub
	s.sub = nil
	cancel := s.cancel
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	s.closeSubscription(sub)
	s.consumers.Wait()
	s.favorites.Clear()
	if cancel != nil {
		cancel()
	}
}

func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Session) onAuthState(u *model.User) {
	s.view.SetStatus(StatusText(u))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if u != nil && s.user != nil && s.user.ID == u.ID && s.sub != nil {
		s.user = u
		s.mu.Unlock()
		return
	}
	old := s.sub
	switched := u == nil || s.user == nil || s.user.ID != u.ID
	s.sub = nil
	s.subFailed = false
	s.user = u
	leaveFavorites := u == nil && s.section == SectionFavorites
	if leaveFavorites {
		s.section = SectionMovies
	}
	if u == nil {
		s.returnTo = SectionMovies
	}
	s.mu.Unlock()

	s.closeSubscription(old)

	// The set belongs to one user; a failed subscribe for a new user must
	// not leave the previous user's favorites behind.
	if switched {
		s.favorites.Clear()
	}

	if u == nil {
		if leaveFavorites {
			s.view.Show(SectionMovies)
		}
		s.rerender()
		return
	}

	s.subscribe(u)
	s.rerender()
}

func (s *Session) subscribe(u *model.User) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	sub, err := s.favorites.Subscribe(ctx, u.ID)
	if err != nil {
		s.logger.Error("failed to subscribe to favorites",
			slog.String("user", u.ID),
			slog.String("error", err.Error()),
		)
		s.mu.Lock()
		s.subFailed = true
		s.mu.Unlock()
		return
	}
	infra_metrics.FavoriteSubscriptions.Inc()

	s.mu.Lock()
	if s.closed || s.user == nil || s.user.ID != u.ID {
		s.mu.Unlock()
		s.closeSubscription(sub)
		return
	}
	s.sub = sub
	s.consumers.Add(1)
	s.mu.Unlock()

	go s.consume(sub)
}

func (s *Session) closeSubscription(sub *usecase_favorites.Subscription) {
	if sub == nil {
		return
	}
	if err := sub.Close(); err != nil {
		s.logger.Warn("failed to close favorites subscription", slog.String("error", err.Error()))
	}
	infra_metrics.FavoriteSubscriptions.Dec()
}

func (s *Session) consume(sub *usecase_favorites.Subscription) {
	defer s.consumers.Done()

	updates := sub.Updates()
	errs := sub.Errors()
	for updates != nil || errs != nil {
		select {
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			s.mu.Lock()
			current := u.Current && s.sub == sub
			if current {
				s.subFailed = false
			}
			s.mu.Unlock()
			if current {
				s.rerender()
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Error("favorites subscription failed",
				slog.String("user", sub.UserID()),
				slog.String("error", err.Error()),
			)
			s.mu.Lock()
			s.subFailed = true
			showing := s.section == SectionFavorites
			s.mu.Unlock()
			if showing {
				s.renderFavorites()
			}
		}
	}
}

// rerender redraws everything that depends on membership.
func (s *Session) rerender() {
	s.mu.Lock()
	movies := s.movies
	notice := s.notice
	section := s.section
	s.mu.Unlock()

	if notice == "" && movies != nil {
		s.replaceList(movies)
	}
	if section == SectionFavorites {
		s.renderFavorites()
	}
}

func (s *Session) replaceList(movies []model.MovieSummary) {
	html, err := s.renderer.List(movies, s.favorites.Membership())
	if err != nil {
		s.logger.Error("failed to render movies", slog.String("error", err.Error()))
		return
	}
	s.view.Replace(TargetMovies, html)
}

func (s *Session) replaceMessage(target Target, text string) {
	html, err := s.renderer.Message(text)
	if err != nil {
		s.logger.Error("failed to render message", slog.String("error", err.Error()))
		return
	}
	s.view.Replace(target, html)
}

func (s *Session) renderFavorites() {
	s.mu.Lock()
	user := s.user
	failed := s.subFailed
	s.mu.Unlock()

	switch {
	case user == nil:
		s.replaceMessage(TargetFavorites, MsgFavoritesLoginRequired)
	case failed:
		s.replaceMessage(TargetFavorites, MsgFavoritesFailed)
	default:
		records := s.favorites.Favorites()
		if len(records) == 0 {
			s.replaceMessage(TargetFavorites, MsgNoFavorites)
			return
		}
		html, err := s.renderer.FavoriteList(records, s.favorites.Membership())
		if err != nil {
			s.logger.Error("failed to render favorites", slog.String("error", err.Error()))
			return
		}
		s.view.Replace(TargetFavorites, html)
	}
}

func (s *Session) loadPage(ctx context.Context, page int) error {
	movies, err := s.catalog.FetchPage(ctx, page)
	return s.showResults(movies, err)
}

func (s *Session) showResults(movies []model.MovieSummary, err error) error {
	if err != nil {
		s.logger.Warn("catalog request failed", slog.String("error", err.Error()))
		s.setNotice(MsgError)
		s.replaceMessage(TargetMovies, MsgError)
		return err
	}
	if len(movies) == 0 {
		s.setNotice(MsgNoResults)
		s.replaceMessage(TargetMovies, MsgNoResults)
		return nil
	}

	s.mu.Lock()
	s.movies = movies
	s.notice = ""
	s.mu.Unlock()

	s.replaceList(movies)
	return nil
}

func (s *Session) setNotice(text string) {
	s.mu.Lock()
	s.notice = text
	s.mu.Unlock()
}

func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	s.page++
	page := s.page
	s.mu.Unlock()

	return s.loadPage(ctx, page)
}

// Previous stays on the first page instead of asking for page zero.
func (s *Session) Previous(ctx context.Context) error {
	s.mu.Lock()
	if s.page <= firstPage {
		s.mu.Unlock()
		return nil
	}
	s.page--
	page := s.page
	s.mu.Unlock()

	return s.loadPage(ctx, page)
}

func (s *Session) ShowPage(ctx context.Context, page int) error {
	if page < firstPage {
		page = firstPage
	}
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()

	return s.loadPage(ctx, page)
}

// Search ignores blank queries.
func (s *Session) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	movies, err := s.catalog.Search(ctx, query)
	return s.showResults(movies, err)
}

// ToggleFavorite flips the indicator right away and puts it back if the
// write fails. Membership itself follows the subscription.
func (s *Session) ToggleFavorite(ctx context.Context, movieID int64) error {
	s.mu.Lock()
	user := s.user
	movie, found := s.lookup(movieID)
	s.mu.Unlock()

	if user == nil {
		s.view.Alert(MsgLoginRequired)
		return ErrNotAuthenticated
	}
	if !found {
		return fmt.Errorf("%w: %d", ErrUnknownMovie, movieID)
	}

	was := s.favorites.IsFavorite(movie.Key())
	s.view.SetFavorite(movie.ID, !was)

	outcome, err := s.favorites.Toggle(ctx, user, movie)
	if err != nil {
		infra_metrics.FavoriteToggles.WithLabelValues(infra_metrics.ResultError).Inc()
		s.logger.Error("favorite toggle failed",
			slog.Int64("movie_id", movie.ID),
			slog.String("error", err.Error()),
		)
		s.view.SetFavorite(movie.ID, was)
		if was {
			s.view.Alert(MsgRemoveFavoriteFailed)
		} else {
			s.view.Alert(MsgAddFavoriteFailed)
		}
		return err
	}

	infra_metrics.FavoriteToggles.WithLabelValues(outcome.String()).Inc()
	return nil
}

// lookup finds a movie among the ones the user can currently click. Caller holds mu.
func (s *Session) lookup(movieID int64) (model.MovieSummary, bool) {
	for _, m := range s.movies {
		if m.ID == movieID {
			return m, true
		}
	}
	if s.detail != nil && s.detail.ID == movieID {
		return *s.detail, true
	}
	for _, rec := range s.favorites.Favorites() {
		if rec.ID == movieID {
			return rec.Summary(), true
		}
	}
	return model.MovieSummary{}, false
}

func (s *Session) ShowFavorites() error {
	s.mu.Lock()
	user := s.user
	if user != nil {
		s.section = SectionFavorites
	}
	s.mu.Unlock()

	if user == nil {
		s.view.Alert(MsgFavoritesLoginRequired)
		return ErrNotAuthenticated
	}

	s.view.Show(SectionFavorites)
	s.renderFavorites()
	return nil
}

// ShowMovies returns to the listing and reloads the current page.
func (s *Session) ShowMovies(ctx context.Context) error {
	s.mu.Lock()
	s.section = SectionMovies
	page := s.page
	s.mu.Unlock()

	s.view.Show(SectionMovies)
	return s.loadPage(ctx, page)
}

func (s *Session) ShowDetail(movieID int64) error {
	s.mu.Lock()
	movie, found := s.lookup(movieID)
	if found {
		s.detail = &movie
		if s.section != SectionDetail {
			s.returnTo = s.section
		}
		s.section = SectionDetail
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: %d", ErrUnknownMovie, movieID)
	}

	html, err := s.renderer.Detail(movie, s.favorites.IsFavorite(movie.Key()))
	if err != nil {
		return err
	}
	s.view.Replace(TargetDetail, html)
	s.view.Show(SectionDetail)
	return nil
}

// Back leaves the detail view for the section it was opened from,
// without reloading.
func (s *Session) Back() {
	s.mu.Lock()
	target := s.returnTo
	if target == SectionFavorites && s.user == nil {
		target = SectionMovies
	}
	s.section = target
	s.returnTo = SectionMovies
	s.mu.Unlock()

	s.view.Show(target)
	if target == SectionFavorites {
		s.renderFavorites()
	}
}
