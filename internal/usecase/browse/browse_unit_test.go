//go:build !integration
// +build !integration

package usecase_browse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/humanbelnik/kinofav/core/internal/infra/memstore"
	"github.com/humanbelnik/kinofav/core/internal/model"
	service_render "github.com/humanbelnik/kinofav/core/internal/service/render"
	usecase_favorites "github.com/humanbelnik/kinofav/core/internal/usecase/favorites"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type UsecaseBrowseUnitSuite struct {
	suite.Suite
}

// fakeIdentity delivers auth state on demand.
type fakeIdentity struct {
	mu      sync.Mutex
	fn      func(*model.User)
	stopped bool
}

func (f *fakeIdentity) WatchAuthState(ctx context.Context, sessionID string, fn func(*model.User)) (func(), error) {
	f.mu.Lock()
	f.fn = fn
	f.mu.Unlock()
	fn(nil)
	return func() {
		f.mu.Lock()
		f.stopped = true
		f.mu.Unlock()
	}, nil
}

func (f *fakeIdentity) emit(u *model.User) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()
	fn(u)
}

type fakeCatalog struct {
	mu       sync.Mutex
	pages    map[int][]model.MovieSummary
	gates    map[int]chan struct{}
	searches map[string][]model.MovieSummary
	err      error
	calls    []int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		pages:    map[int][]model.MovieSummary{},
		gates:    map[int]chan struct{}{},
		searches: map[string][]model.MovieSummary{},
	}
}

func (c *fakeCatalog) FetchPage(ctx context.Context, page int) ([]model.MovieSummary, error) {
	c.mu.Lock()
	c.calls = append(c.calls, page)
	gate := c.gates[page]
	movies, err := c.pages[page], c.err
	c.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return movies, err
}

func (c *fakeCatalog) Search(ctx context.Context, query string) ([]model.MovieSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searches[query], c.err
}

func (c *fakeCatalog) fetched() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.calls...)
}

type flip struct {
	movieID  int64
	favorite bool
}

type fakeView struct {
	mu       sync.Mutex
	contents map[Target]string
	status   string
	alerts   []string
	flips    []flip
	shown    []Section
}

func newFakeView() *fakeView {
	return &fakeView{contents: map[Target]string{}}
}

func (v *fakeView) Replace(target Target, html string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.contents[target] = html
}

func (v *fakeView) SetStatus(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = text
}

func (v *fakeView) Alert(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, text)
}

func (v *fakeView) SetFavorite(movieID int64, favorite bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.flips = append(v.flips, flip{movieID, favorite})
}

func (v *fakeView) Show(section Section) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown = append(v.shown, section)
}

func (v *fakeView) content(target Target) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.contents[target]
}

func (v *fakeView) currentStatus() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

func (v *fakeView) alertList() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.alerts...)
}

func (v *fakeView) flipList() []flip {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]flip(nil), v.flips...)
}

type op struct {
	kind string
	path string
}

// recordingStore wraps the in-memory store, logs writes and can inject
// failures.
type recordingStore struct {
	*memstore.FavoriteStore

	mu           sync.Mutex
	ops          []op
	writeErr     error
	subscribeErr map[string]error
	streams      []*tapStream
}

type tapStream struct {
	model.FavoriteStream
	errs chan error
}

func (t *tapStream) Errors() <-chan error { return t.errs }

func (s *recordingStore) SubscribeCollection(ctx context.Context, path model.CollectionPath) (model.FavoriteStream, error) {
	s.mu.Lock()
	failure := s.subscribeErr[path.UserID]
	s.mu.Unlock()
	if failure != nil {
		return nil, failure
	}

	st, err := s.FavoriteStore.SubscribeCollection(ctx, path)
	if err != nil {
		return nil, err
	}
	tap := &tapStream{FavoriteStream: st, errs: make(chan error, 1)}
	s.mu.Lock()
	s.streams = append(s.streams, tap)
	s.mu.Unlock()
	return tap, nil
}

func (s *recordingStore) SetDocument(ctx context.Context, path model.DocumentPath, rec model.FavoriteRecord) error {
	s.mu.Lock()
	s.ops = append(s.ops, op{"set", path.String()})
	err := s.writeErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.FavoriteStore.SetDocument(ctx, path, rec)
}

func (s *recordingStore) DeleteDocument(ctx context.Context, path model.DocumentPath) error {
	s.mu.Lock()
	s.ops = append(s.ops, op{"delete", path.String()})
	err := s.writeErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.FavoriteStore.DeleteDocument(ctx, path)
}

func (s *recordingStore) opList() []op {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]op(nil), s.ops...)
}

func (s *recordingStore) lastStream() *tapStream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streams[len(s.streams)-1]
}

type resources struct {
	session  *Session
	identity *fakeIdentity
	catalog  *fakeCatalog
	store    *recordingStore
	sync     *usecase_favorites.Synchronizer
	view     *fakeView
	ctx      context.Context
}

func movie(id int64, title string) model.MovieSummary {
	return model.MovieSummary{ID: id, Title: title, PosterPath: fmt.Sprintf("/%d.jpg", id), VoteAverage: 7.5, VoteCount: 100}
}

func initResources(t provider.T) *resources {
	catalog := newFakeCatalog()
	catalog.pages[1] = []model.MovieSummary{movie(42, "Example"), movie(7, "Other")}
	catalog.pages[2] = []model.MovieSummary{movie(100, "Second page")}
	catalog.pages[3] = []model.MovieSummary{movie(200, "Third page")}

	store := &recordingStore{FavoriteStore: memstore.NewFavoriteStore()}
	synchronizer := usecase_favorites.New(store)
	identity := &fakeIdentity{}
	view := newFakeView()

	session := New("sid-1", identity, catalog, synchronizer, service_render.MustNew("https://image.example"), view)
	t.Cleanup(session.Close)

	return &resources{
		session:  session,
		identity: identity,
		catalog:  catalog,
		store:    store,
		sync:     synchronizer,
		view:     view,
		ctx:      context.Background(),
	}
}

func signedIn() *model.User {
	return &model.User{ID: "uid-1", DisplayName: "Ann", Provider: model.ProviderGoogle}
}

func (r *resources) start(t provider.T) {
	require.NoError(t, r.session.Start(r.ctx))
}

// signIn waits for the first subscription delivery.
func (r *resources) signIn(t provider.T, u *model.User) {
	r.identity.emit(u)
	require.Eventually(t, func() bool { return r.sync.Owner() == u.ID && r.session.User() != nil }, waitFor, tick)
	require.Eventually(t, func() bool {
		return r.store.Subscribers(u.ID) > 0
	}, waitFor, tick)
}

func (s *UsecaseBrowseUnitSuite) TestStart(t provider.T) {
	r := initResources(t)

	r.start(t)

	assert.Equal(t, StatusNotSignedIn, r.view.currentStatus())
	assert.Equal(t, 2, strings.Count(r.view.content(TargetMovies), `class="movie-card"`))
	assert.Equal(t, []int{1}, r.catalog.fetched())
}

func (s *UsecaseBrowseUnitSuite) TestStatusText(t provider.T) {
	assert.Equal(t, StatusNotSignedIn, StatusText(nil))
	assert.Equal(t, StatusSignedInAnonymously, StatusText(&model.User{ID: "a", Anonymous: true}))
	assert.Equal(t, "Signed in: Ann", StatusText(signedIn()))
	assert.Equal(t, "Signed in: User", StatusText(&model.User{ID: "g"}))
}

func (s *UsecaseBrowseUnitSuite) TestToggleWhileSignedOut(t provider.T) {
	r := initResources(t)
	r.start(t)

	err := r.session.ToggleFavorite(r.ctx, 42)

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, []string{MsgLoginRequired}, r.view.alertList())
	assert.Empty(t, r.store.opList(), "no remote write")
	assert.Empty(t, r.sync.Membership())
	assert.Empty(t, r.view.flipList())
}

func (s *UsecaseBrowseUnitSuite) TestToggleRoundTrip(t provider.T) {
	r := initResources(t)
	r.start(t)
	r.signIn(t, signedIn())
	assert.Equal(t, "Signed in: Ann", r.view.currentStatus())

	require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
	require.Eventually(t, func() bool { return r.sync.IsFavorite("42") }, waitFor, tick)
	require.Eventually(t, func() bool {
		return strings.Count(r.view.content(TargetMovies), service_render.IndicatorFavorite) == 1
	}, waitFor, tick)

	require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
	require.Eventually(t, func() bool { return !r.sync.IsFavorite("42") }, waitFor, tick)

	path := model.FavoritesOf("uid-1").Doc("42").String()
	assert.Equal(t, []op{{"set", path}, {"delete", path}}, r.store.opList())
	assert.Equal(t, []flip{{42, true}, {42, false}}, r.view.flipList())
	assert.Empty(t, r.view.alertList())
}

func (s *UsecaseBrowseUnitSuite) TestToggleFailureReverts(t provider.T) {
	r := initResources(t)
	r.start(t)
	r.signIn(t, signedIn())
	r.store.mu.Lock()
	r.store.writeErr = errors.New("permission denied")
	r.store.mu.Unlock()

	err := r.session.ToggleFavorite(r.ctx, 42)

	assert.ErrorIs(t, err, usecase_favorites.ErrWriteFailed)
	assert.Equal(t, []flip{{42, true}, {42, false}}, r.view.flipList())
	assert.Equal(t, []string{MsgAddFavoriteFailed}, r.view.alertList())
	assert.False(t, r.sync.IsFavorite("42"))
}

func (s *UsecaseBrowseUnitSuite) TestSearchWithoutResults(t provider.T) {
	r := initResources(t)
	r.start(t)
	r.signIn(t, signedIn())
	require.NoError(t, r.session.ToggleFavorite(r.ctx, 7))
	require.Eventually(t, func() bool { return r.sync.IsFavorite("7") }, waitFor, tick)
	require.NoError(t, r.session.ShowFavorites())
	require.Eventually(t, func() bool {
		return strings.Contains(r.view.content(TargetFavorites), "Other")
	}, waitFor, tick)
	favoritesBefore := r.view.content(TargetFavorites)

	require.NoError(t, r.session.Search(r.ctx, "no such movie"))

	msg, err := service_render.MustNew("").Message(MsgNoResults)
	require.NoError(t, err)
	assert.Equal(t, msg, r.view.content(TargetMovies))
	assert.Equal(t, model.NewMembership("7"), r.sync.Membership())
	assert.Equal(t, favoritesBefore, r.view.content(TargetFavorites))
}

func (s *UsecaseBrowseUnitSuite) TestSearch(t provider.T) {
	r := initResources(t)
	r.start(t)
	r.catalog.searches["totoro"] = []model.MovieSummary{movie(9, "Totoro")}

	require.NoError(t, r.session.Search(r.ctx, "  totoro  "))
	assert.Contains(t, r.view.content(TargetMovies), "Totoro")

	before := r.view.content(TargetMovies)
	require.NoError(t, r.session.Search(r.ctx, "   "))
	assert.Equal(t, before, r.view.content(TargetMovies), "blank query is ignored")
}

func (s *UsecaseBrowseUnitSuite) TestCatalogError(t provider.T) {
	r := initResources(t)
	r.start(t)
	r.catalog.err = errors.New("503")

	err := r.session.Next(r.ctx)

	assert.Error(t, err)
	assert.Contains(t, r.view.content(TargetMovies), MsgError)
}

func (s *UsecaseBrowseUnitSuite) TestPagination(t provider.T) {
	r := initResources(t)
	r.start(t)

	require.NoError(t, r.session.Next(r.ctx))
	assert.Equal(t, 2, r.session.Page())
	assert.Contains(t, r.view.content(TargetMovies), "Second page")

	require.NoError(t, r.session.Previous(r.ctx))
	require.NoError(t, r.session.Previous(r.ctx))
	assert.Equal(t, 1, r.session.Page())
	assert.Equal(t, []int{1, 2, 1}, r.catalog.fetched(), "no request below the first page")
}

// Overlapping page loads are not sequenced; the slower one lands last.
func (s *UsecaseBrowseUnitSuite) TestOverlappingPageLoads(t provider.T) {
	r := initResources(t)
	r.start(t)
	gate := make(chan struct{})
	r.catalog.gates[2] = gate

	done := make(chan error, 1)
	go func() { done <- r.session.Next(r.ctx) }()
	require.Eventually(t, func() bool { return len(r.catalog.fetched()) == 2 }, waitFor, tick)

	require.NoError(t, r.session.Next(r.ctx))
	assert.Contains(t, r.view.content(TargetMovies), "Third page")

	close(gate)
	require.NoError(t, <-done)

	assert.Equal(t, 3, r.session.Page())
	assert.Contains(t, r.view.content(TargetMovies), "Second page")
}

func (s *UsecaseBrowseUnitSuite) TestSignOut(t provider.T) {
	r := initResources(t)
	r.start(t)
	r.signIn(t, signedIn())
	require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
	require.Eventually(t, func() bool {
		return strings.Contains(r.view.content(TargetMovies), service_render.IndicatorFavorite)
	}, waitFor, tick)
	require.NoError(t, r.session.ShowFavorites())

	r.identity.emit(nil)

	assert.Equal(t, StatusNotSignedIn, r.view.currentStatus())
	assert.Empty(t, r.sync.Membership())
	assert.Equal(t, "", r.sync.Owner())
	assert.NotContains(t, r.view.content(TargetMovies), service_render.IndicatorFavorite)
	assert.Equal(t, 0, r.store.Subscribers("uid-1"), "subscription released")
}

func (s *UsecaseBrowseUnitSuite) TestSwitchUser(t provider.T) {
	r := initResources(t)
	r.start(t)
	r.signIn(t, signedIn())
	require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
	require.Eventually(t, func() bool { return r.sync.IsFavorite("42") }, waitFor, tick)

	r.identity.emit(nil)
	r.signIn(t, &model.User{ID: "anon-2", Anonymous: true, Provider: model.ProviderAnonymous})

	assert.Equal(t, StatusSignedInAnonymously, r.view.currentStatus())
	assert.False(t, r.sync.IsFavorite("42"))
	assert.Equal(t, 0, r.store.Subscribers("uid-1"))
}

func (s *UsecaseBrowseUnitSuite) TestSwitchUserDirectly(t provider.T) {
	t.Run("Should drop previous favorites when the new subscription fails", func(t provider.T) {
		r := initResources(t)
		r.start(t)
		r.signIn(t, signedIn())
		require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
		require.Eventually(t, func() bool { return r.sync.IsFavorite("42") }, waitFor, tick)

		r.store.mu.Lock()
		r.store.subscribeErr = map[string]error{"anon-2": errors.New("store unavailable")}
		r.store.mu.Unlock()

		r.identity.emit(&model.User{ID: "anon-2", Anonymous: true, Provider: model.ProviderAnonymous})

		assert.Equal(t, StatusSignedInAnonymously, r.view.currentStatus())
		assert.Empty(t, r.sync.Membership())
		assert.Equal(t, "", r.sync.Owner())
		assert.NotContains(t, r.view.content(TargetMovies), service_render.IndicatorFavorite)
		assert.Equal(t, 0, r.store.Subscribers("uid-1"))

		require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
		ops := r.store.opList()
		assert.Equal(t, op{"set", "favorites/anon-2/userFavorites/42"}, ops[len(ops)-1])
	})

	t.Run("Should keep the known set for the same user", func(t provider.T) {
		r := initResources(t)
		r.start(t)
		r.signIn(t, signedIn())
		require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
		require.Eventually(t, func() bool { return r.sync.IsFavorite("42") }, waitFor, tick)

		renamed := signedIn()
		renamed.DisplayName = "Ann B."
		r.identity.emit(renamed)

		assert.Equal(t, "Signed in: Ann B.", r.view.currentStatus())
		assert.True(t, r.sync.IsFavorite("42"))
	})
}

func (s *UsecaseBrowseUnitSuite) TestShowFavorites(t provider.T) {
	t.Run("Should require login", func(t provider.T) {
		r := initResources(t)
		r.start(t)

		err := r.session.ShowFavorites()

		assert.ErrorIs(t, err, ErrNotAuthenticated)
		assert.Equal(t, []string{MsgFavoritesLoginRequired}, r.view.alertList())
	})

	t.Run("Should show empty state then live list", func(t provider.T) {
		r := initResources(t)
		r.start(t)
		r.signIn(t, signedIn())

		require.NoError(t, r.session.ShowFavorites())
		assert.Contains(t, r.view.content(TargetFavorites), MsgNoFavorites)

		require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
		require.Eventually(t, func() bool {
			return strings.Contains(r.view.content(TargetFavorites), "Example")
		}, waitFor, tick)
	})

	t.Run("Should show error state and keep membership on stream failure", func(t provider.T) {
		r := initResources(t)
		r.start(t)
		r.signIn(t, signedIn())
		require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
		require.Eventually(t, func() bool { return r.sync.IsFavorite("42") }, waitFor, tick)
		require.NoError(t, r.session.ShowFavorites())

		r.store.lastStream().errs <- errors.New("stream broken")

		require.Eventually(t, func() bool {
			return strings.Contains(r.view.content(TargetFavorites), MsgFavoritesFailed)
		}, waitFor, tick)
		assert.True(t, r.sync.IsFavorite("42"))
	})
}

func (s *UsecaseBrowseUnitSuite) TestDetail(t provider.T) {
	r := initResources(t)
	r.start(t)

	require.NoError(t, r.session.ShowDetail(42))
	assert.Contains(t, r.view.content(TargetDetail), "Example")

	assert.ErrorIs(t, r.session.ShowDetail(999), ErrUnknownMovie)

	r.session.Back()
	r.view.mu.Lock()
	shown := append([]Section(nil), r.view.shown...)
	r.view.mu.Unlock()
	assert.Equal(t, []Section{SectionDetail, SectionMovies}, shown)
}

func (s *UsecaseBrowseUnitSuite) TestDetailFromFavorites(t provider.T) {
	t.Run("Should return to favorites", func(t provider.T) {
		r := initResources(t)
		r.start(t)
		r.signIn(t, signedIn())
		require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
		require.Eventually(t, func() bool { return r.sync.IsFavorite("42") }, waitFor, tick)

		require.NoError(t, r.session.ShowFavorites())
		require.NoError(t, r.session.ShowDetail(42))
		r.session.Back()

		r.view.mu.Lock()
		shown := append([]Section(nil), r.view.shown...)
		r.view.mu.Unlock()
		assert.Equal(t, []Section{SectionFavorites, SectionDetail, SectionFavorites}, shown)
		assert.Contains(t, r.view.content(TargetFavorites), "Example")
	})

	t.Run("Should fall back to movies after sign-out", func(t provider.T) {
		r := initResources(t)
		r.start(t)
		r.signIn(t, signedIn())
		require.NoError(t, r.session.ToggleFavorite(r.ctx, 42))
		require.Eventually(t, func() bool { return r.sync.IsFavorite("42") }, waitFor, tick)

		require.NoError(t, r.session.ShowFavorites())
		require.NoError(t, r.session.ShowDetail(42))
		r.identity.emit(nil)
		r.session.Back()

		r.view.mu.Lock()
		last := r.view.shown[len(r.view.shown)-1]
		r.view.mu.Unlock()
		assert.Equal(t, SectionMovies, last)
	})
}

func (s *UsecaseBrowseUnitSuite) TestClose(t provider.T) {
	r := initResources(t)
	r.start(t)
	r.signIn(t, signedIn())

	r.session.Close()
	r.session.Close()

	assert.True(t, r.identity.stopped)
	assert.Equal(t, 0, r.store.Subscribers("uid-1"))
	assert.Empty(t, r.sync.Membership())
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseBrowseUnitSuite))
}
