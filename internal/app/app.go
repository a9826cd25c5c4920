package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/humanbelnik/kinofav/core/internal/config"
	http_auth "github.com/humanbelnik/kinofav/core/internal/delivery/http/auth"
	http_init "github.com/humanbelnik/kinofav/core/internal/delivery/http/init"
	http_metrics "github.com/humanbelnik/kinofav/core/internal/delivery/http/metrics"
	http_session_middleware "github.com/humanbelnik/kinofav/core/internal/delivery/http/middleware/session"
	http_movie "github.com/humanbelnik/kinofav/core/internal/delivery/http/movie"
	http_page "github.com/humanbelnik/kinofav/core/internal/delivery/http/page"
	http_swagger "github.com/humanbelnik/kinofav/core/internal/delivery/http/swagger"
	ws_session "github.com/humanbelnik/kinofav/core/internal/delivery/ws/session"
	"github.com/humanbelnik/kinofav/core/internal/infra/memstore"
	infra_oauth "github.com/humanbelnik/kinofav/core/internal/infra/oauth"
	infra_postgres_favorite "github.com/humanbelnik/kinofav/core/internal/infra/postgres/favorite"
	infra_pg_init "github.com/humanbelnik/kinofav/core/internal/infra/postgres/init"
	infra_redis_init "github.com/humanbelnik/kinofav/core/internal/infra/redis/init"
	infra_redis_notifier "github.com/humanbelnik/kinofav/core/internal/infra/redis/notifier"
	infra_session_cache "github.com/humanbelnik/kinofav/core/internal/infra/redis/session"
	infra_tmdb "github.com/humanbelnik/kinofav/core/internal/infra/tmdb"
	"github.com/humanbelnik/kinofav/core/internal/logger"
	service_auth "github.com/humanbelnik/kinofav/core/internal/service/auth"
	service_render "github.com/humanbelnik/kinofav/core/internal/service/render"
	storage_favorite "github.com/humanbelnik/kinofav/core/internal/storage/favorite"
	usecase_browse "github.com/humanbelnik/kinofav/core/internal/usecase/browse"
	usecase_catalog "github.com/humanbelnik/kinofav/core/internal/usecase/catalog"
	usecase_favorites "github.com/humanbelnik/kinofav/core/internal/usecase/favorites"
)

const (
	serviceName = "kinofav"
	pageTitle   = "Kinofav"
)

type backends struct {
	store        usecase_favorites.DocumentStore
	sessionCache service_auth.SessionCache
	notifier     service_auth.Notifier
	close        func()
}

// mustBuildBackends picks the document store, session cache and notifier for
// the configured storage driver.
func mustBuildBackends(cfg *config.Config) backends {
	if cfg.Storage.Driver == config.StorageMemory {
		store := memstore.NewFavoriteStore()
		return backends{
			store:        store,
			sessionCache: memstore.NewSessionCache(),
			notifier:     memstore.NewNotifier(),
			close:        func() { _ = store.Close() },
		}
	}

	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)

	notifier := infra_redis_notifier.New(redisConn, "kinofav")
	favoriteRepository := infra_postgres_favorite.New(pgConn)

	return backends{
		store:        storage_favorite.New(favoriteRepository, notifier),
		sessionCache: infra_session_cache.New(redisConn, "session_cache"),
		notifier:     notifier,
		close: func() {
			_ = pgConn.Close()
			_ = redisConn.Close()
		},
	}
}

func Go(cfg *config.Config) {
	log := logger.Init(serviceName, cfg.Log.Level, cfg.Log.Format)

	b := mustBuildBackends(cfg)
	defer b.close()

	renderer := service_render.MustNew(cfg.TMDB.ImageBaseURL)
	catalogUC := usecase_catalog.New(infra_tmdb.New(cfg.TMDB))

	authService := service_auth.New(
		cfg.Session.Secret,
		cfg.Session.TTL,
		b.sessionCache,
		b.notifier,
		infra_oauth.NewGoogle(cfg.OAuth),
	)
	sessionMiddleware := http_session_middleware.New(
		authService,
		cfg.Session.CookieName,
		http_session_middleware.WithSecureCookie(cfg.Session.Secure),
	).SessionRequired()

	hub := ws_session.NewHub(log)
	newBrowser := func(sessionID string, view usecase_browse.View) ws_session.Browser {
		return usecase_browse.New(
			sessionID,
			authService,
			catalogUC,
			usecase_favorites.New(b.store),
			renderer,
			view,
		)
	}

	controllerPool := http_init.NewControllerPool()
	controllerPool.Add(http_swagger.New())
	controllerPool.Add(http_auth.New(authService, sessionMiddleware))
	controllerPool.Add(http_movie.New(catalogUC, renderer))
	controllerPool.Add(ws_session.NewController(hub, sessionMiddleware, newBrowser))
	controllerPool.AddRoot(http_page.New(renderer, sessionMiddleware, pageTitle, http_init.APIPath("/ws")))
	controllerPool.AddRoot(http_metrics.New())

	controllerPool.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := controllerPool.RunAll(ctx, cfg.HTTP.Host, cfg.HTTP.Port); err != nil {
		log.Error("http server failed", slog.String("error", err.Error()))
	}
	hub.Shutdown()
}
