package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinebook/internal/account"
	"github.com/iliyamo/cinebook/internal/booking"
	"github.com/iliyamo/cinebook/internal/catalog"
	"github.com/iliyamo/cinebook/internal/catalogsync"
	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/database"
	"github.com/iliyamo/cinebook/internal/handler"
	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/ratelimit"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/router"
	"github.com/iliyamo/cinebook/internal/seating"
	"github.com/iliyamo/cinebook/internal/store"
)

func main() {
	cfg := config.Load() // Load environment config
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		log.Printf("redis unavailable; cache and rate limiting disabled")
	}

	st, err := openStore(cfg, rdb, logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	client := catalog.NewClient(catalog.Config{
		APIKey:       cfg.Catalog.APIKey,
		BaseURL:      cfg.Catalog.BaseURL,
		ImageBaseURL: cfg.Catalog.ImageBaseURL,
		Timeout:      cfg.Catalog.Timeout,
	}, catalog.WithLimiter(catalogLimiter(cfg.Catalog, rdb)), catalog.WithLogger(logger))
	if !client.Configured() {
		log.Printf("TMDB_API_KEY not set; serving the built-in catalog")
	}

	engine := catalogsync.NewEngine(st, client, catalogsync.Config{
		RefreshInterval: cfg.Catalog.RefreshInterval,
		RegionLanguage:  cfg.Catalog.RegionLanguage,
	}, catalogsync.WithLogger(logger))

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	// the bootstrap is the single active caller of EnsureFresh
	bootCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	rep, err := bootstrapCatalog(bootCtx, engine, cache, logger)
	cancel()
	if err != nil {
		log.Fatalf("catalog sync: %v", err)
	}
	log.Printf("catalog ready: movies=%d refreshed=%t seeded=%t", rep.Movies, rep.Refreshed, rep.Seeded)

	dir := account.NewDirectory(st, account.WithLogger(logger))
	city := account.NewCityPreference(st)
	city.Subscribe(func(c string) { logger.Info("selected city changed", "city", c) })

	ledgerOpts := []booking.Option{booking.WithLogger(logger)}
	if cfg.BookingEventsEnabled {
		ledgerOpts = append(ledgerOpts, booking.WithPublisher(queue.NewPublisher(cfg.AMQPURL, logger)))
	}
	ledger := booking.NewLedger(st, ledgerOpts...)

	movies := repository.NewMovieRepo(st)
	cinemas := repository.NewCinemaRepo(st)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(middleware.LoadSession(dir))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.Register(e, router.Handlers{
		Catalog:     handler.NewCatalogHandler(engine, movies, cinemas, cache),
		Seats:       handler.NewSeatHandler(engine, cinemas, seating.NewGenerator(nil)),
		Auth:        handler.NewAuthHandler(dir),
		Bookings:    handler.NewBookingHandler(ledger, engine, cinemas),
		Preferences: handler.NewPreferenceHandler(city),
	}, cache.Middleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreBackend)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openStore builds the store for STORE_BACKEND.
func openStore(cfg config.Config, rdb *redis.Client, logger *slog.Logger) (*store.Store, error) {
	opts := []store.Option{store.WithPrefix(cfg.StorePrefix), store.WithLogger(logger)}
	switch cfg.StoreBackend {
	case config.BackendRedis:
		if rdb == nil {
			return nil, errors.New("STORE_BACKEND=redis but redis is unreachable")
		}
		return store.New(store.NewRedisBackend(rdb), opts...), nil
	case config.BackendMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return store.New(store.NewMySQLBackend(db), opts...), nil
	default:
		log.Printf("using in-memory store; data is lost on restart")
		return store.NewMemory(opts...), nil
	}
}

// catalogLimiter shares one TMDB budget across instances through Redis
// when it is available, and falls back to an in-process limiter.
func catalogLimiter(cfg config.CatalogConfig, rdb *redis.Client) ratelimit.Limiter {
	if cfg.RateLimitRPS <= 0 {
		return ratelimit.Unlimited{}
	}
	if rdb == nil {
		return ratelimit.NewLocal(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return ratelimit.NewRedisBucket(rdb, ratelimit.BucketConfig{
		Capacity:       cfg.RateLimitBurst,
		RefillTokens:   1,
		RefillInterval: time.Duration(float64(time.Second) / cfg.RateLimitRPS),
	}).Limiter("rl:catalog:tmdb")
}

// bootstrapCatalog runs the first sync and drops responses cached by a
// previous process when the catalog changed.
func bootstrapCatalog(ctx context.Context, engine *catalogsync.Engine, cache handler.CachePurger, logger *slog.Logger) (catalogsync.Report, error) {
	rep, err := engine.EnsureFresh(ctx)
	if err != nil {
		return rep, err
	}
	if rep.Changed() {
		if err := cache.Purge(ctx); err != nil {
			logger.Warn("purge response cache", "err", err)
		}
	}
	return rep, nil
}
