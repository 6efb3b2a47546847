package main

import (
	"context"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/nationbuilder/nationbuilder/internal/api"
	"github.com/nationbuilder/nationbuilder/internal/breakers"
	"github.com/nationbuilder/nationbuilder/internal/cache"
	"github.com/nationbuilder/nationbuilder/internal/config"
	"github.com/nationbuilder/nationbuilder/internal/db"
	"github.com/nationbuilder/nationbuilder/internal/events"
	"github.com/nationbuilder/nationbuilder/internal/middleware"
	"github.com/nationbuilder/nationbuilder/internal/services"
	"github.com/nationbuilder/nationbuilder/internal/telemetry"
)

// app holds every wired component for one process.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	metrics  *telemetry.Metrics
	services api.Services
	closers  []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn().Err(err).Msg("close component")
		}
	}
}

// openBackend returns the configured persistence backend. The SQL database
// is migrated before use; the memory driver needs neither.
func openBackend(cfg *config.Config, logger zerolog.Logger) (api.Backend, *sqlx.DB, error) {
	if cfg.Database.Driver == "memory" {
		return api.NewMemoryBackend(), nil, nil
	}
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return api.Backend{}, nil, err
	}
	applied, err := db.RunMigrations(conn, "")
	if err != nil {
		_ = conn.Close()
		return api.Backend{}, nil, errors.Wrap(err, "migrate")
	}
	if len(applied) > 0 {
		logger.Info().Strs("migrations", applied).Msg("applied migrations")
	}
	store := db.NewSQLStore(conn, logger.With().Str("component", "store").Logger())
	return api.Backend{Nations: store, Users: store, Subscriptions: store, Leaderboard: store}, conn, nil
}

type timedSource struct {
	src     services.LeaderboardSource
	timeout time.Duration
}

func (t timedSource) ListLeaderboardRecords(ctx context.Context) ([]services.LeaderboardRecord, error) {
	if t.timeout <= 0 {
		return t.src.ListLeaderboardRecords(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.src.ListLeaderboardRecords(ctx)
}

func buildApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, metrics: telemetry.New()}

	backend, conn, err := openBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	if conn != nil {
		a.closers = append(a.closers, conn)
	}

	middleware.SetSecret(cfg.Auth.JWTSecret)
	catalog := services.ArchetypeCatalog()
	subs := services.NewSubscriptionService(backend.Subscriptions)

	publishers := events.Fanout{a.metrics}
	lbOpts := []services.LeaderboardOption{
		services.WithLeaderboardBreaker(breakers.NewWithSettings(breakers.Settings{
			Name:                "leaderboard-fetch",
			ConsecutiveFailures: uint32(cfg.Leaderboard.BreakerFailures),
		}, logger)),
		services.WithLeaderboardObserver(a.metrics),
		services.WithLeaderboardLogger(logger.With().Str("component", "leaderboard").Logger()),
	}
	if cfg.CacheEnabled() {
		client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		a.closers = append(a.closers, client)
		lc := cache.NewLeaderboardCache(client, cfg.Leaderboard.CacheTTL)
		lbOpts = append(lbOpts, services.WithLeaderboardCache(lc))
		publishers = append(publishers, lc)
		logger.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Leaderboard.CacheTTL).Msg("leaderboard cache enabled")
	}
	if cfg.EventsEnabled() {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger.With().Str("component", "events").Logger())
		a.closers = append(a.closers, kp)
		publishers = append(publishers, kp)
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("nation events enabled")
	}

	auth := services.NewAuthService(backend.Users, middleware.SignToken)
	if cfg.Auth.TokenTTL > 0 {
		auth.SetTokenTTL(cfg.Auth.TokenTTL)
	}
	a.services = api.Services{
		Auth:     auth,
		Analysis: services.NewAnalysisService(catalog),
		Nations: services.NewNationService(backend.Nations, subs,
			services.WithEventPublisher(publishers),
			services.WithTemporaryTTL(cfg.Nations.TempTTL),
			services.WithNationLogger(logger.With().Str("component", "nations").Logger()),
		),
		Compare:       services.NewCompareService(catalog),
		Leaderboard:   services.NewLeaderboardService(timedSource{backend.Leaderboard, cfg.Leaderboard.FetchTimeout}, subs, lbOpts...),
		Subscriptions: subs,
	}
	return a, nil
}
