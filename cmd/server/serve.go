package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nationbuilder/nationbuilder/internal/api"
	"github.com/nationbuilder/nationbuilder/internal/config"
	"github.com/nationbuilder/nationbuilder/internal/middleware"
	"github.com/nationbuilder/nationbuilder/internal/services"
	"github.com/nationbuilder/nationbuilder/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	a, err := buildApp(cfg, logger)
	if err != nil {
		return errors.Wrap(err, "build app")
	}
	defer a.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	if err := limiter.TrustProxies(cfg.RateLimit.TrustedProxies); err != nil {
		return errors.Wrap(err, "rate limit")
	}
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newHandler(a, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go runMaintenance(ctx, cfg, a.services.Nations, limiter, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Str("driver", cfg.Database.Driver).Msg("nationbuilder listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
}

// newHandler assembles the root handler: routes, then the middleware chain.
func newHandler(a *app, limiter *middleware.RateLimiter) http.Handler {
	r := mux.NewRouter()
	r.Use(a.metrics.Middleware)

	api.NewRouter(a.services,
		api.WithLogger(a.logger.With().Str("component", "api").Logger()),
		api.WithRateLimiter(limiter),
		api.WithComparisonRecorder(a.metrics),
	).Register(r)

	r.HandleFunc("/health", healthHandler(a.cfg.Server)).Methods(http.MethodGet)
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONBody(w, map[string]any{"commit": a.cfg.Server.Commit, "build_time": a.cfg.Server.BuildTime})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	var h http.Handler = r
	h = middleware.NoStore(h)
	h = middleware.SecureHeaders(h)
	h = middleware.Locale(h)
	h = middleware.CORS(a.cfg.Server.CORSOrigins)(h)
	h = middleware.RequestLogger(a.logger)(h)
	h = middleware.RequestID(h)
	h = handlers.CompressHandler(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true), handlers.RecoveryLogger(recoveryLogger{a.logger}))(h)
	return h
}

func healthHandler(sc config.ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := middleware.LocaleFromContext(r.Context())
		writeJSONBody(w, map[string]any{
			"ok":         true,
			"name":       "Nationbuilder API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     sc.Commit,
			"build_time": sc.BuildTime,
		})
	}
}

// runMaintenance purges expired temporary nations and idle limiter entries
// until ctx ends.
func runMaintenance(ctx context.Context, cfg *config.Config, nations *services.NationService, limiter *middleware.RateLimiter, logger zerolog.Logger) {
	interval := cfg.Nations.PurgeInterval
	if interval <= 0 {
		interval = time.Hour
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if _, err := nations.PurgeExpired(now.UTC()); err != nil {
				logger.Warn().Err(err).Msg("purge expired nations")
			}
			limiter.Sweep(10 * time.Minute)
		}
	}
}

type recoveryLogger struct{ logger zerolog.Logger }

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error().Interface("panic", v).Msg("recovered from panic")
}
