package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/linkmint/linkmint-api/internal/config"
	"github.com/linkmint/linkmint-api/internal/domain/account"
	"github.com/linkmint/linkmint-api/internal/domain/commission"
	"github.com/linkmint/linkmint-api/internal/domain/currency"
	"github.com/linkmint/linkmint-api/internal/domain/events"
	"github.com/linkmint/linkmint-api/internal/domain/ledger"
	"github.com/linkmint/linkmint-api/internal/domain/monetize"
	"github.com/linkmint/linkmint-api/internal/domain/notification"
	"github.com/linkmint/linkmint-api/internal/domain/referral"
	"github.com/linkmint/linkmint-api/internal/domain/settings"
	"github.com/linkmint/linkmint-api/internal/middleware"
	"github.com/linkmint/linkmint-api/internal/pkg/database"
	"github.com/linkmint/linkmint-api/internal/pkg/logger"
	"github.com/linkmint/linkmint-api/internal/pkg/metrics"
	"github.com/linkmint/linkmint-api/internal/pkg/migrate"
	pkgresponse "github.com/linkmint/linkmint-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting LinkMint API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Schema is applied once here, before any ledger operation is served.
	if err := migrate.Run(startupCtx, db, migrate.Schema); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	metrics.Init()

	// ---------- Settings ----------
	settingsStore := settings.NewStore(db, redisClient)
	if err := settingsStore.Seed(startupCtx, settings.Defaults{
		MaxLevels: cfg.CommissionMaxLevels,
		LevelAmounts: map[int]string{
			1: cfg.CommissionLevel1,
			2: cfg.CommissionLevel2,
		},
		BaseCurrency:        cfg.BaseCurrency,
		ImpressionBatchSize: cfg.ImpressionBatchSize,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed settings")
	}

	// ---------- Currency ----------
	fetcher := currency.NewHTTPFetcher(cfg.RateAPIURL, cfg.RateFetchTimeout)
	converter := currency.NewConverter(db, fetcher, cfg.BaseCurrency)
	if err := converter.LoadFromStore(startupCtx); err != nil {
		log.Error().Err(err).Msg("Failed to seed rate cache, starting empty")
	}

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	converter.StartRefreshLoop(refreshCtx, cfg.RateRefreshInterval)

	// ---------- Repositories ----------
	accountRepo := account.NewRepository(db)
	referralRepo := referral.NewRepository(db)
	commissionRepo := commission.NewRepository(db)
	unitRepo := monetize.NewRepository(db)

	// ---------- Services ----------
	ledgerStore := ledger.NewStore(db)
	resolver := referral.NewResolver(referralRepo)
	sink := notification.NewService(db)

	distributor := commission.NewDistributor(ledgerStore, accountRepo, resolver, referralRepo, commissionRepo, converter, settingsStore, sink)
	monetizer := monetize.NewMonetizer(ledgerStore, unitRepo, settingsStore, sink, cfg.ImpressionBatchSize)

	eventsHandler := events.NewHandler(distributor, monetizer, unitRepo, commissionRepo)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/", eventsHandler.Routes())
	})

	// Public click redirects: GET /r/{unitID}
	r.Mount("/r", eventsHandler.RedirectRoutes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stopRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
