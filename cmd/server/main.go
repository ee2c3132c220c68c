package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/api"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/auth"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/config"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/metrics"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/refresh"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/source"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/storage"
	"github.com/shornia-blip/reino-ceramicos-dashboard/internal/websocket"
	"github.com/shornia-blip/reino-ceramicos-dashboard/pkg/middleware"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Dur("refresh_interval", cfg.RefreshInterval).
		Msg("starting Reino Ceramicos dashboard backend")

	// Create context for services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pick the record source: live API when a token is configured,
	// otherwise the local snapshot file
	var src source.Source
	if cfg.APIToken != "" {
		src = source.NewAPISource(cfg.APIBaseURL, cfg.APIToken, cfg.FetchTimeout)
		log.Info().Str("base_url", cfg.APIBaseURL).Msg("using live API source")
	} else {
		src = source.NewFileSource(cfg.SnapshotFile)
		log.Info().Str("file", cfg.SnapshotFile).Msg("no API token, using snapshot file source")
	}

	// Create the KPI archive store
	dynamoCfg := storage.LoadDynamoConfig()
	var store storage.Store
	if dynamoCfg.Mode == storage.DynamoModeNone {
		store = storage.NewNoopStore()
		log.Info().Msg("KPI archive disabled (DYNAMO_MODE=none)")
	} else {
		store, err = storage.NewDynamoDBStore(ctx, dynamoCfg, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize DynamoDB store")
		}
	}

	// Create WebSocket hub
	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	// Create and start the refresher
	refresher := refresh.NewRefresher(src, store, hub, cfg.RefreshInterval, cfg.WeekdayQuotas, cfg.Timezone, log.Logger)
	go refresher.Start(ctx)

	// Create handlers
	wsHandler := websocket.NewHandler(hub, cfg, log.Logger)
	dashboardHandler := api.NewDashboardHandler(refresher, log.Logger)
	historyHandler := api.NewHistoryHandler(store, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Register public routes (no auth required)
	r.Get("/health", healthHandler)
	r.Get("/metrics", metrics.Get().Handler())

	// Add auth middleware for protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Get("/ws", wsHandler.ServeHTTP)
		r.Route("/api", func(r chi.Router) {
			r.Get("/snapshot", dashboardHandler.GetSnapshot)
			r.Get("/kpis", dashboardHandler.GetKPIs)
			r.Get("/views/{view}", dashboardHandler.GetView)
			r.Get("/conversations", dashboardHandler.GetConversations)
			r.Get("/history", historyHandler.GetHistory)
			r.Post("/refresh", dashboardHandler.TriggerRefresh)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop the refresher
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"reino-dashboard"}`)
}
