package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openarcade/chessmind/internal/config"
	"github.com/openarcade/chessmind/internal/engine"
	"github.com/openarcade/chessmind/internal/web"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if level, err := zerolog.ParseLevel(cfg.Development.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Create engine and websocket hub
	eng := engine.New()
	hub := web.NewHub()
	go hub.Run()

	// Create service
	service := web.NewService(eng, cfg, hub)

	// Setup routes
	router := mux.NewRouter()

	// Add CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", service.HealthHandler).Methods("GET")
	api.HandleFunc("/analyze", service.AnalyzeHandler).Methods("POST")
	api.HandleFunc("/move", service.MoveHandler).Methods("POST")
	api.HandleFunc("/difficulties", service.DifficultiesHandler).Methods("GET")
	api.HandleFunc("/ws", service.WebSocketHandler(hub)).Methods("GET")

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting analysis server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start analysis server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func showHelpMessage() {
	fmt.Println(`Chessmind Analysis Server

DESCRIPTION:
    HTTP service around the chessmind search engine. Computes an evaluated
    best move for any position sent as FEN, under per-request depth and
    time constraints, and streams finished analyses to websocket
    spectators grouped by session.

USAGE:
    engined [OPTIONS]

OPTIONS:
    -h, --help    Show this help message

CONFIGURATION:
    Configured via config.yaml in the current directory (or ./config),
    overridable through CHESSMIND_* environment variables.

    Example config.yaml:
        server:
          host: localhost
          port: 8080

        engine:
          max_depth: 8
          max_time_ms: 30000

        development:
          debug: false
          log_level: info

API ENDPOINTS:
    GET  /api/health        - Service health and engine limits
    POST /api/analyze       - Analyze a FEN position
    POST /api/move          - Pick and apply an engine move (opponent mode)
    GET  /api/difficulties  - Named difficulty presets
    GET  /api/ws?session=   - Subscribe to a session's analysis feed

EXAMPLES:
    # Start with default configuration
    engined

    # Analyze the initial position at depth 4
    curl -X POST http://localhost:8080/api/analyze \
      -H "Content-Type: application/json" \
      -d '{"fen": "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "depth": 4, "time_limit_ms": 5000}'`)
}
