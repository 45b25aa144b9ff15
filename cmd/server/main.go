package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/ai-interviewer/backend/internal/api"
	"github.com/ai-interviewer/backend/internal/infrastructure/config"
	"github.com/ai-interviewer/backend/internal/interview"
	"github.com/ai-interviewer/backend/internal/llm"
	"github.com/ai-interviewer/backend/internal/service"
	"github.com/ai-interviewer/backend/internal/store"

	_ "github.com/ai-interviewer/backend/docs" // generated swagger docs
)

// @title           AI Interviewer API
// @version         1.0
// @description     Adaptive mock technical interviews — AI-generated questions, scored answers, and difficulty that follows your performance.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	sessions, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open session store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	defer sessions.Close()

	client := llm.New(context.Background(), llm.Config{
		APIKey: cfg.GoogleAPIKey,
		Model:  cfg.GeminiModel,
	}, logger)
	if !client.Configured() {
		logger.Warn("running without a usable API key; AI responses degrade to fallbacks",
			"api_key_status", client.CredentialStatus())
	}

	interviews := service.NewInterviewService(
		sessions,
		client,
		interview.NewGenerator(client),
		interview.NewEvaluator(client, cfg.FeedbackLanguage, logger),
		logger,
	)
	handler := api.NewHandler(interviews, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Session retention sweeper ───────────────────────────────────
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if cfg.SessionTTL > 0 {
		go sweepExpiredSessions(sweeperCtx, sessions, cfg.SessionTTL, logger)
	}

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"store", cfg.StoreBackend,
		"model", cfg.GeminiModel,
		"api_key_status", client.CredentialStatus(),
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemory(), nil
	default:
		return store.NewSQLite(cfg.DBPath)
	}
}

// sweepExpiredSessions deletes sessions older than ttl once an hour.
func sweepExpiredSessions(ctx context.Context, sessions store.Store, ttl time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-ttl)
			n, err := sessions.PurgeBefore(ctx, cutoff)
			if err != nil {
				logger.Error("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired sessions", "count", n, "cutoff", cutoff)
			}
		}
	}
}
