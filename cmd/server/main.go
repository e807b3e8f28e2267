package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/Pavan-folder/Chatbot-contentstack/internal/analytics"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/chat"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/config"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/contentstack"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/mock"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/provider"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/server"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/telemetry"
	"github.com/Pavan-folder/Chatbot-contentstack/internal/tokens"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.InitTracer("chat-agent-platform", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := analytics.NewStore(cfg.Analytics.Path)
	if err != nil {
		log.Fatalf("Failed to open analytics store: %v", err)
	}
	defer store.Close()

	recorder := analytics.NewRecorder(store, cfg.Analytics.QueueSize, logger)
	defer recorder.Close()

	registry := provider.NewRegistry(cfg)
	content := contentstack.NewService(cfg.Contentstack, logger)
	responder := mock.NewResponder(time.Duration(cfg.Chat.MockPacingMS) * time.Millisecond)
	counter := tokens.NewCounter()

	handler := chat.NewHandler(cfg, registry, content, recorder, responder, counter, logger)

	srv := server.New(cfg.Server.Port, logger)
	chatLimiter := server.NewRateLimiter(cfg.Chat.RateLimitPerMinute)

	// The chat stream has no overall deadline; only the bounded endpoints
	// get the cooperative timeout.
	srv.Router.Group(func(r chi.Router) {
		r.Use(server.WithTimeout(30 * time.Second))
		r.Get("/health", handler.Health)
		r.Get("/providers", handler.GetProviders)
		r.Post("/test-provider", handler.TestProvider)
		r.Post("/search-content", handler.SearchContent)
		r.Get("/stats", handler.GetStats)
		r.Get("/analytics", handler.GetAnalytics)
	})

	srv.Router.Group(func(r chi.Router) {
		r.Use(chatLimiter.Middleware)
		r.Post("/chat", handler.HandleChat)
	})

	logger.Info("configuration loaded",
		slog.String("defaultProvider", cfg.Chat.DefaultProvider),
		slog.Bool("freeMode", cfg.Chat.FreeMode),
		slog.String("analyticsPath", cfg.Analytics.Path),
		slog.Bool("contentstackConfigured", content.IsConfigured()))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router,
	}

	go func() {
		logger.Info("server listening", slog.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, draining...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
