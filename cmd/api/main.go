// Package main is the entry point for the API server.
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
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/salesgraph/graphchat-api/internal/auth"
	"github.com/salesgraph/graphchat-api/internal/config"
	"github.com/salesgraph/graphchat-api/internal/events"
	"github.com/salesgraph/graphchat-api/internal/graph"
	"github.com/salesgraph/graphchat-api/internal/handler"
	"github.com/salesgraph/graphchat-api/internal/ingest"
	"github.com/salesgraph/graphchat-api/internal/middleware"
	"github.com/salesgraph/graphchat-api/internal/service"
	"github.com/salesgraph/graphchat-api/internal/store"
	"github.com/salesgraph/graphchat-api/pkg/logger"
	"github.com/salesgraph/graphchat-api/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "graphchat-api", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Relational store
	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		os.Exit(1)
	}

	// Optional event publishing
	var publisher *events.Publisher
	if cfg.EventsEnabled {
		natsClient, err := events.Connect(events.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer natsClient.Close()

		publisher, err = events.NewPublisher(ctx, natsClient, log)
		if err != nil {
			log.Error("failed to create event publisher", zap.Error(err))
			os.Exit(1)
		}
	}

	// Graph query collaborator
	querier, err := newQuerier(cfg)
	if err != nil {
		log.Error("failed to create graph querier", zap.Error(err))
		os.Exit(1)
	}
	log.Info("graph query backend ready", zap.String("provider", querier.Name()))

	// Token service and business services
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)
	authSvc := service.NewAuthService(st, tokens, publisher, log)
	convSvc := service.NewConversationService(st, querier, publisher, log, cfg.GraphQueryTimeout)

	// Handlers
	healthHandler := handler.NewHealthHandler(st)
	authHandler := handler.NewAuthHandler(authSvc, log)
	messageHandler := handler.NewMessageHandler(convSvc, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens))

		r.Get("/auth/profile", authHandler.Profile)
		r.Post("/create-message", messageHandler.Create)
		r.Get("/get-polls", messageHandler.ListPolls)
	})

	r.Get("/get-messages/{poll_id}", messageHandler.List)
	r.Post("/query-v2", messageHandler.Query)

	// Spreadsheet ingest needs a direct graph write endpoint.
	if cfg.GraphCypherURL != "" {
		upserter, err := graph.NewCypherHTTPClient(cfg.GraphCypherURL, cfg.GraphCypherUser, cfg.GraphCypherPass, cfg.GraphQueryTimeout)
		if err != nil {
			log.Error("failed to create graph upsert client", zap.Error(err))
			os.Exit(1)
		}
		ingestHandler := handler.NewIngestHandler(ingest.NewProcessor(upserter, log), log)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens))
			r.Post("/ingest/spreadsheet", ingestHandler.Upload)
		})
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// newQuerier selects the graph query backend: an external chain endpoint
// when configured, otherwise a direct LLM provider.
func newQuerier(cfg *config.Config) (graph.Querier, error) {
	switch {
	case cfg.GraphChainURL != "":
		return graph.NewChainQuerier(cfg.GraphChainURL, cfg.GraphQueryTimeout)
	case cfg.AnthropicAPIKey != "":
		return graph.NewAnthropicQuerier(cfg.AnthropicAPIKey, "")
	case cfg.OpenAIAPIKey != "":
		return graph.NewOpenAIQuerier(cfg.OpenAIAPIKey, "")
	default:
		return nil, fmt.Errorf("no graph query backend configured")
	}
}
