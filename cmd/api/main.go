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

	"github.com/scamshield-ai/honeypot-platform/internal/classifier"
	"github.com/scamshield-ai/honeypot-platform/internal/config"
	"github.com/scamshield-ai/honeypot-platform/internal/engine"
	"github.com/scamshield-ai/honeypot-platform/internal/extract"
	"github.com/scamshield-ai/honeypot-platform/internal/generator"
	"github.com/scamshield-ai/honeypot-platform/internal/handler"
	"github.com/scamshield-ai/honeypot-platform/internal/llm"
	"github.com/scamshield-ai/honeypot-platform/internal/middleware"
	"github.com/scamshield-ai/honeypot-platform/internal/model"
	natsclient "github.com/scamshield-ai/honeypot-platform/internal/nats"
	"github.com/scamshield-ai/honeypot-platform/internal/persona"
	"github.com/scamshield-ai/honeypot-platform/internal/store"
	"github.com/scamshield-ai/honeypot-platform/pkg/logger"
	"github.com/scamshield-ai/honeypot-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "honeypot-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS
	natsClient, err := natsclient.Connect(natsclient.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		log.Error("failed to connect to NATS", zap.Error(err))
		os.Exit(1)
	}
	defer natsClient.Close()

	// Ensure the intel stream exists
	intelPublisher := natsclient.NewIntelPublisher(natsClient)
	if err := intelPublisher.EnsureStream(ctx); err != nil {
		log.Error("failed to ensure intel stream", zap.Error(err))
		os.Exit(1)
	}

	// Session store: ephemeral KV primary, durable Postgres fallback
	kvStore, err := store.NewKVStore(ctx, natsClient.JetStream(), cfg.SessionTTL)
	if err != nil {
		log.Error("failed to create session bucket", zap.Error(err))
		os.Exit(1)
	}

	pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer pgStore.Close()
	if err := pgStore.EnsureSchema(ctx); err != nil {
		log.Error("failed to ensure schema", zap.Error(err))
		os.Exit(1)
	}

	tieredStore := store.NewTiered(kvStore, pgStore, cfg.SessionTTL, log)

	// Initialize LLM client
	var llmClient llm.Client
	if cfg.AnthropicAPIKey != "" {
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		if err != nil {
			log.Warn("failed to create Anthropic client", zap.Error(err))
		}
	} else if cfg.OpenAIAPIKey != "" {
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			log.Warn("failed to create OpenAI client", zap.Error(err))
		}
	}

	// External collaborators: classifier and response generator, with
	// the heuristic classifier as degraded fallback. Without an LLM
	// key the service runs heuristic-only.
	heuristic := classifier.NewHeuristic()
	var primary classifier.Classifier = heuristic
	var gen generator.Generator = templateGenerator{}
	if llmClient != nil {
		primary = classifier.NewLLMClassifier(llmClient, cfg.ClassifierModel)
		gen = generator.NewLLM(llmClient, cfg.GeneratorModel)
	} else {
		log.Warn("no LLM configured, running heuristic-only")
	}

	extractor := extract.New(extract.Config{
		PhoneDigits:      cfg.PhoneDigits,
		PhonePrefix:      cfg.PhonePrefix,
		MinAccountDigits: 9,
		MaxAccountDigits: 18,
	}, nil)

	eng := engine.New(
		tieredStore,
		primary,
		heuristic,
		gen,
		extractor,
		intelPublisher,
		engine.Options{
			MaxTurns:            cfg.MaxTurns,
			EngageThreshold:     cfg.EngageThreshold,
			ConfidenceThreshold: cfg.ConfidenceThreshold,
			BotProbeLimit:       cfg.BotProbeLimit,
			HistoryWindow:       cfg.HistoryWindow,
			Thresholds:          persona.Thresholds{RapportTurns: cfg.RapportTurns, StallTurns: cfg.StallTurns},
			LLMTimeout:          cfg.LLMTimeout,
		},
		log,
	)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(natsClient)
	engageHandler := handler.NewEngageHandler(eng, log)
	sessionHandler := handler.NewSessionHandler(tieredStore, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/engage", engageHandler.Engage)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Get("/intel", sessionHandler.GetIntel)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// templateGenerator always answers with the templated fallback; it
// backs LLM-less deployments.
type templateGenerator struct{}

func (templateGenerator) Generate(_ context.Context, p model.Persona, s model.StrategyPhase, _ []model.Turn) (string, error) {
	return generator.Fallback(p, s), nil
}
