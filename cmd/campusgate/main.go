package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/config"
	"github.com/campusgate/campusgate/internal/db/postgres"
	dbRedis "github.com/campusgate/campusgate/internal/db/redis"
	"github.com/campusgate/campusgate/internal/keywords"
	logpkg "github.com/campusgate/campusgate/internal/logger"
	"github.com/campusgate/campusgate/internal/metrics"
	"github.com/campusgate/campusgate/internal/repository/configstore"
	"github.com/campusgate/campusgate/internal/repository/querylog"
	"github.com/campusgate/campusgate/internal/repository/textsearch"
	"github.com/campusgate/campusgate/internal/repository/vectorsearch"
	chiTransport "github.com/campusgate/campusgate/internal/transport/chi"
	geminiLLM "github.com/campusgate/campusgate/internal/transport/gemini"
	openaiLLM "github.com/campusgate/campusgate/internal/transport/openai"
	answeruc "github.com/campusgate/campusgate/internal/usecase/answer"
	gateuc "github.com/campusgate/campusgate/internal/usecase/gate"
	healthuc "github.com/campusgate/campusgate/internal/usecase/health"
	pipelineuc "github.com/campusgate/campusgate/internal/usecase/pipeline"
	"github.com/campusgate/campusgate/internal/usecase/retrieval"
	"github.com/campusgate/campusgate/internal/version"
)

func main() {
	// .env is optional; real deployments pass env vars directly.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting campusgate API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("search_addrs", cfg.Database.Addrs),
		zap.String("completion_provider", cfg.LLM.Completion.Provider),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	ctx := context.Background()

	// Search store (Redis with RediSearch)
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create search store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search store not ready", zap.Error(err))
	}
	logger.Info("Connected to search store")

	// Configuration and query-log store (Postgres)
	if cfg.ConfigDB.DSN == "" {
		logger.Fatal("config_db.dsn is required")
	}
	configDB, err := postgres.NewDB(ctx, cfg.ConfigDB.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to config database", zap.Error(err))
	}
	defer configDB.Close()

	// Schema creation is idempotent; a read-only replica makes it fail, which
	// is fine as long as the tables already exist.
	if err := configDB.InitSchema(ctx); err != nil {
		logger.Warn("Config database schema init failed", zap.Error(err))
	}
	logger.Info("Connected to config database")

	// Repositories
	keywordRepo := textsearch.New(store, cfg.Search.KeywordIndex)
	vectorRepo := vectorsearch.New(store, cfg.Search.VectorIndex)
	configRepo := configstore.New(configDB)
	logRepo := querylog.New(configDB)

	// Embedding provider
	embedder := openaiLLM.NewEmbedder(&openaiLLM.EmbedderConfig{
		APIKey:     cfg.LLM.Embedding.APIKey,
		BaseURL:    cfg.LLM.Embedding.BaseURL,
		Model:      cfg.LLM.Embedding.Model,
		Dimensions: cfg.LLM.Embedding.Dimensions,
		Logger:     logger,
	})

	// Completion provider
	completer, closeCompleter, err := buildCompleter(ctx, cfg.LLM.Completion, logger)
	if err != nil {
		logger.Fatal("Failed to create completion provider", zap.Error(err))
	}
	defer closeCompleter()

	// Evidence builder
	stopwords := keywords.LoadStopwords(cfg.Search.StopwordsPath, cfg.Search.DomainStopwords)
	extractor := keywords.NewExtractor(stopwords)

	scoring := retrieval.Scoring{
		RootDomain:   cfg.Search.RootDomain,
		DomainDeltas: cfg.Search.DomainBoosts,
	}
	keywordSearcher := retrieval.NewKeywordSearcher(keywordRepo, cfg.Search.KeywordMaxHits, logger)
	vectorSearcher := retrieval.NewVectorSearcher(vectorRepo, embedder, scoring, cfg.Search.VectorMaxHits, logger)
	builder := retrieval.NewBuilder(extractor, keywordSearcher, vectorSearcher, cfg.Search.MaxKeywords, logger).
		WithTimeout(time.Duration(cfg.Search.TimeoutSec) * time.Second)

	// Validation pipeline
	primaryGate := gateuc.NewPrimary(configRepo, completer, logger)
	blacklistGate := gateuc.NewBlacklist(configRepo, completer, logger)
	answerAgent := answeruc.New(configRepo, completer, logger)

	pipelineSvc := pipelineuc.New(
		builder, primaryGate, blacklistGate, answerAgent, logRepo, configRepo, logger,
	)

	healthSvc := healthuc.New(store, configDB, embedder)

	server := chiTransport.NewServer(pipelineSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// completer is the union of the gate and answer provider contracts.
type completer interface {
	gateuc.Completer
	answeruc.Completer
}

// buildCompleter selects the completion provider. The returned func releases
// provider resources and is always safe to call.
func buildCompleter(
	ctx context.Context, cfg config.CompletionConfig, logger *zap.Logger,
) (completer, func(), error) {
	switch cfg.Provider {
	case "gemini":
		c, err := geminiLLM.NewCompleter(ctx, &geminiLLM.Config{
			APIKey: cfg.APIKey,
			Logger: logger,
		})
		if err != nil {
			return nil, func() {}, fmt.Errorf("gemini completer: %w", err)
		}
		return c, func() { _ = c.Close() }, nil
	default:
		c := openaiLLM.NewCompleter(&openaiLLM.CompleterConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		return c, func() {}, nil
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
