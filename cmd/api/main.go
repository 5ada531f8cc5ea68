package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"kidsflow/internal/cache"
	"kidsflow/internal/catalog"
	"kidsflow/internal/config"
	"kidsflow/internal/db"
	"kidsflow/internal/gating"
	apihttp "kidsflow/internal/http"
	"kidsflow/internal/llm"
	"kidsflow/internal/service"
	"kidsflow/internal/upstream"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthInterval = 30 * time.Second

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := catalog.Check(); err != nil {
		logger.Fatal("catalog invariants", zap.Error(err))
	}

	store, closeStore := newStore(ctx, cfg, logger)
	defer closeStore()

	backend := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout(), logger)
	profiles := cache.NewProfileSync(logger, store, backend, backend)
	go watchUpstream(ctx, logger, backend, profiles)

	resolver := gating.NewResolver(logger, backend, backend)
	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	if cfg.LLMAPIKey == "" {
		logger.Warn("llm api key not configured, suggestions disabled")
	}

	jwtSvc := service.NewJWTService(cfg.SessionSecret, 0)
	if cfg.SessionSecret == "" {
		logger.Warn("session secret not configured")
	}
	workflowSvc := service.NewWorkflowService(logger, backend)
	profileSvc := service.NewProfileService(logger, profiles, backend, resolver)
	suggestionSvc := service.NewSuggestionService(logger, llmClient, llmClient.DefaultModel(), resolver)
	sessionSvc := service.NewSessionService(logger, suggestionSvc, resolver)

	router := apihttp.NewRouter(
		logger,
		jwtSvc,
		apihttp.NewCatalogHandler(logger),
		apihttp.NewWorkflowHandler(logger, workflowSvc),
		apihttp.NewProfileHandler(logger, profileSvc, suggestionSvc, sessionSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("cache_backend", cfg.CacheBackend))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// newStore elige el backend del cache de perfiles. Si Redis o Postgres no
// responden se usa memoria.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, func()) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		if cfg.RedisAddr == "" {
			logger.Warn("redis cache selected without REDIS_ADDR, using memory")
			break
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using memory", zap.Error(err))
			_ = client.Close()
			break
		}
		return cache.NewRedisStore(client, 0), func() { _ = client.Close() }

	case config.CacheBackendPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Warn("db connect failed, using memory", zap.Error(err))
			break
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Warn("kv_cache schema failed, using memory", zap.Error(err))
			pool.Close()
			break
		}
		return cache.NewPgStore(pool), pool.Close
	}
	return cache.NewMemoryStore(), func() {}
}

// watchUpstream actualiza la conectividad que usa el cache de perfiles.
func watchUpstream(ctx context.Context, logger *zap.Logger, backend *upstream.Client, profiles *cache.ProfileSync) {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()
	for {
		ctxCheck, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := backend.Health(ctxCheck)
		cancel()
		online := err == nil
		if online != profiles.Online() {
			logger.Info("upstream connectivity changed", zap.Bool("online", online), zap.Error(err))
		}
		profiles.SetOnline(online)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
