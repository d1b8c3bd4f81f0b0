package app

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"notedeck/internal/cache"
	"notedeck/internal/config"
	"notedeck/internal/logger"
	"notedeck/internal/pipeline"
)

// Deps bundles common runtime dependencies for the service.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Cache    cache.Cache
	Pipeline pipeline.Runner
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}

	return Deps{
		Config:   cfg,
		Log:      log,
		Cache:    c,
		Pipeline: pipeline.New(log, c, cfg.CacheTTL),
	}, nil
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "none", "":
		return cache.NewNoOpCache(), nil
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		log.Info("using Redis completion cache", "addr", cfg.RedisAddr)
		return c, nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: none, redis)", cfg.CacheProvider)
	}
}
