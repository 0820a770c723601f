package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/portfolio/internal/api"
	"github.com/mcoot/portfolio/internal/factory"
	"github.com/mcoot/portfolio/internal/services/profile"
	"github.com/mcoot/portfolio/internal/services/session"
	redisstorage "github.com/mcoot/portfolio/internal/storage/redis"
	"github.com/mcoot/portfolio/internal/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	sessionCfg := session.DefaultConfig()
	if rate := envInt(logger, "FRAME_RATE"); rate > 0 {
		sessionCfg.FrameRate = rate
	}
	if v := os.Getenv("SESSION_IDLE_TIMEOUT"); v != "" {
		idle, err := time.ParseDuration(v)
		if err != nil {
			logger.Warn("ignoring invalid SESSION_IDLE_TIMEOUT", slog.String("value", v))
		} else {
			sessionCfg.IdleTimeout = idle
		}
	}
	cfg.SessionConfig = &sessionCfg

	profileCfg := profileConfig(logger)
	cfg.ProfileConfig = &profileCfg

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	app.SessionController.StartReaper()

	// API routes are registered first so /api/v1 wins over the page routes
	router := mux.NewRouter()
	api.Register(router, api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		ProfileService:    app.ProfileService,
	})
	web.Register(router, web.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		HubManager:        app.HubManager,
		GitHubUsername:    os.Getenv("GITHUB_USERNAME"),
		LeetCodeUsername:  os.Getenv("LEETCODE_USERNAME"),
		StaticDir:         findStaticDir(),
	})

	serverConfig := api.DefaultServerConfig()
	if port := envInt(logger, "PORT"); port > 0 {
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Streams are closed first so Shutdown does not wait on them
		app.HubManager.CloseAll()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
		if err := app.SessionController.Shutdown(context.Background()); err != nil {
			logger.Error("session shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

func profileConfig(logger *slog.Logger) profile.Config {
	cfg := profile.DefaultConfig()
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.BlogToken = os.Getenv("LATEST_BLOG_POST_AUTH_TOKEN")
	if v := os.Getenv("GITHUB_API_URL"); v != "" {
		cfg.GitHubURL = v
	}
	if v := os.Getenv("LEETCODE_API_URL"); v != "" {
		cfg.LeetCodeURL = v
	}
	if v := os.Getenv("BLOG_API_URL"); v != "" {
		cfg.BlogURL = v
	}
	if v := os.Getenv("PROFILE_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			logger.Warn("ignoring invalid PROFILE_CACHE_TTL", slog.String("value", v))
		} else {
			cfg.CacheTTL = ttl
		}
	}
	return cfg
}

// envInt returns 0 when the variable is unset or not a number
func envInt(logger *slog.Logger, key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("ignoring invalid integer", slog.String("key", key), slog.String("value", v))
		return 0
	}
	return n
}

// findStaticDir looks for the static files directory; empty disables /static
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
