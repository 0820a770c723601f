package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/portfolio/internal/dependencies/clock"
	"github.com/mcoot/portfolio/internal/dependencies/random"
	"github.com/mcoot/portfolio/internal/services/profile"
	"github.com/mcoot/portfolio/internal/services/session"
	"github.com/mcoot/portfolio/internal/storage"
	"github.com/mcoot/portfolio/internal/storage/memory"
	redisstorage "github.com/mcoot/portfolio/internal/storage/redis"
	"github.com/mcoot/portfolio/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	SessionController *session.Controller
	ProfileService    *profile.Service
	HubManager        *sse.HubManager
	Broadcaster       *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SessionConfig controls the game loop (optional)
	// If nil, defaults to session.DefaultConfig()
	SessionConfig *session.Config
	// ProfileConfig holds upstream endpoints and tokens (optional)
	// If nil, defaults to profile.DefaultConfig()
	ProfileConfig *profile.Config
	// HTTPClient is used for upstream requests (optional)
	HTTPClient *http.Client
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(clk)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	sessionCfg := session.DefaultConfig()
	if cfg.SessionConfig != nil {
		sessionCfg = *cfg.SessionConfig
	}
	profileCfg := profile.DefaultConfig()
	if cfg.ProfileConfig != nil {
		profileCfg = *cfg.ProfileConfig
	}

	return newWithDependencies(store, clk, rnd, sessionCfg, profileCfg, cfg.HTTPClient, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	sessionCfg session.Config,
	profileCfg profile.Config,
	httpClient *http.Client,
	logger *slog.Logger,
) *App {
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	sessionController := session.NewController(store, clk, rnd, broadcaster, sessionCfg, logger)
	profileService := profile.New(store, httpClient, profileCfg, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		SessionController: sessionController,
		ProfileService:    profileService,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
	}
}
