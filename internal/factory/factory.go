package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/accountd/accountd/internal/dependencies/clock"
	"github.com/accountd/accountd/internal/dependencies/random"
	"github.com/accountd/accountd/internal/hash"
	"github.com/accountd/accountd/internal/notify"
	"github.com/accountd/accountd/internal/services/account"
	"github.com/accountd/accountd/internal/storage"
	"github.com/accountd/accountd/internal/storage/memory"
	redisstorage "github.com/accountd/accountd/internal/storage/redis"
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
	Clock    clock.Clock
	Random   random.Random
	Hasher   hash.PasswordHasher
	Notifier notify.Notifier

	// Services
	AccountService *account.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AccountConfig holds configuration for the account service (optional)
	// Zero-valued fields fall back to account.DefaultConfig()
	AccountConfig account.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SMTPConfig holds outbound mail settings (optional)
	// If nil, reset emails are logged instead of sent
	SMTPConfig *notify.SMTPConfig
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
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

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()
	hasher := hash.NewArgon2id()

	var notifier notify.Notifier
	if cfg.SMTPConfig != nil {
		notifier = notify.NewSMTPNotifier(*cfg.SMTPConfig)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	return newWithDependencies(store, clk, rnd, hasher, notifier, cfg.AccountConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, hasher hash.PasswordHasher, notifier notify.Notifier, accountCfg account.Config, logger *slog.Logger) *App {
	accountService := account.New(store, hasher, notifier, clk, rnd, accountCfg, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Hasher:         hasher,
		Notifier:       notifier,
		AccountService: accountService,
	}
}
