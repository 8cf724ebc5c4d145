// Package initializer builds the infrastructure the application runs on from
// configuration: the logger, storage, the token whitelist, the event bus and
// the category taxonomy.
package initializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/saveblue/saveblue/infra"
	"github.com/saveblue/saveblue/infra/cache"
	infra_eventbus "github.com/saveblue/saveblue/infra/eventbus"
	infra_repository "github.com/saveblue/saveblue/infra/repository"
	"github.com/saveblue/saveblue/infra/repository/memory"
	"github.com/saveblue/saveblue/pkg/app"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/domain/category"
	"github.com/saveblue/saveblue/pkg/eventbus"
	"github.com/saveblue/saveblue/pkg/repository"
	"gorm.io/gorm"
)

// Resources holds what InitializeDependencies opened. Close releases it.
type Resources struct {
	DB      *gorm.DB
	closers []io.Closer
}

// Close releases every connection in reverse order of opening.
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// InitializeDependencies initializes all the application dependencies.
func InitializeDependencies(cfg *config.App) (_ *app.Deps, _ *Resources, err error) {
	res := &Resources{}
	defer func() {
		if err != nil {
			_ = res.Close()
		}
	}()

	deps := &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	deps.Taxonomy, err = category.Load(cfg.Taxonomy.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load category taxonomy: %w", err)
	}

	deps.Uow, res.DB, err = initStorage(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if res.DB != nil {
		db := res.DB
		res.closers = append(res.closers, closerFunc(func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}))
	}

	var tokensCloser io.Closer
	deps.Tokens, tokensCloser, err = initWhitelist(cfg, res.DB, logger)
	if err != nil {
		return nil, nil, err
	}
	if tokensCloser != nil {
		res.closers = append(res.closers, tokensCloser)
	}

	deps.EventBus, err = initEventBus(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := deps.EventBus.(io.Closer); ok {
		res.closers = append(res.closers, c)
	}

	return deps, res, nil
}

// OpenDatabase connects to the configured SQL database. The memory driver has
// no database and returns nil.
func OpenDatabase(cfg *config.App) (*gorm.DB, error) {
	if cfg.DB.Driver == "memory" {
		return nil, nil
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema of every persisted table.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return infra_repository.Migrate(db)
}

func initStorage(cfg *config.App, logger *slog.Logger) (repository.UnitOfWork, *gorm.DB, error) {
	db, err := OpenDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	if db == nil {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewStore(), nil, nil
	}
	// SQLite databases are usually throwaway files, so they are migrated on
	// open. Postgres schemas are changed with the migrate command.
	if cfg.DB.Driver == "sqlite" {
		if err := Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
	}
	logger.Info("Database initialized", "driver", cfg.DB.Driver)
	return infra_repository.NewUoW(db), db, nil
}

func initWhitelist(cfg *config.App, db *gorm.DB, logger *slog.Logger) (repository.TokenStore, io.Closer, error) {
	switch cfg.Whitelist.Driver {
	case "", "database":
		if db == nil {
			logger.Warn("Database whitelist requested without a database, using memory whitelist")
			return memory.NewTokenStore(), nil, nil
		}
		return infra_repository.NewTokenStore(db), nil, nil
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis whitelist: %w", err)
		}
		wl := cache.NewRedisWhitelist(client, cfg.Redis.KeyPrefix, cfg.Whitelist.TTL, logger)
		logger.Info("Redis whitelist initialized", "prefix", cfg.Redis.KeyPrefix)
		return wl, wl, nil
	case "memory":
		return memory.NewTokenStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported whitelist driver %q", cfg.Whitelist.Driver)
	}
}

func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	switch cfg.Events.Driver {
	case "", "memory":
		return infra_eventbus.NewWithMemory(logger), nil
	case "kafka":
		bus, err := infra_eventbus.NewWithKafka(infra_eventbus.KafkaConfig{
			Brokers:      cfg.Events.KafkaBrokers,
			Topic:        cfg.Events.KafkaTopic,
			SASLUsername: cfg.Events.SASLUsername,
			SASLPassword: cfg.Events.SASLPassword,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", cfg.Events.Driver)
	}
}
