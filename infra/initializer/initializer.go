package initializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/amirasaad/minibank/infra"
	"github.com/amirasaad/minibank/infra/cache"
	infra_eventbus "github.com/amirasaad/minibank/infra/eventbus"
	infra_repository "github.com/amirasaad/minibank/infra/repository"
	"github.com/amirasaad/minibank/infra/repository/memory"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/amirasaad/minibank/pkg/idempotency"
	"github.com/amirasaad/minibank/pkg/lock"
	"github.com/amirasaad/minibank/pkg/repository"
)

// InitializeDependencies initializes all the application dependencies.
// On error every connection opened so far is closed again.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	return initialize(cfg, os.Stdout)
}

func initialize(cfg *config.App, logOut io.Writer) (deps *app.Deps, err error) {
	deps = &app.Deps{Locks: lock.New()}
	logger := setupLogger(cfg.Log, logOut)
	deps.Logger = logger
	defer func() {
		if err != nil {
			for i := len(deps.Closers) - 1; i >= 0; i-- {
				_ = deps.Closers[i].Close()
			}
			deps = nil
		}
	}()

	if deps.Uow, err = initStore(cfg, deps, logger); err != nil {
		logger.Error("Failed to initialize store", "error", err)
		return
	}
	if deps.IdempotencyStore, err = initIdempotency(cfg, deps, logger); err != nil {
		logger.Error("Failed to initialize idempotency store", "error", err)
		return
	}
	if deps.EventBus, err = initEventBus(cfg, deps, logger); err != nil {
		logger.Error("Failed to initialize event bus", "error", err)
		return
	}
	return
}

func initStore(cfg *config.App, deps *app.Deps, logger *slog.Logger) (repository.UnitOfWork, error) {
	if cfg.DB == nil || cfg.DB.Driver == "" || cfg.DB.Driver == config.DriverMemory {
		logger.Info("💾 Using in-memory store")
		return memory.New(), nil
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	deps.Closers = append(deps.Closers, sqlDB)
	logger.Info("💾 Database connected", "driver", cfg.DB.Driver)
	return infra_repository.NewUoW(db), nil
}

func initIdempotency(cfg *config.App, deps *app.Deps, logger *slog.Logger) (idempotency.Store, error) {
	if cfg.Idempotency == nil || cfg.Idempotency.Driver != config.DriverRedis {
		return cache.NewMemoryIdempotencyStore(), nil
	}
	store, err := cache.NewRedisIdempotencyStore(cfg.Redis.URL, cfg.Idempotency.KeyPrefix, logger)
	if err != nil {
		return nil, err
	}
	deps.Closers = append(deps.Closers, store)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis idempotency store: %w", err)
	}
	logger.Info("🔑 Redis idempotency store connected", "prefix", cfg.Idempotency.KeyPrefix)
	return store, nil
}

func initEventBus(cfg *config.App, deps *app.Deps, logger *slog.Logger) (eventbus.Bus, error) {
	driver := config.DriverMemory
	if cfg.EventBus != nil {
		driver = cfg.EventBus.Driver
	}
	switch driver {
	case config.DriverRedis:
		bus, err := infra_eventbus.NewWithRedis(cfg.Redis.URL, infra_eventbus.RedisEventBusConfig{
			StreamPrefix: cfg.EventBus.Stream,
			Group:        cfg.EventBus.Group,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis event bus: %w", err)
		}
		deps.Closers = append(deps.Closers, bus)
		return bus, nil
	case config.DriverKafka:
		bus, err := infra_eventbus.NewWithKafka(cfg.EventBus.KafkaBrokers, logger, &infra_eventbus.KafkaEventBusConfig{
			GroupID:     cfg.EventBus.Group,
			TopicPrefix: cfg.EventBus.KafkaTopic,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}
		deps.Closers = append(deps.Closers, bus)
		return bus, nil
	default:
		return infra_eventbus.NewWithMemory(logger), nil
	}
}
