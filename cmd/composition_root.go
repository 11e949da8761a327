package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"meddelivery/internal/adapters/out/blobrepo"
	"meddelivery/internal/adapters/out/kvstore"
	"meddelivery/internal/adapters/out/kvstore/memory"
	"meddelivery/internal/adapters/out/kvstore/redis"
	"meddelivery/internal/adapters/out/kvstore/sqlite"
	"meddelivery/internal/adapters/out/postgres"
	"meddelivery/internal/core/application/ledger"
	"meddelivery/internal/core/domain/model/kernel"
	"meddelivery/internal/core/domain/services"
	"meddelivery/internal/core/ports"
	"meddelivery/internal/jobs"
)

type CompositionRoot struct {
	Ledger     *ledger.Ledger
	JobManager *jobs.JobManager

	closers []func() error
}

// NewCompositionRoot opens the configured store and wires the ledger and jobs.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	grid, err := kernel.NewGrid(cfg.GridWidth, cfg.GridHeight)
	if err != nil {
		return nil, err
	}
	planner, err := services.NewRoutePlanner(grid, cfg.MinutesPerStep, cfg.FallbackEstimatedMinutes, logger)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{}
	uowFactory, err := root.openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	root.Ledger = ledger.New(uowFactory, planner, FuncClock(time.Now), logger)
	root.JobManager = jobs.NewJobManager(root.Ledger, jobs.Schedules{
		Progress:   cfg.ProgressSchedule,
		Statistics: cfg.StatisticsSchedule,
	}, logger)

	logger.InfoContext(ctx, "Composition root ready",
		"store", cfg.StoreDriver,
		"grid", planner.Grid().String(),
	)
	return root, nil
}

func (c *CompositionRoot) openStore(ctx context.Context, cfg Config, logger *slog.Logger) (ports.UnitOfWorkFactory, error) {
	if cfg.StoreDriver == StorePostgres {
		db, err := postgres.Open(ctx, postgres.ConnectionConfig{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSslMode,
		})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, sqlDB.Close)
		return postgres.NewGormUnitOfWorkFactory(db, logger), nil
	}

	codec, err := blobrepo.NewCodec(blobrepo.Format(cfg.BlobCodec), blobrepo.Compression(cfg.BlobCompression))
	if err != nil {
		return nil, err
	}

	var store kvstore.Store
	switch cfg.StoreDriver {
	case StoreSQLite:
		store, err = sqlite.Open(ctx, cfg.SQLitePath)
	case StoreRedis:
		store, err = redis.Dial(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	case StoreMemory:
		store = memory.NewStore()
	default:
		err = fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, store.Close)

	return blobrepo.NewUnitOfWorkFactory(store, codec, logger), nil
}

// Close releases the store connections.
func (c *CompositionRoot) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FuncClock adapts a function such as time.Now to ports.Clock.
type FuncClock func() time.Time

func (f FuncClock) Now() time.Time {
	return f()
}
