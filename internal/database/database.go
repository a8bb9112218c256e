// Package database
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/homelabops/inventory/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var (
	instance *pgxpool.Pool
	once     sync.Once
)

func InitDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	var err error
	once.Do(func() {
		var poolCfg *pgxpool.Config
		poolCfg, err = pgxpool.ParseConfig(cfg.Database.GetDSN())
		if err != nil {
			err = fmt.Errorf("failed to parse database config: %w", err)
			return
		}
		if cfg.Database.MaxOpenConns > 0 {
			poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		}
		if cfg.Database.ConnMaxLifetimeMinutes > 0 {
			poolCfg.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute
		}

		instance, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return
		}

		err = instance.Ping(ctx)
	})

	return instance, err
}

// RunMigrations runs all pending database migrations using embedded SQL files.
// The migrations are compiled into the binary and don't require external files.
func RunMigrations() error {
	if instance == nil {
		return fmt.Errorf("database not initialized: call InitDB first")
	}

	// Configure goose to use the embedded filesystem
	goose.SetBaseFS(EmbeddedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	// goose drives a database/sql handle borrowed from the pgx pool
	db := stdlib.OpenDBFromPool(instance)
	defer db.Close()

	// Run migrations from the embedded "migrations" directory
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	return nil
}

func Close() {
	if instance != nil {
		instance.Close()
	}
}
