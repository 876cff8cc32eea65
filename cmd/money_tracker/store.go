package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/money_tracker/internal/platform/config"
	"github.com/SscSPs/money_tracker/internal/repositories/database/pgsql"
	"github.com/SscSPs/money_tracker/internal/repositories/database/sqlite"
	"github.com/SscSPs/money_tracker/pkg/database"
)

// store is an opened backend: the repositories, the *sql.DB migrations run on, and how to release both.
type store struct {
	repos   portsrepo.RepositoryProvider
	sqlDB   *sql.DB
	driver  string
	closeFn func()
}

func (s *store) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// openStore connects to the backend selected by cfg.DBDriver.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		// golang-migrate needs a database/sql handle; it shares the pgx driver with the pool.
		migrationDB, err := database.OpenPgxStdlib(ctx, cfg.DatabaseURL)
		if err != nil {
			database.ClosePgxPool(pool)
			return nil, fmt.Errorf("failed to open database connection for migrations: %w", err)
		}
		logger.Info("Database connection pool established.", slog.String("driver", cfg.DBDriver))
		return &store{
			repos:  pgsql.NewRepositoryProvider(pool),
			sqlDB:  migrationDB,
			driver: config.DriverPostgres,
			closeFn: func() {
				if err := migrationDB.Close(); err != nil {
					logger.Error("Error closing migration DB connection", slog.String("error", err.Error()))
				}
				database.ClosePgxPool(pool)
			},
		}, nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		logger.Info("SQLite database opened.", slog.String("path", cfg.SQLitePath))
		return &store{
			repos:  sqlite.NewRepositoryProvider(db),
			sqlDB:  db,
			driver: config.DriverSQLite,
			closeFn: func() {
				if err := db.Close(); err != nil {
					logger.Error("Error closing sqlite database", slog.String("error", err.Error()))
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}
