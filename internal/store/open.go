package store

import (
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/preston-bernstein/game-store-service/internal/config"
	"github.com/preston-bernstein/game-store-service/internal/logging"
	"github.com/preston-bernstein/game-store-service/internal/metrics"
)

// Open builds the Catalog selected by cfg.Driver. Gorm-backed catalogs log
// through logger and report every statement to recorder.
func Open(cfg config.DatabaseConfig, logger *slog.Logger, recorder *metrics.Recorder) (Catalog, error) {
	if cfg.Driver == config.DriverMemory {
		logging.Info(logger, "using in-memory catalog", logging.FieldDriver, cfg.Driver)
		return NewMemoryStore(), nil
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.NewGormLogger(logger, cfg.SlowQuery),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s catalog: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite allows a single writer; in-memory databases also live per connection.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Instrument(db, recorder); err != nil {
		return nil, err
	}

	logging.Info(logger, "catalog opened", logging.FieldDriver, cfg.Driver)
	return NewGormStore(db), nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.ConnectionString), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.ConnectionString), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
