package config

import (
	"fmt"
	"log/slog"
	"sync"

	"membergate/stores"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

var (
	DB *gorm.DB

	dbOnce sync.Once
	dbErr  error
)

// ConnectDB opens and migrates the database once per process. Later calls
// return the same handle, or the same error.
func ConnectDB(cfg *Config, logger *slog.Logger) (*gorm.DB, error) {
	dbOnce.Do(func() {
		DB, dbErr = openDB(cfg)
		if dbErr != nil {
			return
		}
		if dbErr = stores.Migrate(DB); dbErr != nil {
			return
		}
		logger.Info("connected to database", "driver", cfg.DBDriver)
	})
	return DB, dbErr
}

func openDB(cfg *Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case DriverSQLite:
		db, err = stores.OpenSQLite(cfg.DBDSN)
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
			Logger:         gormlogger.Discard,
			TranslateError: true,
		})
	default:
		err = fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("fail to connect to db: %w", err)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("enable db tracing: %w", err)
	}
	return db, nil
}
