package database

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/NewsFlow/services/library-bot/config"
)

var Module = fx.Module("database",
	fx.Provide(NewDB),
)

// NewDB opens PostgreSQL and migrates it. With the memory catalog it provides a nil *gorm.DB.
func NewDB(
	lc fx.Lifecycle,
	catalogCfg *config.CatalogConfig,
	cfg *config.DatabaseConfig,
	logger zerolog.Logger,
) (*gorm.DB, error) {
	if catalogCfg.Storage == config.StorageMemory {
		logger.Warn().Msg("Catalog storage is in-memory, data will not survive restarts")
		return nil, nil
	}

	db, err := NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	version, err := RunMigrations(db, cfg.Name)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				logger.Error().Err(err).Msg("Failed to get underlying sql.DB")
				return err
			}
			logger.Info().Msg("Closing database connection")
			return sqlDB.Close()
		},
	})

	logger.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("database", cfg.Name).
		Int("max_open_conns", cfg.MaxOpenConns).
		Uint("schema_version", version).
		Msg("Database connected and migrations completed")

	return db, nil
}
