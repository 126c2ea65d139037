// Package gate contains the subscription gate domain module
package gate

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/NewsFlow/services/library-bot/config"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/repository/memory"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/repository/postgres"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/logger"
)

// Module provides gate domain components for fx dependency injection.
// deps.Directory is provided by the telegram delivery.
var Module = fx.Module("gate",
	fx.Provide(provideRepository),
	fx.Provide(provideUseCase),
)

func provideRepository(cfg *config.CatalogConfig, db *gorm.DB) deps.Repository {
	if cfg.Storage == config.StorageMemory || db == nil {
		return memory.NewRepository()
	}
	return postgres.NewRepository(db)
}

func provideUseCase(repo deps.Repository, dir deps.Directory, tg *config.TelegramConfig, log zerolog.Logger) *business.UseCase {
	return business.NewUseCase(repo, dir, tg.IsAdmin, logger.Component(log, "gate"))
}
