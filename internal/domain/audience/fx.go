// Package audience contains the audience domain module
package audience

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/NewsFlow/services/library-bot/config"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/repository/memory"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/repository/postgres"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/logger"
)

// Module provides audience domain components for fx dependency injection
var Module = fx.Module("audience",
	fx.Provide(provideRepository),
	fx.Provide(provideUseCase),
)

func provideRepository(cfg *config.CatalogConfig, db *gorm.DB) deps.Repository {
	if cfg.Storage == config.StorageMemory || db == nil {
		return memory.NewRepository()
	}
	return postgres.NewRepository(db)
}

func provideUseCase(repo deps.Repository, log zerolog.Logger) *business.UseCase {
	return business.NewUseCase(repo, logger.Component(log, "audience"))
}
