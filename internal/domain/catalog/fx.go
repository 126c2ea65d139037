// Package catalog contains the catalog domain module
package catalog

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/NewsFlow/services/library-bot/config"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/deps"
	kafkaRepo "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/repository/kafka"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/repository/memory"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/repository/postgres"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/logger"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
)

// Module provides catalog domain components for fx dependency injection
var Module = fx.Module("catalog",
	// Repository
	fx.Provide(provideRepository),
	fx.Provide(kafkaRepo.NewPublisher),

	// UseCase
	fx.Provide(provideUseCase),
	fx.Provide(provideAssembly),
)

func provideRepository(cfg *config.CatalogConfig, db *gorm.DB) deps.Repository {
	if cfg.Storage == config.StorageMemory || db == nil {
		return memory.NewRepository()
	}
	return postgres.NewRepository(db)
}

func provideUseCase(repo deps.Repository, events deps.EventPublisher, m *metrics.Metrics, log zerolog.Logger) *business.UseCase {
	return business.NewUseCase(repo, events, m, logger.Component(log, "catalog"))
}

func provideAssembly(uc *business.UseCase, log zerolog.Logger) *business.Assembly {
	return business.NewAssembly(uc, logger.Component(log, "assembly"))
}
