// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/library-bot/config"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, storage, events, telegram bot, http)
		infrastructure.Module,

		// Domain (catalog, retrieval, broadcast, gate, moderation, bot delivery)
		domain.Module,
	)
}
