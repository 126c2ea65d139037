// Package moderation contains the group moderation domain module
package moderation

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/library-bot/config"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/moderation/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/moderation/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/logger"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
)

// Module provides the spam guard for fx dependency injection
var Module = fx.Module("moderation",
	fx.Provide(business.NewClassifier),
	fx.Provide(provideGuard),
)

func provideGuard(c *business.Classifier, members deps.Members, messenger chat.Messenger, tg *config.TelegramConfig, m *metrics.Metrics, log zerolog.Logger) *business.Guard {
	return business.NewGuard(c, members, messenger, tg.IsAdmin, m, logger.Component(log, "moderation"))
}
