// Package bot contains the bot domain module
package bot

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	telegramDelivery "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/bot/delivery/telegram"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/bot/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	gatedeps "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/deps"
	moddeps "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/moderation/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/logger"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/telegram"
)

// Module provides bot domain components for fx dependency injection.
// The Sender is the transport port every other domain depends on.
var Module = fx.Module("bot",
	fx.Provide(
		fx.Annotate(
			provideSender,
			fx.As(new(deps.Responder)),
			fx.As(new(chat.Messenger)),
			fx.As(new(gatedeps.Directory)),
			fx.As(new(moddeps.Members)),
		),
	),

	// Delivery - Telegram
	fx.Provide(telegramDelivery.NewHandlers),
	fx.Provide(provideRouter),

	fx.Invoke(registerRoutes),
)

func provideSender(bot *telegram.Bot, log zerolog.Logger) *telegramDelivery.Sender {
	return telegramDelivery.NewSender(bot.Raw(), logger.Component(log, "telegram-sender"))
}

func provideRouter(handlers *telegramDelivery.Handlers, log zerolog.Logger) *telegramDelivery.Router {
	return telegramDelivery.NewRouter(handlers, logger.Component(log, "router"))
}

// registerRoutes attaches handlers before polling starts and publishes the command menu
func registerRoutes(lc fx.Lifecycle, router *telegramDelivery.Router, bot *telegram.Bot, log zerolog.Logger) {
	router.RegisterRoutes(bot.Raw())
	bot.SetDefaultHandler(router.Default)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := router.PublishCommands(ctx, bot.Raw()); err != nil {
				log.Warn().Err(err).Msg("Failed to publish bot commands")
			}
			return nil
		},
	})
}
