package telegram

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/bot/consts"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers command and callback handlers on the bot.
// Everything else reaches Default.
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandlerMatchFunc(matchCommand(consts.CommandStart), r.handlers.HandleStart)
	bot.RegisterHandlerMatchFunc(matchCommand(consts.CommandHelp), r.handlers.HandleHelp)
	bot.RegisterHandlerMatchFunc(matchCommand(consts.CommandStop), r.handlers.HandleStop)
	bot.RegisterHandlerMatchFunc(matchCommand(consts.CommandAdmin), r.handlers.HandleAdmin)

	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "", tgbot.MatchTypePrefix, r.handlers.HandleCallback)

	r.logger.Info().Int("commands", len(consts.AllCommands)).Msg("All Telegram handlers registered successfully")
}

// Default handles updates no registered handler matched
func (r *Router) Default(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	r.handlers.HandleMessage(ctx, bot, update)
}

// PublishCommands sets the command menu shown by Telegram clients
func (r *Router) PublishCommands(ctx context.Context, bot *tgbot.Bot) error {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, c := range consts.AllCommands {
		commands = append(commands, models.BotCommand{Command: c.Name, Description: c.Description})
	}

	if _, err := bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands}); err != nil {
		return err
	}
	r.logger.Info().Int("commands", len(commands)).Msg("Bot commands published")
	return nil
}

func matchCommand(c consts.Command) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		return commandName(update.Message.Text) == c.Name
	}
}

// commandName returns "start" for "/start", "/start@LibraryBot" and "/start payload"
func commandName(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	word, _, _ := strings.Cut(text[1:], " ")
	word, _, _ = strings.Cut(word, "@")
	word, _, _ = strings.Cut(word, "\n")
	return strings.ToLower(word)
}
