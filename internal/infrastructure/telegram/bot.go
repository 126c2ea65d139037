// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Bot wraps the Telegram bot for infrastructure layer
type Bot struct {
	bot    *tgbot.Bot
	logger zerolog.Logger

	mu       sync.RWMutex
	fallback tgbot.HandlerFunc

	done chan struct{}
}

// NewBot creates a new Telegram bot wrapper. Extra options are appended after the defaults.
func NewBot(token string, logger zerolog.Logger, extra ...tgbot.Option) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	b := &Bot{logger: logger}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(b.handleDefault),
		tgbot.WithErrorsHandler(func(err error) {
			logger.Warn().Err(err).Msg("Telegram polling error")
		}),
	}
	opts = append(opts, extra...)

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = bot

	logger.Info().Msg("Telegram bot created successfully")

	return b, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// SetDefaultHandler installs the handler for updates no registered handler matched
func (b *Bot) SetDefaultHandler(h tgbot.HandlerFunc) {
	b.mu.Lock()
	b.fallback = h
	b.mu.Unlock()
}

func (b *Bot) handleDefault(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	b.mu.RLock()
	h := b.fallback
	b.mu.RUnlock()

	if h == nil {
		b.logger.Debug().Int64("update_id", update.ID).Msg("Update dropped: no default handler")
		return
	}
	h(ctx, bot, update)
}

// Start starts the bot (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// Run starts polling in the background until ctx is done
func (b *Bot) Run(ctx context.Context) {
	b.done = make(chan struct{})
	go func() {
		defer close(b.done)
		_ = b.Start(ctx)
	}()
}

// Running reports whether polling started by Run is still active
func (b *Bot) Running() bool {
	if b.done == nil {
		return false
	}
	select {
	case <-b.done:
		return false
	default:
		return true
	}
}

// Stop waits for polling started by Run to return or ctx to end
func (b *Bot) Stop(ctx context.Context) error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	if b.done == nil {
		return nil
	}
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
