package http

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/NewsFlow/services/library-bot/config"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/http/server"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/kafka"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/logger"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/telegram"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(NewServerFx),
	fx.Invoke(func(*server.Server) {}),
)

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(
	lc fx.Lifecycle,
	serviceCfg *config.ServiceConfig,
	db *gorm.DB,
	producer *kafka.Producer,
	bot *telegram.Bot,
	log zerolog.Logger,
) *server.Server {
	log = logger.Component(log, "http")
	srv := server.NewServer(serviceCfg, log)

	health := NewHealthHandler(Checks(db, producer, bot), log)
	srv.Router.GET("/health", health.Handle)
	srv.RegisterMetrics()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

// Checks builds the checks for the running components. A nil db means in-memory storage.
func Checks(db *gorm.DB, producer *kafka.Producer, bot *telegram.Bot) []Check {
	checks := []Check{{
		Name: "telegram",
		Run: func(context.Context) error {
			if !bot.Running() {
				return errors.New("bot is not polling")
			}
			return nil
		},
	}}

	if db != nil {
		checks = append(checks, Check{
			Name: "database",
			Run: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		})
	}

	if producer.Enabled() {
		checks = append(checks, Check{
			Name: "kafka",
			Run:  func(context.Context) error { return producer.LastError() },
		})
	}

	return checks
}
