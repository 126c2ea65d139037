// Package broadcast contains the broadcast domain module
package broadcast

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/deps"
	kafkaRepo "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/repository/kafka"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/logger"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
)

// Module provides the broadcast pipeline for fx dependency injection
var Module = fx.Module("broadcast",
	fx.Provide(kafkaRepo.NewPublisher),
	fx.Provide(providePipeline),
)

func providePipeline(lc fx.Lifecycle, messenger chat.Messenger, events deps.EventPublisher, m *metrics.Metrics, log zerolog.Logger) *business.Pipeline {
	pipeline := business.NewPipeline(messenger, events, m, logger.Component(log, "broadcast"))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return pipeline.Shutdown(ctx)
		},
	})

	return pipeline
}
