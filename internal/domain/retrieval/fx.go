// Package retrieval contains the retrieval domain module
package retrieval

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	catalogbusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/retrieval/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/logger"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
)

// Module provides the retrieval dispatcher for fx dependency injection
var Module = fx.Module("retrieval",
	fx.Provide(provideDispatcher),
)

func provideDispatcher(catalog *catalogbusiness.UseCase, messenger chat.Messenger, m *metrics.Metrics, log zerolog.Logger) *business.Dispatcher {
	return business.NewDispatcher(catalog, messenger, m, logger.Component(log, "retrieval"))
}
