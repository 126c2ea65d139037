// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/database"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/http"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/kafka"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/logger"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	database.Module,
	kafka.Module,
	telegram.Module,
	http.Module,
)
