// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/bot"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/moderation"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/retrieval"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	catalog.Module,
	audience.Module,
	gate.Module,
	retrieval.Module,
	broadcast.Module,
	moderation.Module,
	bot.Module,
)
