// Package deps declares what the broadcast domain needs from the outside
package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/entities"
)

// EventPublisher announces finished broadcasts
type EventPublisher interface {
	PublishFinished(ctx context.Context, event entities.Finished) error
}
