// Package deps declares what the bot delivery needs from the transport
package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
)

// Responder is the outbound transport seen by the handlers
type Responder interface {
	chat.Messenger
	// AnswerCallback acknowledges a button press, optionally with a toast or an alert
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}
