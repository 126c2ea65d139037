// Package deps declares what the moderation domain needs from the outside
package deps

import "context"

// Members answers group permission questions
type Members interface {
	IsGroupAdmin(ctx context.Context, chatID, userID int64) (bool, error)
	// CanDeleteMessages reports whether the bot may delete other members' messages
	CanDeleteMessages(ctx context.Context, chatID int64) (bool, error)
}
