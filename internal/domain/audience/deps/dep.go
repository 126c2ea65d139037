// Package deps declares what the audience domain needs from the outside
package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/entities"
)

// Repository stores subscribers and groups. Records are never deleted.
type Repository interface {
	// UpsertSubscriber inserts or refreshes s; FirstSeenAt of an existing row is kept
	UpsertSubscriber(ctx context.Context, s *entities.Subscriber) error
	// UpsertGroup inserts or refreshes g and marks it active; FirstSeenAt of an existing row is kept
	UpsertGroup(ctx context.Context, g *entities.Group) error
	SubscriberIDs(ctx context.Context) ([]int64, error)
	ActiveGroupIDs(ctx context.Context) ([]int64, error)
	CountSubscribers(ctx context.Context) (int64, error)
	CountActiveGroups(ctx context.Context) (int64, error)
}
