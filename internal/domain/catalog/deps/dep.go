// Package deps declares what the catalog domain needs from the outside
package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
)

// Repository persists catalog items and their parts
type Repository interface {
	// CreateItem stores item together with parts in one commit.
	// Part ItemIDs are filled in from the new item.
	CreateItem(ctx context.Context, item *entities.Item, parts ...*entities.Part) error
	CreatePart(ctx context.Context, part *entities.Part) error
	GetItem(ctx context.Context, id int64) (*entities.Item, error)
	// ListParts returns parts in insertion order; an empty kind means all kinds
	ListParts(ctx context.Context, itemID int64, kind entities.PayloadKind) ([]entities.Part, error)
	Search(ctx context.Context, query string) ([]entities.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	CountItems(ctx context.Context) (int64, error)
	CountParts(ctx context.Context) (int64, error)
	Latest(ctx context.Context, limit int) ([]entities.Item, error)
	Page(ctx context.Context, offset, limit int) ([]entities.Item, int64, error)
}

// EventPublisher announces catalog changes
type EventPublisher interface {
	PublishItemAdded(ctx context.Context, item *entities.Item, parts int) error
	PublishItemDeleted(ctx context.Context, itemID int64) error
}
