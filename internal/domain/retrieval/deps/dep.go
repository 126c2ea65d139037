// Package deps declares what the retrieval domain needs from the outside
package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
)

// Catalog reads items and their parts
type Catalog interface {
	Get(ctx context.Context, id int64) (*entities.Item, error)
	// ListParts returns parts in upload order; an empty kind means every kind
	ListParts(ctx context.Context, itemID int64, kind entities.PayloadKind) ([]entities.Part, error)
}
