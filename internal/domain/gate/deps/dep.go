// Package deps declares what the gate domain needs from the outside
package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/entities"
)

// Repository stores gating channels
type Repository interface {
	// Upsert inserts ch or refreshes and reactivates the row with the same Ref; ch.ID is set
	Upsert(ctx context.Context, ch *entities.Channel) error
	Get(ctx context.Context, id int64) (*entities.Channel, error)
	ListActive(ctx context.Context) ([]entities.Channel, error)
	Deactivate(ctx context.Context, id int64) error
	SetInviteLink(ctx context.Context, id int64, link string) error
}

// Directory answers questions about chats from the transport.
// Chat references are "@username" or a numeric chat id.
type Directory interface {
	GetChat(ctx context.Context, ref string) (*entities.ChatInfo, error)
	MemberStatus(ctx context.Context, ref string, userID int64) (string, error)
	// InviteLink exports the primary invite link, creating a new one when export is refused
	InviteLink(ctx context.Context, ref string) (string, error)
}
