package telegram

import (
	"context"

	"github.com/go-telegram/bot/models"

	audienceentities "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/entities"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/bot/consts"
)

// handleGroup records the group and runs the spam filter; groups get no search
func (h *Handlers) handleGroup(ctx context.Context, msg *models.Message) {
	h.touchGroup(ctx, msg.Chat)

	verdict := h.guard.Inspect(ctx, postFromMessage(msg))
	if verdict.Spam {
		h.logger.Debug().
			Int64("chat_id", msg.Chat.ID).
			Int64("user_id", msg.From.ID).
			Str("reason", string(verdict.Reason)).
			Bool("deleted", verdict.Deleted).
			Msg("Group message flagged")
	}
}

func (h *Handlers) touchGroup(ctx context.Context, c models.Chat) {
	kind := audienceentities.GroupKindGroup
	if c.Type == consts.ChatTypeSupergroup {
		kind = audienceentities.GroupKindSupergroup
	}
	// failures are logged by the use case
	_ = h.audience.TouchGroup(ctx, c.ID, c.Title, kind)
}
