package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/go-telegram/bot/models"

	catalogentities "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	reterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/retrieval/errors"
	retrievalbusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/retrieval/usecase/business"
	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
)

const noRightsText = "❌ The bot has no rights to send files here. Make it an admin and try again."

func (h *Handlers) search(ctx context.Context, msg *models.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	if h.gated(ctx, userID, chatID) {
		return
	}

	items, err := h.catalog.Search(ctx, msg.Text)
	switch {
	case errors.Is(err, caterrors.ErrQueryTooShort):
		h.reply(ctx, chatID, "🔍 The query is too short. Send a title or an author.", nil)
		return
	case err != nil:
		h.logError(userID, "search", err)
		h.reply(ctx, chatID, "❌ Search failed. Please try again later.", nil)
		return
	}

	if len(items) == 0 {
		h.reply(ctx, chatID, fmt.Sprintf("😔 Nothing found for <b>%s</b>.", html.EscapeString(msg.Text)), nil)
		return
	}

	if len(items) == 1 {
		h.deliver(ctx, userID, chatID, &items[0])
		return
	}

	h.queries.Add(conversation{Chat: chatID, User: userID}, msg.Text)

	results, err := retrievalbusiness.RenderResults(items, 0)
	if err != nil {
		h.logError(userID, "search", err)
		return
	}
	h.reply(ctx, chatID, results.Text, results.Keyboard)

	h.logger.Info().
		Int64("user_id", userID).
		Int("results", len(items)).
		Int("pages", results.Pages).
		Msg("Search results sent")
}

func (h *Handlers) searchPage(ctx context.Context, q callback) answer {
	page, ok := chat.ParsePage(q.Data, chat.CallbackSearchPage)
	if !ok {
		return alert("❌ Invalid request.")
	}

	query, ok := h.queries.Get(conversation{Chat: q.ChatID, User: q.UserID})
	if !ok {
		return alert("⌛ These results have expired. Please search again.")
	}

	items, err := h.catalog.Search(ctx, query)
	if err != nil {
		h.logError(q.UserID, "search_page", err)
		return alert("❌ Search failed. Please try again later.")
	}

	results, err := retrievalbusiness.RenderResults(items, page)
	if errors.Is(err, reterrors.ErrStalePage) {
		return alert("⌛ These results have changed. Please search again.")
	}
	if err != nil {
		h.logError(q.UserID, "search_page", err)
		return alert("❌ Search failed. Please try again later.")
	}

	h.show(ctx, q, results.Text, results.Keyboard)
	return answer{}
}

func (h *Handlers) closeSearch(ctx context.Context, q callback) answer {
	if q.MessageID == 0 {
		return answer{}
	}
	if err := h.responder.Delete(ctx, q.ChatID, q.MessageID); err != nil {
		h.logger.Debug().Err(err).Int64("chat_id", q.ChatID).Msg("Failed to delete search results")
	}
	h.queries.Remove(conversation{Chat: q.ChatID, User: q.UserID})
	return answer{}
}

func (h *Handlers) sendBook(ctx context.Context, q callback) answer {
	id, ok := chat.ParseID(q.Data, chat.CallbackSendBook)
	if !ok {
		return alert("❌ Invalid request.")
	}
	if h.gated(ctx, q.UserID, q.ChatID) {
		return answer{}
	}

	item, err := h.catalog.Get(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFoundError(err) {
			return alert("😔 This item is no longer available.")
		}
		h.logError(q.UserID, "send_book", err)
		return alert("❌ Something went wrong. Please try again later.")
	}

	h.deliver(ctx, q.UserID, q.ChatID, item)
	return answer{Text: "📤 Sending..."}
}

// deliver sends item to chatID and reports failures to the user
func (h *Handlers) deliver(ctx context.Context, userID, chatID int64, item *catalogentities.Item) {
	err := h.dispatcher.Deliver(ctx, item, chatID)
	switch {
	case err == nil:
	case errors.Is(err, reterrors.ErrInsufficientRights):
		h.reply(ctx, chatID, noRightsText, nil)
	case errors.Is(err, reterrors.ErrNoParts):
		h.reply(ctx, chatID, "😔 This item has no files yet.", nil)
	default:
		h.logError(userID, "deliver", err)
		h.reply(ctx, chatID, "❌ Failed to send the file. Please try again later.", nil)
	}
}

func (h *Handlers) sendParts(ctx context.Context, q callback) answer {
	rawKind, id, ok := chat.ParseSendParts(q.Data)
	kind := catalogentities.PayloadKind(rawKind)
	if !ok || !kind.Valid() {
		return alert("❌ Invalid request.")
	}
	if h.gated(ctx, q.UserID, q.ChatID) {
		return answer{}
	}

	item, err := h.catalog.Get(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFoundError(err) {
			return alert("😔 This item is no longer available.")
		}
		h.logError(q.UserID, "send_parts", err)
		return alert("❌ Something went wrong. Please try again later.")
	}

	if q.MessageID != 0 {
		if err := h.responder.Delete(ctx, q.ChatID, q.MessageID); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to delete kind choice")
		}
	}

	// the update context ends with the handler; parts keep streaming after it
	runCtx := context.WithoutCancel(ctx)
	h.spawn(func() {
		_, err := h.dispatcher.DeliverParts(runCtx, item, kind, q.ChatID)
		switch {
		case err == nil, errors.Is(err, reterrors.ErrInsufficientRights):
		case errors.Is(err, reterrors.ErrNoParts):
			h.reply(runCtx, q.ChatID, "😔 There are no files of this kind.", nil)
		default:
			h.logError(q.UserID, "send_parts", err)
		}
	})

	return answer{Text: "📤 Sending files..."}
}

func (h *Handlers) checkSubscription(ctx context.Context, q callback) answer {
	missing, err := h.gate.Check(ctx, q.UserID)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", q.UserID).Msg("Subscription check failed, letting user through")
	}
	if len(missing) > 0 {
		text, kb := h.gate.Prompt(ctx, missing)
		h.show(ctx, q, text, kb)
		return alert("❗ You have not joined every channel yet.")
	}

	h.show(ctx, q, "✅ Thank you! Now send me a title or an author to search.", nil)
	return answer{Text: "✅ Done"}
}

func (h *Handlers) channelInfo(ctx context.Context, q callback) answer {
	id, ok := chat.ParseID(q.Data, chat.CallbackChannelInfo)
	if !ok {
		return alert("❌ Invalid request.")
	}

	ch, err := h.gate.Get(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFoundError(err) {
			return alert("😔 Channel not found.")
		}
		h.logError(q.UserID, "channel_info", err)
		return alert("❌ Something went wrong. Please try again later.")
	}

	text := fmt.Sprintf("📢 <b>%s</b>", html.EscapeString(ch.DisplayName()))
	if ch.Username != "" {
		text += "\n👤 @" + html.EscapeString(ch.Username)
	}

	var rows [][]chat.Button
	if link := h.gate.InviteLink(ctx, ch); link != "" {
		rows = append(rows, []chat.Button{{Text: "➡️ Join", URL: link}})
	} else {
		text += "\n\nNo invite link is available. Ask an administrator for an invite."
	}

	if h.isOperator(q.UserID) {
		text += fmt.Sprintf("\n🆔 <code>%s</code>", html.EscapeString(ch.Target()))
		if !ch.IsActive {
			text += "\n⏸️ Inactive"
		}
		rows = append(rows,
			[]chat.Button{{Text: "🗑️ Delete", Data: chat.DeleteChannel(ch.ID)}},
			[]chat.Button{{Text: "◀️ Back", Data: chat.CallbackAdminChannels}},
		)
	} else {
		rows = append(rows, []chat.Button{{Text: "✅ I've joined", Data: chat.CallbackCheckSubscription}})
	}

	h.show(ctx, q, text, chat.NewKeyboard(rows...))
	return answer{}
}
