package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot/models"

	bcerrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/errors"
	catalogentities "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	gateentities "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/entities"
	gateerrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/errors"
	retrievalbusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/retrieval/usecase/business"
	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
)

// Operator listings
const (
	LatestLimit    = 10
	DeletePageSize = 8
)

const adminMenuText = "🛠️ <b>Operator menu</b>\n\nChoose an action:"

func adminMenu() *chat.Keyboard {
	return chat.NewKeyboard(
		[]chat.Button{
			{Text: "📊 Statistics", Data: chat.CallbackAdminStats},
			{Text: "📚 Latest items", Data: chat.CallbackAdminBooks},
		},
		[]chat.Button{
			{Text: "➕ Add item", Data: chat.CallbackAdminAddBook},
			{Text: "🗑️ Delete item", Data: chat.CallbackAdminDeleteBook},
		},
		[]chat.Button{
			{Text: "📢 Channels", Data: chat.CallbackAdminChannels},
			{Text: "📨 Broadcast", Data: chat.CallbackAdminBroadcast},
		},
	)
}

func adminBackKeyboard() *chat.Keyboard {
	return chat.NewKeyboard([]chat.Button{{Text: "◀️ Back", Data: chat.CallbackAdminBack}})
}

func (h *Handlers) routeOperatorCallback(ctx context.Context, q callback) answer {
	switch {
	case q.Data == chat.CallbackAdminBack:
		h.show(ctx, q, adminMenuText, adminMenu())
	case q.Data == chat.CallbackAdminStats:
		return h.stats(ctx, q)
	case q.Data == chat.CallbackAdminBooks:
		return h.latest(ctx, q)
	case q.Data == chat.CallbackAdminAddBook:
		h.show(ctx, q, "➕ <b>Add to the catalog</b>\n\nHow do you want to upload?", addMenu())
	case q.Data == chat.CallbackAddSingle:
		h.assembly.BeginSingle(q.UserID, q.ChatID)
		h.show(ctx, q, "📤 Send the file (pdf, docx, xlsx, pptx, mp3, wav, ogg, m4a or flac).\n\n/stop to cancel", nil)
	case q.Data == chat.CallbackAddMultiPart:
		h.assembly.BeginMultiPart(q.UserID, q.ChatID)
		h.show(ctx, q, "🧩 <b>Multi-part item</b>\n\nSend the title first.\n\n/stop to cancel", nil)
	case q.Data == chat.CallbackAutoUpload:
		h.assembly.BeginAuto(q.UserID, q.ChatID)
		h.show(ctx, q, "⚡ <b>Auto upload</b>\n\nSend files one by one. Each becomes an item named after its file (<code>Author - Title.ext</code>).", stopAutoKeyboard())
	case q.Data == chat.CallbackStopAutoUpload:
		return h.stopAuto(ctx, q)
	case q.Data == chat.CallbackFinishMultiPart:
		return h.finishMultiPart(ctx, q)
	case q.Data == chat.CallbackAdminDeleteBook:
		return h.deletePage(ctx, q, 0)
	case strings.HasPrefix(q.Data, chat.CallbackAdminDeletePage):
		page, ok := chat.ParsePage(q.Data, chat.CallbackAdminDeletePage)
		if !ok {
			return alert("❌ Invalid request.")
		}
		return h.deletePage(ctx, q, page)
	case strings.HasPrefix(q.Data, chat.CallbackDeleteBook):
		return h.deleteBook(ctx, q)
	case q.Data == chat.CallbackAdminChannels:
		return h.channels(ctx, q)
	case q.Data == chat.CallbackAdminAddChannel:
		h.pending.Add(q.UserID, pendingChannel)
		h.show(ctx, q, "📢 Send the channel as <code>@username</code>, a t.me link or a numeric id, or forward any post from it.\n\nThe bot must be an admin of the channel.\n\n/stop to cancel", nil)
	case strings.HasPrefix(q.Data, chat.CallbackDeleteChannel):
		return h.deleteChannel(ctx, q)
	case q.Data == chat.CallbackAdminBroadcast:
		if _, ok := h.pipeline.Active(q.UserID); ok {
			return alert("⏳ A broadcast is already running.")
		}
		h.pending.Add(q.UserID, pendingBroadcast)
		h.show(ctx, q, "📨 Send the message to broadcast. Text, photo, video, document, audio, voice, sticker and animation are supported.\n\n/stop to cancel", nil)
	case q.Data == chat.CallbackBroadcastPause:
		_, err := h.pipeline.Pause(ctx, q.UserID)
		return broadcastAnswer(err, "⏸️ Paused")
	case q.Data == chat.CallbackBroadcastResume:
		_, err := h.pipeline.Resume(ctx, q.UserID)
		return broadcastAnswer(err, "▶️ Resumed")
	case q.Data == chat.CallbackBroadcastStop:
		_, err := h.pipeline.Stop(ctx, q.UserID)
		return broadcastAnswer(err, "⏹️ Stopped")
	default:
		return alert("❌ Unknown action.")
	}
	return answer{}
}

func broadcastAnswer(err error, ok string) answer {
	if errors.Is(err, bcerrors.ErrNotRunning) {
		return alert("ℹ️ No active broadcast.")
	}
	if err != nil {
		return alert("❌ " + err.Error())
	}
	return answer{Text: ok}
}

func addMenu() *chat.Keyboard {
	return chat.NewKeyboard(
		[]chat.Button{{Text: "📄 Single file", Data: chat.CallbackAddSingle}},
		[]chat.Button{{Text: "🧩 Multi-part item", Data: chat.CallbackAddMultiPart}},
		[]chat.Button{{Text: "⚡ Auto upload", Data: chat.CallbackAutoUpload}},
		[]chat.Button{{Text: "◀️ Back", Data: chat.CallbackAdminBack}},
	)
}

func stopAutoKeyboard() *chat.Keyboard {
	return chat.NewKeyboard([]chat.Button{{Text: "⏹️ Stop auto upload", Data: chat.CallbackStopAutoUpload}})
}

func finishKeyboard() *chat.Keyboard {
	return chat.NewKeyboard([]chat.Button{{Text: "✅ Finish", Data: chat.CallbackFinishMultiPart}})
}

func (h *Handlers) stats(ctx context.Context, q callback) answer {
	stats, err := h.catalog.Stats(ctx)
	if err != nil {
		h.logError(q.UserID, "admin_stats", err)
		return alert("❌ Failed to load statistics.")
	}
	subscribers, groups, err := h.audience.Counts(ctx)
	if err != nil {
		h.logError(q.UserID, "admin_stats", err)
		return alert("❌ Failed to load statistics.")
	}
	stats.Subscribers, stats.Groups = subscribers, groups

	text := fmt.Sprintf(`📊 <b>Statistics</b>

📚 Items: %d
📎 Files: %d
👥 Subscribers: %d
💬 Groups: %d`, stats.Items, stats.Parts, stats.Subscribers, stats.Groups)

	h.show(ctx, q, text, adminBackKeyboard())
	return answer{}
}

func (h *Handlers) latest(ctx context.Context, q callback) answer {
	items, err := h.catalog.Latest(ctx, LatestLimit)
	if err != nil {
		h.logError(q.UserID, "admin_books", err)
		return alert("❌ Failed to load items.")
	}
	if len(items) == 0 {
		h.show(ctx, q, "📚 The catalog is empty.", adminBackKeyboard())
		return answer{}
	}

	var b strings.Builder
	b.WriteString("📚 <b>Latest items</b>\n\n")
	for i := range items {
		writeItemLine(&b, i+1, &items[i])
	}

	h.show(ctx, q, b.String(), adminBackKeyboard())
	return answer{}
}

func writeItemLine(b *strings.Builder, n int, item *catalogentities.Item) {
	marker := ""
	if item.IsMultiPart {
		marker = " 🧩"
	}
	fmt.Fprintf(b, "%d. <b>%s</b>%s\n   👤 %s · 💾 %s · 📅 %s\n",
		n,
		html.EscapeString(item.Title),
		marker,
		html.EscapeString(item.Author),
		retrievalbusiness.FormatSize(item.FileSize),
		item.CreatedAt.Format("2006-01-02"),
	)
}

func (h *Handlers) deletePage(ctx context.Context, q callback, page int) answer {
	res, err := h.catalog.Page(ctx, page, DeletePageSize)
	if err != nil {
		h.logError(q.UserID, "admin_delete_book", err)
		return alert("❌ Failed to load items.")
	}
	if res.Total == 0 {
		h.show(ctx, q, "📚 The catalog is empty.", adminBackKeyboard())
		return answer{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🗑️ <b>Delete an item</b> (page %d/%d)\n\n", res.Page+1, res.Pages)

	rows := make([][]chat.Button, 0, len(res.Items)+2)
	for i := range res.Items {
		item := &res.Items[i]
		n := res.Page*DeletePageSize + i + 1
		writeItemLine(&b, n, item)
		rows = append(rows, []chat.Button{{
			Text: fmt.Sprintf("🗑️ %d. %s", n, chat.Truncate(item.Title, 40)),
			Data: chat.DeleteBook(item.ID, res.Page),
		}})
	}

	var nav []chat.Button
	if res.Page > 0 {
		nav = append(nav, chat.Button{Text: "◀️", Data: chat.AdminDeletePage(res.Page - 1)})
	}
	if res.Page < res.Pages-1 {
		nav = append(nav, chat.Button{Text: "▶️", Data: chat.AdminDeletePage(res.Page + 1)})
	}
	rows = append(rows, nav, []chat.Button{{Text: "◀️ Back", Data: chat.CallbackAdminBack}})

	h.show(ctx, q, b.String(), chat.NewKeyboard(rows...))
	return answer{}
}

func (h *Handlers) deleteBook(ctx context.Context, q callback) answer {
	id, page, ok := chat.ParseDeleteBook(q.Data)
	if !ok {
		return alert("❌ Invalid request.")
	}

	err := h.catalog.Delete(ctx, id)
	switch {
	case err == nil:
	case pkgerrors.IsNotFoundError(err):
		h.deletePage(ctx, q, page)
		return alert("ℹ️ This item was already deleted.")
	default:
		h.logError(q.UserID, "delete_book", err)
		return alert("❌ Failed to delete the item.")
	}

	h.logger.Info().Int64("operator_id", q.UserID).Int64("item_id", id).Msg("Item deleted by operator")
	h.deletePage(ctx, q, page)
	return answer{Text: "✅ Deleted"}
}

func (h *Handlers) channels(ctx context.Context, q callback) answer {
	list, err := h.gate.Channels(ctx)
	if err != nil {
		h.logError(q.UserID, "admin_channels", err)
		return alert("❌ Failed to load channels.")
	}

	text := "📢 <b>Required channels</b>\n\nUsers must join these channels before searching."
	if len(list) == 0 {
		text = "📢 <b>Required channels</b>\n\nNo channels yet. Everyone can use the bot."
	}

	rows := make([][]chat.Button, 0, len(list)+2)
	for i := range list {
		ch := &list[i]
		rows = append(rows, []chat.Button{{
			Text: "📢 " + chat.Truncate(ch.DisplayName(), 40),
			Data: chat.ChannelInfo(ch.ID),
		}})
	}
	rows = append(rows,
		[]chat.Button{{Text: "➕ Add channel", Data: chat.CallbackAdminAddChannel}},
		[]chat.Button{{Text: "◀️ Back", Data: chat.CallbackAdminBack}},
	)

	h.show(ctx, q, text, chat.NewKeyboard(rows...))
	return answer{}
}

func (h *Handlers) deleteChannel(ctx context.Context, q callback) answer {
	id, ok := chat.ParseID(q.Data, chat.CallbackDeleteChannel)
	if !ok {
		return alert("❌ Invalid request.")
	}

	err := h.gate.Deactivate(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, gateerrors.ErrChannelNotFound), pkgerrors.IsNotFoundError(err):
		return alert("😔 Channel not found.")
	default:
		h.logError(q.UserID, "delete_channel", err)
		return alert("❌ Failed to delete the channel.")
	}

	h.channels(ctx, q)
	return answer{Text: "✅ Channel removed"}
}

func (h *Handlers) stopAuto(ctx context.Context, q callback) answer {
	s, ok := h.assembly.Session(q.UserID, q.ChatID)
	if !ok {
		return alert("ℹ️ Auto upload is not running.")
	}
	h.assembly.Cancel(q.UserID, q.ChatID)

	text := fmt.Sprintf("⏹️ <b>Auto upload stopped</b>\n\n📄 Documents: %d\n🎵 Audio: %d",
		s.Counts[catalogentities.KindDocument], s.Counts[catalogentities.KindAudio])
	h.show(ctx, q, text, adminBackKeyboard())
	return answer{}
}

func (h *Handlers) finishMultiPart(ctx context.Context, q callback) answer {
	s, err := h.assembly.Finish(q.UserID, q.ChatID)
	switch {
	case errors.Is(err, caterrors.ErrNoParts):
		return alert("❗ Upload at least one file first.")
	case errors.Is(err, caterrors.ErrNoSession):
		return alert("ℹ️ No multi-part upload in progress.")
	case err != nil:
		h.logError(q.UserID, "finish_multi_part_book", err)
		return alert("❌ Something went wrong.")
	}

	text := fmt.Sprintf("✅ <b>%s</b> saved\n\n📄 Documents: %d\n🎵 Audio: %d",
		html.EscapeString(s.Title), s.Counts[catalogentities.KindDocument], s.Counts[catalogentities.KindAudio])
	h.show(ctx, q, text, adminBackKeyboard())
	return answer{Text: "✅ Saved"}
}

// startBroadcast takes the armed operator message as broadcast content
func (h *Handlers) startBroadcast(ctx context.Context, msg *models.Message) {
	operator := msg.From.ID

	content, ok := contentFromMessage(msg)
	if !ok {
		h.reply(ctx, msg.Chat.ID, "❌ This message type cannot be broadcast.", adminBackKeyboard())
		return
	}

	recipients, err := h.audience.SubscriberIDs(ctx)
	if err != nil {
		h.logError(operator, "admin_broadcast", err)
		h.reply(ctx, msg.Chat.ID, "❌ Failed to load subscribers.", adminBackKeyboard())
		return
	}

	_, err = h.pipeline.Start(ctx, operator, content, recipients)
	switch {
	case err == nil:
		h.logCommand(operator, "admin_broadcast", "started")
	case errors.Is(err, bcerrors.ErrNoRecipients):
		h.reply(ctx, msg.Chat.ID, "ℹ️ There are no subscribers yet.", adminBackKeyboard())
	case errors.Is(err, bcerrors.ErrAlreadyRunning):
		h.reply(ctx, msg.Chat.ID, "⏳ A broadcast is already running.", nil)
	default:
		h.logError(operator, "admin_broadcast", err)
		h.reply(ctx, msg.Chat.ID, "❌ Failed to start the broadcast.", adminBackKeyboard())
	}
}

// addChannel takes the armed operator message as a channel reference
func (h *Handlers) addChannel(ctx context.Context, msg *models.Message) {
	var ch *gateentities.Channel
	var err error
	if info, ok := forwardedChannel(msg); ok {
		ch, err = h.gate.AddForwardedChannel(ctx, info)
	} else {
		ch, err = h.gate.AddChannel(ctx, msg.Text)
	}

	switch {
	case err == nil:
		h.logCommand(msg.From.ID, "admin_add_channel", "success")
		h.reply(ctx, msg.Chat.ID, fmt.Sprintf("✅ Channel <b>%s</b> added.", html.EscapeString(ch.DisplayName())), channelsKeyboard())
		return
	case errors.Is(err, gateerrors.ErrInviteOnlyLink):
		h.reply(ctx, msg.Chat.ID, "❌ Invite links do not identify a channel. Send @username, a numeric id or forward a post.", channelsKeyboard())
	case errors.Is(err, gateerrors.ErrInvalidChannelRef):
		h.reply(ctx, msg.Chat.ID, "❌ Expected @username, a t.me link or a channel id.", channelsKeyboard())
	case errors.Is(err, gateerrors.ErrNotAChannel):
		h.reply(ctx, msg.Chat.ID, "❌ That chat is not a channel.", channelsKeyboard())
	case pkgerrors.IsNotFoundError(err), pkgerrors.IsPermissionError(err):
		h.reply(ctx, msg.Chat.ID, "❌ Channel not found. Make sure the bot is an admin of the channel.", channelsKeyboard())
	default:
		h.reply(ctx, msg.Chat.ID, "❌ Failed to add the channel.", channelsKeyboard())
	}
	h.logError(msg.From.ID, "admin_add_channel", err)
}

func channelsKeyboard() *chat.Keyboard {
	return chat.NewKeyboard([]chat.Button{{Text: "◀️ Channels", Data: chat.CallbackAdminChannels}})
}
