// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/library-bot/config"
	audiencebusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/bot/consts"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/bot/deps"
	broadcastbusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/usecase/business"
	catalogbusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	gatebusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/usecase/business"
	modbusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/moderation/usecase/business"
	retrievalbusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/retrieval/usecase/business"
)

// Cache sizing for per-user conversation state
const (
	QueryCacheSize = 10_000
	QueryTTL       = time.Hour
	PendingSize    = 1_000
	PendingTTL     = 15 * time.Minute
)

// conversation identifies a user inside a chat
type conversation struct {
	Chat int64
	User int64
}

// pendingInput is what an operator's next private message is taken as
type pendingInput int

const (
	pendingChannel pendingInput = iota + 1
	pendingBroadcast
)

// Params holds the Handlers dependencies
type Params struct {
	fx.In

	Responder  deps.Responder
	Catalog    *catalogbusiness.UseCase
	Assembly   *catalogbusiness.Assembly
	Dispatcher *retrievalbusiness.Dispatcher
	Pipeline   *broadcastbusiness.Pipeline
	Gate       *gatebusiness.UseCase
	Audience   *audiencebusiness.UseCase
	Guard      *modbusiness.Guard
	Telegram   *config.TelegramConfig
	Limits     *config.CatalogConfig
	Logger     zerolog.Logger
}

// Handlers contains Telegram update handlers
type Handlers struct {
	responder  deps.Responder
	catalog    *catalogbusiness.UseCase
	assembly   *catalogbusiness.Assembly
	dispatcher *retrievalbusiness.Dispatcher
	pipeline   *broadcastbusiness.Pipeline
	gate       *gatebusiness.UseCase
	audience   *audiencebusiness.UseCase
	guard      *modbusiness.Guard

	isOperator    func(userID int64) bool
	storageChatID int64
	maxFileSize   int64

	// last search query per conversation, for result paging
	queries *expirable.LRU[conversation, string]
	// armed one-shot operator inputs
	pending *expirable.LRU[int64, pendingInput]

	// spawn runs long deliveries off the update goroutine
	spawn  func(func())
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(p Params) *Handlers {
	return &Handlers{
		responder:     p.Responder,
		catalog:       p.Catalog,
		assembly:      p.Assembly,
		dispatcher:    p.Dispatcher,
		pipeline:      p.Pipeline,
		gate:          p.Gate,
		audience:      p.Audience,
		guard:         p.Guard,
		isOperator:    p.Telegram.IsAdmin,
		storageChatID: p.Telegram.StorageChatID,
		maxFileSize:   p.Limits.MaxFileSize(),
		queries:       expirable.NewLRU[conversation, string](QueryCacheSize, nil, QueryTTL),
		pending:       expirable.NewLRU[int64, pendingInput](PendingSize, nil, PendingTTL),
		spawn:         func(f func()) { go f() },
		logger:        p.Logger,
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	userID, chatID := msg.From.ID, msg.Chat.ID

	h.logCommand(userID, "/start", "processing")

	if isGroupChat(msg.Chat.Type) {
		h.touchGroup(ctx, msg.Chat)
		h.reply(ctx, chatID, "📚 Hi! Message me in private to search the library.", nil)
		return
	}

	h.touchSubscriber(ctx, msg.From)
	if h.gated(ctx, userID, chatID) {
		h.logCommand(userID, "/start", "gated")
		return
	}

	text := fmt.Sprintf(`👋 <b>Welcome, %s!</b>

📚 I can find books and audiobooks for you.
Just send me a title or an author name.

/help - how to use the bot`, html.EscapeString(displayName(msg.From)))
	if h.isOperator(userID) {
		text += "\n/admin - operator menu"
	}

	h.reply(ctx, chatID, text, nil)
	h.logCommand(userID, "/start", "success")
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	text := `📚 <b>Help</b>

<b>Search:</b>
Send any part of a title, an author or a description.
Pick a result by its number. Items marked 🧩 come in several files.

<b>Commands:</b>
/start - start the bot
/help - show this help`

	if h.isOperator(msg.From.ID) {
		text += `
/admin - operator menu
/stop - cancel the current upload or broadcast setup`
	}

	h.reply(ctx, msg.Chat.ID, text, nil)
	h.logCommand(msg.From.ID, "/help", "success")
}

// HandleStop handles /stop command: it drops the operator's upload session and armed input
func (h *Handlers) HandleStop(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	userID, chatID := msg.From.ID, msg.Chat.ID

	if !h.isOperator(userID) {
		h.reply(ctx, chatID, "ℹ️ Nothing to stop. Send me a title to search.", nil)
		return
	}

	cancelled := h.assembly.Cancel(userID, chatID)
	if h.pending.Remove(userID) {
		cancelled = true
	}

	if cancelled {
		h.reply(ctx, chatID, "⏹️ Stopped. Already saved files are kept.", adminBackKeyboard())
	} else {
		h.reply(ctx, chatID, "ℹ️ Nothing in progress.", nil)
	}
	h.logCommand(userID, "/stop", "success")
}

// HandleAdmin handles /admin command
func (h *Handlers) HandleAdmin(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !h.isOperator(msg.From.ID) || msg.Chat.Type != consts.ChatTypePrivate {
		h.reply(ctx, msg.Chat.ID, "⛔ This command is for operators only.", nil)
		return
	}

	h.reply(ctx, msg.Chat.ID, adminMenuText, adminMenu())
	h.logCommand(msg.From.ID, "/admin", "success")
}

// HandleMessage handles every message no command handler took
func (h *Handlers) HandleMessage(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	switch {
	case msg.Chat.Type == consts.ChatTypePrivate:
		h.handlePrivate(ctx, msg)
	case isGroupChat(msg.Chat.Type):
		h.handleGroup(ctx, msg)
	}
}

func (h *Handlers) handlePrivate(ctx context.Context, msg *models.Message) {
	h.touchSubscriber(ctx, msg.From)

	if h.isOperator(msg.From.ID) && h.handleOperatorInput(ctx, msg) {
		return
	}

	switch {
	case strings.HasPrefix(msg.Text, "/"):
		h.reply(ctx, msg.Chat.ID, "🤖 Unknown command. Send /help for the list of commands.", nil)
	case strings.TrimSpace(msg.Text) == "":
		h.reply(ctx, msg.Chat.ID, "🔍 Send me a title or an author to search.", nil)
	default:
		h.search(ctx, msg)
	}
}

// handleOperatorInput routes armed inputs and upload sessions; false means the message is an ordinary one
func (h *Handlers) handleOperatorInput(ctx context.Context, msg *models.Message) bool {
	userID := msg.From.ID

	if input, ok := h.pending.Get(userID); ok {
		h.pending.Remove(userID)
		switch input {
		case pendingBroadcast:
			h.startBroadcast(ctx, msg)
		case pendingChannel:
			h.addChannel(ctx, msg)
		}
		return true
	}

	if s, ok := h.assembly.Session(userID, msg.Chat.ID); ok {
		return h.handleSession(ctx, msg, s)
	}
	return false
}

// HandleCallback routes inline button presses
func (h *Handlers) HandleCallback(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	q := callbackFrom(update.CallbackQuery)

	h.logger.Debug().Int64("user_id", q.UserID).Str("data", q.Data).Msg("Callback received")

	ans := h.routeCallback(ctx, q)
	if err := h.responder.AnswerCallback(ctx, q.ID, ans.Text, ans.Alert); err != nil {
		h.logger.Debug().Err(err).Str("data", q.Data).Msg("Failed to answer callback")
	}
}

// answer is the toast shown for a button press
type answer struct {
	Text  string
	Alert bool
}

func alert(text string) answer {
	return answer{Text: text, Alert: true}
}

func (h *Handlers) routeCallback(ctx context.Context, q callback) answer {
	switch {
	case q.Data == chat.CallbackCloseSearch:
		return h.closeSearch(ctx, q)
	case q.Data == chat.CallbackCheckSubscription:
		return h.checkSubscription(ctx, q)
	case strings.HasPrefix(q.Data, chat.CallbackSearchPage):
		return h.searchPage(ctx, q)
	case strings.HasPrefix(q.Data, chat.CallbackSendBook):
		return h.sendBook(ctx, q)
	case strings.HasPrefix(q.Data, chat.CallbackSendParts):
		return h.sendParts(ctx, q)
	case strings.HasPrefix(q.Data, chat.CallbackChannelInfo):
		return h.channelInfo(ctx, q)
	}

	if !h.isOperator(q.UserID) {
		return alert("⛔ Operators only.")
	}
	return h.routeOperatorCallback(ctx, q)
}

func (h *Handlers) reply(ctx context.Context, chatID int64, text string, kb *chat.Keyboard) {
	if _, err := h.responder.Send(ctx, chatID, chat.Text(text, kb)); err != nil {
		h.logger.Error().Int64("chat_id", chatID).Err(err).Msg("Failed to send Telegram response")
	}
}

// show replaces the callback's message, falling back to a new message
func (h *Handlers) show(ctx context.Context, q callback, text string, kb *chat.Keyboard) {
	if q.MessageID != 0 {
		if err := h.responder.EditText(ctx, q.ChatID, q.MessageID, text, kb); err == nil {
			return
		}
	}
	h.reply(ctx, q.ChatID, text, kb)
}

// gated sends the join prompt and reports true when userID has not joined every gating channel
func (h *Handlers) gated(ctx context.Context, userID, chatID int64) bool {
	missing, err := h.gate.Check(ctx, userID)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", userID).Msg("Subscription check failed, letting user through")
		return false
	}
	if len(missing) == 0 {
		return false
	}

	text, kb := h.gate.Prompt(ctx, missing)
	h.reply(ctx, chatID, text, kb)
	return true
}

func (h *Handlers) touchSubscriber(ctx context.Context, u *models.User) {
	// failures are logged by the use case and never block the user
	_ = h.audience.TouchSubscriber(ctx, profileFrom(u))
}

func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Command processed")
}

func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().Int64("user_id", userID).Str("command", command).Err(err).Msg("Command failed")
}

func isGroupChat(t string) bool {
	return t == consts.ChatTypeGroup || t == consts.ChatTypeSupergroup
}
