package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot/models"

	catalogentities "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
	catalogbusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
)

// handleSession feeds an operator message to the upload session. Commands are left to the router.
func (h *Handlers) handleSession(ctx context.Context, msg *models.Message, s catalogbusiness.Session) bool {
	if file, ok := fileFromMessage(msg); ok {
		h.acceptFile(ctx, msg, s, file)
		return true
	}

	if strings.HasPrefix(msg.Text, "/") {
		return false
	}

	if msg.Text == "" {
		h.reply(ctx, msg.Chat.ID, stageHint(s.Stage), nil)
		return true
	}

	h.acceptText(ctx, msg, s)
	return true
}

func (h *Handlers) acceptFile(ctx context.Context, msg *models.Message, s catalogbusiness.Session, file incomingFile) {
	operator, chatID := msg.From.ID, msg.Chat.ID

	switch s.Stage {
	case catalogbusiness.StageCollectingParts, catalogbusiness.StageAwaitingFile, catalogbusiness.StageAutoUpload:
	default:
		h.reply(ctx, chatID, stageHint(s.Stage), nil)
		return
	}

	kind, err := catalogbusiness.ValidateUpload(file.FileName, file.Size, h.maxFileSize)
	switch {
	case errors.Is(err, caterrors.ErrUnsupportedFile):
		h.reply(ctx, chatID, "❌ Unsupported file type. Allowed: pdf, docx, xlsx, pptx, mp3, wav, ogg, m4a, flac.", nil)
		return
	case errors.Is(err, caterrors.ErrFileTooLarge):
		h.reply(ctx, chatID, fmt.Sprintf("❌ The file is too large. The limit is %d MB.", h.maxFileSize/(1024*1024)), nil)
		return
	case err != nil:
		h.reply(ctx, chatID, "❌ "+html.EscapeString(err.Error()), nil)
		return
	}

	storedID, err := h.responder.Copy(ctx, h.storageChatID, chat.Origin{ChatID: chatID, MessageID: msg.ID}, "")
	if err != nil {
		h.logError(operator, "upload", err)
		h.reply(ctx, chatID, "❌ Failed to save the file to storage. Check that the bot can post in the storage chat.", nil)
		return
	}

	res, err := h.assembly.Accept(ctx, operator, chatID, catalogentities.Upload{
		FileID:           file.FileID,
		FileName:         file.FileName,
		Kind:             kind,
		FileSize:         file.Size,
		StorageChatID:    h.storageChatID,
		StorageMessageID: storedID,
	})
	if err != nil {
		h.sessionError(ctx, operator, chatID, s.Stage, err)
		return
	}

	switch s.Stage {
	case catalogbusiness.StageCollectingParts:
		total := res.Session.Counts[catalogentities.KindDocument] + res.Session.Counts[catalogentities.KindAudio]
		h.reply(ctx, chatID, fmt.Sprintf("✅ Part %d saved: <code>%s</code>\n\n📄 Documents: %d\n🎵 Audio: %d\n\nSend more files or press Finish.",
			total,
			html.EscapeString(file.FileName),
			res.Session.Counts[catalogentities.KindDocument],
			res.Session.Counts[catalogentities.KindAudio],
		), finishKeyboard())

	case catalogbusiness.StageAwaitingFile:
		title, _ := catalogbusiness.ExtractTitleAuthor(file.FileName)
		h.reply(ctx, chatID, fmt.Sprintf("✅ File received.\n\n✏️ Now send the title.\nSuggested: <code>%s</code>", html.EscapeString(title)), nil)

	case catalogbusiness.StageAutoUpload:
		if res.Item == nil {
			return
		}
		h.reply(ctx, chatID, fmt.Sprintf("✅ Added: <b>%s</b>\n👤 %s\n\n📄 Documents: %d · 🎵 Audio: %d",
			html.EscapeString(res.Item.Title),
			html.EscapeString(res.Item.Author),
			res.Session.Counts[catalogentities.KindDocument],
			res.Session.Counts[catalogentities.KindAudio],
		), stopAutoKeyboard())
	}
}

func (h *Handlers) acceptText(ctx context.Context, msg *models.Message, s catalogbusiness.Session) {
	operator, chatID := msg.From.ID, msg.Chat.ID

	res, err := h.assembly.SubmitText(ctx, operator, chatID, msg.Text)
	if err != nil {
		h.sessionError(ctx, operator, chatID, s.Stage, err)
		return
	}

	switch s.Stage {
	case catalogbusiness.StageCollectingTitle:
		h.reply(ctx, chatID, fmt.Sprintf("✅ Title: <b>%s</b>\n\n📤 Now send the files. Documents and audio can be mixed.", html.EscapeString(res.Session.Title)), nil)
	case catalogbusiness.StageAwaitingTitle:
		h.reply(ctx, chatID, "👤 Send the author. Send - if unknown.", nil)
	case catalogbusiness.StageAwaitingAuthor:
		h.reply(ctx, chatID, "📝 Send a short description. Send - to skip.", nil)
	case catalogbusiness.StageAwaitingDescription:
		if res.Item == nil {
			return
		}
		h.logCommand(operator, "add_single_book", "success")
		h.reply(ctx, chatID, fmt.Sprintf("✅ <b>%s</b> added to the catalog.\n👤 %s",
			html.EscapeString(res.Item.Title),
			html.EscapeString(res.Item.Author),
		), adminBackKeyboard())
	}
}

func (h *Handlers) sessionError(ctx context.Context, operator, chatID int64, stage catalogbusiness.Stage, err error) {
	switch {
	case errors.Is(err, caterrors.ErrTitleTooShort):
		h.reply(ctx, chatID, "❌ The title must be at least 2 characters.", nil)
	case errors.Is(err, caterrors.ErrUnexpectedInput):
		h.reply(ctx, chatID, stageHint(stage), nil)
	case errors.Is(err, caterrors.ErrNoSession):
		h.reply(ctx, chatID, "ℹ️ The upload was cancelled. Start again from /admin.", nil)
	default:
		h.logError(operator, "upload", err)
		h.reply(ctx, chatID, "❌ Failed to save. Please try again.", nil)
	}
}

func stageHint(stage catalogbusiness.Stage) string {
	switch stage {
	case catalogbusiness.StageCollectingTitle:
		return "✏️ Send the title first."
	case catalogbusiness.StageCollectingParts:
		return "📤 Send a document or audio file, or press Finish."
	case catalogbusiness.StageAwaitingFile:
		return "📤 Send the file."
	case catalogbusiness.StageAwaitingTitle:
		return "✏️ Send the title as text."
	case catalogbusiness.StageAwaitingAuthor:
		return "👤 Send the author as text. Send - if unknown."
	case catalogbusiness.StageAwaitingDescription:
		return "📝 Send the description as text. Send - to skip."
	case catalogbusiness.StageAutoUpload:
		return "📤 Send files to add them, or stop auto upload."
	default:
		return "ℹ️ Nothing in progress. Open /admin."
	}
}
