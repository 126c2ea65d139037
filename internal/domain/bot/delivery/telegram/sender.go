package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	gateentities "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/entities"
	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
)

// Constants for Telegram API
const (
	MaxMessageLength = 4096
	MaxCaptionLength = 1024
	RequestTimeout   = 30 * time.Second
)

var retryAfterPattern = regexp.MustCompile(`(?i)retry[ _]after[: ]*(\d+)`)

var (
	permissionMarkers = []string{"forbidden", "not enough rights", "have no rights", "can't send", "need administrator rights", "chat_write_forbidden"}
	notFoundMarkers   = []string{"chat not found", "message to copy not found", "message to delete not found", "message to edit not found", "user not found"}
)

// Sender talks to the Bot API on behalf of the domains.
// It implements chat.Messenger, the gate Directory and the moderation Members ports.
type Sender struct {
	bot    *tgbot.Bot
	logger zerolog.Logger

	mu     sync.Mutex
	selfID int64
}

// NewSender creates a Sender over an initialized bot
func NewSender(bot *tgbot.Bot, logger zerolog.Logger) *Sender {
	return &Sender{
		bot:    bot,
		logger: logger,
	}
}

// Send delivers content and returns the new message id
func (s *Sender) Send(ctx context.Context, chatID int64, content chat.Content) (int, error) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	msg, err := s.send(msgCtx, chatID, content)
	if err != nil {
		err = classify(err)
		s.logSendError(chatID, string(content.Kind), err)
		return 0, err
	}

	s.logger.Debug().Int64("chat_id", chatID).Str("kind", string(content.Kind)).Int("message_id", msg.ID).Msg("Message sent")
	return msg.ID, nil
}

func (s *Sender) send(ctx context.Context, chatID int64, c chat.Content) (*models.Message, error) {
	markup := replyMarkup(c.Keyboard)
	parseMode, entities := formatting(c)
	file := &models.InputFileString{Data: c.FileID}
	caption := truncateText(c.Caption, MaxCaptionLength)

	switch c.Kind {
	case chat.KindText, "":
		if c.Text == "" {
			return nil, fmt.Errorf("message text cannot be empty")
		}
		return s.bot.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:      chatID,
			Text:        truncateText(c.Text, MaxMessageLength),
			ParseMode:   parseMode,
			Entities:    entities,
			ReplyMarkup: markup,
		})
	case chat.KindPhoto:
		return s.bot.SendPhoto(ctx, &tgbot.SendPhotoParams{
			ChatID: chatID, Photo: file, Caption: caption, ParseMode: parseMode, CaptionEntities: entities, ReplyMarkup: markup,
		})
	case chat.KindVideo:
		return s.bot.SendVideo(ctx, &tgbot.SendVideoParams{
			ChatID: chatID, Video: file, Caption: caption, ParseMode: parseMode, CaptionEntities: entities, ReplyMarkup: markup,
		})
	case chat.KindDocument:
		return s.bot.SendDocument(ctx, &tgbot.SendDocumentParams{
			ChatID: chatID, Document: file, Caption: caption, ParseMode: parseMode, CaptionEntities: entities, ReplyMarkup: markup,
		})
	case chat.KindAudio:
		return s.bot.SendAudio(ctx, &tgbot.SendAudioParams{
			ChatID: chatID, Audio: file, Caption: caption, ParseMode: parseMode, CaptionEntities: entities, ReplyMarkup: markup,
		})
	case chat.KindVoice:
		return s.bot.SendVoice(ctx, &tgbot.SendVoiceParams{
			ChatID: chatID, Voice: file, Caption: caption, ParseMode: parseMode, CaptionEntities: entities, ReplyMarkup: markup,
		})
	case chat.KindAnimation:
		return s.bot.SendAnimation(ctx, &tgbot.SendAnimationParams{
			ChatID: chatID, Animation: file, Caption: caption, ParseMode: parseMode, CaptionEntities: entities, ReplyMarkup: markup,
		})
	case chat.KindVideoNote:
		return s.bot.SendVideoNote(ctx, &tgbot.SendVideoNoteParams{ChatID: chatID, VideoNote: file, ReplyMarkup: markup})
	case chat.KindSticker:
		return s.bot.SendSticker(ctx, &tgbot.SendStickerParams{ChatID: chatID, Sticker: file, ReplyMarkup: markup})
	default:
		return nil, fmt.Errorf("unsupported content kind %q", c.Kind)
	}
}

// Copy re-sends a stored message. An empty caption keeps the original one.
func (s *Sender) Copy(ctx context.Context, chatID int64, from chat.Origin, caption string) (int, error) {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	params := &tgbot.CopyMessageParams{
		ChatID:     chatID,
		FromChatID: strconv.FormatInt(from.ChatID, 10),
		MessageID:  from.MessageID,
	}
	if caption != "" {
		params.Caption = truncateText(caption, MaxCaptionLength)
		params.ParseMode = models.ParseModeHTML
	}

	result, err := s.bot.CopyMessage(msgCtx, params)
	if err != nil {
		err = classify(err)
		s.logger.Warn().
			Int64("chat_id", chatID).
			Int64("from_chat", from.ChatID).
			Int("message_id", from.MessageID).
			Err(err).
			Msg("Failed to copy message")
		return 0, err
	}
	return result.ID, nil
}

// EditText replaces the text and keyboard of a message. An unchanged message is not an error.
func (s *Sender) EditText(ctx context.Context, chatID int64, messageID int, text string, kb *chat.Keyboard) error {
	if text == "" {
		return fmt.Errorf("message text cannot be empty")
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := s.bot.EditMessageText(msgCtx, &tgbot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        truncateText(text, MaxMessageLength),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: replyMarkup(kb),
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "message is not modified") {
			return nil
		}
		err = classify(err)
		s.logger.Debug().Int64("chat_id", chatID).Int("message_id", messageID).Err(err).Msg("Failed to edit message text")
		return err
	}
	return nil
}

// Delete removes a message
func (s *Sender) Delete(ctx context.Context, chatID int64, messageID int) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := s.bot.DeleteMessage(msgCtx, &tgbot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		err = classify(err)
		s.logger.Debug().Int64("chat_id", chatID).Int("message_id", messageID).Err(err).Msg("Failed to delete message")
		return err
	}
	return nil
}

// AnswerCallback acknowledges a callback query
func (s *Sender) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := s.bot.AnswerCallbackQuery(msgCtx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	return classify(err)
}

// GetChat resolves a chat reference
func (s *Sender) GetChat(ctx context.Context, ref string) (*gateentities.ChatInfo, error) {
	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	info, err := s.bot.GetChat(reqCtx, &tgbot.GetChatParams{ChatID: ref})
	if err != nil {
		return nil, classify(err)
	}
	return &gateentities.ChatInfo{
		ID:       info.ID,
		Title:    info.Title,
		Username: info.Username,
		Type:     string(info.Type),
	}, nil
}

// MemberStatus returns the membership status of userID in chat ref
func (s *Sender) MemberStatus(ctx context.Context, ref string, userID int64) (string, error) {
	member, err := s.member(ctx, ref, userID)
	if err != nil {
		return "", err
	}
	return memberStatus(member.Type), nil
}

// memberStatus maps the decoded member variant back to its Bot API status name
func memberStatus(t models.ChatMemberType) string {
	switch t {
	case models.ChatMemberTypeOwner:
		return gateentities.StatusCreator
	case models.ChatMemberTypeAdministrator:
		return gateentities.StatusAdministrator
	case models.ChatMemberTypeMember:
		return gateentities.StatusMember
	case models.ChatMemberTypeRestricted:
		return gateentities.StatusRestricted
	case models.ChatMemberTypeBanned:
		return gateentities.StatusKicked
	default:
		return gateentities.StatusLeft
	}
}

// InviteLink exports the primary invite link of ref, creating one when export is refused
func (s *Sender) InviteLink(ctx context.Context, ref string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	link, err := s.bot.ExportChatInviteLink(reqCtx, &tgbot.ExportChatInviteLinkParams{ChatID: ref})
	if err == nil && link != "" {
		return link, nil
	}
	s.logger.Debug().Err(err).Str("chat", ref).Msg("Invite export refused, creating a link")

	created, err := s.bot.CreateChatInviteLink(reqCtx, &tgbot.CreateChatInviteLinkParams{ChatID: ref})
	if err != nil {
		return "", classify(err)
	}
	return created.InviteLink, nil
}

// IsGroupAdmin reports whether userID owns or administers the group
func (s *Sender) IsGroupAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	member, err := s.member(ctx, chatID, userID)
	if err != nil {
		return false, err
	}
	return member.Type == models.ChatMemberTypeOwner || member.Type == models.ChatMemberTypeAdministrator, nil
}

// CanDeleteMessages reports whether the bot may delete messages of other members
func (s *Sender) CanDeleteMessages(ctx context.Context, chatID int64) (bool, error) {
	self, err := s.self(ctx)
	if err != nil {
		return false, err
	}
	member, err := s.member(ctx, chatID, self)
	if err != nil {
		return false, err
	}
	switch member.Type {
	case models.ChatMemberTypeOwner:
		return true, nil
	case models.ChatMemberTypeAdministrator:
		return member.Administrator != nil && member.Administrator.CanDeleteMessages, nil
	default:
		return false, nil
	}
}

func (s *Sender) member(ctx context.Context, chatID any, userID int64) (*models.ChatMember, error) {
	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	member, err := s.bot.GetChatMember(reqCtx, &tgbot.GetChatMemberParams{ChatID: chatID, UserID: userID})
	if err != nil {
		return nil, classify(err)
	}
	return member, nil
}

// self returns the bot's own user id
func (s *Sender) self(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selfID != 0 {
		return s.selfID, nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	me, err := s.bot.GetMe(reqCtx)
	if err != nil {
		return 0, classify(err)
	}
	s.selfID = me.ID
	return s.selfID, nil
}

func (s *Sender) logSendError(chatID int64, kind string, err error) {
	switch {
	case pkgerrors.IsRateLimitError(err):
		s.logger.Warn().Int64("chat_id", chatID).Err(err).Msg("Rate limit exceeded")
	case pkgerrors.IsPermissionError(err):
		s.logger.Warn().Int64("chat_id", chatID).Msg("User blocked the bot or the bot lacks rights")
	case pkgerrors.IsNotFoundError(err):
		s.logger.Warn().Int64("chat_id", chatID).Msg("Chat not found")
	default:
		s.logger.Error().Int64("chat_id", chatID).Str("kind", kind).Err(err).Msg("Failed to send message")
	}
}

// classify maps Bot API failures onto the pkg/errors taxonomy, keeping the cause in the chain
func classify(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	if m := retryAfterPattern.FindStringSubmatch(msg); m != nil {
		seconds, _ := strconv.Atoi(m[1])
		return fmt.Errorf("%w: %w", pkgerrors.NewRateLimitError(time.Duration(seconds)*time.Second), err)
	}

	lower := strings.ToLower(msg)
	if strings.Contains(lower, "too many requests") {
		return fmt.Errorf("%w: %w", pkgerrors.NewRateLimitError(time.Second), err)
	}
	for _, marker := range permissionMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %w", pkgerrors.NewPermissionError("telegram refused the request"), err)
		}
	}
	for _, marker := range notFoundMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %w", pkgerrors.NewNotFoundError("telegram object not found"), err)
		}
	}
	return err
}

func truncateText(text string, limit int) string {
	if len([]rune(text)) <= limit {
		return text
	}
	return chat.Truncate(text, limit-3) + "..."
}
