package telegram

import (
	"strings"

	"github.com/go-telegram/bot/models"

	audiencebusiness "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/usecase/business"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	gateentities "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/entities"
	modentities "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/moderation/entities"
)

func replyMarkup(kb *chat.Keyboard) models.ReplyMarkup {
	if kb == nil || len(kb.Rows) == 0 {
		return nil
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         b.Text,
				CallbackData: b.Data,
				URL:          b.URL,
			})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// keyboardFrom converts an inline keyboard back into chat buttons.
// Buttons other than URL and callback ones cannot be re-sent and are dropped.
func keyboardFrom(markup models.InlineKeyboardMarkup) *chat.Keyboard {
	rows := make([][]chat.Button, 0, len(markup.InlineKeyboard))
	for _, row := range markup.InlineKeyboard {
		buttons := make([]chat.Button, 0, len(row))
		for _, b := range row {
			if b.URL == "" && b.CallbackData == "" {
				continue
			}
			buttons = append(buttons, chat.Button{Text: b.Text, Data: b.CallbackData, URL: b.URL})
		}
		rows = append(rows, buttons)
	}

	kb := chat.NewKeyboard(rows...)
	if len(kb.Rows) == 0 {
		return nil
	}
	return kb
}

// formatting picks HTML parse mode or explicit entities, never both
func formatting(c chat.Content) (models.ParseMode, []models.MessageEntity) {
	if c.HTML {
		return models.ParseModeHTML, nil
	}
	if len(c.Entities) == 0 {
		return "", nil
	}
	out := make([]models.MessageEntity, 0, len(c.Entities))
	for _, e := range c.Entities {
		out = append(out, models.MessageEntity{
			Type:   models.MessageEntityType(e.Type),
			Offset: e.Offset,
			Length: e.Length,
			URL:    e.URL,
		})
	}
	return "", out
}

func entitiesFrom(list []models.MessageEntity) []chat.Entity {
	if len(list) == 0 {
		return nil
	}
	out := make([]chat.Entity, 0, len(list))
	for _, e := range list {
		out = append(out, chat.Entity{
			Type:   string(e.Type),
			Offset: e.Offset,
			Length: e.Length,
			URL:    e.URL,
		})
	}
	return out
}

// contentFromMessage captures a message so it can be re-sent to other chats.
// Inline URL and callback buttons travel with it.
func contentFromMessage(msg *models.Message) (chat.Content, bool) {
	content, ok := payloadFromMessage(msg)
	if !ok {
		return chat.Content{}, false
	}
	content.Keyboard = keyboardFrom(msg.ReplyMarkup)
	return content, true
}

func payloadFromMessage(msg *models.Message) (chat.Content, bool) {
	captioned := func(kind chat.Kind, fileID string) (chat.Content, bool) {
		return chat.Content{
			Kind:     kind,
			FileID:   fileID,
			Caption:  msg.Caption,
			Entities: entitiesFrom(msg.CaptionEntities),
		}, true
	}

	switch {
	case len(msg.Photo) > 0:
		return captioned(chat.KindPhoto, msg.Photo[len(msg.Photo)-1].FileID)
	case msg.Video != nil:
		return captioned(chat.KindVideo, msg.Video.FileID)
	case msg.Animation != nil:
		return captioned(chat.KindAnimation, msg.Animation.FileID)
	case msg.Document != nil:
		return captioned(chat.KindDocument, msg.Document.FileID)
	case msg.Audio != nil:
		return captioned(chat.KindAudio, msg.Audio.FileID)
	case msg.Voice != nil:
		return captioned(chat.KindVoice, msg.Voice.FileID)
	case msg.VideoNote != nil:
		return chat.Content{Kind: chat.KindVideoNote, FileID: msg.VideoNote.FileID}, true
	case msg.Sticker != nil:
		return chat.Content{Kind: chat.KindSticker, FileID: msg.Sticker.FileID}, true
	case msg.Text != "":
		return chat.Content{Kind: chat.KindText, Text: msg.Text, Entities: entitiesFrom(msg.Entities)}, true
	default:
		return chat.Content{}, false
	}
}

// incomingFile is an operator upload before validation
type incomingFile struct {
	FileID   string
	FileName string
	Size     int64
}

func fileFromMessage(msg *models.Message) (incomingFile, bool) {
	switch {
	case msg.Document != nil:
		return incomingFile{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			Size:     msg.Document.FileSize,
		}, true
	case msg.Audio != nil:
		name := msg.Audio.FileName
		if name == "" {
			name = audioName(msg.Audio.Performer, msg.Audio.Title)
		}
		return incomingFile{
			FileID:   msg.Audio.FileID,
			FileName: name,
			Size:     msg.Audio.FileSize,
		}, true
	default:
		return incomingFile{}, false
	}
}

// audioName builds "Performer - Title.mp3" for audio sent without a file name
func audioName(performer, title string) string {
	performer, title = strings.TrimSpace(performer), strings.TrimSpace(title)
	switch {
	case performer != "" && title != "":
		return performer + " - " + title + ".mp3"
	case title != "":
		return title + ".mp3"
	default:
		return "audio.mp3"
	}
}

func profileFrom(u *models.User) audiencebusiness.Profile {
	return audiencebusiness.Profile{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsBot:        u.IsBot,
		LanguageCode: u.LanguageCode,
	}
}

// displayName is what the bot calls a user in replies
func displayName(u *models.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "friend"
}

// forwardedChannel extracts the source channel of a forwarded channel post
func forwardedChannel(msg *models.Message) (gateentities.ChatInfo, bool) {
	if msg.ForwardOrigin == nil || msg.ForwardOrigin.Type != models.MessageOriginTypeChannel {
		return gateentities.ChatInfo{}, false
	}
	origin := msg.ForwardOrigin.MessageOriginChannel
	if origin == nil {
		return gateentities.ChatInfo{}, false
	}
	return gateentities.ChatInfo{
		ID:       origin.Chat.ID,
		Title:    origin.Chat.Title,
		Username: origin.Chat.Username,
		Type:     string(origin.Chat.Type),
	}, true
}

func postFromMessage(msg *models.Message) modentities.Post {
	text, entities := msg.Text, msg.Entities
	if text == "" {
		text, entities = msg.Caption, msg.CaptionEntities
	}

	_, fromChannel := forwardedChannel(msg)
	return modentities.Post{
		ChatID:               msg.Chat.ID,
		MessageID:            msg.ID,
		UserID:               msg.From.ID,
		UserName:             displayName(msg.From),
		IsBot:                msg.From.IsBot,
		Text:                 text,
		Entities:             entitiesFrom(entities),
		ForwardedFromChannel: fromChannel,
	}
}

// callback is a button press reduced to what the handlers route on
type callback struct {
	ID        string
	Data      string
	UserID    int64
	ChatID    int64
	MessageID int
}

func callbackFrom(q *models.CallbackQuery) callback {
	cb := callback{
		ID:     q.ID,
		Data:   q.Data,
		UserID: q.From.ID,
		ChatID: q.From.ID,
	}
	if msg := q.Message.Message; msg != nil {
		cb.ChatID = msg.Chat.ID
		cb.MessageID = msg.ID
	}
	return cb
}
