package telegram

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/bot/consts"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
)

func TestContentFromMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  *models.Message
		want chat.Content
		ok   bool
	}{
		{
			name: "largest photo wins",
			msg: &models.Message{
				Photo:   []models.PhotoSize{{FileID: "small"}, {FileID: "large"}},
				Caption: "cover",
			},
			want: chat.Content{Kind: chat.KindPhoto, FileID: "large", Caption: "cover"},
			ok:   true,
		},
		{
			name: "text keeps entities",
			msg: &models.Message{
				Text:     "read this",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBold, Offset: 0, Length: 4}},
			},
			want: chat.Content{Kind: chat.KindText, Text: "read this", Entities: []chat.Entity{{Type: "bold", Offset: 0, Length: 4}}},
			ok:   true,
		},
		{
			name: "inline buttons are kept",
			msg: &models.Message{
				Text: "new arrivals",
				ReplyMarkup: models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
					{{Text: "Open", URL: "https://example.com/new"}, {Text: "Play", WebApp: &models.WebAppInfo{URL: "https://example.com/app"}}},
					{{Text: "Search", CallbackData: "check_subscription"}},
				}},
			},
			want: chat.Content{
				Kind: chat.KindText,
				Text: "new arrivals",
				Keyboard: chat.NewKeyboard(
					[]chat.Button{{Text: "Open", URL: "https://example.com/new"}},
					[]chat.Button{{Text: "Search", Data: "check_subscription"}},
				),
			},
			ok: true,
		},
		{
			name: "photo keeps its button",
			msg: &models.Message{
				Photo:   []models.PhotoSize{{FileID: "p"}},
				Caption: "sale",
				ReplyMarkup: models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
					{{Text: "Go", URL: "https://example.com"}},
				}},
			},
			want: chat.Content{
				Kind:     chat.KindPhoto,
				FileID:   "p",
				Caption:  "sale",
				Keyboard: chat.NewKeyboard([]chat.Button{{Text: "Go", URL: "https://example.com"}}),
			},
			ok: true,
		},
		{
			name: "sticker",
			msg:  &models.Message{Sticker: &models.Sticker{FileID: "st"}},
			want: chat.Content{Kind: chat.KindSticker, FileID: "st"},
			ok:   true,
		},
		{
			name: "nothing to capture",
			msg:  &models.Message{},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := contentFromMessage(tt.msg)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.False(t, got.HTML)
			}
		})
	}
}

func TestFileFromMessage(t *testing.T) {
	file, ok := fileFromMessage(&models.Message{Document: &models.Document{FileID: "d", FileName: "book.pdf", FileSize: 10}})
	require.True(t, ok)
	assert.Equal(t, incomingFile{FileID: "d", FileName: "book.pdf", Size: 10}, file)

	file, ok = fileFromMessage(&models.Message{Audio: &models.Audio{FileID: "a", Performer: "Orwell", Title: "1984", FileSize: 20}})
	require.True(t, ok)
	assert.Equal(t, "Orwell - 1984.mp3", file.FileName)

	_, ok = fileFromMessage(&models.Message{Text: "hello"})
	assert.False(t, ok)
}

func TestAudioName(t *testing.T) {
	assert.Equal(t, "A - B.mp3", audioName(" A ", "B"))
	assert.Equal(t, "B.mp3", audioName("", "B"))
	assert.Equal(t, "audio.mp3", audioName("A", ""))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ann Lee", displayName(&models.User{FirstName: "Ann", LastName: "Lee"}))
	assert.Equal(t, "@ann", displayName(&models.User{Username: "ann"}))
	assert.Equal(t, "friend", displayName(&models.User{}))
}

func TestCallbackFrom(t *testing.T) {
	cb := callbackFrom(&models.CallbackQuery{
		ID:   "1",
		Data: "close_search",
		From: models.User{ID: 5},
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{ID: 40, Chat: models.Chat{ID: -300}},
		},
	})
	assert.Equal(t, callback{ID: "1", Data: "close_search", UserID: 5, ChatID: -300, MessageID: 40}, cb)

	// inline-mode presses carry no message
	cb = callbackFrom(&models.CallbackQuery{ID: "2", From: models.User{ID: 5}})
	assert.Equal(t, int64(5), cb.ChatID)
	assert.Zero(t, cb.MessageID)
}

func TestPostFromMessage(t *testing.T) {
	msg := &models.Message{
		ID:              3,
		Chat:            models.Chat{ID: -200},
		From:            &models.User{ID: 9, FirstName: "Bob"},
		Caption:         "see t.me/x",
		CaptionEntities: []models.MessageEntity{{Type: models.MessageEntityTypeURL, Offset: 4, Length: 6}},
		ForwardOrigin: &models.MessageOrigin{
			Type:                 models.MessageOriginTypeChannel,
			MessageOriginChannel: &models.MessageOriginChannel{Chat: models.Chat{ID: -1001, Type: consts.ChatTypeChannel}},
		},
	}

	post := postFromMessage(msg)
	assert.Equal(t, int64(-200), post.ChatID)
	assert.Equal(t, 3, post.MessageID)
	assert.Equal(t, "Bob", post.UserName)
	assert.Equal(t, "see t.me/x", post.Text)
	assert.Equal(t, []chat.Entity{{Type: "url", Offset: 4, Length: 6}}, post.Entities)
	assert.True(t, post.ForwardedFromChannel)

	info, ok := forwardedChannel(msg)
	require.True(t, ok)
	assert.Equal(t, int64(-1001), info.ID)
	assert.Equal(t, "channel", info.Type)
}

func TestReplyMarkup(t *testing.T) {
	assert.Nil(t, replyMarkup(nil))
	assert.Nil(t, replyMarkup(chat.NewKeyboard()))

	markup := replyMarkup(chat.NewKeyboard([]chat.Button{{Text: "1", Data: "send_book_1"}, {Text: "Join", URL: "https://t.me/x"}}))
	kb, ok := markup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, "send_book_1", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "https://t.me/x", kb.InlineKeyboard[0][1].URL)
}

func TestFormatting(t *testing.T) {
	mode, entities := formatting(chat.Text("<b>x</b>", nil))
	assert.Equal(t, models.ParseModeHTML, mode)
	assert.Nil(t, entities)

	mode, entities = formatting(chat.Content{Kind: chat.KindText, Text: "x", Entities: []chat.Entity{{Type: "bold", Length: 1}}})
	assert.Empty(t, mode)
	require.Len(t, entities, 1)
	assert.Equal(t, models.MessageEntityTypeBold, entities[0].Type)
}
