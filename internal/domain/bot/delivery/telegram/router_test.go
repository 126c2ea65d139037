package telegram

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/bot/consts"
)

func TestCommandName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "start"},
		{"/START", "start"},
		{"/start@LibraryBot", "start"},
		{"/start payload", "start"},
		{"/help\nmore", "help"},
		{"start", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, commandName(tt.text))
		})
	}
}

func TestMatchCommand(t *testing.T) {
	match := matchCommand(consts.CommandStart)

	assert.True(t, match(&models.Update{Message: &models.Message{Text: "/start@LibraryBot"}}))
	assert.False(t, match(&models.Update{Message: &models.Message{Text: "/stop"}}))
	assert.False(t, match(&models.Update{Message: &models.Message{Text: "/starter"}}))
	assert.False(t, match(&models.Update{CallbackQuery: &models.CallbackQuery{Data: "start"}}))
}
