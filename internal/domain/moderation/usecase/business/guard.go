package business

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/chat"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/moderation/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/moderation/entities"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
)

// Guard removes advertisement from groups
type Guard struct {
	classifier *Classifier
	members    deps.Members
	messenger  chat.Messenger
	isOperator func(userID int64) bool
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

func NewGuard(classifier *Classifier, members deps.Members, messenger chat.Messenger, isOperator func(int64) bool, m *metrics.Metrics, logger zerolog.Logger) *Guard {
	return &Guard{
		classifier: classifier,
		members:    members,
		messenger:  messenger,
		isOperator: isOperator,
		metrics:    m,
		logger:     logger,
	}
}

// Inspect classifies post and deletes it when it is spam and the bot is allowed to.
// Bots, commands, operators and group admins are never inspected.
func (g *Guard) Inspect(ctx context.Context, post entities.Post) entities.Verdict {
	if post.IsBot || strings.HasPrefix(post.Text, "/") {
		return entities.Verdict{}
	}
	if g.isOperator != nil && g.isOperator(post.UserID) {
		return entities.Verdict{}
	}

	admin, err := g.members.IsGroupAdmin(ctx, post.ChatID, post.UserID)
	if err != nil {
		g.logger.Debug().Err(err).Int64("chat_id", post.ChatID).Msg("Group admin lookup failed")
	}
	if admin {
		return entities.Verdict{}
	}

	verdict := g.classifier.Classify(post)
	if !verdict.Spam {
		return verdict
	}

	canDelete, err := g.members.CanDeleteMessages(ctx, post.ChatID)
	if err != nil || !canDelete {
		g.logger.Warn().Err(err).Int64("chat_id", post.ChatID).Msg("Spam detected but bot cannot delete messages")
		return verdict
	}

	warning := fmt.Sprintf("⚠️ %s, advertising is not allowed in this group. Your message was removed.", html.EscapeString(post.UserName))
	if _, err := g.messenger.Send(ctx, post.ChatID, chat.Text(warning, nil)); err != nil {
		g.logger.Warn().Err(err).Int64("chat_id", post.ChatID).Msg("Failed to send spam warning")
	}

	if err := g.messenger.Delete(ctx, post.ChatID, post.MessageID); err != nil {
		g.logger.Error().Err(err).Int64("chat_id", post.ChatID).Int("message_id", post.MessageID).Msg("Failed to delete spam")
		return verdict
	}

	verdict.Deleted = true
	g.metrics.RecordSpamDeleted(string(verdict.Reason))
	g.logger.Info().
		Int64("chat_id", post.ChatID).
		Int64("user_id", post.UserID).
		Str("reason", string(verdict.Reason)).
		Msg("Spam removed")

	return verdict
}
