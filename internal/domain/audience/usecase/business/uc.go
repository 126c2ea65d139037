// Package business contains business logic for the audience domain
package business

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/entities"
)

// Profile is what the transport tells about a user
type Profile struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	IsBot        bool
	LanguageCode string
}

// UseCase records who the bot has seen
type UseCase struct {
	repo   deps.Repository
	now    func() time.Time
	logger zerolog.Logger
}

func NewUseCase(repo deps.Repository, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

// TouchSubscriber upserts the user and advances last-seen to now
func (uc *UseCase) TouchSubscriber(ctx context.Context, p Profile) error {
	now := uc.now()
	err := uc.repo.UpsertSubscriber(ctx, &entities.Subscriber{
		ID:           p.ID,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		IsBot:        p.IsBot,
		LanguageCode: p.LanguageCode,
		FirstSeenAt:  now,
		LastSeenAt:   now,
	})
	if err != nil {
		uc.logger.Error().Err(err).Int64("user_id", p.ID).Msg("Failed to record subscriber")
	}
	return err
}

// TouchGroup upserts a group conversation and refreshes its activity
func (uc *UseCase) TouchGroup(ctx context.Context, chatID int64, title string, kind entities.GroupKind) error {
	now := uc.now()
	err := uc.repo.UpsertGroup(ctx, &entities.Group{
		ID:             chatID,
		Title:          title,
		Kind:           kind,
		FirstSeenAt:    now,
		LastActivityAt: now,
	})
	if err != nil {
		uc.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to record group")
	}
	return err
}

// SubscriberIDs snapshots every known subscriber
func (uc *UseCase) SubscriberIDs(ctx context.Context) ([]int64, error) {
	return uc.repo.SubscriberIDs(ctx)
}

// ActiveGroupIDs lists active groups
func (uc *UseCase) ActiveGroupIDs(ctx context.Context) ([]int64, error) {
	return uc.repo.ActiveGroupIDs(ctx)
}

// Counts returns subscriber and active group totals
func (uc *UseCase) Counts(ctx context.Context) (subscribers, groups int64, err error) {
	if subscribers, err = uc.repo.CountSubscribers(ctx); err != nil {
		return 0, 0, err
	}
	if groups, err = uc.repo.CountActiveGroups(ctx); err != nil {
		return 0, 0, err
	}
	return subscribers, groups, nil
}
