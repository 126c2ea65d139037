package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/entities"
	gateerrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/errors"
)

func TestRepository_SoftDeleteAndReactivate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	now := time.Now()

	first := &entities.Channel{Ref: "@first", Title: "First", AddedAt: now}
	second := &entities.Channel{Ref: "@second", Title: "Second", AddedAt: now.Add(time.Minute)}
	require.NoError(t, repo.Upsert(ctx, first))
	require.NoError(t, repo.Upsert(ctx, second))
	require.NoError(t, repo.SetInviteLink(ctx, first.ID, "https://t.me/+cached"))

	require.NoError(t, repo.Deactivate(ctx, first.ID))
	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "@second", active[0].Ref)

	// the row is kept and comes back on re-add
	again := &entities.Channel{Ref: "@first", Title: "First renamed", AddedAt: now.Add(time.Hour)}
	require.NoError(t, repo.Upsert(ctx, again))
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "https://t.me/+cached", again.InviteLink)

	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "First renamed", active[0].Title)
}

func TestRepository_Missing(t *testing.T) {
	repo := NewRepository()

	_, err := repo.Get(context.Background(), 1)
	assert.ErrorIs(t, err, gateerrors.ErrChannelNotFound)
	assert.ErrorIs(t, repo.Deactivate(context.Background(), 1), gateerrors.ErrChannelNotFound)
}
