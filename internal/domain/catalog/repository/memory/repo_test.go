package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func seed(t *testing.T, r *Repository, title, author, description string) *entities.Item {
	t.Helper()
	item := &entities.Item{Title: title, Author: author, Description: description, FileID: title, Kind: entities.KindDocument}
	require.NoError(t, r.CreateItem(context.Background(), item, item.MirrorPart()))
	return item
}

func TestSearchMatchesAnyFieldCaseInsensitive(t *testing.T) {
	r := newRepository(fixedClock())
	ctx := context.Background()

	seed(t, r, "Zebra stories", "Anon", "")
	seed(t, r, "Alpha", "Ivan GONCHAROV", "")
	seed(t, r, "Middle", "x", "a novel about goncharov's era")
	seed(t, r, "Unrelated", "y", "z")

	items, err := r.Search(ctx, "Goncharov")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Title)
	assert.Equal(t, "Middle", items[1].Title)

	items, err = r.Search(ctx, "zzzzzz")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateItemMirrorsPart(t *testing.T) {
	r := newRepository(fixedClock())
	ctx := context.Background()

	item := &entities.Item{Title: "Song", FileID: "aud", Kind: entities.KindAudio, FileSize: 99, StorageChatID: -100, StorageMessageID: 5}
	require.NoError(t, r.CreateItem(ctx, item, item.MirrorPart()))

	parts, err := r.ListParts(ctx, item.ID, "")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, item.FileID, parts[0].FileID)
	assert.Equal(t, item.Kind, parts[0].Kind)
	assert.Equal(t, item.FileSize, parts[0].FileSize)
	assert.Equal(t, item.Origin(), parts[0].Origin())
}

func TestDeleteCascadesParts(t *testing.T) {
	r := newRepository(fixedClock())
	ctx := context.Background()

	item := &entities.Item{Title: "Big", IsMultiPart: true, Kind: entities.KindDocument}
	require.NoError(t, r.CreateItem(ctx, item, &entities.Part{FileID: "p1", Kind: entities.KindDocument}))
	require.NoError(t, r.CreatePart(ctx, &entities.Part{ItemID: item.ID, FileID: "p2", Kind: entities.KindDocument}))
	require.NoError(t, r.CreatePart(ctx, &entities.Part{ItemID: item.ID, FileID: "p3", Kind: entities.KindAudio}))

	parts, err := r.ListParts(ctx, item.ID, "")
	require.NoError(t, err)
	require.Len(t, parts, 3)

	require.NoError(t, r.DeleteItem(ctx, item.ID))

	parts, err = r.ListParts(ctx, item.ID, "")
	require.NoError(t, err)
	assert.Empty(t, parts)

	_, err = r.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, caterrors.ErrItemNotFound)
	assert.ErrorIs(t, r.DeleteItem(ctx, item.ID), caterrors.ErrItemNotFound)
}

func TestCreatePartRequiresItem(t *testing.T) {
	r := newRepository(fixedClock())
	err := r.CreatePart(context.Background(), &entities.Part{ItemID: 404})
	assert.ErrorIs(t, err, caterrors.ErrItemNotFound)
}

func TestPageNewestFirst(t *testing.T) {
	r := newRepository(fixedClock())
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		seed(t, r, title, "", "")
	}

	items, total, err := r.Page(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, "e", items[0].Title)

	items, _, err = r.Page(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Title)

	items, _, err = r.Page(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, items)

	latest, err := r.Latest(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, latest, 3)

	count, err := r.CountParts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
