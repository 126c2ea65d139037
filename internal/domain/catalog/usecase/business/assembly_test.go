package business

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
)

const (
	operator = int64(42)
	chatID   = int64(42)
)

func newTestAssembly() (*Assembly, *UseCase) {
	uc, _ := newTestUseCase()
	return NewAssembly(uc, zerolog.Nop()), uc
}

func TestMultiPartAssembly(t *testing.T) {
	a, uc := newTestAssembly()
	ctx := context.Background()

	s := a.BeginMultiPart(operator, chatID)
	assert.Equal(t, StageCollectingTitle, s.Stage)

	_, err := a.SubmitText(ctx, operator, chatID, " A ")
	assert.ErrorIs(t, err, caterrors.ErrTitleTooShort)
	s, _ = a.Session(operator, chatID)
	assert.Equal(t, StageCollectingTitle, s.Stage)

	res, err := a.SubmitText(ctx, operator, chatID, "Harry Potter audiobook")
	require.NoError(t, err)
	assert.Equal(t, StageCollectingParts, res.Session.Stage)

	_, err = a.Finish(operator, chatID)
	assert.ErrorIs(t, err, caterrors.ErrNoParts)
	s, ok := a.Session(operator, chatID)
	require.True(t, ok)
	assert.Equal(t, StageCollectingParts, s.Stage)

	uploads := []entities.Upload{
		upload("ch1.mp3", entities.KindAudio),
		upload("ch2.mp3", entities.KindAudio),
		upload("book.pdf", entities.KindDocument),
		upload("ch3.mp3", entities.KindAudio),
	}
	var itemID int64
	for i, u := range uploads {
		u.FileID = u.FileName
		res, err := a.Accept(ctx, operator, chatID, u)
		require.NoError(t, err)
		if i == 0 {
			require.NotNil(t, res.Item)
			assert.True(t, res.Item.IsMultiPart)
			assert.Equal(t, "Harry Potter audiobook", res.Item.Title)
			itemID = res.Item.ID
		} else {
			assert.Nil(t, res.Item)
		}
	}

	done, err := a.Finish(operator, chatID)
	require.NoError(t, err)
	assert.Equal(t, 3, done.Counts[entities.KindAudio])
	assert.Equal(t, 1, done.Counts[entities.KindDocument])
	assert.Equal(t, itemID, done.ItemID)

	_, ok = a.Session(operator, chatID)
	assert.False(t, ok)

	parts, err := uc.ListParts(ctx, itemID, "")
	require.NoError(t, err)
	require.Len(t, parts, 4)
	for i, u := range uploads {
		assert.Equal(t, u.FileName, parts[i].FileID)
	}

	audio, err := uc.ListParts(ctx, itemID, entities.KindAudio)
	require.NoError(t, err)
	assert.Len(t, audio, 3)
}

func TestUploadBeforeTitleIsRejected(t *testing.T) {
	a, _ := newTestAssembly()

	a.BeginMultiPart(operator, chatID)
	_, err := a.Accept(context.Background(), operator, chatID, upload("x.pdf", entities.KindDocument))
	assert.ErrorIs(t, err, caterrors.ErrUnexpectedInput)
}

func TestOneSessionPerOperator(t *testing.T) {
	a, _ := newTestAssembly()

	a.BeginMultiPart(operator, 100)
	a.BeginSingle(operator, 200)

	_, ok := a.Session(operator, 100)
	assert.False(t, ok)
	s, ok := a.Session(operator, 200)
	require.True(t, ok)
	assert.Equal(t, StageAwaitingFile, s.Stage)

	a.BeginMultiPart(7, 100)
	_, ok = a.Session(operator, 200)
	assert.True(t, ok, "other operators must not interfere")
}

func TestCancelKeepsCommittedParts(t *testing.T) {
	a, uc := newTestAssembly()
	ctx := context.Background()

	a.BeginMultiPart(operator, chatID)
	_, err := a.SubmitText(ctx, operator, chatID, "Lectures")
	require.NoError(t, err)
	res, err := a.Accept(ctx, operator, chatID, upload("l1.mp3", entities.KindAudio))
	require.NoError(t, err)

	assert.True(t, a.Cancel(operator, chatID))
	assert.False(t, a.Cancel(operator, chatID))

	parts, err := uc.ListParts(ctx, res.Item.ID, "")
	require.NoError(t, err)
	assert.Len(t, parts, 1)

	_, err = a.Finish(operator, chatID)
	assert.ErrorIs(t, err, caterrors.ErrNoSession)
}

func TestSingleItemFlow(t *testing.T) {
	a, uc := newTestAssembly()
	ctx := context.Background()

	a.BeginSingle(operator, chatID)

	_, err := a.SubmitText(ctx, operator, chatID, "too early")
	assert.ErrorIs(t, err, caterrors.ErrUnexpectedInput)

	res, err := a.Accept(ctx, operator, chatID, upload("dune.pdf", entities.KindDocument))
	require.NoError(t, err)
	assert.Equal(t, StageAwaitingTitle, res.Session.Stage)

	tr, err := a.SubmitText(ctx, operator, chatID, "Dune")
	require.NoError(t, err)
	assert.Equal(t, StageAwaitingAuthor, tr.Session.Stage)

	tr, err = a.SubmitText(ctx, operator, chatID, "Frank Herbert")
	require.NoError(t, err)
	assert.Equal(t, StageAwaitingDescription, tr.Session.Stage)

	tr, err = a.SubmitText(ctx, operator, chatID, "-")
	require.NoError(t, err)
	require.NotNil(t, tr.Item)
	assert.Equal(t, "Dune", tr.Item.Title)
	assert.Equal(t, "Frank Herbert", tr.Item.Author)
	assert.Empty(t, tr.Item.Description)

	_, ok := a.Session(operator, chatID)
	assert.False(t, ok)

	found, err := uc.Search(ctx, "herbert")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestAutoUploadMode(t *testing.T) {
	a, _ := newTestAssembly()
	ctx := context.Background()

	a.BeginAuto(operator, chatID)

	res, err := a.Accept(ctx, operator, chatID, upload("Orwell - 1984 novel.pdf", entities.KindDocument))
	require.NoError(t, err)
	require.NotNil(t, res.Item)
	assert.Equal(t, "1984 novel", res.Item.Title)
	assert.Equal(t, "Orwell", res.Item.Author)

	res, err = a.Accept(ctx, operator, chatID, upload("talk.mp3", entities.KindAudio))
	require.NoError(t, err)
	assert.Equal(t, StageAutoUpload, res.Session.Stage)
	assert.Equal(t, 1, res.Session.Counts[entities.KindAudio])
	assert.Equal(t, 1, res.Session.Counts[entities.KindDocument])
}

func TestNoSession(t *testing.T) {
	a, _ := newTestAssembly()

	_, err := a.SubmitText(context.Background(), operator, chatID, "hello")
	assert.ErrorIs(t, err, caterrors.ErrNoSession)
	_, err = a.Accept(context.Background(), operator, chatID, upload("a.pdf", entities.KindDocument))
	assert.ErrorIs(t, err, caterrors.ErrNoSession)
}
