package business

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/repository/memory"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/NewsFlow/services/library-bot/pkg/errors"
)

type recordingPublisher struct {
	added   []int64
	deleted []int64
}

func (p *recordingPublisher) PublishItemAdded(_ context.Context, item *entities.Item, _ int) error {
	p.added = append(p.added, item.ID)
	return nil
}

func (p *recordingPublisher) PublishItemDeleted(_ context.Context, itemID int64) error {
	p.deleted = append(p.deleted, itemID)
	return nil
}

func newTestUseCase() (*UseCase, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewUseCase(memory.NewRepository(), pub, metrics.NewMetrics(prometheus.NewRegistry()), zerolog.Nop()), pub
}

func upload(name string, kind entities.PayloadKind) entities.Upload {
	return entities.Upload{
		FileID:           "file-" + name,
		FileName:         name,
		Kind:             kind,
		FileSize:         1024,
		StorageChatID:    -1001,
		StorageMessageID: 10,
	}
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, caterrors.ErrQueryTooShort)
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestSearchOrdersByTitle(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	for _, title := range []string{"Python cookbook", "Advanced python", "Go in action"} {
		_, err := uc.AddSingle(ctx, NewItem{Title: title, Upload: upload(title+".pdf", entities.KindDocument)})
		require.NoError(t, err)
	}

	items, err := uc.Search(ctx, "PYTHON")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Advanced python", items[0].Title)
	assert.Equal(t, "Python cookbook", items[1].Title)

	items, err = uc.Search(ctx, "zzzzzz")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddSingleMirrorsPayload(t *testing.T) {
	uc, pub := newTestUseCase()
	ctx := context.Background()

	item, err := uc.AddSingle(ctx, NewItem{
		Title:      "  Dune ",
		Author:     "-",
		UploadedBy: 42,
		Upload:     upload("dune.pdf", entities.KindDocument),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune", item.Title)
	assert.Equal(t, entities.UnknownAuthor, item.Author)
	assert.False(t, item.IsMultiPart)

	parts, err := uc.ListParts(ctx, item.ID, "")
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, item.FileID, parts[0].FileID)
	assert.Equal(t, item.Kind, parts[0].Kind)
	assert.Equal(t, item.FileSize, parts[0].FileSize)
	assert.Equal(t, item.Origin(), parts[0].Origin())
	assert.Equal(t, []int64{item.ID}, pub.added)
}

func TestDeletePublishesEvent(t *testing.T) {
	uc, pub := newTestUseCase()
	ctx := context.Background()

	item, err := uc.AddSingle(ctx, NewItem{Title: "Dune", Upload: upload("dune.pdf", entities.KindDocument)})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, item.ID))
	assert.Equal(t, []int64{item.ID}, pub.deleted)
	assert.ErrorIs(t, uc.Delete(ctx, item.ID), caterrors.ErrItemNotFound)
}

func TestListPartsRejectsUnknownKind(t *testing.T) {
	uc, _ := newTestUseCase()
	_, err := uc.ListParts(context.Background(), 1, "video")
	assert.ErrorIs(t, err, caterrors.ErrInvalidKind)
}

func TestPageClampsToLastPage(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := uc.AddSingle(ctx, NewItem{Title: "book", Upload: upload("b.pdf", entities.KindDocument)})
		require.NoError(t, err)
	}

	res, err := uc.Page(ctx, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 2, res.Pages)
	assert.Len(t, res.Items, 2)

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Items)
	assert.Equal(t, int64(12), stats.Parts)
}

func TestValidateUpload(t *testing.T) {
	kind, err := ValidateUpload("Lecture.MP3", 10, 100)
	require.NoError(t, err)
	assert.Equal(t, entities.KindAudio, kind)

	_, err = ValidateUpload("virus.exe", 10, 100)
	assert.ErrorIs(t, err, caterrors.ErrUnsupportedFile)

	_, err = ValidateUpload("huge.pdf", 101, 100)
	assert.ErrorIs(t, err, caterrors.ErrFileTooLarge)
}

func TestExtractTitleAuthor(t *testing.T) {
	cases := []struct {
		file, title, author string
	}{
		{"Lev_Tolstoy_-_War_and_Peace.pdf", "War and Peace", "Lev Tolstoy"},
		{"The Hobbit by Tolkien.pdf", "The Hobbit", "Tolkien"},
		{"Crime and Punishment (Dostoevsky).docx", "Crime and Punishment", "Dostoevsky"},
		{"Algorithms [Cormen].pdf", "Algorithms", "Cormen"},
		{"just-a-name.mp3", "just-a-name", entities.UnknownAuthor},
		{"ab.pdf", "untitled", entities.UnknownAuthor},
	}
	for _, c := range cases {
		title, author := ExtractTitleAuthor(c.file)
		assert.Equal(t, c.title, title, c.file)
		assert.Equal(t, c.author, author, c.file)
	}
}
