// Package business contains business logic for the catalog domain
package business

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
)

// MinQueryLength is the shortest accepted search query, in runes
const MinQueryLength = 1

// UseCase contains catalog operations
type UseCase struct {
	repo    deps.Repository
	events  deps.EventPublisher
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(repo deps.Repository, events deps.EventPublisher, m *metrics.Metrics, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:    repo,
		events:  events,
		metrics: m,
		logger:  logger,
	}
}

// NewItem describes a single-payload item to create
type NewItem struct {
	Title       string
	Author      string
	Description string
	UploadedBy  int64
	Upload      entities.Upload
}

// Search returns items whose title, author or description contain query, ordered by title
func (uc *UseCase) Search(ctx context.Context, query string) ([]entities.Item, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, caterrors.ErrQueryTooShort
	}

	items, err := uc.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordSearch(len(items))
	uc.logger.Debug().Str("query", query).Int("results", len(items)).Msg("Catalog search")

	return items, nil
}

// AddSingle creates an item and mirrors its payload into the parts table
func (uc *UseCase) AddSingle(ctx context.Context, in NewItem) (*entities.Item, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, caterrors.ErrTitleTooShort
	}
	if !in.Upload.Kind.Valid() {
		return nil, caterrors.ErrInvalidKind
	}

	item := itemFromUpload(title, in.UploadedBy, in.Upload)
	item.Author = normalizeAuthor(in.Author)
	item.Description = strings.TrimSpace(in.Description)

	if err := uc.repo.CreateItem(ctx, item, item.MirrorPart()); err != nil {
		uc.logger.Error().Err(err).Str("title", title).Msg("Failed to create catalog item")
		return nil, err
	}

	uc.itemAdded(ctx, item, 1)
	return item, nil
}

// startMultiPart creates a multi-part item whose first part is upload
func (uc *UseCase) startMultiPart(ctx context.Context, title string, operator int64, upload entities.Upload) (*entities.Item, *entities.Part, error) {
	if !entities.ValidTitle(title) {
		return nil, nil, caterrors.ErrTitleTooShort
	}
	if !upload.Kind.Valid() {
		return nil, nil, caterrors.ErrInvalidKind
	}

	item := itemFromUpload(strings.TrimSpace(title), operator, upload)
	item.Author = entities.UnknownAuthor
	item.IsMultiPart = true

	part := item.MirrorPart()
	if err := uc.repo.CreateItem(ctx, item, part); err != nil {
		uc.logger.Error().Err(err).Str("title", title).Msg("Failed to create multi-part item")
		return nil, nil, err
	}

	uc.itemAdded(ctx, item, 1)
	return item, part, nil
}

// AddPart appends upload to an existing item
func (uc *UseCase) AddPart(ctx context.Context, itemID int64, upload entities.Upload) (*entities.Part, error) {
	if !upload.Kind.Valid() {
		return nil, caterrors.ErrInvalidKind
	}

	part := &entities.Part{
		ItemID:           itemID,
		FileID:           upload.FileID,
		Kind:             upload.Kind,
		FileSize:         upload.FileSize,
		StorageChatID:    upload.StorageChatID,
		StorageMessageID: upload.StorageMessageID,
	}
	if err := uc.repo.CreatePart(ctx, part); err != nil {
		uc.logger.Error().Err(err).Int64("item_id", itemID).Msg("Failed to add part")
		return nil, err
	}
	return part, nil
}

// Get returns one item
func (uc *UseCase) Get(ctx context.Context, id int64) (*entities.Item, error) {
	return uc.repo.GetItem(ctx, id)
}

// ListParts returns the parts of an item in upload order, optionally of one kind
func (uc *UseCase) ListParts(ctx context.Context, itemID int64, kind entities.PayloadKind) ([]entities.Part, error) {
	if kind != "" && !kind.Valid() {
		return nil, caterrors.ErrInvalidKind
	}
	return uc.repo.ListParts(ctx, itemID, kind)
}

// Delete removes an item and all its parts
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.DeleteItem(ctx, id); err != nil {
		return err
	}

	uc.metrics.RecordItemDeleted()
	uc.logger.Info().Int64("item_id", id).Msg("Catalog item deleted")

	if err := uc.events.PublishItemDeleted(ctx, id); err != nil {
		uc.logger.Warn().Err(err).Int64("item_id", id).Msg("Failed to publish item deleted event")
	}
	return nil
}

// Stats returns item and part counts
func (uc *UseCase) Stats(ctx context.Context) (entities.Stats, error) {
	items, err := uc.repo.CountItems(ctx)
	if err != nil {
		return entities.Stats{}, err
	}
	parts, err := uc.repo.CountParts(ctx)
	if err != nil {
		return entities.Stats{}, err
	}
	return entities.Stats{Items: items, Parts: parts}, nil
}

// Latest returns the newest items
func (uc *UseCase) Latest(ctx context.Context, limit int) ([]entities.Item, error) {
	return uc.repo.Latest(ctx, limit)
}

// PageResult is one page of the newest-first item listing
type PageResult struct {
	Items []entities.Item
	Page  int
	Pages int
	Total int64
}

// Page returns a page of items; out of range pages are clamped to the last one
func (uc *UseCase) Page(ctx context.Context, page, size int) (*PageResult, error) {
	if size < 1 {
		size = 1
	}
	if page < 0 {
		page = 0
	}

	items, total, err := uc.repo.Page(ctx, page*size, size)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(size) - 1) / int64(size))
	if pages > 0 && page >= pages {
		page = pages - 1
		items, total, err = uc.repo.Page(ctx, page*size, size)
		if err != nil {
			return nil, err
		}
	}

	return &PageResult{Items: items, Page: page, Pages: pages, Total: total}, nil
}

func (uc *UseCase) itemAdded(ctx context.Context, item *entities.Item, parts int) {
	uc.metrics.RecordItemAdded()
	uc.logger.Info().
		Int64("item_id", item.ID).
		Str("title", item.Title).
		Str("kind", string(item.Kind)).
		Bool("multi_part", item.IsMultiPart).
		Msg("Catalog item created")

	if err := uc.events.PublishItemAdded(ctx, item, parts); err != nil {
		uc.logger.Warn().Err(err).Int64("item_id", item.ID).Msg("Failed to publish item added event")
	}
}

func itemFromUpload(title string, operator int64, upload entities.Upload) *entities.Item {
	return &entities.Item{
		Title:            title,
		FileID:           upload.FileID,
		Kind:             upload.Kind,
		FileSize:         upload.FileSize,
		UploadedBy:       operator,
		StorageChatID:    upload.StorageChatID,
		StorageMessageID: upload.StorageMessageID,
	}
}

func normalizeAuthor(author string) string {
	author = strings.TrimSpace(author)
	if author == "" || author == "-" {
		return entities.UnknownAuthor
	}
	return author
}
