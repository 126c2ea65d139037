// Package memory provides an in-process catalog repository
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
)

// Repository keeps items and parts in maps guarded by a RWMutex
type Repository struct {
	mu     sync.RWMutex
	items  map[int64]entities.Item
	parts  map[int64][]entities.Part
	nextID int64
	partID int64
	now    func() time.Time
}

// NewRepository creates an empty in-memory repository
func NewRepository() deps.Repository {
	return newRepository(time.Now)
}

func newRepository(now func() time.Time) *Repository {
	return &Repository{
		items: make(map[int64]entities.Item),
		parts: make(map[int64][]entities.Part),
		now:   now,
	}
}

func (r *Repository) CreateItem(_ context.Context, item *entities.Item, parts ...*entities.Part) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	item.ID = r.nextID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.now()
	}
	r.items[item.ID] = *item

	for _, part := range parts {
		part.ItemID = item.ID
		r.appendPartLocked(part)
	}
	return nil
}

func (r *Repository) CreatePart(_ context.Context, part *entities.Part) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[part.ItemID]; !ok {
		return caterrors.ErrItemNotFound
	}
	r.appendPartLocked(part)
	return nil
}

func (r *Repository) appendPartLocked(part *entities.Part) {
	r.partID++
	part.ID = r.partID
	if part.CreatedAt.IsZero() {
		part.CreatedAt = r.now()
	}
	r.parts[part.ItemID] = append(r.parts[part.ItemID], *part)
}

func (r *Repository) GetItem(_ context.Context, id int64) (*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, caterrors.ErrItemNotFound
	}
	return &item, nil
}

func (r *Repository) ListParts(_ context.Context, itemID int64, kind entities.PayloadKind) ([]entities.Part, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entities.Part
	for _, p := range r.parts[itemID] {
		if kind == "" || p.Kind == kind {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repository) Search(_ context.Context, query string) ([]entities.Item, error) {
	needle := strings.ToLower(query)

	r.mu.RLock()
	var out []entities.Item
	for _, item := range r.items {
		if strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Author), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle) {
			out = append(out, item)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repository) DeleteItem(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return caterrors.ErrItemNotFound
	}
	delete(r.items, id)
	delete(r.parts, id)
	return nil
}

func (r *Repository) CountItems(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func (r *Repository) CountParts(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, parts := range r.parts {
		n += int64(len(parts))
	}
	return n, nil
}

func (r *Repository) Latest(_ context.Context, limit int) ([]entities.Item, error) {
	items := r.newestFirst()
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *Repository) Page(_ context.Context, offset, limit int) ([]entities.Item, int64, error) {
	items := r.newestFirst()
	total := int64(len(items))

	if offset >= len(items) {
		return nil, total, nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, total, nil
}

// newestFirst orders by id descending, which is creation order reversed
func (r *Repository) newestFirst() []entities.Item {
	r.mu.RLock()
	out := make([]entities.Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
