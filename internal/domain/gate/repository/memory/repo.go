// Package memory provides an in-process gating channel repository
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/entities"
	gateerrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/errors"
)

type Repository struct {
	mu       sync.RWMutex
	channels map[int64]entities.Channel
	byRef    map[string]int64
	nextID   int64
}

func NewRepository() deps.Repository {
	return &Repository{
		channels: make(map[int64]entities.Channel),
		byRef:    make(map[string]int64),
	}
}

func (r *Repository) Upsert(_ context.Context, ch *entities.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch.IsActive = true
	if id, ok := r.byRef[ch.Ref]; ok {
		existing := r.channels[id]
		existing.ChatID = ch.ChatID
		existing.Title = ch.Title
		existing.Username = ch.Username
		existing.IsActive = true
		if ch.InviteLink != "" {
			existing.InviteLink = ch.InviteLink
		}
		r.channels[id] = existing
		*ch = existing
		return nil
	}

	r.nextID++
	ch.ID = r.nextID
	r.channels[ch.ID] = *ch
	r.byRef[ch.Ref] = ch.ID
	return nil
}

func (r *Repository) Get(_ context.Context, id int64) (*entities.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.channels[id]
	if !ok {
		return nil, gateerrors.ErrChannelNotFound
	}
	return &ch, nil
}

func (r *Repository) ListActive(_ context.Context) ([]entities.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var channels []entities.Channel
	for _, ch := range r.channels {
		if ch.IsActive {
			channels = append(channels, ch)
		}
	}
	sort.Slice(channels, func(i, j int) bool {
		if !channels[i].AddedAt.Equal(channels[j].AddedAt) {
			return channels[i].AddedAt.Before(channels[j].AddedAt)
		}
		return channels[i].ID < channels[j].ID
	})
	return channels, nil
}

func (r *Repository) Deactivate(_ context.Context, id int64) error {
	return r.update(id, func(ch *entities.Channel) { ch.IsActive = false })
}

func (r *Repository) SetInviteLink(_ context.Context, id int64, link string) error {
	return r.update(id, func(ch *entities.Channel) { ch.InviteLink = link })
}

func (r *Repository) update(id int64, fn func(*entities.Channel)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.channels[id]
	if !ok {
		return gateerrors.ErrChannelNotFound
	}
	fn(&ch)
	r.channels[id] = ch
	return nil
}
