// Package memory provides an in-process audience repository
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/entities"
)

type Repository struct {
	mu          sync.RWMutex
	subscribers map[int64]entities.Subscriber
	groups      map[int64]entities.Group
}

func NewRepository() deps.Repository {
	return &Repository{
		subscribers: make(map[int64]entities.Subscriber),
		groups:      make(map[int64]entities.Group),
	}
}

func (r *Repository) UpsertSubscriber(_ context.Context, s *entities.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.subscribers[s.ID]; ok {
		s.FirstSeenAt = existing.FirstSeenAt
	}
	r.subscribers[s.ID] = *s
	return nil
}

func (r *Repository) UpsertGroup(_ context.Context, g *entities.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g.IsActive = true
	if existing, ok := r.groups[g.ID]; ok {
		g.FirstSeenAt = existing.FirstSeenAt
	}
	r.groups[g.ID] = *g
	return nil
}

func (r *Repository) SubscriberIDs(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	subs := make([]entities.Subscriber, 0, len(r.subscribers))
	for _, s := range r.subscribers {
		subs = append(subs, s)
	}
	r.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].FirstSeenAt.Equal(subs[j].FirstSeenAt) {
			return subs[i].FirstSeenAt.Before(subs[j].FirstSeenAt)
		}
		return subs[i].ID < subs[j].ID
	})

	ids := make([]int64, len(subs))
	for i, s := range subs {
		ids[i] = s.ID
	}
	return ids, nil
}

func (r *Repository) ActiveGroupIDs(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	var ids []int64
	for id, g := range r.groups {
		if g.IsActive {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *Repository) CountSubscribers(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.subscribers)), nil
}

func (r *Repository) CountActiveGroups(ctx context.Context) (int64, error) {
	ids, err := r.ActiveGroupIDs(ctx)
	return int64(len(ids)), err
}
