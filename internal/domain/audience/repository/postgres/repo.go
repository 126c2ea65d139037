package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/audience/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.Repository {
	return &Repository{db: db}
}

func (r *Repository) UpsertSubscriber(ctx context.Context, s *entities.Subscriber) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "is_bot", "language_code", "last_seen_at"}),
	}).Create(s).Error
	if err != nil {
		return fmt.Errorf("upsert subscriber %d: %w", s.ID, err)
	}
	return nil
}

func (r *Repository) UpsertGroup(ctx context.Context, g *entities.Group) error {
	g.IsActive = true
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "kind", "is_active", "last_activity_at"}),
	}).Create(g).Error
	if err != nil {
		return fmt.Errorf("upsert group %d: %w", g.ID, err)
	}
	return nil
}

func (r *Repository) SubscriberIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&entities.Subscriber{}).
		Order("first_seen_at ASC, id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list subscriber ids: %w", err)
	}
	return ids, nil
}

func (r *Repository) ActiveGroupIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&entities.Group{}).
		Where("is_active = ?", true).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list group ids: %w", err)
	}
	return ids, nil
}

func (r *Repository) CountSubscribers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Subscriber{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return count, nil
}

func (r *Repository) CountActiveGroups(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Group{}).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count groups: %w", err)
	}
	return count, nil
}
