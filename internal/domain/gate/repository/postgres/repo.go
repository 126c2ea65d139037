package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/entities"
	gateerrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/gate/errors"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.Repository {
	return &Repository{db: db}
}

func (r *Repository) Upsert(ctx context.Context, ch *entities.Channel) error {
	ch.IsActive = true
	columns := []string{"chat_id", "title", "username", "is_active"}
	if ch.InviteLink != "" {
		columns = append(columns, "invite_link")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_ref"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(ch).Error
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*entities.Channel, error) {
	var ch entities.Channel
	err := r.db.WithContext(ctx).First(&ch, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gateerrors.ErrChannelNotFound
		}
		return nil, dbError(err)
	}
	return &ch, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]entities.Channel, error) {
	var channels []entities.Channel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("added_at ASC, id ASC").
		Find(&channels).Error
	if err != nil {
		return nil, dbError(err)
	}
	return channels, nil
}

func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	return r.update(ctx, id, "is_active", false)
}

func (r *Repository) SetInviteLink(ctx context.Context, id int64, link string) error {
	return r.update(ctx, id, "invite_link", link)
}

func (r *Repository) update(ctx context.Context, id int64, column string, value any) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Channel{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return dbError(result.Error)
	}
	if result.RowsAffected == 0 {
		return gateerrors.ErrChannelNotFound
	}
	return nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %v", gateerrors.ErrDatabase, err)
}
