package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	caterrors "github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/errors"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) deps.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateItem(ctx context.Context, item *entities.Item, parts ...*entities.Part) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		for _, part := range parts {
			part.ItemID = item.ID
			if err := tx.Create(part).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) CreatePart(ctx context.Context, part *entities.Part) error {
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) GetItem(ctx context.Context, id int64) (*entities.Item, error) {
	var item entities.Item
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, caterrors.ErrItemNotFound
		}
		return nil, dbError(err)
	}
	return &item, nil
}

func (r *Repository) ListParts(ctx context.Context, itemID int64, kind entities.PayloadKind) ([]entities.Part, error) {
	var parts []entities.Part
	q := r.db.WithContext(ctx).Where("item_id = ?", itemID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if err := q.Order("id ASC").Find(&parts).Error; err != nil {
		return nil, dbError(err)
	}
	return parts, nil
}

func (r *Repository) Search(ctx context.Context, query string) ([]entities.Item, error) {
	pattern := "%" + escapeLike(query) + "%"

	var items []entities.Item
	err := r.db.WithContext(ctx).
		Where("title ILIKE ? OR author ILIKE ? OR description ILIKE ?", pattern, pattern, pattern).
		Order("title ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, dbError(err)
	}
	return items, nil
}

// DeleteItem removes the item; parts go with it through ON DELETE CASCADE
func (r *Repository) DeleteItem(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&entities.Item{}, id)
	if result.Error != nil {
		return dbError(result.Error)
	}
	if result.RowsAffected == 0 {
		return caterrors.ErrItemNotFound
	}
	return nil
}

func (r *Repository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Item{}).Count(&count).Error; err != nil {
		return 0, dbError(err)
	}
	return count, nil
}

func (r *Repository) CountParts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Part{}).Count(&count).Error; err != nil {
		return 0, dbError(err)
	}
	return count, nil
}

func (r *Repository) Latest(ctx context.Context, limit int) ([]entities.Item, error) {
	var items []entities.Item
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, dbError(err)
	}
	return items, nil
}

func (r *Repository) Page(ctx context.Context, offset, limit int) ([]entities.Item, int64, error) {
	total, err := r.CountItems(ctx)
	if err != nil {
		return nil, 0, err
	}

	var items []entities.Item
	err = r.db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, dbError(err)
	}
	return items, total, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %v", caterrors.ErrDatabase, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes query match literally inside a LIKE pattern
func escapeLike(query string) string {
	return likeEscaper.Replace(query)
}
