// Package kafka publishes catalog events
package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	infrakafka "github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/kafka"
)

const (
	TopicItemAdded   = "catalog.item_added"
	TopicItemDeleted = "catalog.item_deleted"
)

// ItemAddedEvent is published when an item is created
type ItemAddedEvent struct {
	ItemID    int64  `json:"item_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Kind      string `json:"kind"`
	MultiPart bool   `json:"multi_part"`
	Parts     int    `json:"parts"`
	CreatedAt string `json:"created_at"`
}

// ItemDeletedEvent is published when an item is removed
type ItemDeletedEvent struct {
	ItemID    int64  `json:"item_id"`
	DeletedAt string `json:"deleted_at"`
}

type publisher struct {
	producer *infrakafka.Producer
}

// NewPublisher creates the catalog event publisher
func NewPublisher(producer *infrakafka.Producer) deps.EventPublisher {
	return &publisher{producer: producer}
}

func (p *publisher) PublishItemAdded(ctx context.Context, item *entities.Item, parts int) error {
	event := ItemAddedEvent{
		ItemID:    item.ID,
		Title:     item.Title,
		Author:    item.Author,
		Kind:      string(item.Kind),
		MultiPart: item.IsMultiPart,
		Parts:     parts,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
	return p.producer.Publish(ctx, TopicItemAdded, strconv.FormatInt(item.ID, 10), event)
}

func (p *publisher) PublishItemDeleted(ctx context.Context, itemID int64) error {
	event := ItemDeletedEvent{
		ItemID:    itemID,
		DeletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return p.producer.Publish(ctx, TopicItemDeleted, strconv.FormatInt(itemID, 10), event)
}
