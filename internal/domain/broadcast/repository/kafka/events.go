// Package kafka publishes broadcast events
package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/deps"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/entities"
	infrakafka "github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/kafka"
)

const TopicFinished = "broadcast.finished"

// FinishedEvent is published when a broadcast completes or is stopped
type FinishedEvent struct {
	OperatorID int64  `json:"operator_id"`
	Status     string `json:"status"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
	Total      int    `json:"total"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}

type publisher struct {
	producer *infrakafka.Producer
}

// NewPublisher creates the broadcast event publisher
func NewPublisher(producer *infrakafka.Producer) deps.EventPublisher {
	return &publisher{producer: producer}
}

func (p *publisher) PublishFinished(ctx context.Context, f entities.Finished) error {
	event := FinishedEvent{
		OperatorID: f.Operator,
		Status:     string(f.Status),
		Sent:       f.Sent,
		Failed:     f.Failed,
		Total:      f.Total,
		StartedAt:  f.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: f.FinishedAt.UTC().Format(time.RFC3339),
	}
	return p.producer.Publish(ctx, TopicFinished, strconv.FormatInt(f.Operator, 10), event)
}
