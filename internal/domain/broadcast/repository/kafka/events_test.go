package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/broadcast/entities"
	infrakafka "github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/kafka"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
)

func TestPublishFinished(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event FinishedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.OperatorID != 42 || event.Status != "stopped" || event.Sent != 4 || event.Total != 10 {
			return fmt.Errorf("unexpected event %+v", event)
		}
		return nil
	})

	producer := infrakafka.NewProducerWithClient(mock, "library-bot", metrics.NewMetrics(prometheus.NewRegistry()), zerolog.Nop())
	pub := NewPublisher(producer)

	now := time.Now()
	err := pub.PublishFinished(context.Background(), entities.Finished{
		Progress:   entities.Progress{Operator: 42, Status: entities.StatusStopped, Sent: 4, Total: 10},
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestPublishFinishedFailure(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	m := metrics.NewMetrics(prometheus.NewRegistry())
	producer := infrakafka.NewProducerWithClient(mock, "library-bot", m, zerolog.Nop())

	err := NewPublisher(producer).PublishFinished(context.Background(), entities.Finished{
		Progress: entities.Progress{Operator: 1, Status: entities.StatusCompleted},
	})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, producer.Close())
}
