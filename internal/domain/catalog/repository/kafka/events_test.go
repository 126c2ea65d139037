package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/library-bot/internal/domain/catalog/entities"
	infrakafka "github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/kafka"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
)

func TestPublishItemAdded(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event ItemAddedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.ItemID != 3 || !event.MultiPart || event.Kind != "audio" || event.Parts != 1 {
			return fmt.Errorf("unexpected event %+v", event)
		}
		return nil
	})

	producer := infrakafka.NewProducerWithClient(mock, "library-bot", metrics.NewMetrics(prometheus.NewRegistry()), zerolog.Nop())
	pub := NewPublisher(producer)

	item := &entities.Item{ID: 3, Title: "Lectures", Kind: entities.KindAudio, IsMultiPart: true, CreatedAt: time.Now()}
	require.NoError(t, pub.PublishItemAdded(context.Background(), item, 1))
	require.NoError(t, producer.Close())
}

func TestPublishItemDeleted(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndSucceed()

	producer := infrakafka.NewProducerWithClient(mock, "library-bot", metrics.NewMetrics(prometheus.NewRegistry()), zerolog.Nop())
	require.NoError(t, NewPublisher(producer).PublishItemDeleted(context.Background(), 3))
	require.NoError(t, producer.Close())
}
