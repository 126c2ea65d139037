package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Conte777/NewsFlow/services/library-bot/config"
	"github.com/Conte777/NewsFlow/services/library-bot/internal/infrastructure/metrics"
)

// Producer publishes JSON events. A Producer without a sarama client drops events.
type Producer struct {
	producer sarama.SyncProducer
	prefix   string
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	mu      sync.Mutex
	lastErr error
}

// NewProducer connects to the brokers, or returns a dropping Producer when Kafka is disabled
func NewProducer(cfg *config.KafkaConfig, m *metrics.Metrics, logger zerolog.Logger) (*Producer, error) {
	if !cfg.Enabled {
		logger.Info().Msg("Kafka disabled, domain events will not be published")
		return &Producer{prefix: cfg.TopicPrefix, metrics: m, logger: logger}, nil
	}

	brokers := cfg.Brokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9093"}
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", brokers).Msg("Kafka producer initialized successfully")

	return NewProducerWithClient(producer, cfg.TopicPrefix, m, logger), nil
}

// NewProducerWithClient wraps an existing sarama producer
func NewProducerWithClient(producer sarama.SyncProducer, prefix string, m *metrics.Metrics, logger zerolog.Logger) *Producer {
	return &Producer{
		producer: producer,
		prefix:   prefix,
		metrics:  m,
		logger:   logger,
	}
}

// Enabled reports whether events actually leave the process
func (p *Producer) Enabled() bool {
	return p.producer != nil
}

// Topic prefixes name with the configured topic prefix
func (p *Producer) Topic(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + "." + name
}

// Publish sends event as JSON to the prefixed topic, keyed by key when non-empty
func (p *Producer) Publish(ctx context.Context, name, key string, event interface{}) error {
	if p.producer == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	topic := p.Topic(name)

	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(jsonData),
	}
	if key != "" {
		message.Key = sarama.StringEncoder(key)
	}

	partition, offset, err := p.producer.SendMessage(message)
	p.setLastErr(err)
	if err != nil {
		p.metrics.RecordKafkaError(topic)
		p.logger.Error().Err(err).Str("topic", topic).Msg("Failed to send Kafka message")
		return err
	}

	p.logger.Debug().
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent successfully")

	return nil
}

// LastError returns the outcome of the most recent send
func (p *Producer) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Producer) setLastErr(err error) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}
