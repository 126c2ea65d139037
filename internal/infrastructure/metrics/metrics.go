package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library_bot"

// Metrics holds all Prometheus metrics for the library bot
type Metrics struct {
	// Catalog metrics
	SearchesTotal     *prometheus.CounterVec
	ItemsAddedTotal   prometheus.Counter
	ItemsDeletedTotal prometheus.Counter

	// Delivery metrics
	DeliveriesTotal *prometheus.CounterVec
	PartsSentTotal  prometheus.Counter
	RateLimitsTotal prometheus.Counter

	// Broadcast metrics
	BroadcastMessages *prometheus.CounterVec
	BroadcastsActive  prometheus.Gauge

	// Moderation metrics
	SpamDeletedTotal *prometheus.CounterVec

	// Kafka metrics
	KafkaProduceErrors *prometheus.CounterVec
}

var (
	// DefaultMetrics is registered on the default Prometheus registry
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return DefaultMetrics
}

// NewMetrics creates all collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		SearchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of catalog searches by result",
			},
			[]string{"result"},
		),
		ItemsAddedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_items_added_total",
			Help:      "Total number of catalog items created",
		}),
		ItemsDeletedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_items_deleted_total",
			Help:      "Total number of catalog items deleted",
		}),

		DeliveriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deliveries_total",
				Help:      "Total number of single item deliveries by path and outcome",
			},
			[]string{"mode", "outcome"},
		),
		PartsSentTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parts_sent_total",
			Help:      "Total number of multi-part payloads delivered",
		}),
		RateLimitsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limits_total",
			Help:      "Total number of rate limit responses from Telegram API",
		}),

		BroadcastMessages: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "broadcast_messages_total",
				Help:      "Total number of broadcast sends by outcome",
			},
			[]string{"outcome"},
		),
		BroadcastsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "broadcasts_active",
			Help:      "Current number of running broadcasts",
		}),

		SpamDeletedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "spam_deleted_total",
				Help:      "Total number of group messages removed by reason",
			},
			[]string{"reason"},
		),

		KafkaProduceErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "kafka_produce_errors_total",
				Help:      "Total number of Kafka produce errors",
			},
			[]string{"topic"},
		),
	}
}

// RecordSearch records a search with or without hits
func (m *Metrics) RecordSearch(hits int) {
	result := "hit"
	if hits == 0 {
		result = "empty"
	}
	m.SearchesTotal.WithLabelValues(result).Inc()
}

// RecordItemAdded records a new catalog item
func (m *Metrics) RecordItemAdded() {
	m.ItemsAddedTotal.Inc()
}

// RecordItemDeleted records a catalog item deletion
func (m *Metrics) RecordItemDeleted() {
	m.ItemsDeletedTotal.Inc()
}

// RecordDelivery records a single delivery attempt; mode is copy or file_id
func (m *Metrics) RecordDelivery(mode, outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.DeliveriesTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordPartSent records one delivered part
func (m *Metrics) RecordPartSent() {
	m.PartsSentTotal.Inc()
}

// RecordRateLimit records a rate limit event from Telegram API
func (m *Metrics) RecordRateLimit() {
	m.RateLimitsTotal.Inc()
}

// RecordBroadcastMessage records one broadcast send
func (m *Metrics) RecordBroadcastMessage(sent bool) {
	outcome := "sent"
	if !sent {
		outcome = "failed"
	}
	m.BroadcastMessages.WithLabelValues(outcome).Inc()
}

// BroadcastStarted increments the running broadcasts gauge
func (m *Metrics) BroadcastStarted() {
	m.BroadcastsActive.Inc()
}

// BroadcastFinished decrements the running broadcasts gauge
func (m *Metrics) BroadcastFinished() {
	m.BroadcastsActive.Dec()
}

// RecordSpamDeleted records a removed group message
func (m *Metrics) RecordSpamDeleted(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	m.SpamDeletedTotal.WithLabelValues(reason).Inc()
}

// RecordKafkaError records a Kafka production error for topic
func (m *Metrics) RecordKafkaError(topic string) {
	m.KafkaProduceErrors.WithLabelValues(topic).Inc()
}
