package events

import (
	"context"
	"time"

	"github.com/Domenick1991/flightsearch/internal/kafka"
	"github.com/Domenick1991/flightsearch/internal/metrics"
	"go.uber.org/zap"
)

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error
}

// Notifier publishes catalog events after a write has committed. Delivery
// failures are logged and never reported to the caller.
type Notifier struct {
	producer Producer
	topic    string
	retries  int
	logger   *zap.SugaredLogger
	metrics  *metrics.Registry
	now      func() time.Time
}

func NewNotifier(producer Producer, topic string, retries int, logger *zap.SugaredLogger, m *metrics.Registry) *Notifier {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if retries <= 0 {
		retries = 1
	}
	return &Notifier{producer: producer, topic: topic, retries: retries, logger: logger, metrics: m, now: time.Now}
}

func (n *Notifier) Notify(ctx context.Context, eventType kafka.EventType, entityID, actorID string, airlineCodes []string) {
	if n == nil || n.producer == nil || n.topic == "" {
		return
	}
	event := kafka.CatalogEvent{
		Type:         eventType,
		EntityID:     entityID,
		AirlineCodes: airlineCodes,
		ActorID:      actorID,
		OccurredAt:   n.now().UTC(),
	}

	result := "ok"
	if err := n.producer.PublishWithRetry(ctx, n.topic, entityID, event, n.retries); err != nil {
		result = "failed"
		n.logger.Warnw("failed to publish catalog event",
			"event", string(eventType),
			"entity_id", entityID,
			"error", err,
		)
	}
	if n.metrics != nil {
		n.metrics.CatalogEventsTotal.WithLabelValues(string(eventType), result).Inc()
	}
}
