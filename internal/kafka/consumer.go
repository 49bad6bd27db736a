package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Consumer struct {
	reader *kafka.Reader
	logger *zap.SugaredLogger
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.SugaredLogger) *Consumer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		logger: logger,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

// CatalogHandler adapts a typed event handler to raw messages. Undecodable
// messages are logged and skipped so that one bad record cannot stall the group.
func CatalogHandler(logger *zap.SugaredLogger, handle func(context.Context, CatalogEvent) error) func(context.Context, kafka.Message) error {
	return func(ctx context.Context, msg kafka.Message) error {
		var event CatalogEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Warnw("skipping undecodable catalog event", "offset", msg.Offset, "error", err)
			return nil
		}
		return handle(ctx, event)
	}
}
