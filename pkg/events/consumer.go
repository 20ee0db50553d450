package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"scheduleflow/pkg/logger"
)

// EventHandler processes one slot event. Returning an error logs and skips
// the message; the offset is committed either way so a poison message cannot
// wedge the group.
type EventHandler func(ctx context.Context, event SlotEvent) error

type Consumer struct {
	reader  *kafka.Reader
	handler EventHandler
	log     *logger.Logger
	closed  bool
	mu      sync.RWMutex
}

func NewConsumer(brokers []string, topic string, groupID string, handler EventHandler, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0,
		Logger:         kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("kafka consumer error", "message", msg, "args", args)
		}),
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		log:     log,
	}
}

// Start consumes until the context is cancelled or the consumer is closed.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		c.mu.RLock()
		if c.closed {
			c.mu.RUnlock()
			return ErrConsumerClosed
		}
		c.mu.RUnlock()

		kafkaMsg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.log.Error("Failed to fetch message", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		event, err := UnmarshalSlotEvent(kafkaMsg.Value)
		if err != nil {
			c.log.Error("Discarding undecodable slot event",
				"topic", kafkaMsg.Topic,
				"partition", kafkaMsg.Partition,
				"offset", kafkaMsg.Offset,
				"error", err,
			)
		} else if err := c.handler(ctx, event); err != nil {
			c.log.Error("Slot event handler failed",
				"event_id", event.ID,
				"event_type", event.Type,
				"seller_id", event.SellerID,
				"error", err,
			)
		}

		if err := c.reader.CommitMessages(ctx, kafkaMsg); err != nil {
			c.log.Error("Failed to commit offset", "error", err)
		}
	}
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	return c.reader.Close()
}
