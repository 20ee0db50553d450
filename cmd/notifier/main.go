// The notifier consumes slot events and fans them out to interested parties.
// Today it logs every event; delivery channels (mail, push) plug into
// handleSlotEvent without touching the API service.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"scheduleflow/pkg/config"
	"scheduleflow/pkg/events"
)

const ServiceName = "notifier"

const consumerGroup = "scheduleflow-notifier"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting slot event notifier",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaSlotEventTopic,
		"group", consumerGroup,
	)

	consumer := events.NewConsumer(
		cfg.KafkaBrokers,
		cfg.KafkaSlotEventTopic,
		consumerGroup,
		handleSlotEvent(cfg),
		cfg.Log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := consumer.Start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, events.ErrConsumerClosed) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}

func handleSlotEvent(cfg *config.Config) events.EventHandler {
	return func(_ context.Context, event events.SlotEvent) error {
		switch event.Type {
		case events.SlotBooked:
			cfg.Log.Info("Slot booked",
				"event_id", event.ID,
				"seller_id", event.SellerID,
				"slot_ids", event.SlotIDs,
			)
		case events.SlotsAdded:
			cfg.Log.Info("Availability published",
				"event_id", event.ID,
				"seller_id", event.SellerID,
				"slots", len(event.SlotIDs),
			)
		case events.SlotRemoved:
			cfg.Log.Info("Slot removed",
				"event_id", event.ID,
				"seller_id", event.SellerID,
				"slot_ids", event.SlotIDs,
			)
		default:
			cfg.Log.Warn("Unknown slot event type", "event_id", event.ID, "type", event.Type)
		}
		return nil
	}
}
