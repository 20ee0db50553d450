package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	SlotsAdded  EventType = "slots_added"
	SlotRemoved EventType = "slot_removed"
	SlotBooked  EventType = "slot_booked"
)

// Header keys shared by every published message.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// SlotEvent is the availability change notification published to Kafka.
// Messages are keyed by seller so one seller's events stay ordered within a
// partition.
type SlotEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	SellerID   string    `json:"seller_id"`
	SlotIDs    []string  `json:"slot_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewSlotEvent(eventType EventType, sellerID string, slotIDs ...string) SlotEvent {
	return SlotEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		SellerID:   sellerID,
		SlotIDs:    slotIDs,
		OccurredAt: time.Now().UTC(),
	}
}

func (e SlotEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalSlotEvent(data []byte) (SlotEvent, error) {
	var e SlotEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
