package model

import (
	"fmt"
	"time"
)

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// TimeSlot is one bookable interval owned by a single seller. The ID is
// derived from (seller, start instant) so re-generating an overlapping range
// dedupes naturally instead of inserting twice. Status only ever moves
// available -> booked.
type TimeSlot struct {
	ID        string     `json:"id" bson:"_id" validate:"required"`
	SellerID  string     `json:"seller_id" bson:"seller_id" validate:"required"`
	StartTime time.Time  `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time  `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status    SlotStatus `json:"status" bson:"status" validate:"required,oneof=available booked"`
	BookedBy  string     `json:"booked_by,omitempty" bson:"booked_by,omitempty" validate:"omitempty,email"`
	BookedAt  *time.Time `json:"booked_at,omitempty" bson:"booked_at,omitempty" validate:"omitempty"`
}

// GenerateSlotsRequest asks for a day of a seller's calendar to be carved
// into fixed-duration slots. Absent fields fall back to configured defaults.
type GenerateSlotsRequest struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	StartOfDay      string `json:"start_of_day" validate:"omitempty,time_of_day"`
	EndOfDay        string `json:"end_of_day" validate:"omitempty,time_of_day"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=5,max=480"`
	TimeZone        string `json:"time_zone" validate:"omitempty,timezone"`
}

// SlotID derives the deterministic document ID for a seller's slot.
func SlotID(sellerID string, start time.Time) string {
	return fmt.Sprintf("%s-%s", sellerID, start.UTC().Format(time.RFC3339))
}
