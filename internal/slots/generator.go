// Package slots turns a seller's working window into bookable time slots.
package slots

import (
	"errors"
	"fmt"
	"time"

	"scheduleflow/pkg/model"
)

var (
	ErrInvalidDuration = errors.New("slot duration must be positive")
	ErrInvalidRange    = errors.New("end of range must be after start")
)

// Generate produces contiguous slots of exactly durationMin minutes between
// date@startOfDay and date@endOfDay. A trailing remainder shorter than the
// duration is dropped, not truncated. Slot IDs are deterministic from
// (seller, start instant), so inserting the output twice dedupes naturally.
func Generate(sellerID string, date time.Time, startOfDay, endOfDay string, durationMin int, loc *time.Location) ([]model.TimeSlot, error) {
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}
	if loc == nil {
		loc = time.UTC
	}

	start, err := atTimeOfDay(date, startOfDay, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid start of range: %w", err)
	}
	end, err := atTimeOfDay(date, endOfDay, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid end of range: %w", err)
	}
	if !end.After(start) {
		return nil, ErrInvalidRange
	}

	duration := time.Duration(durationMin) * time.Minute

	var generated []model.TimeSlot
	for cur := start; !cur.Add(duration).After(end); cur = cur.Add(duration) {
		slotEnd := cur.Add(duration)
		generated = append(generated, model.TimeSlot{
			ID:        model.SlotID(sellerID, cur),
			SellerID:  sellerID,
			StartTime: cur,
			EndTime:   slotEnd,
			Status:    model.SlotAvailable,
		})
	}

	return generated, nil
}

// FilterNew drops generated slots whose start instant already exists in the
// seller's availability, keyed by the derived slot ID.
func FilterNew(generated []model.TimeSlot, existing []*model.TimeSlot) []model.TimeSlot {
	seen := make(map[string]struct{}, len(existing))
	for _, slot := range existing {
		seen[slot.ID] = struct{}{}
	}

	fresh := make([]model.TimeSlot, 0, len(generated))
	for _, slot := range generated {
		if _, dup := seen[slot.ID]; !dup {
			fresh = append(fresh, slot)
		}
	}
	return fresh
}

func atTimeOfDay(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("time of day must be in HH:MM format, got %q", hhmm)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}
