package slots

import (
	"errors"
	"testing"
	"time"

	"scheduleflow/pkg/model"
)

func TestGenerate_TwoSlotScenario(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got, err := Generate("seller-1", date, "09:00", "10:00", 30, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got))
	}

	first := got[0]
	if !first.StartTime.Equal(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("first slot start = %v, want 09:00", first.StartTime)
	}
	if !first.EndTime.Equal(time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("first slot end = %v, want 09:30", first.EndTime)
	}

	second := got[1]
	if !second.StartTime.Equal(first.EndTime) {
		t.Errorf("slots are not contiguous: %v != %v", second.StartTime, first.EndTime)
	}
	if !second.EndTime.Equal(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("second slot end = %v, want 10:00", second.EndTime)
	}
}

func TestGenerate_Properties(t *testing.T) {
	tests := []struct {
		name        string
		startOfDay  string
		endOfDay    string
		durationMin int
		wantCount   int
	}{
		{"exact fit", "09:00", "17:00", 60, 8},
		{"remainder dropped", "09:00", "10:50", 30, 3},
		{"range shorter than duration", "09:00", "09:20", 30, 0},
		{"single slot", "09:00", "09:30", 30, 1},
		{"odd duration", "08:00", "12:00", 45, 5},
	}

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate("seller-1", date, tt.startOfDay, tt.endOfDay, tt.durationMin, time.UTC)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.wantCount {
				t.Fatalf("expected %d slots, got %d", tt.wantCount, len(got))
			}

			duration := time.Duration(tt.durationMin) * time.Minute
			rangeEnd, _ := atTimeOfDay(date, tt.endOfDay, time.UTC)
			for i, slot := range got {
				if slot.EndTime.Sub(slot.StartTime) != duration {
					t.Errorf("slot %d has length %v, want %v", i, slot.EndTime.Sub(slot.StartTime), duration)
				}
				if slot.EndTime.After(rangeEnd) {
					t.Errorf("slot %d extends past range end: %v > %v", i, slot.EndTime, rangeEnd)
				}
				if slot.Status != model.SlotAvailable {
					t.Errorf("slot %d status = %q, want available", i, slot.Status)
				}
				if i > 0 && !slot.StartTime.Equal(got[i-1].EndTime) {
					t.Errorf("slot %d not contiguous with previous", i)
				}
			}
		})
	}
}

func TestGenerate_DeterministicIDs(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := Generate("seller-1", date, "09:00", "11:00", 30, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Generate("seller-1", date, "09:00", "11:00", 30, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("slot %d ID not deterministic: %q != %q", i, first[i].ID, second[i].ID)
		}
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		startOfDay  string
		endOfDay    string
		durationMin int
		wantErr     error
	}{
		{"zero duration", "09:00", "10:00", 0, ErrInvalidDuration},
		{"negative duration", "09:00", "10:00", -15, ErrInvalidDuration},
		{"inverted range", "10:00", "09:00", 30, ErrInvalidRange},
		{"equal range", "09:00", "09:00", 30, ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate("seller-1", date, tt.startOfDay, tt.endOfDay, tt.durationMin, time.UTC)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("malformed time of day", func(t *testing.T) {
		if _, err := Generate("seller-1", date, "9am", "10:00", 30, time.UTC); err == nil {
			t.Error("expected error for malformed start of day")
		}
	})
}

func TestFilterNew(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	generated, err := Generate("seller-1", date, "09:00", "11:00", 30, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(generated) != 4 {
		t.Fatalf("expected 4 generated slots, got %d", len(generated))
	}

	// First two already persisted from an earlier generation run.
	existing := []*model.TimeSlot{&generated[0], &generated[1]}

	fresh := FilterNew(generated, existing)
	if len(fresh) != 2 {
		t.Fatalf("expected 2 new slots, got %d", len(fresh))
	}
	if fresh[0].ID != generated[2].ID || fresh[1].ID != generated[3].ID {
		t.Error("FilterNew kept the wrong slots")
	}

	// Re-running against a fully populated set adds nothing.
	all := make([]*model.TimeSlot, len(generated))
	for i := range generated {
		all[i] = &generated[i]
	}
	if remaining := FilterNew(generated, all); len(remaining) != 0 {
		t.Errorf("expected idempotent generation to add zero slots, got %d", len(remaining))
	}
}
