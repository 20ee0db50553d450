package service

import (
	"context"
	"io"
	"testing"
	"time"

	availabilityerrors "scheduleflow/internal/availability/errors"
	"scheduleflow/internal/availability/validator"
	"scheduleflow/pkg/config"
	apperrors "scheduleflow/pkg/errors"
	"scheduleflow/pkg/events"
	"scheduleflow/pkg/logger"
	"scheduleflow/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"

	mongotx "scheduleflow/pkg/db/mongo"
)

type mockRepo struct {
	listFn      func(sellerID string, limit int, offset int64) ([]*model.TimeSlot, error)
	findFn      func(slotID string) (*model.TimeSlot, error)
	insertFn    func(slots []model.TimeSlot) error
	deleteFn    func(sellerID, slotID string) (int64, error)
	setBookedFn func(sellerID, slotID, bookedBy string, bookedAt time.Time) error
	countFn     func(sellerID string) (int64, error)
}

func (m *mockRepo) ListBySeller(_ context.Context, sellerID string, limit int, offset int64) ([]*model.TimeSlot, error) {
	if m.listFn != nil {
		return m.listFn(sellerID, limit, offset)
	}
	return nil, nil
}

func (m *mockRepo) FindByID(_ context.Context, slotID string) (*model.TimeSlot, error) {
	if m.findFn != nil {
		return m.findFn(slotID)
	}
	return nil, availabilityerrors.ErrNotFound
}

func (m *mockRepo) InsertMany(_ context.Context, slots []model.TimeSlot) error {
	if m.insertFn != nil {
		return m.insertFn(slots)
	}
	return nil
}

func (m *mockRepo) Delete(_ context.Context, sellerID, slotID string) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(sellerID, slotID)
	}
	return 0, nil
}

func (m *mockRepo) SetBooked(_ context.Context, sellerID, slotID, bookedBy string, bookedAt time.Time) error {
	if m.setBookedFn != nil {
		return m.setBookedFn(sellerID, slotID, bookedBy, bookedAt)
	}
	return nil
}

func (m *mockRepo) CountBySeller(_ context.Context, sellerID string) (int64, error) {
	if m.countFn != nil {
		return m.countFn(sellerID)
	}
	return 0, nil
}

func (m *mockRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockPublisher struct {
	published []events.SlotEvent
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, event events.SlotEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, event)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log:                    logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
		CalendarTimeZone:       "UTC",
		DefaultSlotDurationMin: 30,
		DefaultStartOfDay:      "09:00",
		DefaultEndOfDay:        "17:00",
	}
}

func newTestService(repo *mockRepo, pub SlotEventPublisher) AvailabilityService {
	cfg := testConfig()
	return NewAvailabilityService(repo, validator.NewAvailabilityValidator(cfg.Log), pub, cfg)
}

func TestGenerate_AddsNewSlots(t *testing.T) {
	var inserted []model.TimeSlot
	repo := &mockRepo{
		listFn: func(string, int, int64) ([]*model.TimeSlot, error) { return nil, nil },
		insertFn: func(slots []model.TimeSlot) error {
			inserted = slots
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	added, err := svc.Generate(context.Background(), "seller-1", &model.GenerateSlotsRequest{
		Date:       "2024-06-01",
		StartOfDay: "09:00",
		EndOfDay:   "10:00",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 slots added, got %d", added)
	}
	if len(inserted) != 2 {
		t.Fatalf("expected 2 slots inserted, got %d", len(inserted))
	}
	for _, slot := range inserted {
		if slot.Status != model.SlotAvailable {
			t.Errorf("slot %s: expected status available, got %s", slot.ID, slot.Status)
		}
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.published))
	}
	if pub.published[0].Type != events.SlotsAdded {
		t.Errorf("expected %s event, got %s", events.SlotsAdded, pub.published[0].Type)
	}
	if len(pub.published[0].SlotIDs) != 2 {
		t.Errorf("expected 2 slot IDs in event, got %d", len(pub.published[0].SlotIDs))
	}
}

func TestGenerate_IdempotentWhenAllExist(t *testing.T) {
	existing := []*model.TimeSlot{}
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		s := start.Add(time.Duration(i) * 30 * time.Minute)
		existing = append(existing, &model.TimeSlot{
			ID:        model.SlotID("seller-1", s),
			SellerID:  "seller-1",
			StartTime: s,
			EndTime:   s.Add(30 * time.Minute),
			Status:    model.SlotAvailable,
		})
	}

	insertCalled := false
	repo := &mockRepo{
		listFn:   func(string, int, int64) ([]*model.TimeSlot, error) { return existing, nil },
		insertFn: func([]model.TimeSlot) error { insertCalled = true; return nil },
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	added, err := svc.Generate(context.Background(), "seller-1", &model.GenerateSlotsRequest{
		Date:       "2024-06-01",
		StartOfDay: "09:00",
		EndOfDay:   "10:00",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected 0 slots added, got %d", added)
	}
	if insertCalled {
		t.Error("expected no insert when all slots already exist")
	}
	if len(pub.published) != 0 {
		t.Errorf("expected no events, got %d", len(pub.published))
	}
}

func TestGenerate_ValidationFailure(t *testing.T) {
	svc := newTestService(&mockRepo{}, &mockPublisher{})

	tests := []struct {
		name string
		req  *model.GenerateSlotsRequest
	}{
		{"bad date", &model.GenerateSlotsRequest{Date: "June 1st"}},
		{"missing date", &model.GenerateSlotsRequest{}},
		{"bad time of day", &model.GenerateSlotsRequest{Date: "2024-06-01", StartOfDay: "9am"}},
		{"duration too small", &model.GenerateSlotsRequest{Date: "2024-06-01", DurationMinutes: 1}},
		{"bad time zone", &model.GenerateSlotsRequest{Date: "2024-06-01", TimeZone: "Mars/Olympus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), "seller-1", tt.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			appErr := apperrors.AsAppError(err)
			if appErr == nil {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != apperrors.CodeValidation && appErr.Code != apperrors.CodeInvalidInput {
				t.Errorf("expected validation code, got %s", appErr.Code)
			}
		})
	}
}

func TestRemove_AbsentSlotIsNoOp(t *testing.T) {
	repo := &mockRepo{
		findFn: func(string) (*model.TimeSlot, error) { return nil, availabilityerrors.ErrNotFound },
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	if err := svc.Remove(context.Background(), "seller-1", "seller-1-2024-06-01T09:00:00Z"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("expected no events for no-op removal, got %d", len(pub.published))
	}
}

func TestRemove_BookedSlotRefused(t *testing.T) {
	repo := &mockRepo{
		findFn: func(slotID string) (*model.TimeSlot, error) {
			return &model.TimeSlot{ID: slotID, SellerID: "seller-1", Status: model.SlotBooked}, nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	err := svc.Remove(context.Background(), "seller-1", "seller-1-2024-06-01T09:00:00Z")
	if err == nil {
		t.Fatal("expected conflict, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %v", apperrors.CodeConflict, err)
	}
}

func TestRemove_DeletesAndPublishes(t *testing.T) {
	repo := &mockRepo{
		findFn: func(slotID string) (*model.TimeSlot, error) {
			return &model.TimeSlot{ID: slotID, SellerID: "seller-1", Status: model.SlotAvailable}, nil
		},
		deleteFn: func(string, string) (int64, error) { return 1, nil },
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	if err := svc.Remove(context.Background(), "seller-1", "seller-1-2024-06-01T09:00:00Z"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0].Type != events.SlotRemoved {
		t.Fatalf("expected one %s event, got %v", events.SlotRemoved, pub.published)
	}
}

func TestMarkBooked_Success(t *testing.T) {
	slotID := model.SlotID("seller-1", time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	var gotBookedBy string
	repo := &mockRepo{
		setBookedFn: func(_, _, bookedBy string, _ time.Time) error {
			gotBookedBy = bookedBy
			return nil
		},
		findFn: func(id string) (*model.TimeSlot, error) {
			now := time.Now().UTC()
			return &model.TimeSlot{
				ID:       id,
				SellerID: "seller-1",
				Status:   model.SlotBooked,
				BookedBy: "buyer@example.com",
				BookedAt: &now,
			}, nil
		},
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	slot, err := svc.MarkBooked(context.Background(), "seller-1", slotID, "buyer@example.com")
	if err != nil {
		t.Fatalf("MarkBooked: %v", err)
	}
	if gotBookedBy != "buyer@example.com" {
		t.Errorf("expected booked_by buyer@example.com, got %s", gotBookedBy)
	}
	if slot.Status != model.SlotBooked {
		t.Errorf("expected booked status, got %s", slot.Status)
	}
	if len(pub.published) != 1 || pub.published[0].Type != events.SlotBooked {
		t.Fatalf("expected one %s event, got %v", events.SlotBooked, pub.published)
	}
}

func TestMarkBooked_Conflict(t *testing.T) {
	repo := &mockRepo{
		setBookedFn: func(string, string, string, time.Time) error {
			return availabilityerrors.ErrAlreadyBooked
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	_, err := svc.MarkBooked(context.Background(), "seller-1", "some-slot", "buyer@example.com")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %v", apperrors.CodeConflict, err)
	}
}

func TestMarkBooked_NotFound(t *testing.T) {
	repo := &mockRepo{
		setBookedFn: func(string, string, string, time.Time) error {
			return availabilityerrors.ErrNotFound
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	_, err := svc.MarkBooked(context.Background(), "seller-1", "missing-slot", "buyer@example.com")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestMarkBooked_PublisherFailureDoesNotFailBooking(t *testing.T) {
	repo := &mockRepo{
		findFn: func(id string) (*model.TimeSlot, error) {
			return &model.TimeSlot{ID: id, SellerID: "seller-1", Status: model.SlotBooked}, nil
		},
	}
	pub := &mockPublisher{err: context.DeadlineExceeded}
	svc := newTestService(repo, pub)

	if _, err := svc.MarkBooked(context.Background(), "seller-1", "some-slot", "buyer@example.com"); err != nil {
		t.Fatalf("expected booking to survive publish failure, got %v", err)
	}
}
