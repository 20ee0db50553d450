package service

import (
	"context"
	"errors"
	"sync"
	"time"

	availabilityerrors "scheduleflow/internal/availability/errors"
	"scheduleflow/internal/availability/repository"
	"scheduleflow/internal/availability/validator"
	"scheduleflow/internal/slots"
	"scheduleflow/pkg/config"
	apperrors "scheduleflow/pkg/errors"
	"scheduleflow/pkg/events"
	"scheduleflow/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotEventPublisher emits slot lifecycle events for downstream consumers.
// Publishing is best effort: the authoritative state lives in the database.
type SlotEventPublisher interface {
	Publish(ctx context.Context, event events.SlotEvent) error
}

type AvailabilityService interface {
	List(ctx context.Context, sellerID string, limit int, offset int64) ([]*model.TimeSlot, int64, error)
	Generate(ctx context.Context, sellerID string, req *model.GenerateSlotsRequest) (int, error)
	Remove(ctx context.Context, sellerID string, slotID string) error
	MarkBooked(ctx context.Context, sellerID string, slotID string, bookedBy string) (*model.TimeSlot, error)
	GetSlot(ctx context.Context, slotID string) (*model.TimeSlot, error)
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	validator *validator.AvailabilityValidator
	publisher SlotEventPublisher
	cfg       *config.Config
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	validator *validator.AvailabilityValidator,
	publisher SlotEventPublisher,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *availabilityService) List(ctx context.Context, sellerID string, limit int, offset int64) ([]*model.TimeSlot, int64, error) {
	if sellerID == "" {
		return nil, 0, apperrors.InvalidInput("Seller ID cannot be empty")
	}

	var count int64
	var found []*model.TimeSlot
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountBySeller(ctx, sellerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count slots", "seller_id", sellerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count slots", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		found, errFind = s.repo.ListBySeller(ctx, sellerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list slots", "seller_id", sellerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve slots", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return found, count, nil
}

// Generate carves one day of the seller's calendar into slots and stores the
// ones that do not exist yet. The insert runs in a transaction so a partial
// day is never persisted. Returns the number of slots actually added, which
// is zero when the whole range was generated before.
func (s *availabilityService) Generate(ctx context.Context, sellerID string, req *model.GenerateSlotsRequest) (int, error) {
	if sellerID == "" {
		return 0, apperrors.InvalidInput("Seller ID cannot be empty")
	}
	if err := s.validator.ValidateGenerateRequest(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := map[string]any{}
			for _, v := range verrs {
				details[v.Field] = v.Message
			}
			return 0, apperrors.Validation("Slot generation request failed validation", details)
		}
		return 0, apperrors.InvalidInput(err.Error())
	}

	startOfDay := req.StartOfDay
	if startOfDay == "" {
		startOfDay = s.cfg.DefaultStartOfDay
	}
	endOfDay := req.EndOfDay
	if endOfDay == "" {
		endOfDay = s.cfg.DefaultEndOfDay
	}
	durationMin := req.DurationMinutes
	if durationMin == 0 {
		durationMin = s.cfg.DefaultSlotDurationMin
	}
	tz := req.TimeZone
	if tz == "" {
		tz = s.cfg.CalendarTimeZone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return 0, apperrors.InvalidInput("Unknown time zone: " + tz)
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, loc)
	if err != nil {
		return 0, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	generated, err := slots.Generate(sellerID, date, startOfDay, endOfDay, durationMin, loc)
	if err != nil {
		if errors.Is(err, slots.ErrInvalidRange) || errors.Is(err, slots.ErrInvalidDuration) {
			return 0, apperrors.InvalidInput(err.Error())
		}
		return 0, apperrors.Internal("Failed to generate slots", err)
	}

	var added []model.TimeSlot
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.ListBySeller(sessCtx, sellerID, 0, 0)
		if err != nil {
			return apperrors.Internal("Failed to load existing slots", err)
		}

		added = slots.FilterNew(generated, existing)
		if len(added) == 0 {
			return nil
		}

		if err := s.repo.InsertMany(sessCtx, added); err != nil {
			return apperrors.Internal("Failed to store generated slots", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to generate availability",
			"seller_id", sellerID,
			"date", req.Date,
			"error", err,
		)
		return 0, err
	}

	if len(added) > 0 {
		ids := make([]string, 0, len(added))
		for _, slot := range added {
			ids = append(ids, slot.ID)
		}
		s.publish(ctx, events.NewSlotEvent(events.SlotsAdded, sellerID, ids...))
	}

	s.cfg.Log.Info("Availability generated",
		"seller_id", sellerID,
		"date", req.Date,
		"generated", len(generated),
		"added", len(added),
	)
	return len(added), nil
}

// Remove deletes a slot from the seller's calendar. Removing a slot that no
// longer exists is a no-op. Booked slots are never removed.
func (s *availabilityService) Remove(ctx context.Context, sellerID string, slotID string) error {
	if sellerID == "" || slotID == "" {
		return apperrors.InvalidInput("Seller ID and slot ID cannot be empty")
	}

	slot, err := s.repo.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			s.cfg.Log.Info("Slot already absent, nothing to remove", "slot_id", slotID)
			return nil
		}
		return apperrors.Internal("Failed to load slot", err)
	}

	if slot.SellerID != sellerID {
		return apperrors.NotFoundWithID("Slot", slotID)
	}
	if slot.Status == model.SlotBooked {
		return apperrors.Conflict(availabilityerrors.ErrSlotBooked.Error())
	}

	deleted, err := s.repo.Delete(ctx, sellerID, slotID)
	if err != nil {
		s.cfg.Log.Error("Failed to remove slot", "slot_id", slotID, "error", err)
		return apperrors.Internal("Failed to remove slot", err)
	}
	if deleted == 0 {
		// Lost a race with another delete; outcome is the same.
		return nil
	}

	s.publish(ctx, events.NewSlotEvent(events.SlotRemoved, sellerID, slotID))

	s.cfg.Log.Info("Slot removed", "seller_id", sellerID, "slot_id", slotID)
	return nil
}

// MarkBooked transitions the slot to booked on behalf of the buyer. The
// underlying update is conditional on the slot still being available, so
// concurrent bookings of the same slot resolve to exactly one winner.
func (s *availabilityService) MarkBooked(ctx context.Context, sellerID string, slotID string, bookedBy string) (*model.TimeSlot, error) {
	if sellerID == "" || slotID == "" {
		return nil, apperrors.InvalidInput("Seller ID and slot ID cannot be empty")
	}
	if bookedBy == "" {
		return nil, apperrors.InvalidInput("Booking identity cannot be empty")
	}

	bookedAt := time.Now().UTC()
	err := s.repo.SetBooked(ctx, sellerID, slotID, bookedBy, bookedAt)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Slot", slotID)
		}
		if errors.Is(err, availabilityerrors.ErrAlreadyBooked) {
			return nil, apperrors.Conflict("Slot is already booked")
		}
		s.cfg.Log.Error("Failed to book slot", "slot_id", slotID, "error", err)
		return nil, apperrors.Internal("Failed to book slot", err)
	}

	slot, err := s.repo.FindByID(ctx, slotID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load booked slot", err)
	}

	s.publish(ctx, events.NewSlotEvent(events.SlotBooked, sellerID, slotID))

	s.cfg.Log.Info("Slot booked",
		"seller_id", sellerID,
		"slot_id", slotID,
		"booked_by", bookedBy,
	)
	return slot, nil
}

func (s *availabilityService) GetSlot(ctx context.Context, slotID string) (*model.TimeSlot, error) {
	if slotID == "" {
		return nil, apperrors.InvalidInput("Slot ID cannot be empty")
	}

	slot, err := s.repo.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Slot", slotID)
		}
		return nil, apperrors.Internal("Failed to load slot", err)
	}
	return slot, nil
}

func (s *availabilityService) publish(ctx context.Context, event events.SlotEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish slot event",
			"event_type", event.Type,
			"seller_id", event.SellerID,
			"error", err,
		)
	}
}
