package service

import (
	"context"

	"scheduleflow/internal/availability/service"
	"scheduleflow/internal/calendar"
	"scheduleflow/internal/orchestrator"
	apperrors "scheduleflow/pkg/errors"
	"scheduleflow/pkg/logger"
	"scheduleflow/pkg/model"

	"github.com/go-playground/validator/v10"
)

const (
	FlowCreateBooking = "create_booking"

	SELLER_ID   = "seller_id"
	SLOT_ID     = "slot_id"
	BUYER_EMAIL = "buyer_email"

	SLOT         = "slot"
	ACCESS_TOKEN = "access_token"
	EVENT        = "calendar_event"
	CONFIRMATION = "confirmation"
)

// CredentialSource resolves the calendar access token a seller stored when
// linking their calendar.
type CredentialSource interface {
	AccessToken(ctx context.Context, sellerID string) (string, error)
}

// Confirmation is what the buyer gets back after a successful booking.
type Confirmation struct {
	Slot      *model.TimeSlot `json:"slot"`
	EventID   string          `json:"event_id"`
	EventLink string          `json:"event_link,omitempty"`
	MeetLink  string          `json:"meet_link,omitempty"`
}

// bookingFlow books a slot in two effectful steps: create the calendar event
// on the seller's calendar, then mark the slot booked. All validation and
// credential loading happens before either effect. If marking the slot fails
// after the event was created, the event is NOT rolled back; the failure is
// logged with the event ID so the seller's calendar can be reconciled by hand.
type bookingFlow struct {
	availability service.AvailabilityService
	credentials  CredentialSource
	calendar     calendar.Client
	validate     *validator.Validate
	log          *logger.Logger
}

func (f *bookingFlow) Name() string { return FlowCreateBooking }

func (f *bookingFlow) Steps() []*orchestrator.Step {
	return []*orchestrator.Step{
		orchestrator.NewStep("validate_slot", f.validateSlot),
		orchestrator.NewStep("load_credential", f.loadCredential),
		orchestrator.NewStep("create_calendar_event", f.createCalendarEvent),
		orchestrator.NewStep("mark_slot_booked", f.markSlotBooked),
		orchestrator.NewStep("build_confirmation", f.buildConfirmation),
	}
}

func (f *bookingFlow) validateSlot(ctx context.Context, fc *orchestrator.FlowContext) error {
	sellerID := fc.ExtractString(SELLER_ID)
	slotID := fc.ExtractString(SLOT_ID)
	buyerEmail := fc.ExtractString(BUYER_EMAIL)

	if orchestrator.IsMissing(sellerID) {
		return apperrors.InvalidInput(orchestrator.MissingParamErr(SELLER_ID).Error())
	}
	if orchestrator.IsMissing(slotID) {
		return apperrors.InvalidInput(orchestrator.MissingParamErr(SLOT_ID).Error())
	}
	if orchestrator.IsMissing(buyerEmail) {
		return apperrors.InvalidInput(orchestrator.MissingParamErr(BUYER_EMAIL).Error())
	}
	if err := f.validate.Var(buyerEmail, "email"); err != nil {
		return apperrors.InvalidInput("buyer_email must be a valid email address")
	}

	slot, err := f.availability.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.SellerID != sellerID {
		return apperrors.NotFoundWithID("Slot", slotID)
	}
	if slot.Status == model.SlotBooked {
		// Early exit saves a pointless calendar call; the conditional
		// update in mark_slot_booked is the real race guard.
		return apperrors.Conflict("Slot is already booked")
	}

	fc.Process[SLOT] = slot
	return nil
}

func (f *bookingFlow) loadCredential(ctx context.Context, fc *orchestrator.FlowContext) error {
	sellerID := fc.ExtractString(SELLER_ID)

	token, err := f.credentials.AccessToken(ctx, sellerID)
	if err != nil {
		return err
	}
	if token == "" {
		return apperrors.CredentialMissing(sellerID)
	}

	fc.Process[ACCESS_TOKEN] = token
	return nil
}

func (f *bookingFlow) createCalendarEvent(ctx context.Context, fc *orchestrator.FlowContext) error {
	slot := fc.Process[SLOT].(*model.TimeSlot)
	token := fc.Process[ACCESS_TOKEN].(string)

	created, err := f.calendar.CreateBookingEvent(ctx, token, &calendar.BookingEventRequest{
		SellerID:   slot.SellerID,
		BuyerEmail: fc.ExtractString(BUYER_EMAIL),
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
	})
	if err != nil {
		return err
	}

	fc.Process[EVENT] = created
	return nil
}

func (f *bookingFlow) markSlotBooked(ctx context.Context, fc *orchestrator.FlowContext) error {
	slot := fc.Process[SLOT].(*model.TimeSlot)
	event := fc.Process[EVENT].(*calendar.CreatedEvent)
	buyerEmail := fc.ExtractString(BUYER_EMAIL)

	booked, err := f.availability.MarkBooked(ctx, slot.SellerID, slot.ID, buyerEmail)
	if err != nil {
		f.log.Error("Slot update failed after calendar event was created, manual cleanup required",
			"seller_id", slot.SellerID,
			"slot_id", slot.ID,
			"event_id", event.ID,
			"error", err,
		)
		return err
	}

	fc.Process[SLOT] = booked
	return nil
}

func (f *bookingFlow) buildConfirmation(_ context.Context, fc *orchestrator.FlowContext) error {
	slot := fc.Process[SLOT].(*model.TimeSlot)
	event := fc.Process[EVENT].(*calendar.CreatedEvent)

	fc.Output[CONFIRMATION] = &Confirmation{
		Slot:      slot,
		EventID:   event.ID,
		EventLink: event.HTMLLink,
		MeetLink:  event.HangoutLink,
	}
	return nil
}
