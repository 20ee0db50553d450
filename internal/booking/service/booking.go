package service

import (
	"context"
	"fmt"

	availabilitysvc "scheduleflow/internal/availability/service"
	"scheduleflow/internal/calendar"
	"scheduleflow/internal/orchestrator"
	"scheduleflow/pkg/config"

	"github.com/go-playground/validator/v10"
)

type BookingService interface {
	Book(ctx context.Context, sellerID, slotID, buyerEmail string) (*Confirmation, error)
}

type bookingService struct {
	engine *orchestrator.Engine
	cfg    *config.Config
}

func NewBookingService(
	availability availabilitysvc.AvailabilityService,
	credentials CredentialSource,
	calendarClient calendar.Client,
	cfg *config.Config,
) BookingService {
	flow := &bookingFlow{
		availability: availability,
		credentials:  credentials,
		calendar:     calendarClient,
		validate:     validator.New(),
		log:          cfg.Log,
	}
	return &bookingService{
		engine: orchestrator.NewEngine(cfg.Log, flow),
		cfg:    cfg,
	}
}

func (s *bookingService) Book(ctx context.Context, sellerID, slotID, buyerEmail string) (*Confirmation, error) {
	fc := orchestrator.NewFlowContext(map[string]any{
		SELLER_ID:   sellerID,
		SLOT_ID:     slotID,
		BUYER_EMAIL: buyerEmail,
	})

	if err := s.engine.Run(ctx, FlowCreateBooking, fc); err != nil {
		return nil, err
	}

	confirmation, ok := fc.Output[CONFIRMATION].(*Confirmation)
	if !ok {
		return nil, fmt.Errorf("booking flow produced no confirmation")
	}

	s.cfg.Log.Info("Booking completed",
		"seller_id", sellerID,
		"slot_id", slotID,
		"booked_by", buyerEmail,
		"event_id", confirmation.EventID,
	)
	return confirmation, nil
}
