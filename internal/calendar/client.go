// Package calendar creates events on the seller's external calendar using
// the seller's own OAuth access token. The provider is the source of truth
// for the event; nothing about it is stored locally except the returned IDs.
package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"scheduleflow/pkg/client"
	"scheduleflow/pkg/config"
	apperrors "scheduleflow/pkg/errors"
	"scheduleflow/pkg/logger"
)

const eventSummary = "Appointment Booking"

type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type Attendee struct {
	Email string `json:"email"`
}

type ConferenceSolutionKey struct {
	Type string `json:"type"`
}

type CreateConferenceRequest struct {
	RequestID             string                `json:"requestId"`
	ConferenceSolutionKey ConferenceSolutionKey `json:"conferenceSolutionKey"`
}

type ConferenceData struct {
	CreateRequest *CreateConferenceRequest `json:"createRequest,omitempty"`
}

type Event struct {
	Summary        string          `json:"summary"`
	Description    string          `json:"description,omitempty"`
	Start          EventTime       `json:"start"`
	End            EventTime       `json:"end"`
	Attendees      []Attendee      `json:"attendees,omitempty"`
	ConferenceData *ConferenceData `json:"conferenceData,omitempty"`
}

type CreatedEvent struct {
	ID          string `json:"id"`
	HTMLLink    string `json:"htmlLink"`
	HangoutLink string `json:"hangoutLink,omitempty"`
	Status      string `json:"status"`
}

// Client is the calendar-provider API client. Requests authenticate with the
// access token of the seller whose calendar receives the event, not with any
// service credential of our own.
type Client interface {
	CreateBookingEvent(ctx context.Context, accessToken string, req *BookingEventRequest) (*CreatedEvent, error)
}

type BookingEventRequest struct {
	SellerID   string
	BuyerEmail string
	StartTime  time.Time
	EndTime    time.Time
}

type calendarClient struct {
	http *client.HttpClient
	tz   string
	log  *logger.Logger
}

func NewClient(cfg *config.Config) Client {
	return &calendarClient{
		http: client.NewHttpClient(cfg.CalendarAPIBaseURL, cfg.CalendarTimeout),
		tz:   cfg.CalendarTimeZone,
		log:  cfg.Log,
	}
}

// CreateBookingEvent inserts a booking event with a video conference link
// into the seller's primary calendar. The conference request ID is derived
// from (seller, start) so provider-side retries of the same booking collapse
// into one conference.
func (c *calendarClient) CreateBookingEvent(ctx context.Context, accessToken string, req *BookingEventRequest) (*CreatedEvent, error) {
	if accessToken == "" {
		return nil, apperrors.CredentialMissing(req.SellerID)
	}

	event := &Event{
		Summary:     eventSummary,
		Description: fmt.Sprintf("Appointment booked by %s", req.BuyerEmail),
		Start: EventTime{
			DateTime: req.StartTime.Format(time.RFC3339),
			TimeZone: c.tz,
		},
		End: EventTime{
			DateTime: req.EndTime.Format(time.RFC3339),
			TimeZone: c.tz,
		},
		Attendees: []Attendee{{Email: req.BuyerEmail}},
		ConferenceData: &ConferenceData{
			CreateRequest: &CreateConferenceRequest{
				RequestID: fmt.Sprintf("booking-%s-%s", req.SellerID, req.StartTime.UTC().Format(time.RFC3339)),
				ConferenceSolutionKey: ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	headers := map[string]string{
		"Authorization": "Bearer " + accessToken,
	}

	resp, err := c.http.POST(ctx, "/calendars/primary/events?conferenceDataVersion=1", event, headers)
	if err != nil {
		c.log.Error("Calendar event creation request failed",
			"seller_id", req.SellerID,
			"error", err,
		)
		return nil, apperrors.ExternalAPI("Failed to reach calendar provider", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := client.GetErrorMessage(resp)
		c.log.Error("Calendar provider rejected event",
			"seller_id", req.SellerID,
			"status", resp.StatusCode,
			"message", message,
		)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, apperrors.CredentialMissing(req.SellerID)
		}
		return nil, apperrors.ExternalAPI(
			fmt.Sprintf("Calendar provider returned %d: %s", resp.StatusCode, message),
			nil,
		)
	}

	var created CreatedEvent
	if err := resp.DecodeJSON(&created); err != nil {
		return nil, apperrors.ExternalAPI("Failed to decode calendar provider response", err)
	}

	c.log.Info("Calendar event created",
		"seller_id", req.SellerID,
		"event_id", created.ID,
	)
	return &created, nil
}
