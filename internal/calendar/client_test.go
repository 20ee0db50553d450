package calendar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scheduleflow/pkg/config"
	apperrors "scheduleflow/pkg/errors"
	"scheduleflow/pkg/logger"
)

func testClient(baseURL string) Client {
	return NewClient(&config.Config{
		CalendarAPIBaseURL: baseURL,
		CalendarTimeout:    2 * time.Second,
		CalendarTimeZone:   "UTC",
		Log:                logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	})
}

func bookingRequest() *BookingEventRequest {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return &BookingEventRequest{
		SellerID:   "seller-1",
		BuyerEmail: "buyer@example.com",
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
	}
}

func TestCreateBookingEvent_Success(t *testing.T) {
	var gotAuth string
	var gotEvent Event

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendars/primary/events" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("conferenceDataVersion") != "1" {
			t.Error("expected conferenceDataVersion=1 query parameter")
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotEvent); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(CreatedEvent{ID: "evt-123", Status: "confirmed"})
	}))
	defer srv.Close()

	created, err := testClient(srv.URL).CreateBookingEvent(context.Background(), "token-abc", bookingRequest())
	if err != nil {
		t.Fatalf("CreateBookingEvent: %v", err)
	}

	if created.ID != "evt-123" {
		t.Errorf("expected event ID evt-123, got %s", created.ID)
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotEvent.Summary != "Appointment Booking" {
		t.Errorf("unexpected summary %q", gotEvent.Summary)
	}
	if len(gotEvent.Attendees) != 1 || gotEvent.Attendees[0].Email != "buyer@example.com" {
		t.Errorf("expected buyer attendee, got %v", gotEvent.Attendees)
	}
	if gotEvent.ConferenceData == nil || gotEvent.ConferenceData.CreateRequest == nil {
		t.Fatal("expected conference create request")
	}
	wantReqID := "booking-seller-1-2024-06-01T09:00:00Z"
	if gotEvent.ConferenceData.CreateRequest.RequestID != wantReqID {
		t.Errorf("expected conference request ID %s, got %s", wantReqID, gotEvent.ConferenceData.CreateRequest.RequestID)
	}
}

func TestCreateBookingEvent_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when token is missing")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateBookingEvent(context.Background(), "", bookingRequest())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeCredentialMissing {
		t.Fatalf("expected %s, got %v", apperrors.CodeCredentialMissing, err)
	}
}

func TestCreateBookingEvent_ProviderRejection(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{"server error", http.StatusInternalServerError, apperrors.CodeExternalAPI},
		{"bad request", http.StatusBadRequest, apperrors.CodeExternalAPI},
		{"expired token", http.StatusUnauthorized, apperrors.CodeCredentialMissing},
		{"forbidden", http.StatusForbidden, apperrors.CodeCredentialMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).CreateBookingEvent(context.Background(), "token", bookingRequest())
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != tt.wantCode {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestCreateBookingEvent_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testClient(srv.URL).CreateBookingEvent(context.Background(), "token", bookingRequest())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeExternalAPI {
		t.Fatalf("expected %s, got %v", apperrors.CodeExternalAPI, err)
	}
}
