package booking

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"

	"go.uber.org/zap"
)

func TestGetBookingByIDDirect(t *testing.T) {
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bookings/b1" {
			writeJSON(w, http.StatusOK, gateway.BookingResponse{
				Success: true,
				Booking: &models.Booking{ID: "b1", Status: "confirmed"},
			})
			return
		}
		notFoundHandler(w, r)
	})
	svc := &DefaultBookingService{Gateway: client, Logger: zap.NewNop()}

	booking, err := svc.GetBookingByID(context.Background(), "b1")
	if err != nil {
		t.Fatal(err)
	}
	if booking.ID != "b1" {
		t.Errorf("ID = %q", booking.ID)
	}
}

// On a direct-fetch 5xx the caller's booking list is scanned before the
// error is surfaced.
func TestGetBookingByIDListFallback(t *testing.T) {
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bookings/b2":
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		case "/bookings":
			writeJSON(w, http.StatusOK, gateway.BookingListResponse{
				Success: true,
				Bookings: []models.Booking{
					{ID: "b1"},
					{ID: "b2", Status: "confirmed"},
				},
			})
		default:
			notFoundHandler(w, r)
		}
	})
	svc := &DefaultBookingService{Gateway: client, Logger: zap.NewNop()}

	booking, err := svc.GetBookingByID(context.Background(), "b2")
	if err != nil {
		t.Fatal(err)
	}
	if booking.ID != "b2" {
		t.Errorf("ID = %q, want b2 found via list scan", booking.ID)
	}
}

func TestGetBookingByIDFallbackMissSurfacesOriginalError(t *testing.T) {
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bookings/b9":
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "direct fetch broke"})
		case "/bookings":
			writeJSON(w, http.StatusOK, gateway.BookingListResponse{Success: true, Bookings: []models.Booking{{ID: "b1"}}})
		default:
			notFoundHandler(w, r)
		}
	})
	svc := &DefaultBookingService{Gateway: client, Logger: zap.NewNop()}

	_, err := svc.GetBookingByID(context.Background(), "b9")
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "direct fetch broke" {
		t.Fatalf("err = %v, want the direct fetch's error", err)
	}
}

func TestGetBookingByIDErrorMapping(t *testing.T) {
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bookings/missing":
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "no such booking"})
		case "/bookings/other-user":
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "not yours"})
		default:
			notFoundHandler(w, r)
		}
	})
	svc := &DefaultBookingService{Gateway: client, Logger: zap.NewNop()}

	_, err := svc.GetBookingByID(context.Background(), "missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("err = %v, want NotFoundError", err)
	}

	_, err = svc.GetBookingByID(context.Background(), "other-user")
	var permission *PermissionError
	if !errors.As(err, &permission) {
		t.Errorf("err = %v, want PermissionError", err)
	}
}

func TestCancelBookingWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, MarketLocation())
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/bookings/b1" && r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, gateway.BookingResponse{
				Success: true,
				Booking: &models.Booking{
					ID:                   "b1",
					StartTime:            "2025-03-10T10:00:00",
					MinCancellationHours: 24,
				},
			})
		case r.URL.Path == "/bookings/b1/cancel" && r.Method == http.MethodPost:
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		default:
			notFoundHandler(w, r)
		}
	})
	svc := &DefaultBookingService{
		Gateway: client,
		Logger:  zap.NewNop(),
		Now:     func() time.Time { return now },
	}

	// Two hours before start with a 24-hour window: rejected locally.
	err := svc.CancelBooking(context.Background(), "b1")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError for the cancellation window", err)
	}

	// A week earlier the same booking can be cancelled.
	svc.Now = func() time.Time { return now.AddDate(0, 0, -7) }
	if err := svc.CancelBooking(context.Background(), "b1"); err != nil {
		t.Fatal(err)
	}
}
