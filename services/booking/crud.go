package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"

	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService against the upstream.
type DefaultBookingService struct {
	Gateway *gateway.Client
	Logger  *zap.Logger
	Now     func() time.Time
}

func (b *DefaultBookingService) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// GetBookingByID fetches a booking directly. On an upstream 5xx it falls
// back to scanning the caller's booking list before giving up, and only
// surfaces the direct fetch's error when the scan finds nothing.
func (b *DefaultBookingService) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var resp gateway.BookingResponse
	err := b.Gateway.GetJSON(ctx, "/bookings/"+bookingID, nil, &resp)
	if err == nil {
		if resp.Booking == nil {
			return nil, &NotFoundError{Resource: "booking", Message: bookingID}
		}
		return resp.Booking, nil
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return nil, &NotFoundError{Resource: "booking", Message: apiErr.Message}
		case apiErr.StatusCode == http.StatusForbidden:
			return nil, &PermissionError{Message: apiErr.Message}
		case apiErr.StatusCode >= 500:
			b.Logger.Warn("direct booking fetch failed, scanning booking list",
				zap.String("bookingId", bookingID),
				zap.Error(err))
			if booking := b.findInList(ctx, bookingID); booking != nil {
				return booking, nil
			}
		}
	}
	return nil, err
}

func (b *DefaultBookingService) findInList(ctx context.Context, bookingID string) *models.Booking {
	bookings, err := b.ListUserBookings(ctx)
	if err != nil {
		return nil
	}
	for i := range bookings {
		if bookings[i].ID == bookingID {
			return &bookings[i]
		}
	}
	return nil
}

// ListUserBookings returns the caller's bookings.
func (b *DefaultBookingService) ListUserBookings(ctx context.Context) ([]models.Booking, error) {
	var resp gateway.BookingListResponse
	if err := b.Gateway.GetJSON(ctx, "/bookings", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Bookings == nil {
		return []models.Booking{}, nil
	}
	return resp.Bookings, nil
}

// CancelBooking cancels a booking, enforcing the entity's cancellation
// window before any network call. 404s and 403s are mapped to their typed
// errors and never retried.
func (b *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := b.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.MinCancellationHours > 0 && booking.StartTime != "" {
		start, parseErr := ParseUpstreamTime(booking.StartTime)
		if parseErr == nil {
			window := time.Duration(booking.MinCancellationHours) * time.Hour
			if start.Sub(b.now()) < window {
				return NewValidationError("booking", fmt.Sprintf(
					"this booking can only be cancelled at least %d hours in advance", booking.MinCancellationHours))
			}
		}
	}

	err = b.Gateway.PostJSON(ctx, "/bookings/"+bookingID+"/cancel", nil, nil)
	if err == nil {
		return nil
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return &NotFoundError{Resource: "booking", Message: apiErr.Message}
		case http.StatusForbidden:
			return &PermissionError{Message: apiErr.Message}
		}
	}
	return err
}
