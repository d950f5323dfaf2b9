package booking

import (
	"context"

	"github.com/Roadpeak/D3-client-sub000/models"
)

// DraftUpdate carries partial updates to the booking draft. Nil fields are
// left untouched.
type DraftUpdate struct {
	Date     *string `json:"date,omitempty"`
	Time     *string `json:"time,omitempty"`
	BranchID *string `json:"branchId,omitempty"`
	StaffID  *string `json:"staffId,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// WizardService drives one booking flow from date selection through payment
// to confirmation.
type WizardService interface {
	StartSession(ctx context.Context, userID string, entity models.BookableEntity, client models.ClientInfo) (*models.WizardSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.WizardSession, error)
	LoadSlots(ctx context.Context, sessionID, date string) (*models.WizardSession, error)
	UpdateDraft(ctx context.Context, sessionID string, update DraftUpdate) (*models.WizardSession, error)
	Advance(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Back(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Submit(ctx context.Context, sessionID string) (*models.WizardSession, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// BookingService covers retrieval and cancellation of existing bookings.
type BookingService interface {
	GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	ListUserBookings(ctx context.Context) ([]models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// ReminderScheduler enqueues a reminder for a confirmed booking. A nil
// scheduler disables reminders.
type ReminderScheduler interface {
	ScheduleBookingReminder(booking *models.Booking) error
}
