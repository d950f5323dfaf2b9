package models

import "time"

// WizardStep is the tagged state of the booking wizard. PaymentPending is a
// transient detour out of Review, not a numbered step.
type WizardStep string

const (
	StepDateTime       WizardStep = "date_time"
	StepLocationStaff  WizardStep = "location_staff"
	StepReview         WizardStep = "review"
	StepPaymentPending WizardStep = "payment_pending"
	StepConfirmation   WizardStep = "confirmation"
)

// Number returns the user-facing step number, or 0 for the transient
// payment-pending state.
func (s WizardStep) Number() int {
	switch s {
	case StepDateTime:
		return 1
	case StepLocationStaff:
		return 2
	case StepReview:
		return 3
	case StepConfirmation:
		return 4
	default:
		return 0
	}
}

// WizardSession holds all state for one booking flow. Branch, staff and slot
// data cached here lives and dies with the session; nothing is shared across
// concurrent bookings.
type WizardSession struct {
	SessionID    string         `json:"sessionId"`
	UserID       string         `json:"userId"`
	Entity       BookableEntity `json:"entity"`
	ClientInfo   ClientInfo     `json:"clientInfo"`
	Step         WizardStep     `json:"step"`
	FurthestStep int            `json:"furthestStep"`
	Draft        BookingDraft   `json:"draft"`
	Slots        *SlotResult    `json:"slots,omitempty"`
	SlotsDate    string         `json:"slotsDate,omitempty"`
	Branches     []Branch       `json:"branches,omitempty"`
	Staff        []Staff        `json:"staff,omitempty"`
	BranchLookup bool           `json:"branchLookup"` // whether any resolution tier succeeded
	PaymentID    string         `json:"paymentId,omitempty"`
	Booking      *Booking       `json:"booking,omitempty"`
	LastError    string         `json:"lastError,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
