package models

import "time"

// BookingDraft is the client-held, ephemeral state mutated as the user moves
// through the wizard. It is owned by exactly one wizard session.
type BookingDraft struct {
	Date   string  `json:"date,omitempty"` // YYYY-MM-DD
	Time   string  `json:"time,omitempty"` // as selected, e.g. "2:30 PM"
	Branch *Branch `json:"branch,omitempty"`
	Staff  *Staff  `json:"staff,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

// PaymentData carries the access-fee charge details on an offer booking.
type PaymentData struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Method      string  `json:"method"`
	PhoneNumber string  `json:"phoneNumber"`
}

// BookingRequest is the wire payload sent to the upstream create-booking
// endpoint. Exactly one of OfferID/ServiceID and exactly one of
// StoreID/BranchID is set. PaymentData is present iff the booking is an
// offer booking with a non-zero access fee.
type BookingRequest struct {
	UserID      string       `json:"userId"`
	StartTime   string       `json:"startTime"` // YYYY-MM-DDTHH:MM:SS, no offset
	StaffID     string       `json:"staffId,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	BookingType string       `json:"bookingType"`
	OfferID     string       `json:"offerId,omitempty"`
	ServiceID   string       `json:"serviceId,omitempty"`
	StoreID     string       `json:"storeId,omitempty"`
	BranchID    string       `json:"branchId,omitempty"`
	ClientInfo  ClientInfo   `json:"clientInfo"`
	PaymentData *PaymentData `json:"paymentData,omitempty"`
}

// Booking is a confirmed booking record as returned by the upstream.
type Booking struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	OfferID              string    `json:"offerId,omitempty"`
	ServiceID            string    `json:"serviceId,omitempty"`
	EntityName           string    `json:"entityName,omitempty"`
	StartTime            string    `json:"startTime"`
	Status               string    `json:"status"`
	StoreID              string    `json:"storeId,omitempty"`
	BranchID             string    `json:"branchId,omitempty"`
	StaffID              string    `json:"staffId,omitempty"`
	MinCancellationHours int       `json:"minCancellationHours,omitempty"`
	CreatedAt            time.Time `json:"createdAt,omitempty"`
}
