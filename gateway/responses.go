package gateway

import "github.com/Roadpeak/D3-client-sub000/models"

// BranchPayload is a branch record as the upstream returns it. Ids may be
// numeric or string and working days arrive in three encodings; the booking
// layer coerces this into models.Branch.
type BranchPayload struct {
	ID           any    `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	OpeningTime  string `json:"opening_time"`
	ClosingTime  string `json:"closing_time"`
	WorkingDays  any    `json:"working_days"`
	IsMainBranch bool   `json:"isMainBranch"`
	StoreID      any    `json:"storeId"`
}

// SlotQueryResponse is the union of the shapes the slot endpoints return.
type SlotQueryResponse struct {
	Success        bool                  `json:"success"`
	AvailableSlots []string              `json:"availableSlots"`
	DetailedSlots  []models.DetailedSlot `json:"detailedSlots"`
	BookingRules   map[string]any        `json:"bookingRules"`
	StoreInfo      *models.StoreInfo     `json:"storeInfo"`
	BranchInfo     *BranchPayload        `json:"branchInfo"`
	AccessFee      *float64              `json:"accessFee"`
	Message        string                `json:"message"`
}

// BranchResponse wraps branch-for-entity queries.
type BranchResponse struct {
	Success bool           `json:"success"`
	Branch  *BranchPayload `json:"branch"`
	Message string         `json:"message"`
}

// StaffResponse wraps staff-for-entity queries.
type StaffResponse struct {
	Success bool           `json:"success"`
	Staff   []models.Staff `json:"staff"`
	Message string         `json:"message"`
}

// OfferResponse wraps a full offer fetch, used when synthesizing a branch
// from store data.
type OfferResponse struct {
	Success bool          `json:"success"`
	Offer   *OfferPayload `json:"offer"`
}

type OfferPayload struct {
	ID        any             `json:"id"`
	Name      string          `json:"name"`
	Discount  float64         `json:"discount"`
	ServiceID any             `json:"service_id"`
	Service   *ServicePayload `json:"service"`
}

// ServiceResponse wraps a full service fetch.
type ServiceResponse struct {
	Success bool            `json:"success"`
	Service *ServicePayload `json:"service"`
}

type ServicePayload struct {
	ID      any               `json:"id"`
	Name    string            `json:"name"`
	Price   float64           `json:"price"`
	StoreID any               `json:"store_id"`
	Store   *models.StoreInfo `json:"store"`
}

// CreateBookingResponse wraps booking creation.
type CreateBookingResponse struct {
	Success bool            `json:"success"`
	Booking *models.Booking `json:"booking"`
	Message string          `json:"message"`
}

// BookingResponse wraps a single booking fetch.
type BookingResponse struct {
	Success bool            `json:"success"`
	Booking *models.Booking `json:"booking"`
}

// BookingListResponse wraps the caller's booking list.
type BookingListResponse struct {
	Success  bool             `json:"success"`
	Bookings []models.Booking `json:"bookings"`
}

// PaymentInitResponse wraps mobile-money payment initiation.
type PaymentInitResponse struct {
	Success bool            `json:"success"`
	Payment *models.Payment `json:"payment"`
	Message string          `json:"message"`
}

// PaymentStatusResponse wraps the payment status poll.
type PaymentStatusResponse struct {
	Payment *models.Payment `json:"payment"`
}
