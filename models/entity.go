package models

// Booking type discriminators. Exactly one of OfferID/ServiceID identifies
// an entity in any booking-related call.
const (
	BookingTypeOffer   = "offer"
	BookingTypeService = "service"
)

// BookableEntity is either an offer (a time-boxed discount referencing a
// service) or a standalone service.
type BookableEntity struct {
	OfferID              string   `json:"offerId,omitempty"`
	ServiceID            string   `json:"serviceId,omitempty"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	Price                float64  `json:"price,omitempty"`    // fixed price for services
	Discount             float64  `json:"discount,omitempty"` // percentage, offers only
	BasePrice            float64  `json:"basePrice,omitempty"`
	DurationMinutes      int      `json:"durationMinutes,omitempty"`
	Images               []string `json:"images,omitempty"`
	StoreID              string   `json:"storeId,omitempty"`
	BookingEnabled       bool     `json:"bookingEnabled"`
	AutoConfirmBookings  bool     `json:"autoConfirmBookings,omitempty"`
	RequirePrepayment    bool     `json:"requirePrepayment,omitempty"`
	MinCancellationHours int      `json:"minCancellationHours,omitempty"`
}

// BookingType returns the discriminator for this entity.
func (e BookableEntity) BookingType() string {
	if e.OfferID != "" {
		return BookingTypeOffer
	}
	return BookingTypeService
}

// EntityID returns whichever of the two identifiers is set.
func (e BookableEntity) EntityID() string {
	if e.OfferID != "" {
		return e.OfferID
	}
	return e.ServiceID
}

// ClientInfo identifies the person the booking is for.
type ClientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// StoreInfo is the loosely-typed store record as the upstream returns it.
// IDs may arrive as numbers or strings and working days in three different
// encodings, so coercion happens at the normalization layer.
type StoreInfo struct {
	ID          any    `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	PhoneNumber string `json:"phone_number"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	WorkingDays any    `json:"working_days"`
}
