package models

// DetailedSlot is a bookable time unit with a capacity pair. Invariant after
// normalization: Available <= Total.
type DetailedSlot struct {
	Time      string `json:"time"`
	Available int    `json:"available"`
	Total     int    `json:"total"`
}

// SlotResult is the canonical shape of a slot query, regardless of which
// upstream endpoint produced it.
type SlotResult struct {
	AvailableSlots  []string       `json:"availableSlots"`
	DetailedSlots   []DetailedSlot `json:"detailedSlots"`
	BookingRules    map[string]any `json:"bookingRules,omitempty"`
	BranchInfo      *Branch        `json:"branchInfo,omitempty"`
	AccessFee       float64        `json:"accessFee"`
	RequiresPayment bool           `json:"requiresPayment"`
}

// SelectableTimes returns the times a user may pick. Detailed slots take
// precedence because they carry capacity; fully-booked slots are excluded.
// The bare time list is the legacy fallback.
func (r SlotResult) SelectableTimes() []string {
	if len(r.DetailedSlots) > 0 {
		times := make([]string, 0, len(r.DetailedSlots))
		for _, s := range r.DetailedSlots {
			if s.Available > 0 {
				times = append(times, s.Time)
			}
		}
		return times
	}
	times := make([]string, len(r.AvailableSlots))
	copy(times, r.AvailableSlots)
	return times
}
