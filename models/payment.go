package models

// Payment statuses observed via polling. Completed and Failed are terminal.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is a mobile-money charge created by the initiation call. Its
// status only ever changes server-side; the client observes it by polling.
type Payment struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	PhoneNumber string  `json:"phoneNumber,omitempty"`
}
