package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a wizard session is missing or has
// expired from the cache.
var ErrSessionNotFound = errors.New("booking session not found or expired")

// User-visible payment outcomes. The timeout message is deliberately
// distinct from the failure message: after a poll timeout funds may already
// have moved, so the user is told to verify rather than assured of failure.
const (
	PaymentFailedMessage  = "Payment failed. Please try again or use a different number."
	PaymentTimeoutMessage = "We could not confirm your payment in time. Please check your payment app before retrying."
)

// BusinessRuleError is an expected, user-actionable rejection stemming from
// store policy (hours, working days). It is never retried automatically and
// carries whatever diagnostic context the upstream attached.
type BusinessRuleError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	BranchName  string   `json:"branchName,omitempty"`
	OpeningTime string   `json:"openingTime,omitempty"`
	ClosingTime string   `json:"closingTime,omitempty"`
	WorkingDays []string `json:"workingDays,omitempty"`
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationError is caught before any network call and surfaced
// immediately.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// NotFoundError routes to an empty-state UI rather than a generic banner.
type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Message)
}

// PermissionError covers 403s on booking detail or cancellation.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

// businessRuleVocabulary is the set of upstream message fragments that mark
// a rejection as policy-driven rather than transient.
var businessRuleVocabulary = []string{
	"closed",
	"not open",
	"working days",
	"business hours",
	"outside operating hours",
	"not operational",
}

func isBusinessRuleMessage(msg string) bool {
	lowered := strings.ToLower(msg)
	for _, fragment := range businessRuleVocabulary {
		if strings.Contains(lowered, fragment) {
			return true
		}
	}
	return false
}
