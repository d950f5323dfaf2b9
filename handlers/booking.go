package handlers

import (
	"errors"
	"net/http"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"
	"github.com/Roadpeak/D3-client-sub000/services/booking"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the services the HTTP layer depends on.
type HandlerBundle struct {
	Wizard   booking.WizardService
	Bookings booking.BookingService
}

func currentUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// respondServiceError maps domain errors onto HTTP responses. Business rule
// rejections carry their branch context so the client can show the user what
// to change; transient exhaustion is a retryable 503.
func respondServiceError(c *gin.Context, err error) {
	var validation *booking.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message, "field": validation.Field})
		return
	}

	var rule *booking.BusinessRuleError
	if errors.As(err, &rule) {
		body := gin.H{"error": rule.Message, "code": rule.Code}
		if rule.BranchName != "" {
			body["branchName"] = rule.BranchName
		}
		if rule.OpeningTime != "" || rule.ClosingTime != "" {
			body["openingTime"] = rule.OpeningTime
			body["closingTime"] = rule.ClosingTime
		}
		if len(rule.WorkingDays) > 0 {
			body["workingDays"] = rule.WorkingDays
		}
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}

	if errors.Is(err, booking.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking session not found or expired"})
		return
	}

	var notFound *booking.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	var permission *booking.PermissionError
	if errors.As(err, &permission) {
		c.JSON(http.StatusForbidden, gin.H{"error": permission.Error()})
		return
	}

	if errors.Is(err, gateway.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Your session has expired. Please sign in again."})
		return
	}

	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":     "The booking service is temporarily unavailable. Please try again.",
		"retryable": true,
	})
}

// StartWizard creates a new wizard session for a bookable entity.
func (hb *HandlerBundle) StartWizard(c *gin.Context) {
	var input struct {
		Entity     models.BookableEntity `json:"entity"`
		ClientInfo models.ClientInfo     `json:"clientInfo"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := hb.Wizard.StartSession(c.Request.Context(), currentUserID(c), input.Entity, input.ClientInfo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// GetWizard returns the current session state.
func (hb *HandlerBundle) GetWizard(c *gin.Context) {
	session, err := hb.Wizard.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// LoadWizardSlots fetches availability for a date and caches it on the session.
func (hb *HandlerBundle) LoadWizardSlots(c *gin.Context) {
	var input struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := hb.Wizard.LoadSlots(c.Request.Context(), c.Param("sessionID"), input.Date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// UpdateWizardDraft applies partial draft changes.
func (hb *HandlerBundle) UpdateWizardDraft(c *gin.Context) {
	var update booking.DraftUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := hb.Wizard.UpdateDraft(c.Request.Context(), c.Param("sessionID"), update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// AdvanceWizard moves the wizard forward one step.
func (hb *HandlerBundle) AdvanceWizard(c *gin.Context) {
	session, err := hb.Wizard.Advance(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// BackWizard moves the wizard one step backward.
func (hb *HandlerBundle) BackWizard(c *gin.Context) {
	session, err := hb.Wizard.Back(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// SubmitWizard builds and submits the booking request.
func (hb *HandlerBundle) SubmitWizard(c *gin.Context) {
	session, err := hb.Wizard.Submit(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// WizardPaymentState reports the payment leg of the session. The client
// polls this while the reconciliation loop runs server-side.
func (hb *HandlerBundle) WizardPaymentState(c *gin.Context) {
	session, err := hb.Wizard.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"step":      session.Step,
		"paymentId": session.PaymentID,
		"lastError": session.LastError,
		"booking":   session.Booking,
	})
}

// CancelWizard tears the session down.
func (hb *HandlerBundle) CancelWizard(c *gin.Context) {
	if err := hb.Wizard.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// ListBookings returns the caller's bookings.
func (hb *HandlerBundle) ListBookings(c *gin.Context) {
	bookings, err := hb.Bookings.ListUserBookings(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking fetches one booking by id.
func (hb *HandlerBundle) GetBooking(c *gin.Context) {
	b, err := hb.Bookings.GetBookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// CancelBooking cancels an existing booking.
func (hb *HandlerBundle) CancelBooking(c *gin.Context) {
	if err := hb.Bookings.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
