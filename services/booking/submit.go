package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"

	"go.uber.org/zap"
)

// Submit converts the draft into a BookingRequest and sends it. Service
// bookings and zero-fee offers go straight to confirmation; fee-carrying
// offer bookings detour through payment initiation and the reconciliation
// loop instead of creating the booking directly.
func (s *DefaultWizardService) Submit(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepReview {
		return nil, NewValidationError("step", "the booking must be reviewed before submission")
	}
	if err := validateDraftForSubmission(session); err != nil {
		return nil, err
	}

	fee := s.resolveAccessFee(session)
	request := buildBookingRequest(session, fee)

	if request.PaymentData != nil {
		payment, err := s.Payments.Initiate(ctx, *request.PaymentData, request)
		if err != nil {
			session.LastError = "We could not start your payment. Please try again."
			s.saveQuietly(ctx, session)
			return nil, err
		}
		session.PaymentID = payment.ID
		session.Step = models.StepPaymentPending
		session.LastError = ""
		if err := s.Store.Save(ctx, session); err != nil {
			return nil, err
		}
		s.startPaymentPoller(session.SessionID, payment.ID)
		return session, nil
	}

	booked, err := s.createBooking(ctx, request, session.Draft.Branch)
	if err != nil {
		session.LastError = userFacingMessage(err)
		s.saveQuietly(ctx, session)
		return nil, err
	}

	session.Booking = booked
	session.Step = models.StepConfirmation
	session.FurthestStep = models.StepConfirmation.Number()
	session.LastError = ""
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.scheduleReminder(booked)
	return session, nil
}

// validateDraftForSubmission rejects incomplete drafts before any network
// call is made.
func validateDraftForSubmission(session *models.WizardSession) error {
	if session.UserID == "" {
		return NewValidationError("userId", "a signed-in user is required")
	}
	if _, err := time.Parse("2006-01-02", session.Draft.Date); err != nil {
		return NewValidationError("date", "a valid booking date is required")
	}
	if session.Draft.Time == "" {
		return NewValidationError("time", "a booking time is required")
	}
	if session.Draft.Branch == nil {
		return NewValidationError("branch", "a branch is required")
	}
	return nil
}

// resolveAccessFee prefers the fee attached to the loaded slot result and
// falls back to the discount-derived fee. Service bookings never owe one.
func (s *DefaultWizardService) resolveAccessFee(session *models.WizardSession) float64 {
	if session.Entity.BookingType() != models.BookingTypeOffer {
		return 0
	}
	if session.Slots != nil {
		return session.Slots.AccessFee
	}
	return accessFeeForOffer(nil, session.Entity.Discount)
}

// buildBookingRequest assembles the wire payload. A synthetic branch id is
// stripped back to its store id, a main branch sends its store key, and
// only a real branch record sends branchId. PaymentData is attached iff
// this is an offer booking with a positive fee.
func buildBookingRequest(session *models.WizardSession, fee float64) models.BookingRequest {
	draft := session.Draft
	request := models.BookingRequest{
		UserID:      session.UserID,
		StartTime:   CombineDateTime(draft.Date, draft.Time),
		Notes:       draft.Notes,
		BookingType: session.Entity.BookingType(),
		ClientInfo:  session.ClientInfo,
	}

	if request.BookingType == models.BookingTypeOffer {
		request.OfferID = session.Entity.OfferID
	} else {
		request.ServiceID = session.Entity.ServiceID
	}
	if draft.Staff != nil {
		request.StaffID = draft.Staff.ID
	}

	if branch := draft.Branch; branch != nil {
		switch {
		case branch.IsSynthetic():
			request.StoreID = strings.TrimPrefix(branch.ID, models.SyntheticBranchPrefix)
		case branch.IsMainBranch:
			if branch.StoreID != "" {
				request.StoreID = branch.StoreID
			} else {
				request.StoreID = branch.ID
			}
		default:
			request.BranchID = branch.ID
		}
	}

	if request.BookingType == models.BookingTypeOffer && fee > 0 {
		request.PaymentData = &models.PaymentData{
			Amount:      fee,
			Currency:    "KES",
			Method:      "mpesa",
			PhoneNumber: session.ClientInfo.Phone,
		}
	}
	return request
}

// createBooking posts the request and, on a "branch not found" rejection,
// performs exactly one corrective retry with branchId swapped for the
// store id derived from the same branch. If the retry also fails, the
// original error is what surfaces.
func (s *DefaultWizardService) createBooking(ctx context.Context, request models.BookingRequest, branch *models.Branch) (*models.Booking, error) {
	booked, err := s.postBooking(ctx, request)
	if err == nil {
		return booked, nil
	}

	if isBranchNotFound(err) && request.BranchID != "" && branch != nil {
		retry := request
		retry.BranchID = ""
		retry.StoreID = branch.StoreID
		if retry.StoreID == "" {
			retry.StoreID = strings.TrimPrefix(branch.ID, models.SyntheticBranchPrefix)
		}
		s.Logger.Info("retrying booking with store id after branch rejection",
			zap.String("branchId", request.BranchID),
			zap.String("storeId", retry.StoreID))
		if booked, retryErr := s.postBooking(ctx, retry); retryErr == nil {
			return booked, nil
		}
	}
	return nil, err
}

// postBooking resolves the create operation through the ranked endpoints.
func (s *DefaultWizardService) postBooking(ctx context.Context, request models.BookingRequest) (*models.Booking, error) {
	entityID := request.OfferID
	if entityID == "" {
		entityID = request.ServiceID
	}

	check := func(resp *gateway.CreateBookingResponse) (*models.Booking, error) {
		if resp == nil || !resp.Success || resp.Booking == nil {
			msg := "create rejected"
			if resp != nil && resp.Message != "" {
				msg = resp.Message
			}
			return nil, fmt.Errorf("booking not created: %s", msg)
		}
		return resp.Booking, nil
	}

	strategies := []Strategy[*models.Booking]{
		{
			Name: "dedicated",
			Run: func(ctx context.Context) (*models.Booking, error) {
				var resp gateway.CreateBookingResponse
				path := fmt.Sprintf("/%ss/%s/bookings", request.BookingType, entityID)
				if err := s.Availability.Gateway.PostJSON(ctx, path, request, &resp); err != nil {
					return nil, err
				}
				return check(&resp)
			},
		},
		{
			Name: "unified",
			Run: func(ctx context.Context) (*models.Booking, error) {
				var resp gateway.CreateBookingResponse
				if err := s.Availability.Gateway.PostJSON(ctx, "/bookings", request, &resp); err != nil {
					return nil, err
				}
				return check(&resp)
			},
		},
	}

	operation := "createServiceBooking"
	if request.BookingType == models.BookingTypeOffer {
		operation = "createOfferBooking"
	}
	return Resolve(ctx, s.Logger, operation, strategies)
}

func isBranchNotFound(err error) bool {
	var apiErr *gateway.APIError
	msg := err.Error()
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	return strings.Contains(strings.ToLower(msg), "branch not found")
}

// userFacingMessage trims an error down to what the session should show.
func userFacingMessage(err error) string {
	var bre *BusinessRuleError
	if errors.As(err, &bre) {
		return bre.Message
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "We could not complete your booking. Please try again."
}

func (s *DefaultWizardService) saveQuietly(ctx context.Context, session *models.WizardSession) {
	if err := s.Store.Save(ctx, session); err != nil {
		s.Logger.Warn("failed to persist session error state",
			zap.String("sessionId", session.SessionID),
			zap.Error(err))
	}
}

func (s *DefaultWizardService) scheduleReminder(booked *models.Booking) {
	if s.Reminders == nil || booked == nil || booked.StartTime == "" {
		return
	}
	if err := s.Reminders.ScheduleBookingReminder(booked); err != nil {
		s.Logger.Warn("failed to schedule booking reminder",
			zap.String("bookingId", booked.ID),
			zap.Error(err))
	}
}
