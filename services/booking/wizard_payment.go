package booking

import (
	"context"
	"time"

	"github.com/Roadpeak/D3-client-sub000/models"

	"go.uber.org/zap"
)

// pollerHandle identifies one poller run in the registry. Entries are
// compared by handle so a superseded run cannot evict its replacement.
type pollerHandle struct {
	cancel context.CancelFunc
}

// startPaymentPoller launches the reconciliation loop for a session. Any
// previous poller for the same session is cancelled first; the registry
// entry is what CancelSession uses to tear the loop down.
func (s *DefaultWizardService) startPaymentPoller(sessionID, paymentID string) {
	ctx, cancel := context.WithCancel(context.Background())
	handle := &pollerHandle{cancel: cancel}

	s.mu.Lock()
	if s.pollers == nil {
		s.pollers = make(map[string]*pollerHandle)
	}
	if previous, ok := s.pollers[sessionID]; ok {
		previous.cancel()
	}
	s.pollers[sessionID] = handle
	s.mu.Unlock()

	poller := &StatusPoller{
		Payments:    s.Payments,
		Logger:      s.Logger,
		Interval:    s.PollInterval,
		MaxAttempts: s.PollMaxAttempts,
	}

	go func() {
		outcome, payment := poller.Run(ctx, paymentID)
		s.unregisterPoller(sessionID, handle)
		s.applyPaymentOutcome(sessionID, outcome, payment)
	}()
}

// unregisterPoller drops a finished run's registry entry, but only while it
// still owns the slot. A run that was replaced leaves the replacement's
// entry intact so CancelSession can still reach it.
func (s *DefaultWizardService) unregisterPoller(sessionID string, handle *pollerHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pollers[sessionID] == handle {
		delete(s.pollers, sessionID)
	}
}

// applyPaymentOutcome translates a terminal poll result into a wizard
// transition. Completed jumps to confirmation: the upstream creates the
// booking as a side effect of payment completion, so no create call is
// made here. Failed returns to review; a timed-out poll also returns to
// review but with the distinct verify-manually message, since funds may
// already have moved.
func (s *DefaultWizardService) applyPaymentOutcome(sessionID string, outcome PollOutcome, payment *models.Payment) {
	if outcome == OutcomeCancelled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		s.Logger.Warn("payment outcome arrived for a missing session",
			zap.String("sessionId", sessionID),
			zap.Error(err))
		return
	}

	switch outcome {
	case OutcomeCompleted:
		session.Step = models.StepConfirmation
		session.FurthestStep = models.StepConfirmation.Number()
		session.LastError = ""
		session.Booking = confirmationSummary(session)
		s.scheduleReminder(session.Booking)
		s.Logger.Info("payment completed, booking confirmed",
			zap.String("sessionId", sessionID),
			zap.String("paymentId", session.PaymentID))
	case OutcomeFailed:
		session.Step = models.StepReview
		session.PaymentID = ""
		session.LastError = PaymentFailedMessage
	case OutcomeTimedOut:
		// PaymentID is kept: the charge may still settle and the user is
		// told to verify in their payment app.
		session.Step = models.StepReview
		session.LastError = PaymentTimeoutMessage
	}

	s.saveQuietly(ctx, session)
}

// confirmationSummary builds the booking record shown after a completed
// payment. The upstream created the real record; its id becomes visible in
// the user's booking list.
func confirmationSummary(session *models.WizardSession) *models.Booking {
	return &models.Booking{
		UserID:     session.UserID,
		OfferID:    session.Entity.OfferID,
		ServiceID:  session.Entity.ServiceID,
		EntityName: session.Entity.Name,
		StartTime:  CombineDateTime(session.Draft.Date, session.Draft.Time),
		Status:     "confirmed",
		CreatedAt:  time.Now(),
	}
}
