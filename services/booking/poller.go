package booking

import (
	"context"
	"time"

	"github.com/Roadpeak/D3-client-sub000/models"

	"go.uber.org/zap"
)

// PollOutcome is the terminal result of one payment reconciliation run.
type PollOutcome int

const (
	OutcomeCancelled PollOutcome = iota
	OutcomeCompleted
	OutcomeFailed
	OutcomeTimedOut
)

// Defaults for the reconciliation loop: 5-second interval, 60 attempts,
// a 5-minute ceiling overall.
const (
	defaultPollInterval    = 5 * time.Second
	defaultPollMaxAttempts = 60
)

// StatusPoller drives the payment reconciliation loop. Poll errors count
// toward the attempt ceiling but never abort early; only a terminal status
// or exhaustion ends the run. Cancellation is checked before every
// scheduled attempt so a torn-down wizard can't keep driving state.
type StatusPoller struct {
	Payments    PaymentService
	Logger      *zap.Logger
	Interval    time.Duration
	MaxAttempts int
}

// Run blocks until the payment reaches a terminal state, the attempt
// ceiling is exhausted, or ctx is cancelled.
func (p *StatusPoller) Run(ctx context.Context, paymentID string) (PollOutcome, *models.Payment) {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultPollMaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return OutcomeCancelled, nil
		case <-time.After(interval):
		}

		payment, err := p.Payments.Status(ctx, paymentID)
		if err != nil {
			p.Logger.Debug("payment status poll failed",
				zap.String("paymentId", paymentID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		switch payment.Status {
		case models.PaymentStatusCompleted:
			return OutcomeCompleted, payment
		case models.PaymentStatusFailed:
			return OutcomeFailed, payment
		}
	}
	return OutcomeTimedOut, nil
}
