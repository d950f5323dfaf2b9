package tasks

import (
	"time"

	"github.com/Roadpeak/D3-client-sub000/models"
	"github.com/Roadpeak/D3-client-sub000/services/booking"
	"github.com/Roadpeak/D3-client-sub000/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// reminderLead is how long before the booking start the reminder fires.
const reminderLead = 2 * time.Hour

// AsynqReminderScheduler enqueues booking reminders on the asynq queue.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

// ScheduleBookingReminder enqueues a reminder two hours before the booking
// starts. Bookings starting sooner than that get no reminder.
func (s *AsynqReminderScheduler) ScheduleBookingReminder(b *models.Booking) error {
	logger := utils.GetLogger()

	// Start times are wall-clock values in the marketplace timezone.
	start, err := booking.ParseUpstreamTime(b.StartTime)
	if err != nil {
		return err
	}
	fireAt := start.Add(-reminderLead)
	if !fireAt.After(time.Now()) {
		logger.Debug("booking starts too soon for a reminder",
			zap.String("bookingId", b.ID),
			zap.String("startTime", b.StartTime))
		return nil
	}

	payload := BookingReminderPayload{
		BookingID:  b.ID,
		UserID:     b.UserID,
		EntityName: b.EntityName,
		StartTime:  b.StartTime,
	}
	task, opts, err := NewBookingReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	info, err := s.Client.Enqueue(task, opts...)
	if err != nil {
		return err
	}
	logger.Info("booking reminder scheduled",
		zap.String("bookingId", b.ID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
