package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeBookingReminder = "booking:reminder"

// BookingReminderPayload is the task body for an upcoming-booking reminder.
type BookingReminderPayload struct {
	BookingID  string `json:"bookingId"`
	UserID     string `json:"userId"`
	EntityName string `json:"entityName"`
	StartTime  string `json:"startTime"`
}

func NewBookingReminderTask(payload BookingReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
