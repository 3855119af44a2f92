package entity

import (
	"time"

	"heyspender/internal/domain/value"
)

type Reminder struct {
	ID         value.ReminderID
	UserID     value.UserID
	WishlistID value.WishlistID
	Message    string
	RemindAt   time.Time
	Recurrence value.Recurrence
	Active     bool
	LastSentAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NextRemindAt advances a repeating reminder past now. One-shot reminders
// return the current RemindAt unchanged.
func (r Reminder) NextRemindAt(now time.Time) time.Time {
	var step time.Duration

	switch r.Recurrence {
	case value.RecurrenceDaily:
		step = 24 * time.Hour
	case value.RecurrenceWeekly:
		step = 7 * 24 * time.Hour
	default:
		return r.RemindAt
	}

	next := r.RemindAt
	for !next.After(now) {
		next = next.Add(step)
	}

	return next
}
