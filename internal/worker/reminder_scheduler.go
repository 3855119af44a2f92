package worker

import (
	"context"
	"time"
)

type reminderSchedulerService interface {
	DispatchDue(ctx context.Context, now time.Time) (int, error)
}

// ReminderScheduler scans for due reminders on a fixed interval and hands
// them to the dispatcher. Delivery happens on the task queue, so a slow
// notification channel never stalls the scan loop.
type ReminderScheduler struct {
	reminders reminderSchedulerService
	interval  time.Duration
}

func NewReminderScheduler(reminders reminderSchedulerService, interval time.Duration) *ReminderScheduler {
	return &ReminderScheduler{
		reminders: reminders,
		interval:  interval,
	}
}

func (w *ReminderScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger(ctx).Info("reminder scheduler started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("reminder scheduler stopped")
			return ctx.Err()
		case now := <-ticker.C:
			count, err := w.reminders.DispatchDue(ctx, now)
			if err != nil {
				logger(ctx).Error("reminder sweep failed", "error", err)
				continue
			}

			if count > 0 {
				logger(ctx).Info("dispatched due reminders", "count", count)
			}
		}
	}
}
