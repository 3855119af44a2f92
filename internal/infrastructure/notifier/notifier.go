// Package notifier delivers reminder notifications to wishlist owners.
package notifier

import (
	"context"

	"heyspender/pkg/contextx"
)

//nolint:gochecknoglobals
var logger = contextx.LoggerFromContextOrDefault

type ReminderNotification struct {
	Email         string
	Name          string
	WishlistTitle string
	WishlistSlug  string
	Message       string
}

// LogNotifier writes notifications to the structured log. It stands in for
// a mail provider in environments without outbound email; the asynq handler
// only sees the SendReminder method, so swapping the transport is local to
// the application wiring.
type LogNotifier struct{}

func NewLogNotifier() LogNotifier {
	return LogNotifier{}
}

func (LogNotifier) SendReminder(ctx context.Context, n ReminderNotification) error {
	logger(ctx).Info("reminder notification",
		"email", n.Email,
		"wishlist", n.WishlistTitle,
		"slug", n.WishlistSlug,
		"message", n.Message,
	)

	return nil
}
