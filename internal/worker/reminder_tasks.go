package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/internal/infrastructure/notifier"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	TypeReminderNotify = "reminder:notify"

	QueueReminders = "reminders"

	reminderMaxRetry = 5
)

type reminderNotifyPayload struct {
	ReminderID string `json:"reminderId"`
	UserID     string `json:"userId"`
	WishlistID string `json:"wishlistId"`
	Message    string `json:"message"`
}

// ReminderDispatcher enqueues due reminders; delivery runs on the asynq
// worker with its own retry budget.
type ReminderDispatcher struct {
	client *asynq.Client
}

func NewReminderDispatcher(client *asynq.Client) *ReminderDispatcher {
	return &ReminderDispatcher{client: client}
}

func (d *ReminderDispatcher) Dispatch(ctx context.Context, reminder entity.Reminder) error {
	payload, err := json.Marshal(reminderNotifyPayload{
		ReminderID: reminder.ID.String(),
		UserID:     reminder.UserID.String(),
		WishlistID: reminder.WishlistID.String(),
		Message:    reminder.Message,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	task := asynq.NewTask(TypeReminderNotify, payload)

	_, err = d.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueReminders),
		asynq.MaxRetry(reminderMaxRetry),
	)
	if err != nil {
		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	return nil
}

type reminderUserLoader interface {
	GetByID(ctx context.Context, id value.UserID) (entity.User, error)
}

type reminderWishlistLoader interface {
	GetByID(ctx context.Context, id value.WishlistID) (entity.Wishlist, error)
}

type reminderNotifier interface {
	SendReminder(ctx context.Context, n notifier.ReminderNotification) error
}

// ReminderNotifyHandler resolves the reminder's recipient and wishlist at
// delivery time, so the notification always carries current data even when
// the task sat in the queue for a while.
type ReminderNotifyHandler struct {
	users     reminderUserLoader
	wishlists reminderWishlistLoader
	notifier  reminderNotifier
}

func NewReminderNotifyHandler(
	users reminderUserLoader,
	wishlists reminderWishlistLoader,
	notifier reminderNotifier,
) *ReminderNotifyHandler {
	return &ReminderNotifyHandler{
		users:     users,
		wishlists: wishlists,
		notifier:  notifier,
	}
}

func (h *ReminderNotifyHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload reminderNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	userID, err := value.ParseUserID(payload.UserID)
	if err != nil {
		return fmt.Errorf("value.ParseUserID: %w", err)
	}

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("users.GetByID: %w", err)
	}

	wishlistID, err := value.ParseWishlistID(payload.WishlistID)
	if err != nil {
		return fmt.Errorf("value.ParseWishlistID: %w", err)
	}

	wishlist, err := h.wishlists.GetByID(ctx, wishlistID)
	if err != nil {
		return fmt.Errorf("wishlists.GetByID: %w", err)
	}

	notification := notifier.ReminderNotification{
		Email:         user.Email,
		Name:          user.Name,
		WishlistTitle: wishlist.Title,
		WishlistSlug:  wishlist.Slug,
		Message:       payload.Message,
	}

	if err := h.notifier.SendReminder(ctx, notification); err != nil {
		return fmt.Errorf("notifier.SendReminder: %w", err)
	}

	return nil
}
