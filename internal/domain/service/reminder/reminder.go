package reminder

import (
	"context"
	"fmt"
	"time"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/pkg/contextx"
	"heyspender/pkg/errcodes"
)

//nolint:gochecknoglobals
var logger = contextx.LoggerFromContextOrDefault

type ReminderRepository interface {
	Create(ctx context.Context, reminder entity.Reminder) error
	GetByID(ctx context.Context, id value.ReminderID) (entity.Reminder, error)
	ListByUser(ctx context.Context, userID value.UserID) ([]entity.Reminder, error)
	ListDue(ctx context.Context, now time.Time) ([]entity.Reminder, error)
	Update(ctx context.Context, reminder entity.Reminder) error
	MarkSent(ctx context.Context, id value.ReminderID, sentAt, nextRemindAt time.Time, active bool) error
	Delete(ctx context.Context, id value.ReminderID) error
}

type WishlistRepository interface {
	GetByID(ctx context.Context, id value.WishlistID) (entity.Wishlist, error)
}

// Dispatcher hands a due reminder off for delivery. The worker layer backs
// this with a task queue so a slow notification never blocks the scan.
type Dispatcher interface {
	Dispatch(ctx context.Context, reminder entity.Reminder) error
}

type Service struct {
	reminders  ReminderRepository
	wishlists  WishlistRepository
	dispatcher Dispatcher
}

func NewService(reminders ReminderRepository, wishlists WishlistRepository, dispatcher Dispatcher) *Service {
	return &Service{
		reminders:  reminders,
		wishlists:  wishlists,
		dispatcher: dispatcher,
	}
}

type CreateParams struct {
	WishlistID value.WishlistID
	Message    string
	RemindAt   time.Time
	Recurrence value.Recurrence
}

func (s *Service) Create(ctx context.Context, userID value.UserID, params CreateParams) (entity.Reminder, error) {
	if params.RemindAt.Before(time.Now()) {
		return entity.Reminder{}, domain.NewError(errcodes.ValidationError, "remind_at must be in the future")
	}

	if err := s.checkOwnership(ctx, userID, params.WishlistID); err != nil {
		return entity.Reminder{}, err
	}

	if params.Recurrence == "" {
		params.Recurrence = value.RecurrenceNone
	}

	now := time.Now()
	reminder := entity.Reminder{
		ID:         value.NewReminderID(),
		UserID:     userID,
		WishlistID: params.WishlistID,
		Message:    params.Message,
		RemindAt:   params.RemindAt,
		Recurrence: params.Recurrence,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.reminders.Create(ctx, reminder); err != nil {
		return entity.Reminder{}, fmt.Errorf("create reminder: %w", err)
	}

	return reminder, nil
}

func (s *Service) List(ctx context.Context, userID value.UserID) ([]entity.Reminder, error) {
	reminders, err := s.reminders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	return reminders, nil
}

type UpdateParams struct {
	Message    string
	RemindAt   time.Time
	Recurrence value.Recurrence
	Active     *bool
}

func (s *Service) Update(
	ctx context.Context,
	userID value.UserID,
	id value.ReminderID,
	params UpdateParams,
) (entity.Reminder, error) {
	reminder, err := s.owned(ctx, userID, id)
	if err != nil {
		return entity.Reminder{}, err
	}

	if params.Message != "" {
		reminder.Message = params.Message
	}
	if !params.RemindAt.IsZero() {
		reminder.RemindAt = params.RemindAt
	}
	if params.Recurrence != "" {
		reminder.Recurrence = params.Recurrence
	}
	if params.Active != nil {
		reminder.Active = *params.Active
	}

	if err := s.reminders.Update(ctx, reminder); err != nil {
		return entity.Reminder{}, fmt.Errorf("update reminder: %w", err)
	}

	return reminder, nil
}

func (s *Service) Delete(ctx context.Context, userID value.UserID, id value.ReminderID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.reminders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}

	return nil
}

// DispatchDue hands every due reminder to the dispatcher and advances its
// schedule. One-shot reminders deactivate; recurring ones move to the next
// slot past now, so a long outage never causes a burst of catch-up sends.
func (s *Service) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.reminders.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	dispatched := 0

	for _, r := range due {
		if err := s.dispatcher.Dispatch(ctx, r); err != nil {
			logger(ctx).Error("reminder dispatch failed", "reminder_id", r.ID.String(), "error", err)
			continue
		}

		next := r.NextRemindAt(now)
		active := r.Recurrence != value.RecurrenceNone

		if err := s.reminders.MarkSent(ctx, r.ID, now, next, active); err != nil {
			logger(ctx).Error("failed to mark reminder sent", "reminder_id", r.ID.String(), "error", err)
			continue
		}

		dispatched++
	}

	return dispatched, nil
}

func (s *Service) owned(ctx context.Context, userID value.UserID, id value.ReminderID) (entity.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return entity.Reminder{}, fmt.Errorf("get reminder: %w", err)
	}

	if reminder.UserID != userID {
		return entity.Reminder{}, domain.NewError(errcodes.Forbidden, "reminder belongs to another user")
	}

	return reminder, nil
}

func (s *Service) checkOwnership(ctx context.Context, userID value.UserID, wishlistID value.WishlistID) error {
	wishlist, err := s.wishlists.GetByID(ctx, wishlistID)
	if err != nil {
		return fmt.Errorf("get wishlist: %w", err)
	}

	if wishlist.OwnerID != userID {
		return domain.NewError(errcodes.Forbidden, "wishlist belongs to another user")
	}

	return nil
}
