package server

import (
	"context"
	"fmt"
	"net/http"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/reminder"
	"heyspender/internal/domain/value"
	"heyspender/pkg/httpx/reply"
	"heyspender/pkg/httpx/req"
	"heyspender/pkg/lox"
	"heyspender/pkg/rest"
)

type reminderService interface {
	Create(ctx context.Context, userID value.UserID, params reminder.CreateParams) (entity.Reminder, error)
	List(ctx context.Context, userID value.UserID) ([]entity.Reminder, error)
	Update(ctx context.Context, userID value.UserID, id value.ReminderID, params reminder.UpdateParams) (entity.Reminder, error)
	Delete(ctx context.Context, userID value.UserID, id value.ReminderID) error
}

type ReminderServer struct {
	reminderService reminderService
}

func NewReminderServer(reminderService reminderService) ReminderServer {
	return ReminderServer{
		reminderService: reminderService,
	}
}

func (s ReminderServer) postV1Reminder(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	wishlistID, err := value.ParseWishlistID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseWishlistID: %w", err)
	}

	var request rest.CreateReminderRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	created, err := s.reminderService.Create(ctx, userID, reminder.CreateParams{
		WishlistID: wishlistID,
		Message:    request.Message,
		RemindAt:   request.RemindAt,
		Recurrence: value.Recurrence(request.Recurrence),
	})
	if err != nil {
		return fmt.Errorf("reminderService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTReminder(created))

	return nil
}

func (s ReminderServer) getV1MyReminders(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	reminders, err := s.reminderService.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("reminderService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(reminders, newRESTReminder))

	return nil
}

func (s ReminderServer) patchV1Reminder(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	reminderID, err := value.ParseReminderID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseReminderID: %w", err)
	}

	var request rest.UpdateReminderRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	params := reminder.UpdateParams{Active: request.Active}
	if request.Message != nil {
		params.Message = *request.Message
	}
	if request.RemindAt != nil {
		params.RemindAt = *request.RemindAt
	}
	if request.Recurrence != nil {
		params.Recurrence = value.Recurrence(*request.Recurrence)
	}

	updated, err := s.reminderService.Update(ctx, userID, reminderID, params)
	if err != nil {
		return fmt.Errorf("reminderService.Update: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTReminder(updated))

	return nil
}

func (s ReminderServer) deleteV1Reminder(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	reminderID, err := value.ParseReminderID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseReminderID: %w", err)
	}

	if err := s.reminderService.Delete(ctx, userID, reminderID); err != nil {
		return fmt.Errorf("reminderService.Delete: %w", err)
	}

	reply.OK(w)

	return nil
}
