package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/pkg/errcodes"
)

type ReminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

const reminderColumns = `id, user_id, wishlist_id, message, remind_at, recurrence, active, last_sent_at, created_at, updated_at`

func (r *ReminderRepository) Create(ctx context.Context, reminder entity.Reminder) error {
	query := `
		INSERT INTO reminders (id, user_id, wishlist_id, message, remind_at, recurrence, active, last_sent_at, created_at, updated_at)
		VALUES (:id, :user_id, :wishlist_id, :message, :remind_at, :recurrence, :active, :last_sent_at, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromReminder(reminder)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert reminder")
	}

	return nil
}

func (r *ReminderRepository) GetByID(ctx context.Context, id value.ReminderID) (entity.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`

	var schema reminderSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Reminder{}, domain.NewError(errcodes.ReminderNotFound, "reminder not found")
		}
		return entity.Reminder{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get reminder")
	}

	return schema.toDomain(), nil
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID value.UserID) ([]entity.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = $1 ORDER BY remind_at ASC`

	var schemas []reminderSchema
	if err := r.db.SelectContext(ctx, &schemas, query, userID.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list reminders")
	}

	return toReminders(schemas), nil
}

// ListDue returns active reminders whose remind_at has passed. The scheduler
// calls this on every tick.
func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time) ([]entity.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE active AND remind_at <= $1 ORDER BY remind_at ASC`

	var schemas []reminderSchema
	if err := r.db.SelectContext(ctx, &schemas, query, now); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list due reminders")
	}

	return toReminders(schemas), nil
}

func (r *ReminderRepository) Update(ctx context.Context, reminder entity.Reminder) error {
	query := `
		UPDATE reminders SET
			message = :message,
			remind_at = :remind_at,
			recurrence = :recurrence,
			active = :active,
			updated_at = :updated_at
		WHERE id = :id`

	schema := fromReminder(reminder)
	schema.UpdatedAt = time.Now()

	res, err := r.db.NamedExecContext(ctx, query, schema)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update reminder")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.ReminderNotFound, "reminder not found")
	}

	return nil
}

// MarkSent records the dispatch: recurring reminders advance to the next
// slot, one-shot reminders deactivate.
func (r *ReminderRepository) MarkSent(ctx context.Context, id value.ReminderID, sentAt, nextRemindAt time.Time, active bool) error {
	query := `
		UPDATE reminders
		SET last_sent_at = $1, remind_at = $2, active = $3, updated_at = $4
		WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query, sentAt, nextRemindAt, active, time.Now(), id.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to mark reminder sent")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.ReminderNotFound, "reminder not found")
	}

	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id value.ReminderID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to delete reminder")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.ReminderNotFound, "reminder not found")
	}

	return nil
}

func toReminders(schemas []reminderSchema) []entity.Reminder {
	reminders := make([]entity.Reminder, 0, len(schemas))
	for _, s := range schemas {
		reminders = append(reminders, s.toDomain())
	}

	return reminders
}
