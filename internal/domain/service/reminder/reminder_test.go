package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/pkg/errcodes"
)

type stubReminderRepo struct {
	reminders map[value.ReminderID]entity.Reminder
}

func (r *stubReminderRepo) Create(_ context.Context, reminder entity.Reminder) error {
	r.reminders[reminder.ID] = reminder
	return nil
}

func (r *stubReminderRepo) GetByID(_ context.Context, id value.ReminderID) (entity.Reminder, error) {
	reminder, ok := r.reminders[id]
	if !ok {
		return entity.Reminder{}, domain.NewError(errcodes.ReminderNotFound, "reminder not found")
	}

	return reminder, nil
}

func (r *stubReminderRepo) ListByUser(_ context.Context, userID value.UserID) ([]entity.Reminder, error) {
	var out []entity.Reminder
	for _, rem := range r.reminders {
		if rem.UserID == userID {
			out = append(out, rem)
		}
	}

	return out, nil
}

func (r *stubReminderRepo) ListDue(_ context.Context, now time.Time) ([]entity.Reminder, error) {
	var out []entity.Reminder
	for _, rem := range r.reminders {
		if rem.Active && !rem.RemindAt.After(now) {
			out = append(out, rem)
		}
	}

	return out, nil
}

func (r *stubReminderRepo) Update(_ context.Context, reminder entity.Reminder) error {
	if _, ok := r.reminders[reminder.ID]; !ok {
		return domain.NewError(errcodes.ReminderNotFound, "reminder not found")
	}

	r.reminders[reminder.ID] = reminder

	return nil
}

func (r *stubReminderRepo) MarkSent(_ context.Context, id value.ReminderID, sentAt, nextRemindAt time.Time, active bool) error {
	reminder, ok := r.reminders[id]
	if !ok {
		return domain.NewError(errcodes.ReminderNotFound, "reminder not found")
	}

	reminder.LastSentAt = &sentAt
	reminder.RemindAt = nextRemindAt
	reminder.Active = active
	r.reminders[id] = reminder

	return nil
}

func (r *stubReminderRepo) Delete(_ context.Context, id value.ReminderID) error {
	if _, ok := r.reminders[id]; !ok {
		return domain.NewError(errcodes.ReminderNotFound, "reminder not found")
	}

	delete(r.reminders, id)

	return nil
}

type stubWishlistRepo struct {
	wishlists map[value.WishlistID]entity.Wishlist
}

func (r *stubWishlistRepo) GetByID(_ context.Context, id value.WishlistID) (entity.Wishlist, error) {
	wishlist, ok := r.wishlists[id]
	if !ok {
		return entity.Wishlist{}, domain.NewError(errcodes.WishlistNotFound, "wishlist not found")
	}

	return wishlist, nil
}

type stubDispatcher struct {
	dispatched []entity.Reminder
	err        error
}

func (d *stubDispatcher) Dispatch(_ context.Context, reminder entity.Reminder) error {
	if d.err != nil {
		return d.err
	}

	d.dispatched = append(d.dispatched, reminder)

	return nil
}

func newFixture() (*Service, *stubReminderRepo, *stubWishlistRepo, *stubDispatcher) {
	reminders := &stubReminderRepo{reminders: map[value.ReminderID]entity.Reminder{}}
	wishlists := &stubWishlistRepo{wishlists: map[value.WishlistID]entity.Wishlist{}}
	dispatcher := &stubDispatcher{}

	return NewService(reminders, wishlists, dispatcher), reminders, wishlists, dispatcher
}

func seedWishlist(wishlists *stubWishlistRepo, owner value.UserID) value.WishlistID {
	id := value.NewWishlistID()
	wishlists.wishlists[id] = entity.Wishlist{ID: id, OwnerID: owner}

	return id
}

func TestService_Create(t *testing.T) {
	rq := require.New(t)

	svc, _, wishlists, _ := newFixture()
	owner := value.NewUserID()
	wishlistID := seedWishlist(wishlists, owner)

	reminder, err := svc.Create(context.Background(), owner, CreateParams{
		WishlistID: wishlistID,
		Message:    "birthday is coming",
		RemindAt:   time.Now().Add(24 * time.Hour),
	})
	rq.NoError(err)
	rq.True(reminder.Active)
	rq.Equal(value.RecurrenceNone, reminder.Recurrence)
}

func TestService_Create_Invalid(t *testing.T) {
	rq := require.New(t)

	svc, _, wishlists, _ := newFixture()
	owner := value.NewUserID()
	wishlistID := seedWishlist(wishlists, owner)

	// Past remind_at.
	_, err := svc.Create(context.Background(), owner, CreateParams{
		WishlistID: wishlistID,
		RemindAt:   time.Now().Add(-time.Hour),
	})
	rq.Error(err)

	// Someone else's wishlist.
	_, err = svc.Create(context.Background(), value.NewUserID(), CreateParams{
		WishlistID: wishlistID,
		RemindAt:   time.Now().Add(time.Hour),
	})
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.Forbidden, code)
}

func TestService_DispatchDue(t *testing.T) {
	rq := require.New(t)

	svc, reminders, wishlists, dispatcher := newFixture()
	owner := value.NewUserID()
	wishlistID := seedWishlist(wishlists, owner)

	now := time.Now()

	oneShot := entity.Reminder{
		ID:         value.NewReminderID(),
		UserID:     owner,
		WishlistID: wishlistID,
		RemindAt:   now.Add(-time.Minute),
		Recurrence: value.RecurrenceNone,
		Active:     true,
	}
	weekly := entity.Reminder{
		ID:         value.NewReminderID(),
		UserID:     owner,
		WishlistID: wishlistID,
		RemindAt:   now.Add(-8 * 24 * time.Hour),
		Recurrence: value.RecurrenceWeekly,
		Active:     true,
	}
	future := entity.Reminder{
		ID:         value.NewReminderID(),
		UserID:     owner,
		WishlistID: wishlistID,
		RemindAt:   now.Add(time.Hour),
		Recurrence: value.RecurrenceNone,
		Active:     true,
	}

	for _, r := range []entity.Reminder{oneShot, weekly, future} {
		reminders.reminders[r.ID] = r
	}

	count, err := svc.DispatchDue(context.Background(), now)
	rq.NoError(err)
	rq.Equal(2, count)
	rq.Len(dispatcher.dispatched, 2)

	// One-shot deactivates.
	rq.False(reminders.reminders[oneShot.ID].Active)

	// Weekly advances past now in one sweep, never into the past.
	advanced := reminders.reminders[weekly.ID]
	rq.True(advanced.Active)
	rq.True(advanced.RemindAt.After(now))
	rq.NotNil(advanced.LastSentAt)

	// Future reminder untouched.
	rq.True(reminders.reminders[future.ID].Active)
	rq.Nil(reminders.reminders[future.ID].LastSentAt)
}

func TestService_DispatchDue_DispatchFailureKeepsReminder(t *testing.T) {
	rq := require.New(t)

	svc, reminders, wishlists, dispatcher := newFixture()
	dispatcher.err = errors.New("queue unavailable")

	owner := value.NewUserID()
	wishlistID := seedWishlist(wishlists, owner)

	due := entity.Reminder{
		ID:         value.NewReminderID(),
		UserID:     owner,
		WishlistID: wishlistID,
		RemindAt:   time.Now().Add(-time.Minute),
		Active:     true,
	}
	reminders.reminders[due.ID] = due

	count, err := svc.DispatchDue(context.Background(), time.Now())
	rq.NoError(err)
	rq.Equal(0, count)

	// Still due on the next sweep.
	rq.True(reminders.reminders[due.ID].Active)
	rq.Nil(reminders.reminders[due.ID].LastSentAt)
}

func TestService_UpdateAndDelete(t *testing.T) {
	rq := require.New(t)

	svc, _, wishlists, _ := newFixture()
	owner := value.NewUserID()
	wishlistID := seedWishlist(wishlists, owner)

	reminder, err := svc.Create(context.Background(), owner, CreateParams{
		WishlistID: wishlistID,
		Message:    "original",
		RemindAt:   time.Now().Add(time.Hour),
	})
	rq.NoError(err)

	inactive := false
	updated, err := svc.Update(context.Background(), owner, reminder.ID, UpdateParams{
		Message: "changed",
		Active:  &inactive,
	})
	rq.NoError(err)
	rq.Equal("changed", updated.Message)
	rq.False(updated.Active)

	// Another user cannot touch it.
	_, err = svc.Update(context.Background(), value.NewUserID(), reminder.ID, UpdateParams{Message: "nope"})
	rq.Error(err)

	rq.NoError(svc.Delete(context.Background(), owner, reminder.ID))
	rq.Error(svc.Delete(context.Background(), owner, reminder.ID))
}
