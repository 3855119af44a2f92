package value

import (
	"git.appkode.ru/pub/go/failure"
	"github.com/rs/xid"

	"heyspender/pkg/errcodes"
)

type (
	UserID     string
	WishlistID string
	ItemID     string
	GoalID     string
	ClaimID    string
	PayoutID   string
	ReminderID string
)

func (id UserID) String() string     { return string(id) }
func (id WishlistID) String() string { return string(id) }
func (id ItemID) String() string     { return string(id) }
func (id GoalID) String() string     { return string(id) }
func (id ClaimID) String() string    { return string(id) }
func (id PayoutID) String() string   { return string(id) }
func (id ReminderID) String() string { return string(id) }

func NewUserID() UserID         { return UserID(xid.New().String()) }
func NewWishlistID() WishlistID { return WishlistID(xid.New().String()) }
func NewItemID() ItemID         { return ItemID(xid.New().String()) }
func NewGoalID() GoalID         { return GoalID(xid.New().String()) }
func NewClaimID() ClaimID       { return ClaimID(xid.New().String()) }
func NewPayoutID() PayoutID     { return PayoutID(xid.New().String()) }
func NewReminderID() ReminderID { return ReminderID(xid.New().String()) }

func ParseUserID(s string) (UserID, error) {
	if err := checkID(s); err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidUserID))
	}

	return UserID(s), nil
}

func ParseWishlistID(s string) (WishlistID, error) {
	if err := checkID(s); err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidWishlistID))
	}

	return WishlistID(s), nil
}

func ParseItemID(s string) (ItemID, error) {
	if err := checkID(s); err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidItemID))
	}

	return ItemID(s), nil
}

func ParseGoalID(s string) (GoalID, error) {
	if err := checkID(s); err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidGoalID))
	}

	return GoalID(s), nil
}

func ParseClaimID(s string) (ClaimID, error) {
	if err := checkID(s); err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidClaimID))
	}

	return ClaimID(s), nil
}

func ParsePayoutID(s string) (PayoutID, error) {
	if err := checkID(s); err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidPayoutID))
	}

	return PayoutID(s), nil
}

func ParseReminderID(s string) (ReminderID, error) {
	if err := checkID(s); err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidReminderID))
	}

	return ReminderID(s), nil
}

func checkID(s string) error {
	_, err := xid.FromString(s)
	return err //nolint:wrapcheck
}
