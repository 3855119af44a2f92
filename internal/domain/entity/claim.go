package entity

import (
	"time"

	"heyspender/internal/domain/value"
)

// Claim reserves a wishlist item for a spender. The spender is either a
// registered user (SpenderID set) or an anonymous contact (name/email only).
type Claim struct {
	ID           value.ClaimID
	ItemID       value.ItemID
	SpenderID    value.UserID
	SpenderName  string
	SpenderEmail string
	Status       value.ClaimStatus
	AmountPaid   value.Money
	ExpireAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c Claim) ExpiredBy(now time.Time) bool {
	return c.ExpireAt != nil && c.ExpireAt.Before(now) && !c.Status.Terminal()
}
