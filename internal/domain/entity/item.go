package entity

import (
	"time"

	"heyspender/internal/domain/value"
)

// Item is a single wishlist entry. QtyClaimed never exceeds QtyTotal; the
// repository enforces that with guarded updates.
type Item struct {
	ID            value.ItemID
	WishlistID    value.WishlistID
	Name          string
	PriceEstimate value.Money
	QtyTotal      int
	QtyClaimed    int
	ProductURL    string
	ImageURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (i Item) FullyClaimed() bool {
	return i.QtyClaimed >= i.QtyTotal
}
