package entity

import (
	"time"

	"heyspender/internal/domain/value"
)

type Wishlist struct {
	ID            value.WishlistID
	OwnerID       value.UserID
	Title         string
	Slug          string
	Occasion      string
	Visibility    value.Visibility
	CoverImageURL string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
