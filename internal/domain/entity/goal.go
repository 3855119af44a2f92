package entity

import (
	"time"

	"heyspender/internal/domain/value"
)

type Goal struct {
	ID           value.GoalID
	WishlistID   value.WishlistID
	Title        string
	TargetAmount value.Money
	AmountRaised value.Money
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Progress returns the raised/target percentage clamped to [0, 100].
// A zero or negative target always reads as 0%.
func (g Goal) Progress() float64 {
	return Progress(g.AmountRaised, g.TargetAmount)
}

func Progress(raised, target value.Money) float64 {
	if target <= 0 {
		return 0
	}

	percent := float64(raised) / float64(target) * 100
	if percent > 100 {
		return 100
	}

	if percent < 0 {
		return 0
	}

	return percent
}
