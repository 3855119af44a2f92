package entity

import (
	"time"

	"heyspender/internal/domain/value"
)

type Contribution struct {
	ID          string
	GoalID      value.GoalID
	Amount      value.Money
	DisplayName string
	Anonymous   bool
	Reference   string
	Status      value.ContributionStatus
	CreatedAt   time.Time
}
