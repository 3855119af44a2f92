package entity

import (
	"time"

	"heyspender/internal/domain/value"
)

type User struct {
	ID        value.UserID
	Email     string
	Name      string
	Role      value.Role
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
