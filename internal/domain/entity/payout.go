package entity

import (
	"time"

	"heyspender/internal/domain/value"
)

type Payout struct {
	ID            value.PayoutID
	UserID        value.UserID
	WalletID      string
	Amount        value.Money
	Status        value.PayoutStatus
	BankCode      string
	AccountNumber string
	AccountName   string
	RecipientCode string
	Reference     string
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
