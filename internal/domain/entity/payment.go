package entity

import (
	"time"

	"heyspender/internal/domain/value"
)

type PaymentPurpose string

const (
	PurposeClaimPayment     PaymentPurpose = "claim_payment"
	PurposeGoalContribution PaymentPurpose = "goal_contribution"
	PurposeWalletTopup      PaymentPurpose = "wallet_topup"
)

type PaymentIntentStatus string

const (
	IntentPending PaymentIntentStatus = "pending"
	IntentSettled PaymentIntentStatus = "settled"
)

// PaymentIntent is the server-side record of a checkout handed off to the
// gateway. The webhook resolves settlement against this row, never against
// caller-supplied metadata alone.
type PaymentIntent struct {
	Reference   string
	Purpose     PaymentPurpose
	ClaimID     value.ClaimID
	GoalID      value.GoalID
	UserID      value.UserID
	Amount      value.Money
	Email       string
	DisplayName string
	Anonymous   bool
	Status      PaymentIntentStatus
	CreatedAt   time.Time
	SettledAt   *time.Time
}
