package value

import (
	"git.appkode.ru/pub/go/failure"

	"heyspender/pkg/errcodes"
)

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityUnlisted:
		return Visibility(s), nil
	default:
		return "", failure.NewInvalidArgumentError(
			"unknown visibility: "+s,
			failure.WithCode(errcodes.InvalidVisibility),
		)
	}
}

// ClaimStatus is the claim lifecycle state. Transitions go through
// CanTransitionTo; call sites never flip the status field directly.
type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimConfirmed ClaimStatus = "confirmed"
	ClaimFulfilled ClaimStatus = "fulfilled"
	ClaimCancelled ClaimStatus = "cancelled"
	ClaimExpired   ClaimStatus = "expired"
)

//nolint:gochecknoglobals
var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimPending:   {ClaimConfirmed, ClaimCancelled, ClaimExpired},
	ClaimConfirmed: {ClaimFulfilled, ClaimCancelled, ClaimExpired},
}

func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	for _, allowed := range claimTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Terminal reports whether no further transitions are possible.
func (s ClaimStatus) Terminal() bool {
	return len(claimTransitions[s]) == 0
}

func (s ClaimStatus) String() string { return string(s) }

type PayoutStatus string

const (
	PayoutRequested  PayoutStatus = "requested"
	PayoutProcessing PayoutStatus = "processing"
	PayoutPaid       PayoutStatus = "paid"
	PayoutFailed     PayoutStatus = "failed"
)

//nolint:gochecknoglobals
var payoutTransitions = map[PayoutStatus][]PayoutStatus{
	PayoutRequested:  {PayoutProcessing, PayoutFailed},
	PayoutProcessing: {PayoutPaid, PayoutFailed},
}

func (s PayoutStatus) CanTransitionTo(next PayoutStatus) bool {
	for _, allowed := range payoutTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

func (s PayoutStatus) String() string { return string(s) }

func ParsePayoutStatus(s string) (PayoutStatus, error) {
	switch PayoutStatus(s) {
	case PayoutRequested, PayoutProcessing, PayoutPaid, PayoutFailed:
		return PayoutStatus(s), nil
	default:
		return "", failure.NewInvalidArgumentError(
			"unknown payout status: "+s,
			failure.WithCode(errcodes.ValidationError),
		)
	}
}

type ContributionStatus string

const (
	ContributionPending ContributionStatus = "pending"
	ContributionSettled ContributionStatus = "settled"
)

type Recurrence string

const (
	RecurrenceNone   Recurrence = "none"
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)
