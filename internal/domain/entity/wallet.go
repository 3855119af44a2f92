package entity

import (
	"time"

	"heyspender/internal/domain/value"
)

type Wallet struct {
	ID        string
	UserID    value.UserID
	Currency  string
	CreatedAt time.Time
}

type EntryKind string

const (
	EntryCredit EntryKind = "credit"
	EntryDebit  EntryKind = "debit"
)

// WalletTransaction is one ledger entry. Category is computed from
// Source/Description at insert time; legacy rows with an empty category are
// re-categorized on read by the ledger service.
type WalletTransaction struct {
	ID          string
	WalletID    string
	Kind        EntryKind
	Amount      value.Money
	Source      string
	Description string
	Category    string
	Reference   string
	CreatedAt   time.Time
}
