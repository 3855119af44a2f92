// Package ledger is the single source of truth for wallet transaction
// categorization and balance math. Every view (user wallet, dashboard
// summary, admin dashboard) goes through Categorize and Summarize; nothing
// else in the repository computes a balance.
package ledger

import (
	"strings"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
)

type Category string

const (
	CategorySent             Category = "sent"
	CategoryContribution     Category = "contribution"
	CategoryPayout           Category = "payout"
	CategoryRefund           Category = "refund"
	CategoryWishlistPurchase Category = "wishlist_purchase"
	CategoryOther            Category = "other"
)

func (c Category) String() string { return string(c) }

// marker pairs a substring with the category it resolves to. Order matters:
// "contribution_sent" must win over the bare "contribution" substring, so
// the sent markers are listed first and matching stops at the first hit.
type marker struct {
	substr   string
	category Category
}

//nolint:gochecknoglobals
var markers = []marker{
	{"contribution_sent", CategorySent},
	{"cash_sent", CategorySent},
	{"sent_item", CategorySent},
	{"contribution", CategoryContribution},
	{"payout", CategoryPayout},
	{"withdraw", CategoryPayout},
	{"refund", CategoryRefund},
	{"wishlist", CategoryWishlistPurchase},
	{"cash payment", CategoryWishlistPurchase},
}

// Categorize buckets a transaction by sniffing its free-text source and
// description. It is a best-effort heuristic over legacy text: no
// normalization beyond case folding, first match wins. Unmatched credits
// default to wishlist_purchase, unmatched debits to other.
func Categorize(source, description string, kind entity.EntryKind) Category {
	text := strings.ToLower(source + " " + description)

	for _, m := range markers {
		if strings.Contains(text, m.substr) {
			return m.category
		}
	}

	if kind == entity.EntryCredit {
		return CategoryWishlistPurchase
	}

	return CategoryOther
}

// CategoryOf returns the transaction's stored category, falling back to
// Categorize for rows written before the category column existed.
func CategoryOf(tx entity.WalletTransaction) Category {
	if tx.Category != "" {
		return Category(tx.Category)
	}

	return Categorize(tx.Source, tx.Description, tx.Kind)
}

type Summary struct {
	Received  value.Money
	Withdrawn value.Money
	Balance   value.Money
}

// Summarize reduces a transaction list to received/withdrawn/balance.
// Every credit adds to Received and Balance. Only payout-categorized debits
// add to Withdrawn and subtract from Balance: other debits (cash sent to
// another user, purchased items) are funded outside the wallet and must not
// reduce it.
func Summarize(txs []entity.WalletTransaction) Summary {
	var s Summary

	for _, tx := range txs {
		switch {
		case tx.Kind == entity.EntryCredit:
			s.Received += tx.Amount
			s.Balance += tx.Amount
		case CategoryOf(tx) == CategoryPayout:
			s.Withdrawn += tx.Amount
			s.Balance -= tx.Amount
		}
	}

	return s
}
