package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/ledger"
)

func TestCategorize(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		source      string
		description string
		kind        entity.EntryKind
		category    ledger.Category
	}{
		{
			name:     "Contribution sent wins over bare contribution",
			source:   "contribution_sent",
			kind:     entity.EntryDebit,
			category: ledger.CategorySent,
		},
		{
			name:        "Contribution sent marker in description",
			source:      "wallet",
			description: "Contribution_Sent to Ada's goal",
			kind:        entity.EntryDebit,
			category:    ledger.CategorySent,
		},
		{
			name:     "Cash sent",
			source:   "cash_sent",
			kind:     entity.EntryDebit,
			category: ledger.CategorySent,
		},
		{
			name:     "Sent item",
			source:   "sent_item",
			kind:     entity.EntryDebit,
			category: ledger.CategorySent,
		},
		{
			name:        "Bare contribution",
			source:      "goal",
			description: "Contribution to wedding fund",
			kind:        entity.EntryCredit,
			category:    ledger.CategoryContribution,
		},
		{
			name:     "Payout",
			source:   "payout_request",
			kind:     entity.EntryDebit,
			category: ledger.CategoryPayout,
		},
		{
			name:        "Withdraw",
			source:      "bank",
			description: "Withdrawal to GTBank",
			kind:        entity.EntryDebit,
			category:    ledger.CategoryPayout,
		},
		{
			name:        "Refund",
			source:      "gateway",
			description: "Refund for failed transfer",
			kind:        entity.EntryCredit,
			category:    ledger.CategoryRefund,
		},
		{
			name:     "Wishlist payment",
			source:   "wishlist_payment",
			kind:     entity.EntryCredit,
			category: ledger.CategoryWishlistPurchase,
		},
		{
			name:        "Cash payment",
			source:      "spender",
			description: "Cash payment for sneakers",
			kind:        entity.EntryCredit,
			category:    ledger.CategoryWishlistPurchase,
		},
		{
			name:        "First match wins when both contribution and payout appear",
			source:      "ledger",
			description: "contribution reversed by payout",
			kind:        entity.EntryDebit,
			category:    ledger.CategoryContribution,
		},
		{
			name:     "Unmatched credit falls back to wishlist purchase",
			source:   "mystery",
			kind:     entity.EntryCredit,
			category: ledger.CategoryWishlistPurchase,
		},
		{
			name:     "Unmatched debit falls back to other",
			source:   "mystery",
			kind:     entity.EntryDebit,
			category: ledger.CategoryOther,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.category, ledger.Categorize(tc.source, tc.description, tc.kind))
		})
	}
}

func TestCategoryOfPrefersStoredColumn(t *testing.T) {
	rq := require.New(t)

	tx := entity.WalletTransaction{
		Kind:     entity.EntryDebit,
		Source:   "contribution",
		Category: string(ledger.CategoryPayout),
	}

	rq.Equal(ledger.CategoryPayout, ledger.CategoryOf(tx))

	tx.Category = ""
	rq.Equal(ledger.CategoryContribution, ledger.CategoryOf(tx))
}

func TestSummarize(t *testing.T) {
	rq := require.New(t)

	txs := []entity.WalletTransaction{
		{Kind: entity.EntryCredit, Amount: 500000, Source: "wishlist_payment"},
		{Kind: entity.EntryCredit, Amount: 250000, Source: "contribution"},
		{Kind: entity.EntryDebit, Amount: 100000, Source: "payout_request"},
		// Sent-cash debit is funded externally and must not reduce balance.
		{Kind: entity.EntryDebit, Amount: 999999, Source: "cash_sent"},
		// Unknown debit falls into "other" and is excluded too.
		{Kind: entity.EntryDebit, Amount: 123, Source: "mystery"},
	}

	s := ledger.Summarize(txs)

	rq.EqualValues(750000, s.Received)
	rq.EqualValues(100000, s.Withdrawn)
	rq.EqualValues(650000, s.Balance)
}

func TestSummarizeEmpty(t *testing.T) {
	rq := require.New(t)

	s := ledger.Summarize(nil)

	rq.EqualValues(0, s.Received)
	rq.EqualValues(0, s.Withdrawn)
	rq.EqualValues(0, s.Balance)
}
