package server

import (
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/ledger"
	"heyspender/internal/domain/service/wishlist"
	"heyspender/pkg/lox"
	"heyspender/pkg/rest"
)

func newRESTWishlist(w entity.Wishlist) rest.Wishlist {
	return rest.Wishlist{
		ID:            w.ID.String(),
		OwnerID:       w.OwnerID.String(),
		Title:         w.Title,
		Slug:          w.Slug,
		Occasion:      w.Occasion,
		Visibility:    string(w.Visibility),
		CoverImageURL: w.CoverImageURL,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func newRESTWishlistView(view wishlist.PublicView) rest.Wishlist {
	out := newRESTWishlist(view.Wishlist)

	out.Items = lox.Map(view.Items, newRESTItem)
	out.Goals = lox.Map(view.Goals, newRESTGoal)

	return out
}

func newRESTItem(i entity.Item) rest.Item {
	return rest.Item{
		ID:            i.ID.String(),
		WishlistID:    i.WishlistID.String(),
		Name:          i.Name,
		PriceEstimate: i.PriceEstimate.Kobo(),
		QtyTotal:      i.QtyTotal,
		QtyClaimed:    i.QtyClaimed,
		ProductURL:    i.ProductURL,
		ImageURL:      i.ImageURL,
		CreatedAt:     i.CreatedAt,
	}
}

func newRESTGoal(g entity.Goal) rest.Goal {
	return rest.Goal{
		ID:           g.ID.String(),
		WishlistID:   g.WishlistID.String(),
		Title:        g.Title,
		TargetAmount: g.TargetAmount.Kobo(),
		AmountRaised: g.AmountRaised.Kobo(),
		Progress:     g.Progress(),
	}
}

func newRESTClaim(c entity.Claim) rest.Claim {
	return rest.Claim{
		ID:           c.ID.String(),
		ItemID:       c.ItemID.String(),
		SpenderID:    c.SpenderID.String(),
		SpenderName:  c.SpenderName,
		SpenderEmail: c.SpenderEmail,
		Status:       c.Status.String(),
		AmountPaid:   c.AmountPaid.Kobo(),
		ExpireAt:     c.ExpireAt,
		CreatedAt:    c.CreatedAt,
	}
}

func newRESTClaims(claims []entity.Claim) []rest.Claim {
	return lox.Map(claims, newRESTClaim)
}

func newRESTWalletSummary(s ledger.Summary) rest.WalletSummary {
	return rest.WalletSummary{
		Currency:       "NGN",
		TotalReceived:  s.Received.Kobo(),
		TotalWithdrawn: s.Withdrawn.Kobo(),
		Balance:        s.Balance.Kobo(),
	}
}

func newRESTWalletTransaction(tx entity.WalletTransaction) rest.WalletTransaction {
	return rest.WalletTransaction{
		ID:          tx.ID,
		Kind:        string(tx.Kind),
		Category:    ledger.CategoryOf(tx).String(),
		Amount:      tx.Amount.Kobo(),
		Source:      tx.Source,
		Description: tx.Description,
		Reference:   tx.Reference,
		CreatedAt:   tx.CreatedAt,
	}
}

func newRESTWalletTransactions(txs []entity.WalletTransaction) []rest.WalletTransaction {
	return lox.Map(txs, newRESTWalletTransaction)
}

func newRESTPayout(p entity.Payout) rest.Payout {
	return rest.Payout{
		ID:            p.ID.String(),
		Amount:        p.Amount.Kobo(),
		Status:        p.Status.String(),
		BankCode:      p.BankCode,
		AccountNumber: p.AccountNumber,
		AccountName:   p.AccountName,
		Reference:     p.Reference,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func newRESTPayouts(payouts []entity.Payout) []rest.Payout {
	return lox.Map(payouts, newRESTPayout)
}

func newRESTContribution(c entity.Contribution) rest.Contribution {
	out := rest.Contribution{
		ID:        c.ID,
		GoalID:    c.GoalID.String(),
		Amount:    c.Amount.Kobo(),
		Anonymous: c.Anonymous,
		Reference: c.Reference,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}

	if !c.Anonymous {
		out.DisplayName = c.DisplayName
	}

	return out
}

func newRESTReminder(r entity.Reminder) rest.Reminder {
	return rest.Reminder{
		ID:         r.ID.String(),
		WishlistID: r.WishlistID.String(),
		Message:    r.Message,
		RemindAt:   r.RemindAt,
		Recurrence: string(r.Recurrence),
		Active:     r.Active,
		LastSentAt: r.LastSentAt,
	}
}

func newRESTUser(u entity.User) rest.User {
	return rest.User{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
