package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"heyspender/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/v1", func(r chi.Router) {
		// unauthorized zone
		r.Get("/wishlists/{slug}", handler(s.getV1WishlistBySlug))
		r.Get("/banks", handler(s.getV1Banks))
		r.Post("/payments/webhook", handler(s.postV1Webhook))

		// guest-or-user zone: a bearer token is honored when present
		r.Group(func(r chi.Router) {
			r.Use(s.auth.OptionalUser)

			r.Post("/claims", handler(s.postV1Claim))
			r.Post("/payments/checkout", handler(s.postV1Checkout))
		})

		// authorized zone
		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireUser)

			r.Route("/my/wishlists", func(r chi.Router) {
				r.Get("/", handler(s.getV1MyWishlists))
				r.Post("/", handler(s.postV1Wishlist))
				r.Patch("/{id}", handler(s.patchV1Wishlist))
				r.Delete("/{id}", handler(s.deleteV1Wishlist))
				r.Post("/{id}/items", handler(s.postV1Item))
				r.Post("/{id}/goals", handler(s.postV1Goal))
				r.Post("/{id}/reminders", handler(s.postV1Reminder))
			})

			r.Route("/my/items", func(r chi.Router) {
				r.Patch("/{id}", handler(s.patchV1Item))
				r.Delete("/{id}", handler(s.deleteV1Item))
				r.Get("/{id}/claims", handler(s.getV1ItemClaims))
			})

			r.Route("/my/goals", func(r chi.Router) {
				r.Patch("/{id}", handler(s.patchV1Goal))
				r.Delete("/{id}", handler(s.deleteV1Goal))
				r.Get("/{id}/contributions", handler(s.getV1GoalContributions))
			})

			r.Route("/my/claims", func(r chi.Router) {
				r.Get("/", handler(s.getV1MyClaims))
				r.Post("/{id}/confirm", handler(s.postV1ClaimConfirm))
				r.Delete("/{id}", handler(s.deleteV1MyClaim))
			})
			r.Delete("/claims/{id}", handler(s.deleteV1Claim))

			r.Route("/my/wallet", func(r chi.Router) {
				r.Get("/", handler(s.getV1WalletSummary))
				r.Get("/transactions", handler(s.getV1WalletTransactions))
			})

			r.Route("/my/payouts", func(r chi.Router) {
				r.Get("/", handler(s.getV1MyPayouts))
				r.Post("/", handler(s.postV1Payout))
			})

			r.Route("/my/reminders", func(r chi.Router) {
				r.Get("/", handler(s.getV1MyReminders))
				r.Patch("/{id}", handler(s.patchV1Reminder))
				r.Delete("/{id}", handler(s.deleteV1Reminder))
			})
		})

		// admin zone
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.auth.RequireAdmin)

			r.Get("/users", handler(s.getV1AdminUsers))
			r.Get("/transactions", handler(s.getV1AdminTransactions))

			r.Route("/payouts", func(r chi.Router) {
				r.Get("/", handler(s.getV1AdminPayouts))
				r.Post("/{id}/approve", handler(s.postV1AdminPayoutApprove))
				r.Post("/{id}/reject", handler(s.postV1AdminPayoutReject))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
