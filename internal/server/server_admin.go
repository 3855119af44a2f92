package server

import (
	"context"
	"fmt"
	"net/http"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/ledger"
	"heyspender/internal/domain/value"
	"heyspender/pkg/httpx/reply"
	"heyspender/pkg/httpx/req"
	"heyspender/pkg/lox"
	"heyspender/pkg/rest"
)

type payoutAdminService interface {
	Approve(ctx context.Context, id value.PayoutID) (entity.Payout, error)
	Reject(ctx context.Context, id value.PayoutID, reason string) error
	ListAllPayouts(ctx context.Context, status value.PayoutStatus, limit, offset int) ([]entity.Payout, error)
}

type userDirectory interface {
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}

type ledgerBrowser interface {
	ListAllTransactions(ctx context.Context, limit, offset int) ([]entity.WalletTransaction, error)
}

type AdminServer struct {
	payouts payoutAdminService
	users   userDirectory
	ledger  ledgerBrowser
}

func NewAdminServer(payouts payoutAdminService, users userDirectory, ledger ledgerBrowser) AdminServer {
	return AdminServer{
		payouts: payouts,
		users:   users,
		ledger:  ledger,
	}
}

func (s AdminServer) getV1AdminUsers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, offset := pageParams(r)

	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("users.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(users, newRESTUser))

	return nil
}

// getV1AdminTransactions lists the platform ledger with a summary over the
// listed window, reduced by the same module that backs the user wallet view.
func (s AdminServer) getV1AdminTransactions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, offset := pageParams(r)

	txs, err := s.ledger.ListAllTransactions(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("ledger.ListAllTransactions: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.AdminTransactions{
		Summary:      newRESTWalletSummary(ledger.Summarize(txs)),
		Transactions: newRESTWalletTransactions(txs),
	})

	return nil
}

func (s AdminServer) getV1AdminPayouts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var status value.PayoutStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := value.ParsePayoutStatus(raw)
		if err != nil {
			return fmt.Errorf("value.ParsePayoutStatus: %w", err)
		}

		status = parsed
	}

	limit, offset := pageParams(r)

	payouts, err := s.payouts.ListAllPayouts(ctx, status, limit, offset)
	if err != nil {
		return fmt.Errorf("payouts.ListAllPayouts: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPayouts(payouts))

	return nil
}

func (s AdminServer) postV1AdminPayoutApprove(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	payoutID, err := value.ParsePayoutID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParsePayoutID: %w", err)
	}

	approved, err := s.payouts.Approve(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("payouts.Approve: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPayout(approved))

	return nil
}

func (s AdminServer) postV1AdminPayoutReject(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	payoutID, err := value.ParsePayoutID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParsePayoutID: %w", err)
	}

	var request rest.RejectPayoutRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.payouts.Reject(ctx, payoutID, request.Reason); err != nil {
		return fmt.Errorf("payouts.Reject: %w", err)
	}

	reply.OK(w)

	return nil
}
