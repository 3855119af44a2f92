package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/ledger"
	"heyspender/internal/domain/service/wallet"
	"heyspender/internal/domain/value"
	"heyspender/internal/infrastructure/paystack"
	"heyspender/pkg/httpx/reply"
	"heyspender/pkg/httpx/req"
	"heyspender/pkg/lox"
	"heyspender/pkg/rest"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type walletService interface {
	Summary(ctx context.Context, userID value.UserID) (ledger.Summary, error)
	ListTransactions(ctx context.Context, userID value.UserID, limit, offset int) ([]entity.WalletTransaction, error)
	RequestPayout(ctx context.Context, userID value.UserID, params wallet.PayoutParams) (entity.Payout, error)
	ListPayouts(ctx context.Context, userID value.UserID) ([]entity.Payout, error)
}

type bankDirectory interface {
	ListBanks(ctx context.Context) ([]paystack.Bank, error)
}

type WalletServer struct {
	walletService walletService
	banks         bankDirectory
}

func NewWalletServer(walletService walletService, banks bankDirectory) WalletServer {
	return WalletServer{
		walletService: walletService,
		banks:         banks,
	}
}

func (s WalletServer) getV1WalletSummary(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	summary, err := s.walletService.Summary(ctx, userID)
	if err != nil {
		return fmt.Errorf("walletService.Summary: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWalletSummary(summary))

	return nil
}

func (s WalletServer) getV1WalletTransactions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	limit, offset := pageParams(r)

	txs, err := s.walletService.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		return fmt.Errorf("walletService.ListTransactions: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWalletTransactions(txs))

	return nil
}

func (s WalletServer) getV1MyPayouts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	payouts, err := s.walletService.ListPayouts(ctx, userID)
	if err != nil {
		return fmt.Errorf("walletService.ListPayouts: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPayouts(payouts))

	return nil
}

func (s WalletServer) postV1Payout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	var request rest.RequestPayoutRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	payout, err := s.walletService.RequestPayout(ctx, userID, wallet.PayoutParams{
		Amount:        value.Money(request.Amount),
		BankCode:      request.BankCode,
		AccountNumber: request.AccountNumber,
	})
	if err != nil {
		return fmt.Errorf("walletService.RequestPayout: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTPayout(payout))

	return nil
}

func (s WalletServer) getV1Banks(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	banks, err := s.banks.ListBanks(ctx)
	if err != nil {
		return fmt.Errorf("banks.ListBanks: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(banks, func(b paystack.Bank) rest.Bank {
		return rest.Bank{Name: b.Name, Code: b.Code}
	}))

	return nil
}

func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = min(v, maxPageSize)
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}

	return limit, offset
}
