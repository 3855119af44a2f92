package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/ledger"
	"heyspender/internal/domain/value"
	"heyspender/pkg/errcodes"
)

type stubWalletRepo struct {
	wallets map[value.UserID]entity.Wallet
	txs     []entity.WalletTransaction
}

func newStubWalletRepo() *stubWalletRepo {
	return &stubWalletRepo{wallets: map[value.UserID]entity.Wallet{}}
}

func (r *stubWalletRepo) Ensure(_ context.Context, userID value.UserID) (entity.Wallet, error) {
	if w, ok := r.wallets[userID]; ok {
		return w, nil
	}

	w := entity.Wallet{ID: "w_" + userID.String(), UserID: userID, Currency: value.Currency}
	r.wallets[userID] = w

	return w, nil
}

func (r *stubWalletRepo) GetByUserID(_ context.Context, userID value.UserID) (entity.Wallet, error) {
	w, ok := r.wallets[userID]
	if !ok {
		return entity.Wallet{}, domain.NewError(errcodes.WalletNotFound, "wallet not found")
	}

	return w, nil
}

func (r *stubWalletRepo) InsertTransaction(_ context.Context, tx entity.WalletTransaction) error {
	r.txs = append(r.txs, tx)
	return nil
}

func (r *stubWalletRepo) ListTransactions(_ context.Context, walletID string, _, _ int) ([]entity.WalletTransaction, error) {
	return r.byWallet(walletID), nil
}

func (r *stubWalletRepo) ListAllTransactionsByWallet(_ context.Context, walletID string) ([]entity.WalletTransaction, error) {
	return r.byWallet(walletID), nil
}

func (r *stubWalletRepo) byWallet(walletID string) []entity.WalletTransaction {
	var out []entity.WalletTransaction
	for _, tx := range r.txs {
		if tx.WalletID == walletID {
			out = append(out, tx)
		}
	}

	return out
}

type stubPayoutRepo struct {
	payouts map[value.PayoutID]entity.Payout
	wallets *stubWalletRepo
}

func (r *stubPayoutRepo) Create(_ context.Context, payout entity.Payout) error {
	r.payouts[payout.ID] = payout
	return nil
}

func (r *stubPayoutRepo) CreateWithDebit(_ context.Context, payout entity.Payout, debit entity.WalletTransaction) error {
	r.payouts[payout.ID] = payout
	r.wallets.txs = append(r.wallets.txs, debit)

	return nil
}

func (r *stubPayoutRepo) ApproveWithDebit(_ context.Context, id value.PayoutID, recipientCode string, debit entity.WalletTransaction) error {
	payout, ok := r.payouts[id]
	if !ok {
		return domain.NewError(errcodes.PayoutNotFound, "payout not found")
	}

	payout.Status = value.PayoutProcessing
	payout.RecipientCode = recipientCode
	r.payouts[id] = payout
	r.wallets.txs = append(r.wallets.txs, debit)

	return nil
}

func (r *stubPayoutRepo) UpdateStatus(_ context.Context, id value.PayoutID, from, to value.PayoutStatus, reason string) error {
	payout, ok := r.payouts[id]
	if !ok {
		return domain.NewError(errcodes.PayoutNotFound, "payout not found")
	}

	if payout.Status != from {
		return domain.NewError(errcodes.PayoutTransitionInvalid, "unexpected status")
	}

	payout.Status = to
	payout.FailureReason = reason
	r.payouts[id] = payout

	return nil
}

func (r *stubPayoutRepo) FailWithRefund(_ context.Context, id value.PayoutID, reason string, refund entity.WalletTransaction) error {
	payout, ok := r.payouts[id]
	if !ok {
		return domain.NewError(errcodes.PayoutNotFound, "payout not found")
	}

	payout.Status = value.PayoutFailed
	payout.FailureReason = reason
	r.payouts[id] = payout
	r.wallets.txs = append(r.wallets.txs, refund)

	return nil
}

func (r *stubPayoutRepo) GetByID(_ context.Context, id value.PayoutID) (entity.Payout, error) {
	payout, ok := r.payouts[id]
	if !ok {
		return entity.Payout{}, domain.NewError(errcodes.PayoutNotFound, "payout not found")
	}

	return payout, nil
}

func (r *stubPayoutRepo) GetByReference(_ context.Context, reference string) (entity.Payout, error) {
	for _, p := range r.payouts {
		if p.Reference == reference {
			return p, nil
		}
	}

	return entity.Payout{}, domain.NewError(errcodes.PayoutNotFound, "payout not found")
}

func (r *stubPayoutRepo) ListByUser(_ context.Context, userID value.UserID) ([]entity.Payout, error) {
	var out []entity.Payout
	for _, p := range r.payouts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *stubPayoutRepo) List(_ context.Context, status value.PayoutStatus, _, _ int) ([]entity.Payout, error) {
	var out []entity.Payout
	for _, p := range r.payouts {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}

	return out, nil
}

type stubUserRepo struct {
	users map[value.UserID]entity.User
}

func (r *stubUserRepo) GetByID(_ context.Context, id value.UserID) (entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return entity.User{}, domain.NewError(errcodes.UserNotFound, "user not found")
	}

	return user, nil
}

type stubGateway struct {
	transferErr  error
	transfersOut int
}

func (g *stubGateway) ResolveAccount(_ context.Context, _, _ string) (string, error) {
	return "ADA OBI", nil
}

func (g *stubGateway) CreateTransferRecipient(_ context.Context, _, _, _ string) (string, error) {
	return "RCP_1", nil
}

func (g *stubGateway) InitiateTransfer(_ context.Context, _, _ string, _ value.Money, _ string) error {
	if g.transferErr != nil {
		return g.transferErr
	}

	g.transfersOut++

	return nil
}

type fixture struct {
	svc     *Service
	wallets *stubWalletRepo
	payouts *stubPayoutRepo
	users   *stubUserRepo
	gateway *stubGateway
}

func newFixture(autoApproveLimit value.Money) fixture {
	wallets := newStubWalletRepo()
	payouts := &stubPayoutRepo{payouts: map[value.PayoutID]entity.Payout{}, wallets: wallets}
	users := &stubUserRepo{users: map[value.UserID]entity.User{}}
	gateway := &stubGateway{}

	return fixture{
		svc:     NewService(wallets, payouts, users, gateway, autoApproveLimit),
		wallets: wallets,
		payouts: payouts,
		users:   users,
		gateway: gateway,
	}
}

func (f fixture) seedUser(verified bool, balance value.Money) value.UserID {
	userID := value.NewUserID()
	f.users.users[userID] = entity.User{ID: userID, Verified: verified}

	if balance > 0 {
		_ = f.svc.Credit(context.Background(), userID, balance, "wishlist", "cash payment", "ref_"+userID.String())
	}

	return userID
}

func TestService_Summary(t *testing.T) {
	rq := require.New(t)

	f := newFixture(500000)
	userID := f.seedUser(true, 100000)

	summary, err := f.svc.Summary(context.Background(), userID)
	rq.NoError(err)
	rq.Equal(value.Money(100000), summary.Received)
	rq.Equal(value.Money(100000), summary.Balance)
	rq.Equal(value.Money(0), summary.Withdrawn)
}

func TestService_RequestPayout_AutoApproved(t *testing.T) {
	rq := require.New(t)

	f := newFixture(500000)
	userID := f.seedUser(true, 600000)

	payout, err := f.svc.RequestPayout(context.Background(), userID, PayoutParams{
		Amount:        400000,
		BankCode:      "057",
		AccountNumber: "0123456789",
	})
	rq.NoError(err)
	rq.Equal(value.PayoutProcessing, payout.Status)
	rq.Equal("RCP_1", payout.RecipientCode)
	rq.Equal(1, f.gateway.transfersOut)

	// The debit landed with the payout, so the balance already reflects it.
	summary, err := f.svc.Summary(context.Background(), userID)
	rq.NoError(err)
	rq.Equal(value.Money(200000), summary.Balance)
	rq.Equal(value.Money(400000), summary.Withdrawn)
}

func TestService_RequestPayout_ManualPaths(t *testing.T) {
	testCases := []struct {
		name     string
		verified bool
		amount   value.Money
	}{
		{
			name:     "above limit stays requested even for verified user",
			verified: true,
			amount:   500001,
		},
		{
			name:     "unverified user stays requested even below limit",
			verified: false,
			amount:   100000,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			f := newFixture(500000)
			userID := f.seedUser(tc.verified, 1000000)

			payout, err := f.svc.RequestPayout(context.Background(), userID, PayoutParams{
				Amount:        tc.amount,
				BankCode:      "057",
				AccountNumber: "0123456789",
			})
			rq.NoError(err)
			rq.Equal(value.PayoutRequested, payout.Status)
			rq.Equal(0, f.gateway.transfersOut)

			// No debit until approval.
			summary, err := f.svc.Summary(context.Background(), userID)
			rq.NoError(err)
			rq.Equal(value.Money(1000000), summary.Balance)
		})
	}
}

func TestService_RequestPayout_InsufficientBalance(t *testing.T) {
	rq := require.New(t)

	f := newFixture(500000)
	userID := f.seedUser(true, 100000)

	_, err := f.svc.RequestPayout(context.Background(), userID, PayoutParams{
		Amount:        200000,
		BankCode:      "057",
		AccountNumber: "0123456789",
	})
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InsufficientBalance, code)
}

func TestService_RequestPayout_TransferFailureRefunds(t *testing.T) {
	rq := require.New(t)

	f := newFixture(500000)
	f.gateway.transferErr = errors.New("gateway down")
	userID := f.seedUser(true, 600000)

	_, err := f.svc.RequestPayout(context.Background(), userID, PayoutParams{
		Amount:        400000,
		BankCode:      "057",
		AccountNumber: "0123456789",
	})
	rq.Error(err)

	// Debit and refund cancel out.
	summary, err := f.svc.Summary(context.Background(), userID)
	rq.NoError(err)
	rq.Equal(value.Money(600000), summary.Balance)
}

func TestService_ApproveAndSettle(t *testing.T) {
	rq := require.New(t)

	f := newFixture(500000)
	userID := f.seedUser(false, 1000000)

	payout, err := f.svc.RequestPayout(context.Background(), userID, PayoutParams{
		Amount:        700000,
		BankCode:      "057",
		AccountNumber: "0123456789",
	})
	rq.NoError(err)
	rq.Equal(value.PayoutRequested, payout.Status)

	approved, err := f.svc.Approve(context.Background(), payout.ID)
	rq.NoError(err)
	rq.Equal(value.PayoutProcessing, approved.Status)
	rq.Equal(1, f.gateway.transfersOut)

	// Approval wrote the debit.
	summary, err := f.svc.Summary(context.Background(), userID)
	rq.NoError(err)
	rq.Equal(value.Money(300000), summary.Balance)

	rq.NoError(f.svc.SettleTransfer(context.Background(), payout.Reference, true, ""))

	settled, err := f.payouts.GetByID(context.Background(), payout.ID)
	rq.NoError(err)
	rq.Equal(value.PayoutPaid, settled.Status)
}

func TestService_SettleTransfer_FailureRefunds(t *testing.T) {
	rq := require.New(t)

	f := newFixture(500000)
	userID := f.seedUser(true, 600000)

	payout, err := f.svc.RequestPayout(context.Background(), userID, PayoutParams{
		Amount:        400000,
		BankCode:      "057",
		AccountNumber: "0123456789",
	})
	rq.NoError(err)
	rq.Equal(value.PayoutProcessing, payout.Status)

	rq.NoError(f.svc.SettleTransfer(context.Background(), payout.Reference, false, "account blocked"))

	failed, err := f.payouts.GetByID(context.Background(), payout.ID)
	rq.NoError(err)
	rq.Equal(value.PayoutFailed, failed.Status)
	rq.Equal("account blocked", failed.FailureReason)

	summary, err := f.svc.Summary(context.Background(), userID)
	rq.NoError(err)
	rq.Equal(value.Money(600000), summary.Balance)
}

func TestService_Reject(t *testing.T) {
	rq := require.New(t)

	f := newFixture(500000)
	userID := f.seedUser(false, 500000)

	payout, err := f.svc.RequestPayout(context.Background(), userID, PayoutParams{
		Amount:        300000,
		BankCode:      "057",
		AccountNumber: "0123456789",
	})
	rq.NoError(err)

	rq.NoError(f.svc.Reject(context.Background(), payout.ID, "suspicious activity"))

	rejected, err := f.payouts.GetByID(context.Background(), payout.ID)
	rq.NoError(err)
	rq.Equal(value.PayoutFailed, rejected.Status)

	// No debit was ever written, so the balance is untouched.
	summary, err := f.svc.Summary(context.Background(), userID)
	rq.NoError(err)
	rq.Equal(value.Money(500000), summary.Balance)

	// Rejecting twice is an invalid transition.
	rq.Error(f.svc.Reject(context.Background(), payout.ID, "again"))
}

func TestService_Credit_Categorizes(t *testing.T) {
	rq := require.New(t)

	f := newFixture(500000)
	userID := f.seedUser(true, 0)

	rq.NoError(f.svc.Credit(context.Background(), userID, 50000, "contribution", "contribution to Honeymoon", "ref_1"))

	txs, err := f.svc.ListTransactions(context.Background(), userID, 10, 0)
	rq.NoError(err)
	rq.Len(txs, 1)
	rq.Equal(ledger.CategoryContribution.String(), txs[0].Category)
}
