package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/claim"
	"heyspender/internal/domain/service/ledger"
	"heyspender/internal/domain/service/payment"
	"heyspender/internal/domain/service/wallet"
	"heyspender/internal/domain/service/wishlist"
	"heyspender/internal/domain/value"
	"heyspender/internal/infrastructure/paystack"
	"heyspender/pkg/middlewarex"
	"heyspender/pkg/rest"
	"heyspender/pkg/tests"
)

const testJWTSecret = "test-secret"

type stubWishlistService struct {
	getBySlug func(ctx context.Context, slug string) (wishlist.PublicView, error)
}

func (s stubWishlistService) Create(context.Context, value.UserID, wishlist.CreateParams) (entity.Wishlist, error) {
	return entity.Wishlist{}, nil
}

func (s stubWishlistService) GetBySlug(ctx context.Context, slug string) (wishlist.PublicView, error) {
	return s.getBySlug(ctx, slug)
}

func (s stubWishlistService) ListByOwner(context.Context, value.UserID) ([]entity.Wishlist, error) {
	return nil, nil
}

func (s stubWishlistService) Update(context.Context, value.UserID, value.WishlistID, wishlist.UpdateParams) (entity.Wishlist, error) {
	return entity.Wishlist{}, nil
}

func (s stubWishlistService) Delete(context.Context, value.UserID, value.WishlistID) error {
	return nil
}

func (s stubWishlistService) AddItem(context.Context, value.UserID, value.WishlistID, wishlist.ItemParams) (entity.Item, error) {
	return entity.Item{}, nil
}

func (s stubWishlistService) UpdateItem(context.Context, value.UserID, value.ItemID, wishlist.ItemParams) (entity.Item, error) {
	return entity.Item{}, nil
}

func (s stubWishlistService) DeleteItem(context.Context, value.UserID, value.ItemID) error {
	return nil
}

func (s stubWishlistService) AddGoal(context.Context, value.UserID, value.WishlistID, wishlist.GoalParams) (entity.Goal, error) {
	return entity.Goal{}, nil
}

func (s stubWishlistService) UpdateGoal(context.Context, value.UserID, value.GoalID, wishlist.GoalParams) (entity.Goal, error) {
	return entity.Goal{}, nil
}

func (s stubWishlistService) DeleteGoal(context.Context, value.UserID, value.GoalID) error {
	return nil
}

func (s stubWishlistService) ListContributions(context.Context, value.UserID, value.GoalID) ([]entity.Contribution, error) {
	return nil, nil
}

type stubClaimService struct{}

func (stubClaimService) Create(context.Context, claim.CreateParams) (entity.Claim, error) {
	return entity.Claim{}, nil
}

func (stubClaimService) Confirm(context.Context, value.UserID, value.ClaimID) (entity.Claim, error) {
	return entity.Claim{}, nil
}

func (stubClaimService) Cancel(context.Context, value.UserID, value.ClaimID) error { return nil }

func (stubClaimService) Remove(context.Context, value.UserID, value.ClaimID) error { return nil }

func (stubClaimService) ListBySpender(context.Context, value.UserID) ([]entity.Claim, error) {
	return nil, nil
}

func (stubClaimService) ListByItem(context.Context, value.UserID, value.ItemID) ([]entity.Claim, error) {
	return nil, nil
}

type stubWalletService struct {
	summary func(ctx context.Context, userID value.UserID) (ledger.Summary, error)
}

func (s stubWalletService) Summary(ctx context.Context, userID value.UserID) (ledger.Summary, error) {
	return s.summary(ctx, userID)
}

func (stubWalletService) ListTransactions(context.Context, value.UserID, int, int) ([]entity.WalletTransaction, error) {
	return nil, nil
}

func (stubWalletService) RequestPayout(context.Context, value.UserID, wallet.PayoutParams) (entity.Payout, error) {
	return entity.Payout{}, nil
}

func (stubWalletService) ListPayouts(context.Context, value.UserID) ([]entity.Payout, error) {
	return nil, nil
}

type stubBankDirectory struct{}

func (stubBankDirectory) ListBanks(context.Context) ([]paystack.Bank, error) {
	return []paystack.Bank{{Name: "Test Bank", Code: "001"}}, nil
}

type stubPaymentService struct {
	checkouts []payment.CheckoutParams
	settled   []string
}

func (s *stubPaymentService) Checkout(_ context.Context, params payment.CheckoutParams) (payment.CheckoutResult, error) {
	s.checkouts = append(s.checkouts, params)
	return payment.CheckoutResult{Reference: "hs_test", AuthorizationURL: "https://pay.test/hs_test"}, nil
}

func (s *stubPaymentService) Settle(_ context.Context, reference string) error {
	s.settled = append(s.settled, reference)
	return nil
}

type stubTransferSettler struct {
	failed []string
}

func (s *stubTransferSettler) SettleTransfer(_ context.Context, reference string, success bool, _ string) error {
	if !success {
		s.failed = append(s.failed, reference)
	}

	return nil
}

type stubUserLoader struct {
	users map[value.UserID]entity.User
}

func (s stubUserLoader) GetByID(_ context.Context, id value.UserID) (entity.User, error) {
	return s.users[id], nil
}

func (s stubUserLoader) List(context.Context, int, int) ([]entity.User, error) {
	out := make([]entity.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}

	return out, nil
}

type stubPayoutAdmin struct{}

func (stubPayoutAdmin) Approve(context.Context, value.PayoutID) (entity.Payout, error) {
	return entity.Payout{}, nil
}

func (stubPayoutAdmin) Reject(context.Context, value.PayoutID, string) error { return nil }

func (stubPayoutAdmin) ListAllPayouts(context.Context, value.PayoutStatus, int, int) ([]entity.Payout, error) {
	return nil, nil
}

type stubLedgerBrowser struct {
	txs []entity.WalletTransaction
}

func (s *stubLedgerBrowser) ListAllTransactions(context.Context, int, int) ([]entity.WalletTransaction, error) {
	return s.txs, nil
}

type testEnv struct {
	client   tests.APIClient
	payments *stubPaymentService
	users    stubUserLoader
	ledger   *stubLedgerBrowser
}

func newTestEnv(t *testing.T, wishlists stubWishlistService, wallets stubWalletService) testEnv {
	t.Helper()

	payments := &stubPaymentService{}
	users := stubUserLoader{users: map[value.UserID]entity.User{}}
	ledgerBrowser := &stubLedgerBrowser{}

	srv := NewServer(
		NewWishlistServer(wishlists),
		NewClaimServer(stubClaimService{}),
		NewWalletServer(wallets, stubBankDirectory{}),
		NewPaymentServer(payments, &stubTransferSettler{}, testJWTSecret),
		NewReminderServer(nil),
		NewAdminServer(stubPayoutAdmin{}, users, ledgerBrowser),
		NewAuthMiddleware(testJWTSecret, users),
	)

	router := chi.NewRouter()
	router.Use(middlewarex.TraceID, middlewarex.Recovery)
	srv.RegisterRoutes(router)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return testEnv{
		client:   tests.NewAPIClient(ts.URL, ts.Client()),
		payments: payments,
		users:    users,
		ledger:   ledgerBrowser,
	}
}

func signedToken(t *testing.T, userID value.UserID) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	return token
}

func authHeader(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestRoutes_PublicWishlist(t *testing.T) {
	rq := require.New(t)

	owner := value.NewUserID()
	view := wishlist.PublicView{
		Wishlist: entity.Wishlist{
			ID:         value.NewWishlistID(),
			OwnerID:    owner,
			Title:      "Birthday",
			Slug:       "birthday-x1",
			Visibility: value.VisibilityPublic,
		},
		Items: []entity.Item{{
			ID:            value.NewItemID(),
			Name:          "Headphones",
			PriceEstimate: 250000,
			QtyTotal:      1,
		}},
	}

	env := newTestEnv(t, stubWishlistService{
		getBySlug: func(_ context.Context, slug string) (wishlist.PublicView, error) {
			rq.Equal("birthday-x1", slug)
			return view, nil
		},
	}, stubWalletService{})

	var got rest.Wishlist
	resp, err := env.client.Get(context.Background(), "/v1/wishlists/birthday-x1", nil, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("Birthday", got.Title)
	rq.Len(got.Items, 1)
	rq.Equal(int64(250000), got.Items[0].PriceEstimate)
}

func TestRoutes_AuthRequired(t *testing.T) {
	rq := require.New(t)

	env := newTestEnv(t, stubWishlistService{}, stubWalletService{})

	var restErr rest.Error
	resp, err := env.client.Get(context.Background(), "/v1/my/wallet", nil, nil, &restErr)
	rq.NoError(err)
	rq.Equal(http.StatusUnauthorized, resp.StatusCode)
	rq.Equal(rest.ErrorCode("AccessTokenInvalid"), restErr.Code)
}

func TestRoutes_WalletSummary(t *testing.T) {
	rq := require.New(t)

	userID := value.NewUserID()

	env := newTestEnv(t, stubWishlistService{}, stubWalletService{
		summary: func(_ context.Context, id value.UserID) (ledger.Summary, error) {
			rq.Equal(userID, id)
			return ledger.Summary{Received: 500000, Withdrawn: 200000, Balance: 300000}, nil
		},
	})

	var got rest.WalletSummary
	resp, err := env.client.Get(
		context.Background(), "/v1/my/wallet",
		authHeader(signedToken(t, userID)), &got, nil,
	)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("NGN", got.Currency)
	rq.Equal(int64(300000), got.Balance)
}

func TestRoutes_AdminRoleEnforced(t *testing.T) {
	rq := require.New(t)

	env := newTestEnv(t, stubWishlistService{}, stubWalletService{})

	member := value.NewUserID()
	admin := value.NewUserID()
	env.users.users[member] = entity.User{ID: member, Role: value.RoleUser}
	env.users.users[admin] = entity.User{ID: admin, Role: value.RoleAdmin}

	var restErr rest.Error
	resp, err := env.client.Get(
		context.Background(), "/v1/admin/payouts/",
		authHeader(signedToken(t, member)), nil, &restErr,
	)
	rq.NoError(err)
	rq.Equal(http.StatusForbidden, resp.StatusCode)

	resp, err = env.client.Get(
		context.Background(), "/v1/admin/payouts/",
		authHeader(signedToken(t, admin)), &[]rest.Payout{}, nil,
	)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
}

func TestRoutes_TopupBoundToCaller(t *testing.T) {
	rq := require.New(t)

	env := newTestEnv(t, stubWishlistService{}, stubWalletService{})

	body := rest.CheckoutRequest{
		Purpose: "wallet_topup",
		Email:   "me@example.com",
		Amount:  100000,
	}

	// Anonymous top-up attempts never reach the payment service.
	var restErr rest.Error
	resp, err := env.client.Post(context.Background(), "/v1/payments/checkout", nil, body, nil, &restErr)
	rq.NoError(err)
	rq.Equal(http.StatusUnauthorized, resp.StatusCode)
	rq.Empty(env.payments.checkouts)

	// Signed in, the top-up targets the token's user.
	userID := value.NewUserID()

	var got rest.Checkout
	resp, err = env.client.Post(
		context.Background(), "/v1/payments/checkout",
		authHeader(signedToken(t, userID)), body, &got, nil,
	)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(env.payments.checkouts, 1)
	rq.Equal(userID, env.payments.checkouts[0].UserID)
}

func TestRoutes_AdminTransactionsSummary(t *testing.T) {
	rq := require.New(t)

	env := newTestEnv(t, stubWishlistService{}, stubWalletService{})

	admin := value.NewUserID()
	env.users.users[admin] = entity.User{ID: admin, Role: value.RoleAdmin}

	env.ledger.txs = []entity.WalletTransaction{
		{ID: "t1", Kind: entity.EntryCredit, Amount: 500000, Source: "wishlist"},
		{ID: "t2", Kind: entity.EntryDebit, Amount: 200000, Source: "payout", Category: "payout"},
	}

	var got rest.AdminTransactions
	resp, err := env.client.Get(
		context.Background(), "/v1/admin/transactions",
		authHeader(signedToken(t, admin)), &got, nil,
	)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(got.Transactions, 2)
	rq.Equal(int64(500000), got.Summary.TotalReceived)
	rq.Equal(int64(200000), got.Summary.TotalWithdrawn)
	rq.Equal(int64(300000), got.Summary.Balance)
}

func TestRoutes_WebhookSignature(t *testing.T) {
	rq := require.New(t)

	env := newTestEnv(t, stubWishlistService{}, stubWalletService{})

	body := `{"event":"charge.success","data":{"reference":"hs_42"}}`

	// Unsigned delivery is rejected before parsing.
	var restErr rest.Error
	resp, err := env.client.PostJSON(context.Background(), "/v1/payments/webhook", nil, body, nil, &restErr)
	rq.NoError(err)
	rq.Equal(http.StatusUnauthorized, resp.StatusCode)
	rq.Equal(rest.ErrorCode("WebhookSignatureInvalid"), restErr.Code)
	rq.Empty(env.payments.settled)

	mac := hmac.New(sha512.New, []byte(testJWTSecret))
	mac.Write([]byte(body))

	headers := http.Header{"X-Paystack-Signature": []string{hex.EncodeToString(mac.Sum(nil))}}

	resp, err = env.client.PostJSON(context.Background(), "/v1/payments/webhook", headers, body, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal([]string{"hs_42"}, env.payments.settled)
}
