package paystack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"heyspender/internal/config"
	"heyspender/internal/domain"
	"heyspender/pkg/errcodes"
	"heyspender/pkg/logx"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.Paystack{
		BaseURL:   srv.URL,
		SecretKey: "sk_test_secret",
		Timeout:   5 * time.Second,
	}, logx.NewSensitiveDataMasker(), 2048)
}

func TestClient_InitializeTransaction(t *testing.T) {
	rq := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rq.Equal(http.MethodPost, r.Method)
		rq.Equal("/transaction/initialize", r.URL.Path)
		rq.Equal("Bearer sk_test_secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code": "abc123",
				"reference": "hs_ref_1"
			}
		}`))
	})

	resp, err := client.InitializeTransaction(context.Background(), InitializeTransactionRequest{
		Email:      "spender@example.com",
		AmountKobo: 500000,
		Reference:  "hs_ref_1",
	})
	rq.NoError(err)
	rq.Equal("https://checkout.paystack.com/abc123", resp.AuthorizationURL)
	rq.Equal("hs_ref_1", resp.Reference)
}

func TestClient_VerifyTransaction(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		statusCode  int
		wantErr     bool
		wantSuccess bool
	}{
		{
			name: "successful charge",
			body: `{"status": true, "message": "Verification successful",
				"data": {"reference": "hs_ref_1", "status": "success", "amount": 500000, "currency": "NGN"}}`,
			statusCode:  http.StatusOK,
			wantSuccess: true,
		},
		{
			name: "failed charge",
			body: `{"status": true, "message": "Verification successful",
				"data": {"reference": "hs_ref_1", "status": "failed", "amount": 500000, "currency": "NGN"}}`,
			statusCode:  http.StatusOK,
			wantSuccess: false,
		},
		{
			name:       "unknown reference",
			body:       `{"status": false, "message": "Transaction reference not found"}`,
			statusCode: http.StatusNotFound,
			wantErr:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				rq.Equal("/transaction/verify/hs_ref_1", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte(tc.body))
			})

			status, err := client.VerifyTransaction(context.Background(), "hs_ref_1")
			if tc.wantErr {
				rq.Error(err)
				code, ok := domain.GetCode(err)
				rq.True(ok)
				rq.Equal(errcodes.PaymentGatewayError, code)

				return
			}

			rq.NoError(err)
			rq.Equal(tc.wantSuccess, status.Success())
		})
	}
}

func TestClient_ListBanks_Cached(t *testing.T) {
	rq := require.New(t)

	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": true, "message": "Banks retrieved",
			"data": [{"name": "Test Bank", "code": "057"}]}`))
	})

	for range 3 {
		banks, err := client.ListBanks(context.Background())
		rq.NoError(err)
		rq.Len(banks, 1)
		rq.Equal("057", banks[0].Code)
	}

	rq.Equal(1, calls)
}

func TestClient_ResolveAccount(t *testing.T) {
	rq := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("0123456789", r.URL.Query().Get("account_number"))
		rq.Equal("057", r.URL.Query().Get("bank_code"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": true, "message": "Account number resolved",
			"data": {"account_number": "0123456789", "account_name": "ADA OBI"}}`))
	})

	resolved, err := client.ResolveAccount(context.Background(), "0123456789", "057")
	rq.NoError(err)
	rq.Equal("ADA OBI", resolved.AccountName)
}

func TestClient_ResolveAccount_Unresolved(t *testing.T) {
	rq := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"status": false, "message": "Could not resolve account name"}`))
	})

	_, err := client.ResolveAccount(context.Background(), "0000000000", "057")
	rq.Error(err)
}

func TestClient_InitiateTransfer_DefaultsSource(t *testing.T) {
	rq := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		rq.NoError(json.NewDecoder(r.Body).Decode(&body))
		rq.Equal("balance", body["source"])
		rq.Equal("RCP_123", body["recipient"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": true, "message": "Transfer has been queued",
			"data": {"transfer_code": "TRF_1", "status": "pending", "reference": "po_ref_1"}}`))
	})

	transfer, err := client.InitiateTransfer(context.Background(), InitiateTransferRequest{
		AmountKobo:    250000,
		RecipientCode: "RCP_123",
		Reference:     "po_ref_1",
	})
	rq.NoError(err)
	rq.Equal("TRF_1", transfer.TransferCode)
}
