package paystack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"

	"heyspender/internal/config"
	"heyspender/internal/domain"
	"heyspender/pkg/errcodes"
	"heyspender/pkg/httpx"
	"heyspender/pkg/logx"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	banksCacheKey   = "banks"
	banksCacheTTL   = time.Hour
	resolveCacheTTL = 10 * time.Minute
)

// Client talks to the Paystack REST API. Bank lists and account resolutions
// are cached because they are effectively static within a session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
}

// secretKeyAuthenticator satisfies the bearer round tripper with a static
// API key; Paystack keys do not expire mid-process.
type secretKeyAuthenticator struct {
	key string
}

func (a secretKeyAuthenticator) Authenticate(context.Context) error { return nil }
func (a secretKeyAuthenticator) BearerToken() string                { return a.key }

func NewClient(cfg config.Paystack, masker logx.SensitiveDataMasker, logFieldMaxLen int) *Client {
	transport := httpx.NewAuthBearerRoundTripper(
		httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(masker),
			httpx.WithLogFieldMaxLen(logFieldMaxLen),
		),
		secretKeyAuthenticator{key: cfg.SecretKey},
	)

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		cache: cache.New(banksCacheTTL, 2*banksCacheTTL),
	}
}

func (c *Client) InitializeTransaction(
	ctx context.Context,
	req InitializeTransactionRequest,
) (InitializeTransactionResponse, error) {
	var data InitializeTransactionResponse
	if err := c.post(ctx, "/transaction/initialize", req, &data); err != nil {
		return InitializeTransactionResponse{}, err
	}

	return data, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (TransactionStatus, error) {
	var data TransactionStatus
	if err := c.get(ctx, "/transaction/verify/"+url.PathEscape(reference), &data); err != nil {
		return TransactionStatus{}, err
	}

	return data, nil
}

func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	if cached, ok := c.cache.Get(banksCacheKey); ok {
		return cached.([]Bank), nil
	}

	var data []Bank
	if err := c.get(ctx, "/bank?country=nigeria", &data); err != nil {
		return nil, err
	}

	c.cache.Set(banksCacheKey, data, banksCacheTTL)

	return data, nil
}

func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (ResolvedAccount, error) {
	cacheKey := "resolve:" + bankCode + ":" + accountNumber
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(ResolvedAccount), nil
	}

	path := fmt.Sprintf(
		"/bank/resolve?account_number=%s&bank_code=%s",
		url.QueryEscape(accountNumber), url.QueryEscape(bankCode),
	)

	var data ResolvedAccount
	if err := c.get(ctx, path, &data); err != nil {
		return ResolvedAccount{}, failure.NewInvalidArgumentError(
			"account could not be resolved",
			failure.WithCode(errcodes.BankAccountUnresolved),
		)
	}

	c.cache.Set(cacheKey, data, resolveCacheTTL)

	return data, nil
}

func (c *Client) CreateTransferRecipient(
	ctx context.Context,
	name, accountNumber, bankCode string,
) (TransferRecipient, error) {
	req := map[string]string{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       "NGN",
	}

	var data TransferRecipient
	if err := c.post(ctx, "/transferrecipient", req, &data); err != nil {
		return TransferRecipient{}, err
	}

	return data, nil
}

func (c *Client) InitiateTransfer(ctx context.Context, req InitiateTransferRequest) (Transfer, error) {
	if req.Source == "" {
		req.Source = "balance"
	}

	var data Transfer
	if err := c.post(ctx, "/transfer", req, &data); err != nil {
		return Transfer{}, err
	}

	return data, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(err, errcodes.PaymentGatewayError, "gateway request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("io.ReadAll: %w", err)
	}

	var env struct {
		envelope
		Data jsoniter.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.WrapError(err, errcodes.PaymentGatewayError, "gateway returned malformed response")
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Status {
		return domain.NewError(errcodes.PaymentGatewayError, "gateway rejected request: "+env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return domain.WrapError(err, errcodes.PaymentGatewayError, "gateway returned malformed payload")
		}
	}

	return nil
}
