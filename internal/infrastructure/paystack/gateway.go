package paystack

import (
	"context"
	"fmt"

	"heyspender/internal/domain/value"
)

// Gateway adapts the raw API client to the shapes the domain services
// consume: amounts as value.Money, charge outcome as a bool.
type Gateway struct {
	client      *Client
	callbackURL string
}

func NewGateway(client *Client, callbackURL string) Gateway {
	return Gateway{
		client:      client,
		callbackURL: callbackURL,
	}
}

func (g Gateway) InitializeTransaction(
	ctx context.Context,
	email, reference string,
	amount value.Money,
) (string, error) {
	resp, err := g.client.InitializeTransaction(ctx, InitializeTransactionRequest{
		Email:       email,
		AmountKobo:  amount.Kobo(),
		Reference:   reference,
		CallbackURL: g.callbackURL,
		Currency:    "NGN",
	})
	if err != nil {
		return "", fmt.Errorf("client.InitializeTransaction: %w", err)
	}

	return resp.AuthorizationURL, nil
}

func (g Gateway) VerifyTransaction(ctx context.Context, reference string) (value.Money, bool, error) {
	status, err := g.client.VerifyTransaction(ctx, reference)
	if err != nil {
		return 0, false, fmt.Errorf("client.VerifyTransaction: %w", err)
	}

	return value.Money(status.AmountKobo), status.Success(), nil
}

func (g Gateway) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (string, error) {
	resolved, err := g.client.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		return "", err
	}

	return resolved.AccountName, nil
}

func (g Gateway) CreateTransferRecipient(ctx context.Context, name, accountNumber, bankCode string) (string, error) {
	recipient, err := g.client.CreateTransferRecipient(ctx, name, accountNumber, bankCode)
	if err != nil {
		return "", fmt.Errorf("client.CreateTransferRecipient: %w", err)
	}

	return recipient.RecipientCode, nil
}

func (g Gateway) InitiateTransfer(
	ctx context.Context,
	recipientCode, reference string,
	amount value.Money,
	reason string,
) error {
	_, err := g.client.InitiateTransfer(ctx, InitiateTransferRequest{
		AmountKobo:    amount.Kobo(),
		RecipientCode: recipientCode,
		Reference:     reference,
		Reason:        reason,
	})
	if err != nil {
		return fmt.Errorf("client.InitiateTransfer: %w", err)
	}

	return nil
}
