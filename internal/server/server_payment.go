package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/payment"
	"heyspender/internal/domain/value"
	"heyspender/pkg/contextx"
	"heyspender/pkg/errcodes"
	"heyspender/pkg/httpx/reply"
	"heyspender/pkg/httpx/req"
	"heyspender/pkg/rest"
)

//nolint:gochecknoglobals
var logger = contextx.LoggerFromContextOrDefault

const signatureHeader = "X-Paystack-Signature"

// webhookBodyLimit caps what we are willing to buffer from the gateway.
const webhookBodyLimit = 1 << 20

type paymentService interface {
	Checkout(ctx context.Context, params payment.CheckoutParams) (payment.CheckoutResult, error)
	Settle(ctx context.Context, reference string) error
}

type transferSettler interface {
	SettleTransfer(ctx context.Context, reference string, success bool, reason string) error
}

type PaymentServer struct {
	paymentService paymentService
	transfers      transferSettler
	webhookSecret  string
}

func NewPaymentServer(paymentService paymentService, transfers transferSettler, webhookSecret string) PaymentServer {
	return PaymentServer{
		paymentService: paymentService,
		transfers:      transfers,
		webhookSecret:  webhookSecret,
	}
}

func (s PaymentServer) postV1Checkout(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CheckoutRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	params := payment.CheckoutParams{
		Purpose:     entity.PaymentPurpose(request.Purpose),
		Email:       request.Email,
		Amount:      value.Money(request.Amount),
		DisplayName: request.DisplayName,
		Anonymous:   request.Anonymous,
	}

	if request.ClaimID != "" {
		claimID, err := value.ParseClaimID(request.ClaimID)
		if err != nil {
			return fmt.Errorf("value.ParseClaimID: %w", err)
		}

		params.ClaimID = claimID
	}

	if request.GoalID != "" {
		goalID, err := value.ParseGoalID(request.GoalID)
		if err != nil {
			return fmt.Errorf("value.ParseGoalID: %w", err)
		}

		params.GoalID = goalID
	}

	// A top-up always lands in the authenticated caller's own wallet; a
	// user id supplied in the body is never trusted.
	if userID, err := contextx.UserIDFromContext(ctx); err == nil {
		params.UserID = value.UserID(userID.String())
	}

	if params.Purpose == entity.PurposeWalletTopup && params.UserID == "" {
		return failure.NewUnauthorizedError(
			"top-up requires an authenticated user",
			failure.WithCode(errcodes.AccessTokenInvalid),
		)
	}

	result, err := s.paymentService.Checkout(ctx, params)
	if err != nil {
		return fmt.Errorf("paymentService.Checkout: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.Checkout{
		Reference:        result.Reference,
		AuthorizationURL: result.AuthorizationURL,
	})

	return nil
}

// postV1Webhook takes gateway event deliveries. The signature is checked
// against the raw body before anything is parsed; unhandled event types are
// acknowledged so the gateway stops retrying them.
func (s PaymentServer) postV1Webhook(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		return fmt.Errorf("read webhook body: %w", err)
	}

	if !payment.VerifySignature(s.webhookSecret, body, r.Header.Get(signatureHeader)) {
		return failure.NewUnauthorizedError(
			"webhook signature mismatch",
			failure.WithCode(errcodes.WebhookSignatureInvalid),
		)
	}

	event, err := payment.ParseEvent(body)
	if err != nil {
		return fmt.Errorf("payment.ParseEvent: %w", err)
	}

	switch event.Type {
	case payment.EventChargeSuccess:
		if err := s.paymentService.Settle(ctx, event.Reference); err != nil {
			return fmt.Errorf("paymentService.Settle: %w", err)
		}
	case payment.EventTransferSuccess:
		if err := s.transfers.SettleTransfer(ctx, event.Reference, true, ""); err != nil {
			return fmt.Errorf("transfers.SettleTransfer: %w", err)
		}
	case payment.EventTransferFailed, payment.EventTransferReversed:
		if err := s.transfers.SettleTransfer(ctx, event.Reference, false, event.Reason); err != nil {
			return fmt.Errorf("transfers.SettleTransfer: %w", err)
		}
	default:
		logger(ctx).Info("unhandled webhook event", "event", event.Type)
	}

	reply.OK(w)

	return nil
}
