// Package payment drives checkouts and webhook settlement. Every checkout
// is recorded as a payment intent before the spender is handed to the
// gateway; the webhook settles strictly against that intent, never against
// caller-supplied metadata.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/pkg/contextx"
	"heyspender/pkg/errcodes"
)

//nolint:gochecknoglobals
var logger = contextx.LoggerFromContextOrDefault

// Applied webhook references are pinned in redis after settlement so a
// redelivered event is dropped before it touches the database.
const settledKeyTTL = 48 * time.Hour

type IntentRepository interface {
	Create(ctx context.Context, intent entity.PaymentIntent) error
	GetByReference(ctx context.Context, reference string) (entity.PaymentIntent, error)
	MarkSettled(ctx context.Context, reference string, settledAt time.Time) error
}

type ClaimRepository interface {
	GetByID(ctx context.Context, id value.ClaimID) (entity.Claim, error)
	ApplyPayment(ctx context.Context, id value.ClaimID, amount value.Money) (entity.Claim, error)
}

type ItemRepository interface {
	GetByID(ctx context.Context, id value.ItemID) (entity.Item, error)
}

type WishlistRepository interface {
	GetByID(ctx context.Context, id value.WishlistID) (entity.Wishlist, error)
}

type GoalRepository interface {
	GetByID(ctx context.Context, id value.GoalID) (entity.Goal, error)
	RecordContribution(ctx context.Context, contribution entity.Contribution) (entity.Goal, error)
}

// WalletCreditor credits the beneficiary once a payment settles.
type WalletCreditor interface {
	Credit(ctx context.Context, userID value.UserID, amount value.Money, source, description, reference string) error
}

// CheckoutGateway is the charge side of the payment provider.
type CheckoutGateway interface {
	InitializeTransaction(ctx context.Context, email, reference string, amount value.Money) (string, error)
	VerifyTransaction(ctx context.Context, reference string) (value.Money, bool, error)
}

type Service struct {
	intents   IntentRepository
	claims    ClaimRepository
	items     ItemRepository
	wishlists WishlistRepository
	goals     GoalRepository
	wallets   WalletCreditor
	gateway   CheckoutGateway
	redis     *redis.Client
}

func NewService(
	intents IntentRepository,
	claims ClaimRepository,
	items ItemRepository,
	wishlists WishlistRepository,
	goals GoalRepository,
	wallets WalletCreditor,
	gateway CheckoutGateway,
	redisClient *redis.Client,
) *Service {
	return &Service{
		intents:   intents,
		claims:    claims,
		items:     items,
		wishlists: wishlists,
		goals:     goals,
		wallets:   wallets,
		gateway:   gateway,
		redis:     redisClient,
	}
}

type CheckoutParams struct {
	Purpose     entity.PaymentPurpose
	ClaimID     value.ClaimID
	GoalID      value.GoalID
	UserID      value.UserID
	Amount      value.Money
	Email       string
	DisplayName string
	Anonymous   bool
}

type CheckoutResult struct {
	Reference        string
	AuthorizationURL string
}

// Checkout validates the target, records the intent and initializes the
// gateway transaction. The returned URL is where the spender completes the
// charge.
func (s *Service) Checkout(ctx context.Context, params CheckoutParams) (CheckoutResult, error) {
	if params.Amount <= 0 {
		return CheckoutResult{}, domain.NewError(errcodes.InvalidAmount, "amount must be positive")
	}

	if err := s.validateTarget(ctx, params); err != nil {
		return CheckoutResult{}, err
	}

	intent := entity.PaymentIntent{
		Reference:   "hs_" + xid.New().String(),
		Purpose:     params.Purpose,
		ClaimID:     params.ClaimID,
		GoalID:      params.GoalID,
		UserID:      params.UserID,
		Amount:      params.Amount,
		Email:       params.Email,
		DisplayName: params.DisplayName,
		Anonymous:   params.Anonymous,
		Status:      entity.IntentPending,
		CreatedAt:   time.Now(),
	}

	if err := s.intents.Create(ctx, intent); err != nil {
		return CheckoutResult{}, fmt.Errorf("create intent: %w", err)
	}

	authURL, err := s.gateway.InitializeTransaction(ctx, params.Email, intent.Reference, params.Amount)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("initialize transaction: %w", err)
	}

	logger(ctx).Info("checkout initialized",
		"reference", intent.Reference,
		"purpose", string(intent.Purpose),
		"amount", intent.Amount.String(),
	)

	return CheckoutResult{Reference: intent.Reference, AuthorizationURL: authURL}, nil
}

func (s *Service) validateTarget(ctx context.Context, params CheckoutParams) error {
	switch params.Purpose {
	case entity.PurposeClaimPayment:
		claim, err := s.claims.GetByID(ctx, params.ClaimID)
		if err != nil {
			return fmt.Errorf("get claim: %w", err)
		}

		if claim.Status.Terminal() {
			return domain.NewError(errcodes.ClaimTransitionInvalid, "claim is no longer payable")
		}

		return nil
	case entity.PurposeGoalContribution:
		if _, err := s.goals.GetByID(ctx, params.GoalID); err != nil {
			return fmt.Errorf("get goal: %w", err)
		}

		return nil
	case entity.PurposeWalletTopup:
		if params.UserID == "" {
			return domain.NewError(errcodes.ValidationError, "top-up requires an authenticated user")
		}

		return nil
	default:
		return domain.NewError(errcodes.ValidationError, "unknown payment purpose")
	}
}

// Settle processes a verified charge.success event. Correctness comes from
// the guarded intent status flip and the unique transaction reference; the
// redis pin only short-circuits redeliveries of an already-applied event.
// It is written last: a transient failure anywhere in the flow must leave
// the retry path open for the gateway's next delivery.
func (s *Service) Settle(ctx context.Context, reference string) error {
	settledKey := "settled:" + reference

	if s.redis != nil {
		seen, err := s.redis.Exists(ctx, settledKey).Result()
		if err == nil && seen > 0 {
			logger(ctx).Info("duplicate webhook delivery dropped", "reference", reference)
			return nil
		}
	}

	intent, err := s.intents.GetByReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("get intent: %w", err)
	}

	if intent.Status == entity.IntentSettled {
		return nil
	}

	// Re-verify with the gateway: the webhook body names the amount, but
	// only the verify endpoint is authoritative.
	amount, success, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return fmt.Errorf("verify transaction: %w", err)
	}

	if !success {
		return domain.NewError(errcodes.PaymentNotSuccessful, "charge did not succeed")
	}

	if amount != intent.Amount {
		return domain.NewError(errcodes.PaymentNotSuccessful, "settled amount does not match intent")
	}

	if err := s.intents.MarkSettled(ctx, reference, time.Now()); err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}

	if err := s.apply(ctx, intent); err != nil {
		return err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, settledKey, 1, settledKeyTTL).Err(); err != nil {
			logger(ctx).Warn("failed to pin settled reference", "reference", reference, "error", err)
		}
	}

	logger(ctx).Info("payment settled", "reference", reference, "purpose", string(intent.Purpose))

	return nil
}

func (s *Service) apply(ctx context.Context, intent entity.PaymentIntent) error {
	switch intent.Purpose {
	case entity.PurposeClaimPayment:
		return s.applyClaimPayment(ctx, intent)
	case entity.PurposeGoalContribution:
		return s.applyContribution(ctx, intent)
	case entity.PurposeWalletTopup:
		return s.wallets.Credit(ctx, intent.UserID, intent.Amount,
			"topup", "wallet top-up", intent.Reference)
	default:
		return domain.NewError(errcodes.ValidationError, "unknown payment purpose")
	}
}

func (s *Service) applyClaimPayment(ctx context.Context, intent entity.PaymentIntent) error {
	claim, err := s.claims.ApplyPayment(ctx, intent.ClaimID, intent.Amount)
	if err != nil {
		return fmt.Errorf("apply claim payment: %w", err)
	}

	item, err := s.items.GetByID(ctx, claim.ItemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	wishlist, err := s.wishlists.GetByID(ctx, item.WishlistID)
	if err != nil {
		return fmt.Errorf("get wishlist: %w", err)
	}

	err = s.wallets.Credit(ctx, wishlist.OwnerID, intent.Amount,
		"wishlist", "cash payment for "+item.Name, intent.Reference)
	if err != nil {
		return fmt.Errorf("credit owner: %w", err)
	}

	return nil
}

func (s *Service) applyContribution(ctx context.Context, intent entity.PaymentIntent) error {
	contribution := entity.Contribution{
		ID:          xid.New().String(),
		GoalID:      intent.GoalID,
		Amount:      intent.Amount,
		DisplayName: intent.DisplayName,
		Anonymous:   intent.Anonymous,
		Reference:   intent.Reference,
		Status:      value.ContributionSettled,
		CreatedAt:   time.Now(),
	}

	goal, err := s.goals.RecordContribution(ctx, contribution)
	if err != nil {
		return fmt.Errorf("record contribution: %w", err)
	}

	wishlist, err := s.wishlists.GetByID(ctx, goal.WishlistID)
	if err != nil {
		return fmt.Errorf("get wishlist: %w", err)
	}

	err = s.wallets.Credit(ctx, wishlist.OwnerID, intent.Amount,
		"contribution", "contribution to "+goal.Title, intent.Reference)
	if err != nil {
		return fmt.Errorf("credit owner: %w", err)
	}

	return nil
}
