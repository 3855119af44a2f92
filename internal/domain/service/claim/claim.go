// Package claim manages the reservation lifecycle of wishlist items.
// Quantity bookkeeping is delegated to the repository so that a claim and
// its reservation always move together.
package claim

import (
	"context"
	"fmt"
	"time"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/pkg/contextx"
	"heyspender/pkg/errcodes"
)

//nolint:gochecknoglobals
var logger = contextx.LoggerFromContextOrDefault

type ClaimRepository interface {
	CreateWithReservation(ctx context.Context, claim entity.Claim) error
	DeleteWithRelease(ctx context.Context, id value.ClaimID) error
	GetByID(ctx context.Context, id value.ClaimID) (entity.Claim, error)
	ListByItem(ctx context.Context, itemID value.ItemID) ([]entity.Claim, error)
	ListBySpender(ctx context.Context, spenderID value.UserID) ([]entity.Claim, error)
	UpdateStatus(ctx context.Context, id value.ClaimID, from, to value.ClaimStatus) error
	ExpireDue(ctx context.Context, now time.Time) ([]entity.Claim, error)
}

type ItemRepository interface {
	GetByID(ctx context.Context, id value.ItemID) (entity.Item, error)
}

type WishlistRepository interface {
	GetByID(ctx context.Context, id value.WishlistID) (entity.Wishlist, error)
}

type Service struct {
	claims    ClaimRepository
	items     ItemRepository
	wishlists WishlistRepository
	claimTTL  time.Duration
}

func NewService(
	claims ClaimRepository,
	items ItemRepository,
	wishlists WishlistRepository,
	claimTTL time.Duration,
) *Service {
	return &Service{
		claims:    claims,
		items:     items,
		wishlists: wishlists,
		claimTTL:  claimTTL,
	}
}

type CreateParams struct {
	ItemID       value.ItemID
	SpenderID    value.UserID
	SpenderName  string
	SpenderEmail string
}

// Create reserves one unit of the item for the spender. The claim starts
// pending with an expiry deadline; an unpaid, unconfirmed claim is released
// by the expirer once the deadline passes.
func (s *Service) Create(ctx context.Context, params CreateParams) (entity.Claim, error) {
	if params.SpenderID == "" && params.SpenderEmail == "" {
		return entity.Claim{}, domain.NewError(errcodes.ValidationError, "spender email is required for guest claims")
	}

	now := time.Now()
	expireAt := now.Add(s.claimTTL)

	claim := entity.Claim{
		ID:           value.NewClaimID(),
		ItemID:       params.ItemID,
		SpenderID:    params.SpenderID,
		SpenderName:  params.SpenderName,
		SpenderEmail: params.SpenderEmail,
		Status:       value.ClaimPending,
		ExpireAt:     &expireAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.claims.CreateWithReservation(ctx, claim); err != nil {
		return entity.Claim{}, fmt.Errorf("create claim: %w", err)
	}

	logger(ctx).Info("claim created",
		"claim_id", claim.ID.String(),
		"item_id", claim.ItemID.String(),
		"expire_at", expireAt,
	)

	return claim, nil
}

// Confirm moves the spender's claim from pending to confirmed.
func (s *Service) Confirm(ctx context.Context, spenderID value.UserID, id value.ClaimID) (entity.Claim, error) {
	return s.transition(ctx, spenderID, id, value.ClaimConfirmed)
}

// Cancel drops the spender's own claim and returns the reserved unit to the
// item. Fulfilled claims are history and cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, spenderID value.UserID, id value.ClaimID) error {
	claim, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get claim: %w", err)
	}

	if claim.SpenderID != spenderID {
		return domain.NewError(errcodes.Forbidden, "claim belongs to another spender")
	}

	if !claim.Status.CanTransitionTo(value.ClaimCancelled) {
		return domain.NewError(
			errcodes.ClaimTransitionInvalid,
			fmt.Sprintf("cannot cancel a %s claim", claim.Status),
		)
	}

	if err := s.claims.DeleteWithRelease(ctx, id); err != nil {
		return fmt.Errorf("delete claim: %w", err)
	}

	return nil
}

func (s *Service) transition(
	ctx context.Context,
	spenderID value.UserID,
	id value.ClaimID,
	to value.ClaimStatus,
) (entity.Claim, error) {
	claim, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return entity.Claim{}, fmt.Errorf("get claim: %w", err)
	}

	if claim.SpenderID != spenderID {
		return entity.Claim{}, domain.NewError(errcodes.Forbidden, "claim belongs to another spender")
	}

	if claim.ExpiredBy(time.Now()) {
		return entity.Claim{}, domain.NewError(errcodes.ClaimExpired, "claim has expired")
	}

	if !claim.Status.CanTransitionTo(to) {
		return entity.Claim{}, domain.NewError(
			errcodes.ClaimTransitionInvalid,
			fmt.Sprintf("cannot move claim from %s to %s", claim.Status, to),
		)
	}

	if err := s.claims.UpdateStatus(ctx, id, claim.Status, to); err != nil {
		return entity.Claim{}, fmt.Errorf("update claim status: %w", err)
	}

	claim.Status = to

	return claim, nil
}

// Remove deletes a claim on behalf of the wishlist owner and returns the
// reserved unit to the item. Only the owner of the wishlist the item belongs
// to may do this.
func (s *Service) Remove(ctx context.Context, ownerID value.UserID, id value.ClaimID) error {
	claim, err := s.claims.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get claim: %w", err)
	}

	item, err := s.items.GetByID(ctx, claim.ItemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	wishlist, err := s.wishlists.GetByID(ctx, item.WishlistID)
	if err != nil {
		return fmt.Errorf("get wishlist: %w", err)
	}

	if wishlist.OwnerID != ownerID {
		return domain.NewError(errcodes.Forbidden, "claim is not on your wishlist")
	}

	if err := s.claims.DeleteWithRelease(ctx, id); err != nil {
		return fmt.Errorf("delete claim: %w", err)
	}

	logger(ctx).Info("claim removed by owner", "claim_id", id.String(), "item_id", item.ID.String())

	return nil
}

func (s *Service) ListBySpender(ctx context.Context, spenderID value.UserID) ([]entity.Claim, error) {
	claims, err := s.claims.ListBySpender(ctx, spenderID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	return claims, nil
}

func (s *Service) ListByItem(ctx context.Context, ownerID value.UserID, itemID value.ItemID) ([]entity.Claim, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	wishlist, err := s.wishlists.GetByID(ctx, item.WishlistID)
	if err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	if wishlist.OwnerID != ownerID {
		return nil, domain.NewError(errcodes.Forbidden, "item is not on your wishlist")
	}

	claims, err := s.claims.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	return claims, nil
}

// ExpireDue sweeps overdue claims; the expirer worker calls this on a timer.
func (s *Service) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.claims.ExpireDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("expire due claims: %w", err)
	}

	for _, c := range expired {
		logger(ctx).Info("claim expired", "claim_id", c.ID.String(), "item_id", c.ItemID.String())
	}

	return len(expired), nil
}
