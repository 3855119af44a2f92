package server

import (
	"context"
	"fmt"
	"net/http"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/claim"
	"heyspender/internal/domain/value"
	"heyspender/pkg/contextx"
	"heyspender/pkg/httpx/reply"
	"heyspender/pkg/httpx/req"
	"heyspender/pkg/rest"
)

type claimService interface {
	Create(ctx context.Context, params claim.CreateParams) (entity.Claim, error)
	Confirm(ctx context.Context, spenderID value.UserID, id value.ClaimID) (entity.Claim, error)
	Cancel(ctx context.Context, spenderID value.UserID, id value.ClaimID) error
	Remove(ctx context.Context, ownerID value.UserID, id value.ClaimID) error
	ListBySpender(ctx context.Context, spenderID value.UserID) ([]entity.Claim, error)
	ListByItem(ctx context.Context, ownerID value.UserID, itemID value.ItemID) ([]entity.Claim, error)
}

type ClaimServer struct {
	claimService claimService
}

func NewClaimServer(claimService claimService) ClaimServer {
	return ClaimServer{
		claimService: claimService,
	}
}

// postV1Claim serves both guests and signed-in spenders: when a bearer token
// is present the claim is attached to the user, otherwise the email from the
// body identifies the spender.
func (s ClaimServer) postV1Claim(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateClaimRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	itemID, err := value.ParseItemID(request.ItemID)
	if err != nil {
		return fmt.Errorf("value.ParseItemID: %w", err)
	}

	params := claim.CreateParams{
		ItemID:       itemID,
		SpenderName:  request.SpenderName,
		SpenderEmail: request.SpenderEmail,
	}

	if userID, err := contextx.UserIDFromContext(ctx); err == nil {
		params.SpenderID = value.UserID(userID.String())
	}

	created, err := s.claimService.Create(ctx, params)
	if err != nil {
		return fmt.Errorf("claimService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTClaim(created))

	return nil
}

func (s ClaimServer) getV1MyClaims(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	claims, err := s.claimService.ListBySpender(ctx, userID)
	if err != nil {
		return fmt.Errorf("claimService.ListBySpender: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTClaims(claims))

	return nil
}

func (s ClaimServer) postV1ClaimConfirm(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	claimID, err := value.ParseClaimID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseClaimID: %w", err)
	}

	confirmed, err := s.claimService.Confirm(ctx, userID, claimID)
	if err != nil {
		return fmt.Errorf("claimService.Confirm: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTClaim(confirmed))

	return nil
}

// deleteV1MyClaim cancels the spender's own claim.
func (s ClaimServer) deleteV1MyClaim(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	claimID, err := value.ParseClaimID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseClaimID: %w", err)
	}

	if err := s.claimService.Cancel(ctx, userID, claimID); err != nil {
		return fmt.Errorf("claimService.Cancel: %w", err)
	}

	reply.OK(w)

	return nil
}

// deleteV1Claim removes someone else's claim from the caller's own wishlist.
func (s ClaimServer) deleteV1Claim(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	claimID, err := value.ParseClaimID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseClaimID: %w", err)
	}

	if err := s.claimService.Remove(ctx, userID, claimID); err != nil {
		return fmt.Errorf("claimService.Remove: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s ClaimServer) getV1ItemClaims(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	itemID, err := value.ParseItemID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseItemID: %w", err)
	}

	claims, err := s.claimService.ListByItem(ctx, userID, itemID)
	if err != nil {
		return fmt.Errorf("claimService.ListByItem: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTClaims(claims))

	return nil
}
