package server

import (
	"context"
	"fmt"
	"net/http"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/wishlist"
	"heyspender/internal/domain/value"
	"heyspender/pkg/httpx/reply"
	"heyspender/pkg/httpx/req"
	"heyspender/pkg/lox"
	"heyspender/pkg/rest"
)

type wishlistService interface {
	Create(ctx context.Context, ownerID value.UserID, params wishlist.CreateParams) (entity.Wishlist, error)
	GetBySlug(ctx context.Context, slug string) (wishlist.PublicView, error)
	ListByOwner(ctx context.Context, ownerID value.UserID) ([]entity.Wishlist, error)
	Update(ctx context.Context, ownerID value.UserID, id value.WishlistID, params wishlist.UpdateParams) (entity.Wishlist, error)
	Delete(ctx context.Context, ownerID value.UserID, id value.WishlistID) error
	AddItem(ctx context.Context, ownerID value.UserID, wishlistID value.WishlistID, params wishlist.ItemParams) (entity.Item, error)
	UpdateItem(ctx context.Context, ownerID value.UserID, itemID value.ItemID, params wishlist.ItemParams) (entity.Item, error)
	DeleteItem(ctx context.Context, ownerID value.UserID, itemID value.ItemID) error
	AddGoal(ctx context.Context, ownerID value.UserID, wishlistID value.WishlistID, params wishlist.GoalParams) (entity.Goal, error)
	UpdateGoal(ctx context.Context, ownerID value.UserID, goalID value.GoalID, params wishlist.GoalParams) (entity.Goal, error)
	DeleteGoal(ctx context.Context, ownerID value.UserID, goalID value.GoalID) error
	ListContributions(ctx context.Context, ownerID value.UserID, goalID value.GoalID) ([]entity.Contribution, error)
}

type WishlistServer struct {
	wishlistService wishlistService
}

func NewWishlistServer(wishlistService wishlistService) WishlistServer {
	return WishlistServer{
		wishlistService: wishlistService,
	}
}

func (s WishlistServer) getV1WishlistBySlug(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	view, err := s.wishlistService.GetBySlug(ctx, r.PathValue("slug"))
	if err != nil {
		return fmt.Errorf("wishlistService.GetBySlug: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWishlistView(view))

	return nil
}

func (s WishlistServer) getV1MyWishlists(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	wishlists, err := s.wishlistService.ListByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("wishlistService.ListByOwner: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(wishlists, newRESTWishlist))

	return nil
}

func (s WishlistServer) postV1Wishlist(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	var request rest.CreateWishlistRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	visibility, err := value.ParseVisibility(request.Visibility)
	if err != nil {
		return fmt.Errorf("value.ParseVisibility: %w", err)
	}

	created, err := s.wishlistService.Create(ctx, userID, wishlist.CreateParams{
		Title:         request.Title,
		Slug:          request.Slug,
		Occasion:      request.Occasion,
		Visibility:    visibility,
		CoverImageURL: request.CoverImageURL,
	})
	if err != nil {
		return fmt.Errorf("wishlistService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTWishlist(created))

	return nil
}

func (s WishlistServer) patchV1Wishlist(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	id, err := value.ParseWishlistID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseWishlistID: %w", err)
	}

	var request rest.UpdateWishlistRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	params := wishlist.UpdateParams{}
	if request.Title != nil {
		params.Title = *request.Title
	}
	if request.Occasion != nil {
		params.Occasion = *request.Occasion
	}
	if request.Visibility != nil {
		visibility, err := value.ParseVisibility(*request.Visibility)
		if err != nil {
			return fmt.Errorf("value.ParseVisibility: %w", err)
		}
		params.Visibility = visibility
	}
	if request.CoverImageURL != nil {
		params.CoverImageURL = *request.CoverImageURL
	}

	updated, err := s.wishlistService.Update(ctx, userID, id, params)
	if err != nil {
		return fmt.Errorf("wishlistService.Update: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWishlist(updated))

	return nil
}

func (s WishlistServer) deleteV1Wishlist(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	id, err := value.ParseWishlistID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseWishlistID: %w", err)
	}

	if err := s.wishlistService.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("wishlistService.Delete: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s WishlistServer) postV1Item(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	wishlistID, err := value.ParseWishlistID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseWishlistID: %w", err)
	}

	var request rest.CreateItemRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	item, err := s.wishlistService.AddItem(ctx, userID, wishlistID, wishlist.ItemParams{
		Name:          request.Name,
		PriceEstimate: value.Money(request.PriceEstimate),
		QtyTotal:      request.QtyTotal,
		ProductURL:    request.ProductURL,
		ImageURL:      request.ImageURL,
	})
	if err != nil {
		return fmt.Errorf("wishlistService.AddItem: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTItem(item))

	return nil
}

func (s WishlistServer) patchV1Item(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	itemID, err := value.ParseItemID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseItemID: %w", err)
	}

	var request rest.UpdateItemRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	params := wishlist.ItemParams{}
	if request.Name != nil {
		params.Name = *request.Name
	}
	if request.PriceEstimate != nil {
		params.PriceEstimate = value.Money(*request.PriceEstimate)
	}
	if request.QtyTotal != nil {
		params.QtyTotal = *request.QtyTotal
	}
	if request.ProductURL != nil {
		params.ProductURL = *request.ProductURL
	}
	if request.ImageURL != nil {
		params.ImageURL = *request.ImageURL
	}

	item, err := s.wishlistService.UpdateItem(ctx, userID, itemID, params)
	if err != nil {
		return fmt.Errorf("wishlistService.UpdateItem: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTItem(item))

	return nil
}

func (s WishlistServer) deleteV1Item(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	itemID, err := value.ParseItemID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseItemID: %w", err)
	}

	if err := s.wishlistService.DeleteItem(ctx, userID, itemID); err != nil {
		return fmt.Errorf("wishlistService.DeleteItem: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s WishlistServer) postV1Goal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	wishlistID, err := value.ParseWishlistID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseWishlistID: %w", err)
	}

	var request rest.CreateGoalRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	goal, err := s.wishlistService.AddGoal(ctx, userID, wishlistID, wishlist.GoalParams{
		Title:        request.Title,
		TargetAmount: value.Money(request.TargetAmount),
	})
	if err != nil {
		return fmt.Errorf("wishlistService.AddGoal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTGoal(goal))

	return nil
}

func (s WishlistServer) patchV1Goal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	goalID, err := value.ParseGoalID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseGoalID: %w", err)
	}

	var request rest.CreateGoalRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	goal, err := s.wishlistService.UpdateGoal(ctx, userID, goalID, wishlist.GoalParams{
		Title:        request.Title,
		TargetAmount: value.Money(request.TargetAmount),
	})
	if err != nil {
		return fmt.Errorf("wishlistService.UpdateGoal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTGoal(goal))

	return nil
}

func (s WishlistServer) deleteV1Goal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	goalID, err := value.ParseGoalID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseGoalID: %w", err)
	}

	if err := s.wishlistService.DeleteGoal(ctx, userID, goalID); err != nil {
		return fmt.Errorf("wishlistService.DeleteGoal: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s WishlistServer) getV1GoalContributions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userFromContext(ctx)
	if err != nil {
		return err
	}

	goalID, err := value.ParseGoalID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseGoalID: %w", err)
	}

	contributions, err := s.wishlistService.ListContributions(ctx, userID, goalID)
	if err != nil {
		return fmt.Errorf("wishlistService.ListContributions: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(contributions, newRESTContribution))

	return nil
}
