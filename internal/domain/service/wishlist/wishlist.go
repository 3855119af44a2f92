package wishlist

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

type WishlistRepository interface {
	Create(ctx context.Context, wishlist entity.Wishlist) error
	GetByID(ctx context.Context, id value.WishlistID) (entity.Wishlist, error)
	GetBySlug(ctx context.Context, slug string) (entity.Wishlist, error)
	ListByOwner(ctx context.Context, ownerID value.UserID) ([]entity.Wishlist, error)
	Update(ctx context.Context, wishlist entity.Wishlist) error
	Delete(ctx context.Context, id value.WishlistID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type ItemRepository interface {
	Create(ctx context.Context, item entity.Item) error
	GetByID(ctx context.Context, id value.ItemID) (entity.Item, error)
	ListByWishlist(ctx context.Context, wishlistID value.WishlistID) ([]entity.Item, error)
	Update(ctx context.Context, item entity.Item) error
	Delete(ctx context.Context, id value.ItemID) error
}

type GoalRepository interface {
	Create(ctx context.Context, goal entity.Goal) error
	GetByID(ctx context.Context, id value.GoalID) (entity.Goal, error)
	ListByWishlist(ctx context.Context, wishlistID value.WishlistID) ([]entity.Goal, error)
	Update(ctx context.Context, goal entity.Goal) error
	Delete(ctx context.Context, id value.GoalID) error
	ListContributions(ctx context.Context, goalID value.GoalID) ([]entity.Contribution, error)
}

type Service struct {
	wishlists WishlistRepository
	items     ItemRepository
	goals     GoalRepository
}

func NewService(wishlists WishlistRepository, items ItemRepository, goals GoalRepository) *Service {
	return &Service{
		wishlists: wishlists,
		items:     items,
		goals:     goals,
	}
}

type CreateParams struct {
	Title         string
	Slug          string
	Occasion      string
	Visibility    value.Visibility
	CoverImageURL string
}

// Create stores a new wishlist for the owner. An explicit slug is taken
// verbatim and fails on collision; a generated one gets a unique suffix
// instead.
func (s *Service) Create(ctx context.Context, ownerID value.UserID, params CreateParams) (entity.Wishlist, error) {
	slug := params.Slug
	explicit := slug != ""

	if !explicit {
		slug = Slugify(params.Title)

		taken, err := s.wishlists.SlugExists(ctx, slug)
		if err != nil {
			return entity.Wishlist{}, fmt.Errorf("check slug: %w", err)
		}

		if taken {
			slug = uniqueSuffix(slug)
		}
	}

	now := time.Now()
	wishlist := entity.Wishlist{
		ID:            value.NewWishlistID(),
		OwnerID:       ownerID,
		Title:         params.Title,
		Slug:          slug,
		Occasion:      params.Occasion,
		Visibility:    params.Visibility,
		CoverImageURL: params.CoverImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if wishlist.Visibility == "" {
		wishlist.Visibility = value.VisibilityPublic
	}

	if err := s.wishlists.Create(ctx, wishlist); err != nil {
		return entity.Wishlist{}, fmt.Errorf("create wishlist: %w", err)
	}

	logger(ctx).Info("wishlist created", "wishlist_id", wishlist.ID.String(), "slug", wishlist.Slug)

	return wishlist, nil
}

// PublicView is the aggregate behind the shared link: the wishlist with its
// items and goals. Both public and unlisted wishlists resolve; unlisted just
// never appears in any listing.
type PublicView struct {
	Wishlist entity.Wishlist
	Items    []entity.Item
	Goals    []entity.Goal
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (PublicView, error) {
	wishlist, err := s.wishlists.GetBySlug(ctx, slug)
	if err != nil {
		return PublicView{}, fmt.Errorf("get wishlist: %w", err)
	}

	items, err := s.items.ListByWishlist(ctx, wishlist.ID)
	if err != nil {
		return PublicView{}, fmt.Errorf("list items: %w", err)
	}

	goals, err := s.goals.ListByWishlist(ctx, wishlist.ID)
	if err != nil {
		return PublicView{}, fmt.Errorf("list goals: %w", err)
	}

	return PublicView{Wishlist: wishlist, Items: items, Goals: goals}, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID value.UserID) ([]entity.Wishlist, error) {
	wishlists, err := s.wishlists.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wishlists: %w", err)
	}

	return wishlists, nil
}

type UpdateParams struct {
	Title         string
	Occasion      string
	Visibility    value.Visibility
	CoverImageURL string
}

func (s *Service) Update(
	ctx context.Context,
	ownerID value.UserID,
	id value.WishlistID,
	params UpdateParams,
) (entity.Wishlist, error) {
	wishlist, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return entity.Wishlist{}, err
	}

	if params.Title != "" {
		wishlist.Title = params.Title
	}
	if params.Occasion != "" {
		wishlist.Occasion = params.Occasion
	}
	if params.Visibility != "" {
		wishlist.Visibility = params.Visibility
	}
	if params.CoverImageURL != "" {
		wishlist.CoverImageURL = params.CoverImageURL
	}

	if err := s.wishlists.Update(ctx, wishlist); err != nil {
		return entity.Wishlist{}, fmt.Errorf("update wishlist: %w", err)
	}

	return wishlist, nil
}

func (s *Service) Delete(ctx context.Context, ownerID value.UserID, id value.WishlistID) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.wishlists.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}

	logger(ctx).Info("wishlist deleted", "wishlist_id", id.String())

	return nil
}

type ItemParams struct {
	Name          string
	PriceEstimate value.Money
	QtyTotal      int
	ProductURL    string
	ImageURL      string
}

func (s *Service) AddItem(
	ctx context.Context,
	ownerID value.UserID,
	wishlistID value.WishlistID,
	params ItemParams,
) (entity.Item, error) {
	if _, err := s.owned(ctx, ownerID, wishlistID); err != nil {
		return entity.Item{}, err
	}

	if params.QtyTotal <= 0 {
		params.QtyTotal = 1
	}

	now := time.Now()
	item := entity.Item{
		ID:            value.NewItemID(),
		WishlistID:    wishlistID,
		Name:          params.Name,
		PriceEstimate: params.PriceEstimate,
		QtyTotal:      params.QtyTotal,
		ProductURL:    params.ProductURL,
		ImageURL:      params.ImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return entity.Item{}, fmt.Errorf("create item: %w", err)
	}

	return item, nil
}

func (s *Service) UpdateItem(
	ctx context.Context,
	ownerID value.UserID,
	itemID value.ItemID,
	params ItemParams,
) (entity.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return entity.Item{}, fmt.Errorf("get item: %w", err)
	}

	if _, err := s.owned(ctx, ownerID, item.WishlistID); err != nil {
		return entity.Item{}, err
	}

	if params.Name != "" {
		item.Name = params.Name
	}
	if params.PriceEstimate > 0 {
		item.PriceEstimate = params.PriceEstimate
	}
	if params.QtyTotal > 0 {
		item.QtyTotal = params.QtyTotal
	}
	if params.ProductURL != "" {
		item.ProductURL = params.ProductURL
	}
	if params.ImageURL != "" {
		item.ImageURL = params.ImageURL
	}

	if err := s.items.Update(ctx, item); err != nil {
		return entity.Item{}, fmt.Errorf("update item: %w", err)
	}

	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, ownerID value.UserID, itemID value.ItemID) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	if _, err := s.owned(ctx, ownerID, item.WishlistID); err != nil {
		return err
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	return nil
}

type GoalParams struct {
	Title        string
	TargetAmount value.Money
}

func (s *Service) AddGoal(
	ctx context.Context,
	ownerID value.UserID,
	wishlistID value.WishlistID,
	params GoalParams,
) (entity.Goal, error) {
	if _, err := s.owned(ctx, ownerID, wishlistID); err != nil {
		return entity.Goal{}, err
	}

	if params.TargetAmount <= 0 {
		return entity.Goal{}, domain.NewError(errcodes.InvalidAmount, "target amount must be positive")
	}

	now := time.Now()
	goal := entity.Goal{
		ID:           value.NewGoalID(),
		WishlistID:   wishlistID,
		Title:        params.Title,
		TargetAmount: params.TargetAmount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return entity.Goal{}, fmt.Errorf("create goal: %w", err)
	}

	return goal, nil
}

func (s *Service) UpdateGoal(
	ctx context.Context,
	ownerID value.UserID,
	goalID value.GoalID,
	params GoalParams,
) (entity.Goal, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return entity.Goal{}, fmt.Errorf("get goal: %w", err)
	}

	if _, err := s.owned(ctx, ownerID, goal.WishlistID); err != nil {
		return entity.Goal{}, err
	}

	if params.Title != "" {
		goal.Title = params.Title
	}
	if params.TargetAmount > 0 {
		goal.TargetAmount = params.TargetAmount
	}

	if err := s.goals.Update(ctx, goal); err != nil {
		return entity.Goal{}, fmt.Errorf("update goal: %w", err)
	}

	return goal, nil
}

func (s *Service) DeleteGoal(ctx context.Context, ownerID value.UserID, goalID value.GoalID) error {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return fmt.Errorf("get goal: %w", err)
	}

	if _, err := s.owned(ctx, ownerID, goal.WishlistID); err != nil {
		return err
	}

	if err := s.goals.Delete(ctx, goalID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	return nil
}

func (s *Service) ListContributions(
	ctx context.Context,
	ownerID value.UserID,
	goalID value.GoalID,
) ([]entity.Contribution, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}

	if _, err := s.owned(ctx, ownerID, goal.WishlistID); err != nil {
		return nil, err
	}

	contributions, err := s.goals.ListContributions(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}

	return contributions, nil
}

func (s *Service) owned(ctx context.Context, ownerID value.UserID, id value.WishlistID) (entity.Wishlist, error) {
	wishlist, err := s.wishlists.GetByID(ctx, id)
	if err != nil {
		return entity.Wishlist{}, fmt.Errorf("get wishlist: %w", err)
	}

	if wishlist.OwnerID != ownerID {
		return entity.Wishlist{}, domain.NewError(errcodes.Forbidden, "wishlist belongs to another user")
	}

	return wishlist, nil
}
