package claim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/pkg/errcodes"
)

type stubClaimRepo struct {
	claims map[value.ClaimID]entity.Claim
	items  *stubItemRepo
}

func newStubClaimRepo(items *stubItemRepo) *stubClaimRepo {
	return &stubClaimRepo{claims: map[value.ClaimID]entity.Claim{}, items: items}
}

func (r *stubClaimRepo) CreateWithReservation(_ context.Context, claim entity.Claim) error {
	item, ok := r.items.items[claim.ItemID]
	if !ok {
		return domain.NewError(errcodes.ItemNotFound, "item not found")
	}

	if item.QtyClaimed >= item.QtyTotal {
		return domain.NewError(errcodes.ItemFullyClaimed, "item is fully claimed")
	}

	item.QtyClaimed++
	r.items.items[claim.ItemID] = item
	r.claims[claim.ID] = claim

	return nil
}

func (r *stubClaimRepo) DeleteWithRelease(_ context.Context, id value.ClaimID) error {
	claim, ok := r.claims[id]
	if !ok {
		return domain.NewError(errcodes.ClaimNotFound, "claim not found")
	}

	item := r.items.items[claim.ItemID]
	if item.QtyClaimed > 0 {
		item.QtyClaimed--
	}
	r.items.items[claim.ItemID] = item

	delete(r.claims, id)

	return nil
}

func (r *stubClaimRepo) GetByID(_ context.Context, id value.ClaimID) (entity.Claim, error) {
	claim, ok := r.claims[id]
	if !ok {
		return entity.Claim{}, domain.NewError(errcodes.ClaimNotFound, "claim not found")
	}

	return claim, nil
}

func (r *stubClaimRepo) ListByItem(_ context.Context, itemID value.ItemID) ([]entity.Claim, error) {
	var out []entity.Claim
	for _, c := range r.claims {
		if c.ItemID == itemID {
			out = append(out, c)
		}
	}

	return out, nil
}

func (r *stubClaimRepo) ListBySpender(_ context.Context, spenderID value.UserID) ([]entity.Claim, error) {
	var out []entity.Claim
	for _, c := range r.claims {
		if c.SpenderID == spenderID {
			out = append(out, c)
		}
	}

	return out, nil
}

func (r *stubClaimRepo) UpdateStatus(_ context.Context, id value.ClaimID, from, to value.ClaimStatus) error {
	claim, ok := r.claims[id]
	if !ok {
		return domain.NewError(errcodes.ClaimNotFound, "claim not found")
	}

	if claim.Status != from {
		return domain.NewError(errcodes.ClaimTransitionInvalid, "claim status changed concurrently")
	}

	claim.Status = to
	r.claims[id] = claim

	return nil
}

func (r *stubClaimRepo) ExpireDue(_ context.Context, now time.Time) ([]entity.Claim, error) {
	var expired []entity.Claim

	for id, c := range r.claims {
		if c.ExpiredBy(now) {
			c.Status = value.ClaimExpired
			r.claims[id] = c

			item := r.items.items[c.ItemID]
			if item.QtyClaimed > 0 {
				item.QtyClaimed--
			}
			r.items.items[c.ItemID] = item

			expired = append(expired, c)
		}
	}

	return expired, nil
}

type stubItemRepo struct {
	items map[value.ItemID]entity.Item
}

func (r *stubItemRepo) GetByID(_ context.Context, id value.ItemID) (entity.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return entity.Item{}, domain.NewError(errcodes.ItemNotFound, "item not found")
	}

	return item, nil
}

type stubWishlistRepo struct {
	wishlists map[value.WishlistID]entity.Wishlist
}

func (r *stubWishlistRepo) GetByID(_ context.Context, id value.WishlistID) (entity.Wishlist, error) {
	wishlist, ok := r.wishlists[id]
	if !ok {
		return entity.Wishlist{}, domain.NewError(errcodes.WishlistNotFound, "wishlist not found")
	}

	return wishlist, nil
}

func newFixture() (*Service, *stubClaimRepo, *stubItemRepo, *stubWishlistRepo) {
	items := &stubItemRepo{items: map[value.ItemID]entity.Item{}}
	claims := newStubClaimRepo(items)
	wishlists := &stubWishlistRepo{wishlists: map[value.WishlistID]entity.Wishlist{}}

	return NewService(claims, items, wishlists, 72*time.Hour), claims, items, wishlists
}

func seedItem(items *stubItemRepo, wishlists *stubWishlistRepo, owner value.UserID, qtyTotal int) entity.Item {
	wishlistID := value.NewWishlistID()
	wishlists.wishlists[wishlistID] = entity.Wishlist{ID: wishlistID, OwnerID: owner}

	item := entity.Item{
		ID:         value.NewItemID(),
		WishlistID: wishlistID,
		Name:       "PS5",
		QtyTotal:   qtyTotal,
	}
	items.items[item.ID] = item

	return item
}

func TestService_Create(t *testing.T) {
	rq := require.New(t)

	svc, _, items, wishlists := newFixture()
	item := seedItem(items, wishlists, value.NewUserID(), 1)

	claim, err := svc.Create(context.Background(), CreateParams{
		ItemID:       item.ID,
		SpenderEmail: "guest@example.com",
		SpenderName:  "Guest",
	})
	rq.NoError(err)
	rq.Equal(value.ClaimPending, claim.Status)
	rq.NotNil(claim.ExpireAt)
	rq.Equal(1, items.items[item.ID].QtyClaimed)
}

func TestService_Create_FullyClaimed(t *testing.T) {
	rq := require.New(t)

	svc, _, items, wishlists := newFixture()
	item := seedItem(items, wishlists, value.NewUserID(), 1)

	_, err := svc.Create(context.Background(), CreateParams{ItemID: item.ID, SpenderEmail: "a@example.com"})
	rq.NoError(err)

	_, err = svc.Create(context.Background(), CreateParams{ItemID: item.ID, SpenderEmail: "b@example.com"})
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.ItemFullyClaimed, code)

	// The failed claim must not leak a reservation.
	rq.Equal(1, items.items[item.ID].QtyClaimed)
}

func TestService_Create_RequiresContact(t *testing.T) {
	svc, _, _, _ := newFixture()

	_, err := svc.Create(context.Background(), CreateParams{ItemID: value.NewItemID()})
	require.Error(t, err)
}

func TestService_ConfirmAndCancel(t *testing.T) {
	rq := require.New(t)

	svc, _, items, wishlists := newFixture()
	item := seedItem(items, wishlists, value.NewUserID(), 2)
	spender := value.NewUserID()

	claim, err := svc.Create(context.Background(), CreateParams{ItemID: item.ID, SpenderID: spender})
	rq.NoError(err)

	confirmed, err := svc.Confirm(context.Background(), spender, claim.ID)
	rq.NoError(err)
	rq.Equal(value.ClaimConfirmed, confirmed.Status)

	// Confirming again is an invalid transition.
	_, err = svc.Confirm(context.Background(), spender, claim.ID)
	rq.Error(err)

	rq.NoError(svc.Cancel(context.Background(), spender, claim.ID))
	rq.Equal(0, items.items[item.ID].QtyClaimed)
}

func TestService_Confirm_WrongSpender(t *testing.T) {
	rq := require.New(t)

	svc, _, items, wishlists := newFixture()
	item := seedItem(items, wishlists, value.NewUserID(), 1)
	spender := value.NewUserID()

	claim, err := svc.Create(context.Background(), CreateParams{ItemID: item.ID, SpenderID: spender})
	rq.NoError(err)

	_, err = svc.Confirm(context.Background(), value.NewUserID(), claim.ID)
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.Forbidden, code)
}

func TestService_Remove(t *testing.T) {
	rq := require.New(t)

	svc, _, items, wishlists := newFixture()
	owner := value.NewUserID()
	item := seedItem(items, wishlists, owner, 1)

	claim, err := svc.Create(context.Background(), CreateParams{ItemID: item.ID, SpenderEmail: "g@example.com"})
	rq.NoError(err)
	rq.Equal(1, items.items[item.ID].QtyClaimed)

	// A stranger cannot remove the claim, and the reservation stays put.
	err = svc.Remove(context.Background(), value.NewUserID(), claim.ID)
	rq.Error(err)
	rq.Equal(1, items.items[item.ID].QtyClaimed)

	rq.NoError(svc.Remove(context.Background(), owner, claim.ID))
	rq.Equal(0, items.items[item.ID].QtyClaimed)

	// Removing twice fails, and quantity is untouched by the failure.
	err = svc.Remove(context.Background(), owner, claim.ID)
	rq.Error(err)
	rq.Equal(0, items.items[item.ID].QtyClaimed)
}

func TestService_ExpireDue(t *testing.T) {
	rq := require.New(t)

	svc, claims, items, wishlists := newFixture()
	item := seedItem(items, wishlists, value.NewUserID(), 1)

	claim, err := svc.Create(context.Background(), CreateParams{ItemID: item.ID, SpenderEmail: "g@example.com"})
	rq.NoError(err)

	// Not yet due.
	count, err := svc.ExpireDue(context.Background(), time.Now())
	rq.NoError(err)
	rq.Equal(0, count)

	count, err = svc.ExpireDue(context.Background(), time.Now().Add(73*time.Hour))
	rq.NoError(err)
	rq.Equal(1, count)
	rq.Equal(value.ClaimExpired, claims.claims[claim.ID].Status)
	rq.Equal(0, items.items[item.ID].QtyClaimed)
}
