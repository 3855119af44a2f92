package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/pkg/errcodes"
)

type WishlistRepository struct {
	db *sqlx.DB
}

func NewWishlistRepository(db *sqlx.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

func (r *WishlistRepository) Create(ctx context.Context, wishlist entity.Wishlist) error {
	query := `
		INSERT INTO wishlists (id, owner_id, title, slug, occasion, visibility, cover_image_url, created_at, updated_at)
		VALUES (:id, :owner_id, :title, :slug, :occasion, :visibility, :cover_image_url, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromWishlist(wishlist)); err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(errcodes.SlugAlreadyInUse, "slug already in use")
		}
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert wishlist")
	}

	return nil
}

func (r *WishlistRepository) GetByID(ctx context.Context, id value.WishlistID) (entity.Wishlist, error) {
	query := `
		SELECT id, owner_id, title, slug, occasion, visibility, cover_image_url, created_at, updated_at
		FROM wishlists
		WHERE id = $1`

	var schema wishlistSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Wishlist{}, domain.NewError(errcodes.WishlistNotFound, "wishlist not found")
		}
		return entity.Wishlist{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get wishlist")
	}

	return schema.toDomain(), nil
}

func (r *WishlistRepository) GetBySlug(ctx context.Context, slug string) (entity.Wishlist, error) {
	query := `
		SELECT id, owner_id, title, slug, occasion, visibility, cover_image_url, created_at, updated_at
		FROM wishlists
		WHERE slug = $1`

	var schema wishlistSchema
	if err := r.db.GetContext(ctx, &schema, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Wishlist{}, domain.NewError(errcodes.WishlistNotFound, "wishlist not found")
		}
		return entity.Wishlist{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get wishlist")
	}

	return schema.toDomain(), nil
}

func (r *WishlistRepository) ListByOwner(ctx context.Context, ownerID value.UserID) ([]entity.Wishlist, error) {
	query := `
		SELECT id, owner_id, title, slug, occasion, visibility, cover_image_url, created_at, updated_at
		FROM wishlists
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	var schemas []wishlistSchema
	if err := r.db.SelectContext(ctx, &schemas, query, ownerID.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list wishlists")
	}

	wishlists := make([]entity.Wishlist, 0, len(schemas))
	for _, s := range schemas {
		wishlists = append(wishlists, s.toDomain())
	}

	return wishlists, nil
}

func (r *WishlistRepository) Update(ctx context.Context, wishlist entity.Wishlist) error {
	query := `
		UPDATE wishlists SET
			title = :title,
			occasion = :occasion,
			visibility = :visibility,
			cover_image_url = :cover_image_url,
			updated_at = :updated_at
		WHERE id = :id`

	schema := fromWishlist(wishlist)
	schema.UpdatedAt = time.Now()

	res, err := r.db.NamedExecContext(ctx, query, schema)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update wishlist")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.WishlistNotFound, "wishlist not found")
	}

	return nil
}

// Delete removes a wishlist and everything hanging off it in one
// transaction: claims on its items, the items, goals and reminders.
func (r *WishlistRepository) Delete(ctx context.Context, id value.WishlistID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		statements := []string{
			`DELETE FROM claims WHERE item_id IN (SELECT id FROM wishlist_items WHERE wishlist_id = $1)`,
			`DELETE FROM wishlist_items WHERE wishlist_id = $1`,
			`DELETE FROM goals WHERE wishlist_id = $1`,
			`DELETE FROM reminders WHERE wishlist_id = $1`,
		}

		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt, id.String()); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to delete wishlist children")
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM wishlists WHERE id = $1`, id.String())
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete wishlist")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			return domain.NewError(errcodes.WishlistNotFound, "wishlist not found")
		}

		return nil
	})
}

func (r *WishlistRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM wishlists WHERE slug = $1)`, slug); err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check slug")
	}

	return exists, nil
}

func isUniqueViolation(err error) bool {
	// pgx exposes the SQLSTATE in the error text; 23505 is unique_violation.
	return err != nil && strings.Contains(err.Error(), "23505")
}
