package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/pkg/errcodes"
)

type ItemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, item entity.Item) error {
	query := `
		INSERT INTO wishlist_items (id, wishlist_id, name, price_estimate, qty_total, qty_claimed, product_url, image_url, created_at, updated_at)
		VALUES (:id, :wishlist_id, :name, :price_estimate, :qty_total, :qty_claimed, :product_url, :image_url, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromItem(item)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert item")
	}

	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id value.ItemID) (entity.Item, error) {
	query := `
		SELECT id, wishlist_id, name, price_estimate, qty_total, qty_claimed, product_url, image_url, created_at, updated_at
		FROM wishlist_items
		WHERE id = $1`

	var schema itemSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Item{}, domain.NewError(errcodes.ItemNotFound, "item not found")
		}
		return entity.Item{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get item")
	}

	return schema.toDomain(), nil
}

func (r *ItemRepository) ListByWishlist(ctx context.Context, wishlistID value.WishlistID) ([]entity.Item, error) {
	query := `
		SELECT id, wishlist_id, name, price_estimate, qty_total, qty_claimed, product_url, image_url, created_at, updated_at
		FROM wishlist_items
		WHERE wishlist_id = $1
		ORDER BY created_at ASC`

	var schemas []itemSchema
	if err := r.db.SelectContext(ctx, &schemas, query, wishlistID.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list items")
	}

	items := make([]entity.Item, 0, len(schemas))
	for _, s := range schemas {
		items = append(items, s.toDomain())
	}

	return items, nil
}

// Update rewrites the mutable item fields. qty_total may never drop below
// the current qty_claimed; the WHERE clause enforces that.
func (r *ItemRepository) Update(ctx context.Context, item entity.Item) error {
	query := `
		UPDATE wishlist_items SET
			name = :name,
			price_estimate = :price_estimate,
			qty_total = :qty_total,
			product_url = :product_url,
			image_url = :image_url,
			updated_at = :updated_at
		WHERE id = :id AND qty_claimed <= :qty_total`

	schema := fromItem(item)
	schema.UpdatedAt = time.Now()

	res, err := r.db.NamedExecContext(ctx, query, schema)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update item")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		exists, existsErr := r.exists(ctx, item.ID)
		if existsErr == nil && exists {
			return domain.NewError(errcodes.ItemFullyClaimed, "qty_total cannot drop below claimed quantity")
		}
		return domain.NewError(errcodes.ItemNotFound, "item not found")
	}

	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id value.ItemID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE item_id = $1`, id.String()); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete item claims")
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id.String())
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete item")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			return domain.NewError(errcodes.ItemNotFound, "item not found")
		}

		return nil
	})
}

func (r *ItemRepository) exists(ctx context.Context, id value.ItemID) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE id = $1)`, id.String()); err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check item existence")
	}

	return exists, nil
}
