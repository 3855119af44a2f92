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

type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

const claimColumns = `id, item_id, spender_id, spender_name, spender_email, status, amount_paid, expire_at, created_at, updated_at`

// CreateWithReservation inserts the claim and bumps the item's qty_claimed
// in one transaction. The guarded UPDATE keeps qty_claimed <= qty_total; a
// zero row count means the item is fully claimed (or gone).
func (r *ClaimRepository) CreateWithReservation(ctx context.Context, claim entity.Claim) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		reserve := `
			UPDATE wishlist_items
			SET qty_claimed = qty_claimed + 1, updated_at = $1
			WHERE id = $2 AND qty_claimed < qty_total`

		res, err := tx.ExecContext(ctx, reserve, time.Now(), claim.ItemID.String())
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to reserve item")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			var exists bool
			_ = tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE id = $1)`, claim.ItemID.String())
			if !exists {
				return domain.NewError(errcodes.ItemNotFound, "item not found")
			}
			return domain.NewError(errcodes.ItemFullyClaimed, "item is fully claimed")
		}

		insert := `
			INSERT INTO claims (id, item_id, spender_id, spender_name, spender_email, status, amount_paid, expire_at, created_at, updated_at)
			VALUES (:id, :item_id, :spender_id, :spender_name, :spender_email, :status, :amount_paid, :expire_at, :created_at, :updated_at)`

		if _, err := tx.NamedExecContext(ctx, insert, fromClaim(claim)); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert claim")
		}

		return nil
	})
}

// DeleteWithRelease removes the claim and gives the reserved quantity back
// to the item atomically. Either both writes land or neither does.
func (r *ClaimRepository) DeleteWithRelease(ctx context.Context, id value.ClaimID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var schema claimSchema
		lock := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &schema, lock, id.String()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewError(errcodes.ClaimNotFound, "claim not found")
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to lock claim")
		}

		if err := releaseReservationTx(ctx, tx, schema.ItemID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE id = $1`, id.String()); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete claim")
		}

		return nil
	})
}

func (r *ClaimRepository) GetByID(ctx context.Context, id value.ClaimID) (entity.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`

	var schema claimSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Claim{}, domain.NewError(errcodes.ClaimNotFound, "claim not found")
		}
		return entity.Claim{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get claim")
	}

	return schema.toDomain(), nil
}

func (r *ClaimRepository) ListByItem(ctx context.Context, itemID value.ItemID) ([]entity.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE item_id = $1 ORDER BY created_at ASC`

	var schemas []claimSchema
	if err := r.db.SelectContext(ctx, &schemas, query, itemID.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list claims")
	}

	claims := make([]entity.Claim, 0, len(schemas))
	for _, s := range schemas {
		claims = append(claims, s.toDomain())
	}

	return claims, nil
}

func (r *ClaimRepository) ListBySpender(ctx context.Context, spenderID value.UserID) ([]entity.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE spender_id = $1 ORDER BY created_at DESC`

	var schemas []claimSchema
	if err := r.db.SelectContext(ctx, &schemas, query, spenderID.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list claims")
	}

	claims := make([]entity.Claim, 0, len(schemas))
	for _, s := range schemas {
		claims = append(claims, s.toDomain())
	}

	return claims, nil
}

// UpdateStatus flips status from -> to with the transition pre-validated by
// the caller. The WHERE clause re-checks the from-status so concurrent
// transitions cannot race past the guard.
func (r *ClaimRepository) UpdateStatus(ctx context.Context, id value.ClaimID, from, to value.ClaimStatus) error {
	query := `UPDATE claims SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	res, err := r.db.ExecContext(ctx, query, to.String(), time.Now(), id.String(), from.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update claim status")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		var exists bool
		_ = r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM claims WHERE id = $1)`, id.String())
		if !exists {
			return domain.NewError(errcodes.ClaimNotFound, "claim not found")
		}
		return domain.NewError(errcodes.ClaimTransitionInvalid, "claim status changed concurrently")
	}

	return nil
}

// ApplyPayment accumulates amount_paid and settles the status in one
// transaction. The claim flips to fulfilled once the accumulated amount
// covers the item's price estimate.
func (r *ClaimRepository) ApplyPayment(ctx context.Context, id value.ClaimID, amount value.Money) (entity.Claim, error) {
	var claim entity.Claim

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var schema claimSchema
		lock := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &schema, lock, id.String()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewError(errcodes.ClaimNotFound, "claim not found")
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to lock claim")
		}

		current := schema.toDomain()
		if current.Status.Terminal() && current.Status != value.ClaimFulfilled {
			return domain.NewError(errcodes.ClaimTransitionInvalid, "claim is no longer payable")
		}

		var price int64
		if err := tx.GetContext(ctx, &price, `SELECT price_estimate FROM wishlist_items WHERE id = $1`, schema.ItemID); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to get item price")
		}

		newPaid := schema.AmountPaid + amount.Kobo()
		status := current.Status
		if newPaid >= price && status != value.ClaimFulfilled {
			status = value.ClaimFulfilled
		}

		update := `UPDATE claims SET amount_paid = $1, status = $2, updated_at = $3 WHERE id = $4`
		if _, err := tx.ExecContext(ctx, update, newPaid, status.String(), time.Now(), id.String()); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to apply payment")
		}

		current.AmountPaid = value.Money(newPaid)
		current.Status = status
		claim = current

		return nil
	})
	if err != nil {
		return entity.Claim{}, err
	}

	return claim, nil
}

// ExpireDue marks every overdue pending/confirmed claim expired and
// releases its reservation, all in one transaction. It returns the expired
// claims so the caller can log or notify.
func (r *ClaimRepository) ExpireDue(ctx context.Context, now time.Time) ([]entity.Claim, error) {
	var expired []entity.Claim

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		due := `
			SELECT ` + claimColumns + `
			FROM claims
			WHERE status IN ('pending', 'confirmed') AND expire_at IS NOT NULL AND expire_at < $1
			FOR UPDATE SKIP LOCKED`

		var schemas []claimSchema
		if err := tx.SelectContext(ctx, &schemas, due, now); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to select due claims")
		}

		for _, s := range schemas {
			update := `UPDATE claims SET status = $1, updated_at = $2 WHERE id = $3`
			if _, err := tx.ExecContext(ctx, update, value.ClaimExpired.String(), now, s.ID); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to expire claim")
			}

			if err := releaseReservationTx(ctx, tx, s.ItemID); err != nil {
				return err
			}

			c := s.toDomain()
			c.Status = value.ClaimExpired
			expired = append(expired, c)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return expired, nil
}

func releaseReservationTx(ctx context.Context, tx *sqlx.Tx, itemID string) error {
	release := `
		UPDATE wishlist_items
		SET qty_claimed = qty_claimed - 1, updated_at = $1
		WHERE id = $2 AND qty_claimed > 0`

	if _, err := tx.ExecContext(ctx, release, time.Now(), itemID); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to release reservation")
	}

	return nil
}
