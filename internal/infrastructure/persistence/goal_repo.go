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

type GoalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, wishlist_id, title, target_amount, amount_raised, created_at, updated_at`

func (r *GoalRepository) Create(ctx context.Context, goal entity.Goal) error {
	query := `
		INSERT INTO goals (id, wishlist_id, title, target_amount, amount_raised, created_at, updated_at)
		VALUES (:id, :wishlist_id, :title, :target_amount, :amount_raised, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromGoal(goal)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert goal")
	}

	return nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id value.GoalID) (entity.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	var schema goalSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Goal{}, domain.NewError(errcodes.GoalNotFound, "goal not found")
		}
		return entity.Goal{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get goal")
	}

	return schema.toDomain(), nil
}

func (r *GoalRepository) ListByWishlist(ctx context.Context, wishlistID value.WishlistID) ([]entity.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE wishlist_id = $1 ORDER BY created_at ASC`

	var schemas []goalSchema
	if err := r.db.SelectContext(ctx, &schemas, query, wishlistID.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list goals")
	}

	goals := make([]entity.Goal, 0, len(schemas))
	for _, s := range schemas {
		goals = append(goals, s.toDomain())
	}

	return goals, nil
}

func (r *GoalRepository) Update(ctx context.Context, goal entity.Goal) error {
	query := `
		UPDATE goals SET
			title = :title,
			target_amount = :target_amount,
			updated_at = :updated_at
		WHERE id = :id`

	schema := fromGoal(goal)
	schema.UpdatedAt = time.Now()

	res, err := r.db.NamedExecContext(ctx, query, schema)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update goal")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.GoalNotFound, "goal not found")
	}

	return nil
}

func (r *GoalRepository) Delete(ctx context.Context, id value.GoalID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM contributions WHERE goal_id = $1`, id.String()); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete goal contributions")
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id.String())
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete goal")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			return domain.NewError(errcodes.GoalNotFound, "goal not found")
		}

		return nil
	})
}

// RecordContribution inserts the settled contribution and bumps the goal's
// amount_raised in one transaction. A duplicate reference means the webhook
// was already processed.
func (r *GoalRepository) RecordContribution(ctx context.Context, contribution entity.Contribution) (entity.Goal, error) {
	var goal entity.Goal

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO contributions (id, goal_id, amount, display_name, anonymous, reference, status, created_at)
			VALUES (:id, :goal_id, :amount, :display_name, :anonymous, :reference, :status, :created_at)`

		if _, err := tx.NamedExecContext(ctx, insert, fromContribution(contribution)); err != nil {
			if isUniqueViolation(err) {
				return domain.NewError(errcodes.PaymentAlreadySettled, "contribution reference already recorded")
			}
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert contribution")
		}

		update := `
			UPDATE goals
			SET amount_raised = amount_raised + $1, updated_at = $2
			WHERE id = $3`

		res, err := tx.ExecContext(ctx, update, contribution.Amount.Kobo(), time.Now(), contribution.GoalID.String())
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to bump amount raised")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			return domain.NewError(errcodes.GoalNotFound, "goal not found")
		}

		var schema goalSchema
		if err := tx.GetContext(ctx, &schema, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, contribution.GoalID.String()); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to reload goal")
		}

		goal = schema.toDomain()

		return nil
	})
	if err != nil {
		return entity.Goal{}, err
	}

	return goal, nil
}

func (r *GoalRepository) ListContributions(ctx context.Context, goalID value.GoalID) ([]entity.Contribution, error) {
	query := `
		SELECT id, goal_id, amount, display_name, anonymous, reference, status, created_at
		FROM contributions
		WHERE goal_id = $1
		ORDER BY created_at DESC`

	var schemas []contributionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, goalID.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list contributions")
	}

	contributions := make([]entity.Contribution, 0, len(schemas))
	for _, s := range schemas {
		contributions = append(contributions, s.toDomain())
	}

	return contributions, nil
}
