package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/pkg/errcodes"
)

type PaymentIntentRepository struct {
	db *sqlx.DB
}

func NewPaymentIntentRepository(db *sqlx.DB) *PaymentIntentRepository {
	return &PaymentIntentRepository{db: db}
}

const paymentIntentColumns = `reference, purpose, claim_id, goal_id, user_id, amount, email, display_name, anonymous, status, created_at, settled_at`

func (r *PaymentIntentRepository) Create(ctx context.Context, intent entity.PaymentIntent) error {
	query := `
		INSERT INTO payment_intents (reference, purpose, claim_id, goal_id, user_id, amount, email, display_name, anonymous, status, created_at, settled_at)
		VALUES (:reference, :purpose, :claim_id, :goal_id, :user_id, :amount, :email, :display_name, :anonymous, :status, :created_at, :settled_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromPaymentIntent(intent)); err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(errcodes.PaymentAlreadySettled, "payment reference already exists")
		}
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert payment intent")
	}

	return nil
}

func (r *PaymentIntentRepository) GetByReference(ctx context.Context, reference string) (entity.PaymentIntent, error) {
	query := `SELECT ` + paymentIntentColumns + ` FROM payment_intents WHERE reference = $1`

	var schema paymentIntentSchema
	if err := r.db.GetContext(ctx, &schema, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.PaymentIntent{}, domain.NewError(errcodes.PaymentIntentNotFound, "payment intent not found")
		}
		return entity.PaymentIntent{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get payment intent")
	}

	return schema.toDomain(), nil
}

// MarkSettled flips pending -> settled exactly once. A zero row count on
// an existing reference means another webhook delivery won the race.
func (r *PaymentIntentRepository) MarkSettled(ctx context.Context, reference string, settledAt time.Time) error {
	query := `
		UPDATE payment_intents
		SET status = $1, settled_at = $2
		WHERE reference = $3 AND status = $4`

	res, err := r.db.ExecContext(ctx, query,
		string(entity.IntentSettled), settledAt,
		reference, string(entity.IntentPending),
	)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to settle payment intent")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		var exists bool
		_ = r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM payment_intents WHERE reference = $1)`, reference)
		if !exists {
			return domain.NewError(errcodes.PaymentIntentNotFound, "payment intent not found")
		}
		return domain.NewError(errcodes.PaymentAlreadySettled, "payment already settled")
	}

	return nil
}
