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

type PayoutRepository struct {
	db *sqlx.DB
}

func NewPayoutRepository(db *sqlx.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

const payoutColumns = `id, user_id, wallet_id, amount, status, bank_code, account_number, account_name, recipient_code, reference, failure_reason, created_at, updated_at`

const payoutInsert = `
	INSERT INTO payouts (id, user_id, wallet_id, amount, status, bank_code, account_number, account_name, recipient_code, reference, failure_reason, created_at, updated_at)
	VALUES (:id, :user_id, :wallet_id, :amount, :status, :bank_code, :account_number, :account_name, :recipient_code, :reference, :failure_reason, :created_at, :updated_at)`

func (r *PayoutRepository) Create(ctx context.Context, payout entity.Payout) error {
	if _, err := r.db.NamedExecContext(ctx, payoutInsert, fromPayout(payout)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert payout")
	}

	return nil
}

// CreateWithDebit inserts the payout together with its paired wallet debit
// transaction. Auto-approved payouts go through here so a payout in
// processing always has its ledger entry.
func (r *PayoutRepository) CreateWithDebit(ctx context.Context, payout entity.Payout, debit entity.WalletTransaction) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, payoutInsert, fromPayout(payout)); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert payout")
		}

		return insertWalletTransactionTx(ctx, tx, debit)
	})
}

// ApproveWithDebit transitions requested -> processing and writes the
// paired debit in the same transaction (admin approval path).
func (r *PayoutRepository) ApproveWithDebit(ctx context.Context, id value.PayoutID, recipientCode string, debit entity.WalletTransaction) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		update := `
			UPDATE payouts
			SET status = $1, recipient_code = $2, updated_at = $3
			WHERE id = $4 AND status = $5`

		res, err := tx.ExecContext(ctx, update,
			value.PayoutProcessing.String(), recipientCode, time.Now(),
			id.String(), value.PayoutRequested.String(),
		)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to approve payout")
		}

		if err := checkPayoutAffected(ctx, tx, res, id); err != nil {
			return err
		}

		return insertWalletTransactionTx(ctx, tx, debit)
	})
}

func (r *PayoutRepository) UpdateStatus(ctx context.Context, id value.PayoutID, from, to value.PayoutStatus, failureReason string) error {
	query := `
		UPDATE payouts
		SET status = $1, failure_reason = $2, updated_at = $3
		WHERE id = $4 AND status = $5`

	res, err := r.db.ExecContext(ctx, query, to.String(), failureReason, time.Now(), id.String(), from.String())
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update payout status")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		var exists bool
		_ = r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM payouts WHERE id = $1)`, id.String())
		if !exists {
			return domain.NewError(errcodes.PayoutNotFound, "payout not found")
		}
		return domain.NewError(errcodes.PayoutTransitionInvalid, "payout status changed concurrently")
	}

	return nil
}

// FailWithRefund transitions processing -> failed and writes the
// compensating refund credit atomically.
func (r *PayoutRepository) FailWithRefund(ctx context.Context, id value.PayoutID, reason string, refund entity.WalletTransaction) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		update := `
			UPDATE payouts
			SET status = $1, failure_reason = $2, updated_at = $3
			WHERE id = $4 AND status = $5`

		res, err := tx.ExecContext(ctx, update,
			value.PayoutFailed.String(), reason, time.Now(),
			id.String(), value.PayoutProcessing.String(),
		)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to fail payout")
		}

		if err := checkPayoutAffected(ctx, tx, res, id); err != nil {
			return err
		}

		return insertWalletTransactionTx(ctx, tx, refund)
	})
}

func (r *PayoutRepository) GetByID(ctx context.Context, id value.PayoutID) (entity.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`

	var schema payoutSchema
	if err := r.db.GetContext(ctx, &schema, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Payout{}, domain.NewError(errcodes.PayoutNotFound, "payout not found")
		}
		return entity.Payout{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get payout")
	}

	return schema.toDomain(), nil
}

func (r *PayoutRepository) GetByReference(ctx context.Context, reference string) (entity.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE reference = $1`

	var schema payoutSchema
	if err := r.db.GetContext(ctx, &schema, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Payout{}, domain.NewError(errcodes.PayoutNotFound, "payout not found")
		}
		return entity.Payout{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get payout")
	}

	return schema.toDomain(), nil
}

func (r *PayoutRepository) ListByUser(ctx context.Context, userID value.UserID) ([]entity.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE user_id = $1 ORDER BY created_at DESC`

	var schemas []payoutSchema
	if err := r.db.SelectContext(ctx, &schemas, query, userID.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list payouts")
	}

	return toPayouts(schemas), nil
}

func (r *PayoutRepository) List(ctx context.Context, status value.PayoutStatus, limit, offset int) ([]entity.Payout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payouts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var schemas []payoutSchema
	if err := r.db.SelectContext(ctx, &schemas, query, status.String(), limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list payouts")
	}

	return toPayouts(schemas), nil
}

func toPayouts(schemas []payoutSchema) []entity.Payout {
	payouts := make([]entity.Payout, 0, len(schemas))
	for _, s := range schemas {
		payouts = append(payouts, s.toDomain())
	}

	return payouts
}

func checkPayoutAffected(ctx context.Context, tx *sqlx.Tx, res sql.Result, id value.PayoutID) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		var exists bool
		_ = tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM payouts WHERE id = $1)`, id.String())
		if !exists {
			return domain.NewError(errcodes.PayoutNotFound, "payout not found")
		}
		return domain.NewError(errcodes.PayoutTransitionInvalid, "payout is not in the expected status")
	}

	return nil
}

func insertWalletTransactionTx(ctx context.Context, tx *sqlx.Tx, walletTx entity.WalletTransaction) error {
	insert := `
		INSERT INTO wallet_transactions (id, wallet_id, kind, amount, source, description, category, reference, created_at)
		VALUES (:id, :wallet_id, :kind, :amount, :source, :description, :category, :reference, :created_at)`

	if _, err := tx.NamedExecContext(ctx, insert, fromWalletTransaction(walletTx)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert wallet transaction")
	}

	return nil
}
