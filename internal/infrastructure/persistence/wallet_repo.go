package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/pkg/errcodes"
)

type WalletRepository struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

const walletTxColumns = `id, wallet_id, kind, amount, source, description, category, reference, created_at`

// Ensure returns the user's wallet, creating it on first touch.
func (r *WalletRepository) Ensure(ctx context.Context, userID value.UserID) (entity.Wallet, error) {
	insert := `
		INSERT INTO wallets (id, user_id, currency, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, insert, xid.New().String(), userID.String(), value.Currency); err != nil {
		return entity.Wallet{}, domain.WrapError(err, errcodes.InternalServerError, "failed to ensure wallet")
	}

	return r.GetByUserID(ctx, userID)
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID value.UserID) (entity.Wallet, error) {
	query := `SELECT id, user_id, currency, created_at FROM wallets WHERE user_id = $1`

	var schema walletSchema
	if err := r.db.GetContext(ctx, &schema, query, userID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Wallet{}, domain.NewError(errcodes.WalletNotFound, "wallet not found")
		}
		return entity.Wallet{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get wallet")
	}

	return schema.toDomain(), nil
}

func (r *WalletRepository) InsertTransaction(ctx context.Context, walletTx entity.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (id, wallet_id, kind, amount, source, description, category, reference, created_at)
		VALUES (:id, :wallet_id, :kind, :amount, :source, :description, :category, :reference, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromWalletTransaction(walletTx)); err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(errcodes.PaymentAlreadySettled, "transaction reference already recorded")
		}
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert wallet transaction")
	}

	return nil
}

func (r *WalletRepository) ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]entity.WalletTransaction, error) {
	query := `
		SELECT ` + walletTxColumns + `
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var schemas []walletTransactionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, walletID, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list wallet transactions")
	}

	return toWalletTransactions(schemas), nil
}

// ListAllTransactionsByWallet loads the full ledger for balance
// computation; no paging because Summarize needs every row.
func (r *WalletRepository) ListAllTransactionsByWallet(ctx context.Context, walletID string) ([]entity.WalletTransaction, error) {
	query := `SELECT ` + walletTxColumns + ` FROM wallet_transactions WHERE wallet_id = $1 ORDER BY created_at ASC`

	var schemas []walletTransactionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, walletID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load wallet ledger")
	}

	return toWalletTransactions(schemas), nil
}

func (r *WalletRepository) ListAllTransactions(ctx context.Context, limit, offset int) ([]entity.WalletTransaction, error) {
	query := `
		SELECT ` + walletTxColumns + `
		FROM wallet_transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var schemas []walletTransactionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list transactions")
	}

	return toWalletTransactions(schemas), nil
}

func toWalletTransactions(schemas []walletTransactionSchema) []entity.WalletTransaction {
	txs := make([]entity.WalletTransaction, 0, len(schemas))
	for _, s := range schemas {
		txs = append(txs, s.toDomain())
	}

	return txs
}
