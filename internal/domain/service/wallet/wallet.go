// Package wallet owns balances and payouts. Balances are never stored: they
// are reduced from the transaction ledger on every read, so the ledger is
// the single source of truth.
package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"heyspender/internal/domain"
	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/service/ledger"
	"heyspender/internal/domain/value"
	"heyspender/pkg/contextx"
	"heyspender/pkg/errcodes"
)

//nolint:gochecknoglobals
var logger = contextx.LoggerFromContextOrDefault

type WalletRepository interface {
	Ensure(ctx context.Context, userID value.UserID) (entity.Wallet, error)
	GetByUserID(ctx context.Context, userID value.UserID) (entity.Wallet, error)
	InsertTransaction(ctx context.Context, tx entity.WalletTransaction) error
	ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]entity.WalletTransaction, error)
	ListAllTransactionsByWallet(ctx context.Context, walletID string) ([]entity.WalletTransaction, error)
}

type PayoutRepository interface {
	Create(ctx context.Context, payout entity.Payout) error
	CreateWithDebit(ctx context.Context, payout entity.Payout, debit entity.WalletTransaction) error
	ApproveWithDebit(ctx context.Context, id value.PayoutID, recipientCode string, debit entity.WalletTransaction) error
	UpdateStatus(ctx context.Context, id value.PayoutID, from, to value.PayoutStatus, failureReason string) error
	FailWithRefund(ctx context.Context, id value.PayoutID, reason string, refund entity.WalletTransaction) error
	GetByID(ctx context.Context, id value.PayoutID) (entity.Payout, error)
	GetByReference(ctx context.Context, reference string) (entity.Payout, error)
	ListByUser(ctx context.Context, userID value.UserID) ([]entity.Payout, error)
	List(ctx context.Context, status value.PayoutStatus, limit, offset int) ([]entity.Payout, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id value.UserID) (entity.User, error)
}

// TransferGateway is the bank-transfer side of the payment provider.
type TransferGateway interface {
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (AccountName, error)
	CreateTransferRecipient(ctx context.Context, name, accountNumber, bankCode string) (RecipientCode, error)
	InitiateTransfer(ctx context.Context, recipientCode, reference string, amount value.Money, reason string) error
}

type (
	AccountName   = string
	RecipientCode = string
)

type Service struct {
	wallets          WalletRepository
	payouts          PayoutRepository
	users            UserRepository
	gateway          TransferGateway
	autoApproveLimit value.Money
}

func NewService(
	wallets WalletRepository,
	payouts PayoutRepository,
	users UserRepository,
	gateway TransferGateway,
	autoApproveLimit value.Money,
) *Service {
	return &Service{
		wallets:          wallets,
		payouts:          payouts,
		users:            users,
		gateway:          gateway,
		autoApproveLimit: autoApproveLimit,
	}
}

// Summary reduces the user's full ledger to received/withdrawn/balance.
func (s *Service) Summary(ctx context.Context, userID value.UserID) (ledger.Summary, error) {
	wallet, err := s.wallets.Ensure(ctx, userID)
	if err != nil {
		return ledger.Summary{}, fmt.Errorf("ensure wallet: %w", err)
	}

	txs, err := s.wallets.ListAllTransactionsByWallet(ctx, wallet.ID)
	if err != nil {
		return ledger.Summary{}, fmt.Errorf("load ledger: %w", err)
	}

	return ledger.Summarize(txs), nil
}

func (s *Service) ListTransactions(
	ctx context.Context,
	userID value.UserID,
	limit, offset int,
) ([]entity.WalletTransaction, error) {
	wallet, err := s.wallets.Ensure(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure wallet: %w", err)
	}

	txs, err := s.wallets.ListTransactions(ctx, wallet.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return txs, nil
}

// Credit writes a credit entry with its category resolved at insert time.
func (s *Service) Credit(
	ctx context.Context,
	userID value.UserID,
	amount value.Money,
	source, description, reference string,
) error {
	wallet, err := s.wallets.Ensure(ctx, userID)
	if err != nil {
		return fmt.Errorf("ensure wallet: %w", err)
	}

	tx := entity.WalletTransaction{
		ID:          xid.New().String(),
		WalletID:    wallet.ID,
		Kind:        entity.EntryCredit,
		Amount:      amount,
		Source:      source,
		Description: description,
		Category:    ledger.Categorize(source, description, entity.EntryCredit).String(),
		Reference:   reference,
		CreatedAt:   time.Now(),
	}

	if err := s.wallets.InsertTransaction(ctx, tx); err != nil {
		return fmt.Errorf("insert credit: %w", err)
	}

	logger(ctx).Info("wallet credited",
		"user_id", userID.String(),
		"amount", amount.String(),
		"category", tx.Category,
	)

	return nil
}

type PayoutParams struct {
	Amount        value.Money
	BankCode      string
	AccountNumber string
}

// RequestPayout validates the balance, resolves the destination account and
// files the payout. Small payouts from verified users are approved and
// dispatched immediately; everything else waits for an admin. Both paths
// write the wallet debit together with the status change, so a payout in
// processing always has its ledger entry.
func (s *Service) RequestPayout(
	ctx context.Context,
	userID value.UserID,
	params PayoutParams,
) (entity.Payout, error) {
	if params.Amount <= 0 {
		return entity.Payout{}, domain.NewError(errcodes.InvalidAmount, "payout amount must be positive")
	}

	wallet, err := s.wallets.Ensure(ctx, userID)
	if err != nil {
		return entity.Payout{}, fmt.Errorf("ensure wallet: %w", err)
	}

	txs, err := s.wallets.ListAllTransactionsByWallet(ctx, wallet.ID)
	if err != nil {
		return entity.Payout{}, fmt.Errorf("load ledger: %w", err)
	}

	if summary := ledger.Summarize(txs); params.Amount > summary.Balance {
		return entity.Payout{}, domain.NewError(errcodes.InsufficientBalance, "payout exceeds wallet balance")
	}

	accountName, err := s.gateway.ResolveAccount(ctx, params.AccountNumber, params.BankCode)
	if err != nil {
		return entity.Payout{}, fmt.Errorf("resolve account: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return entity.Payout{}, fmt.Errorf("get user: %w", err)
	}

	now := time.Now()
	payout := entity.Payout{
		ID:            value.NewPayoutID(),
		UserID:        userID,
		WalletID:      wallet.ID,
		Amount:        params.Amount,
		Status:        value.PayoutRequested,
		BankCode:      params.BankCode,
		AccountNumber: params.AccountNumber,
		AccountName:   accountName,
		Reference:     "po_" + xid.New().String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if params.Amount <= s.autoApproveLimit && user.Verified {
		return s.autoApprove(ctx, payout)
	}

	if err := s.payouts.Create(ctx, payout); err != nil {
		return entity.Payout{}, fmt.Errorf("create payout: %w", err)
	}

	logger(ctx).Info("payout requested", "payout_id", payout.ID.String(), "amount", payout.Amount.String())

	return payout, nil
}

func (s *Service) autoApprove(ctx context.Context, payout entity.Payout) (entity.Payout, error) {
	recipientCode, err := s.gateway.CreateTransferRecipient(
		ctx, payout.AccountName, payout.AccountNumber, payout.BankCode,
	)
	if err != nil {
		return entity.Payout{}, fmt.Errorf("create recipient: %w", err)
	}

	payout.Status = value.PayoutProcessing
	payout.RecipientCode = recipientCode

	if err := s.payouts.CreateWithDebit(ctx, payout, s.payoutDebit(payout)); err != nil {
		return entity.Payout{}, fmt.Errorf("create payout with debit: %w", err)
	}

	if err := s.gateway.InitiateTransfer(ctx, recipientCode, payout.Reference, payout.Amount, "wallet payout"); err != nil {
		// The transfer never left; roll the payout into failed and give the
		// money back so the balance stays honest.
		if failErr := s.payouts.FailWithRefund(ctx, payout.ID, "transfer initiation failed", s.payoutRefund(payout)); failErr != nil {
			logger(ctx).Error("failed to roll back payout", "payout_id", payout.ID.String(), "error", failErr)
		}

		return entity.Payout{}, fmt.Errorf("initiate transfer: %w", err)
	}

	logger(ctx).Info("payout auto-approved", "payout_id", payout.ID.String(), "amount", payout.Amount.String())

	return payout, nil
}

// Approve is the admin path: requested -> processing with the paired debit,
// then the transfer goes out.
func (s *Service) Approve(ctx context.Context, id value.PayoutID) (entity.Payout, error) {
	payout, err := s.payouts.GetByID(ctx, id)
	if err != nil {
		return entity.Payout{}, fmt.Errorf("get payout: %w", err)
	}

	if !payout.Status.CanTransitionTo(value.PayoutProcessing) {
		return entity.Payout{}, domain.NewError(
			errcodes.PayoutTransitionInvalid,
			fmt.Sprintf("cannot approve a %s payout", payout.Status),
		)
	}

	recipientCode, err := s.gateway.CreateTransferRecipient(
		ctx, payout.AccountName, payout.AccountNumber, payout.BankCode,
	)
	if err != nil {
		return entity.Payout{}, fmt.Errorf("create recipient: %w", err)
	}

	payout.RecipientCode = recipientCode
	payout.Status = value.PayoutProcessing

	if err := s.payouts.ApproveWithDebit(ctx, id, recipientCode, s.payoutDebit(payout)); err != nil {
		return entity.Payout{}, fmt.Errorf("approve payout: %w", err)
	}

	if err := s.gateway.InitiateTransfer(ctx, recipientCode, payout.Reference, payout.Amount, "wallet payout"); err != nil {
		if failErr := s.payouts.FailWithRefund(ctx, id, "transfer initiation failed", s.payoutRefund(payout)); failErr != nil {
			logger(ctx).Error("failed to roll back payout", "payout_id", id.String(), "error", failErr)
		}

		return entity.Payout{}, fmt.Errorf("initiate transfer: %w", err)
	}

	logger(ctx).Info("payout approved", "payout_id", id.String())

	return payout, nil
}

// Reject closes a requested payout without touching the wallet: no debit was
// written yet, so there is nothing to refund.
func (s *Service) Reject(ctx context.Context, id value.PayoutID, reason string) error {
	payout, err := s.payouts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get payout: %w", err)
	}

	if payout.Status != value.PayoutRequested {
		return domain.NewError(
			errcodes.PayoutTransitionInvalid,
			fmt.Sprintf("cannot reject a %s payout", payout.Status),
		)
	}

	if err := s.payouts.UpdateStatus(ctx, id, value.PayoutRequested, value.PayoutFailed, reason); err != nil {
		return fmt.Errorf("reject payout: %w", err)
	}

	logger(ctx).Info("payout rejected", "payout_id", id.String(), "reason", reason)

	return nil
}

// SettleTransfer applies a transfer webhook outcome: success finalizes the
// payout, failure refunds the debited amount.
func (s *Service) SettleTransfer(ctx context.Context, reference string, success bool, reason string) error {
	payout, err := s.payouts.GetByReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("get payout: %w", err)
	}

	if success {
		if err := s.payouts.UpdateStatus(ctx, payout.ID, value.PayoutProcessing, value.PayoutPaid, ""); err != nil {
			return fmt.Errorf("mark payout paid: %w", err)
		}

		logger(ctx).Info("payout paid", "payout_id", payout.ID.String())

		return nil
	}

	if err := s.payouts.FailWithRefund(ctx, payout.ID, reason, s.payoutRefund(payout)); err != nil {
		return fmt.Errorf("fail payout: %w", err)
	}

	logger(ctx).Info("payout failed and refunded", "payout_id", payout.ID.String(), "reason", reason)

	return nil
}

func (s *Service) ListPayouts(ctx context.Context, userID value.UserID) ([]entity.Payout, error) {
	payouts, err := s.payouts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}

	return payouts, nil
}

func (s *Service) ListAllPayouts(
	ctx context.Context,
	status value.PayoutStatus,
	limit, offset int,
) ([]entity.Payout, error) {
	payouts, err := s.payouts.List(ctx, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}

	return payouts, nil
}

func (s *Service) payoutDebit(payout entity.Payout) entity.WalletTransaction {
	return entity.WalletTransaction{
		ID:          xid.New().String(),
		WalletID:    payout.WalletID,
		Kind:        entity.EntryDebit,
		Amount:      payout.Amount,
		Source:      "payout",
		Description: "withdrawal to " + payout.AccountName,
		Category:    ledger.CategoryPayout.String(),
		Reference:   payout.Reference,
		CreatedAt:   time.Now(),
	}
}

func (s *Service) payoutRefund(payout entity.Payout) entity.WalletTransaction {
	return entity.WalletTransaction{
		ID:          xid.New().String(),
		WalletID:    payout.WalletID,
		Kind:        entity.EntryCredit,
		Amount:      payout.Amount,
		Source:      "refund",
		Description: "refund for failed payout",
		Category:    ledger.CategoryRefund.String(),
		Reference:   payout.Reference + "_refund",
		CreatedAt:   time.Now(),
	}
}
