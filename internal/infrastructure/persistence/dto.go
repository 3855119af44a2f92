package persistence

import (
	"time"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
)

// Row schemas map database columns onto primitives; conversion to domain
// entities happens here and nowhere else.

type userSchema struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	Role      string    `db:"role"`
	Verified  bool      `db:"verified"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s userSchema) toDomain() entity.User {
	return entity.User{
		ID:        value.UserID(s.ID),
		Email:     s.Email,
		Name:      s.Name,
		Role:      value.Role(s.Role),
		Verified:  s.Verified,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type wishlistSchema struct {
	ID            string    `db:"id"`
	OwnerID       string    `db:"owner_id"`
	Title         string    `db:"title"`
	Slug          string    `db:"slug"`
	Occasion      string    `db:"occasion"`
	Visibility    string    `db:"visibility"`
	CoverImageURL string    `db:"cover_image_url"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func fromWishlist(e entity.Wishlist) wishlistSchema {
	return wishlistSchema{
		ID:            e.ID.String(),
		OwnerID:       e.OwnerID.String(),
		Title:         e.Title,
		Slug:          e.Slug,
		Occasion:      e.Occasion,
		Visibility:    string(e.Visibility),
		CoverImageURL: e.CoverImageURL,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (s wishlistSchema) toDomain() entity.Wishlist {
	return entity.Wishlist{
		ID:            value.WishlistID(s.ID),
		OwnerID:       value.UserID(s.OwnerID),
		Title:         s.Title,
		Slug:          s.Slug,
		Occasion:      s.Occasion,
		Visibility:    value.Visibility(s.Visibility),
		CoverImageURL: s.CoverImageURL,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

type itemSchema struct {
	ID            string    `db:"id"`
	WishlistID    string    `db:"wishlist_id"`
	Name          string    `db:"name"`
	PriceEstimate int64     `db:"price_estimate"`
	QtyTotal      int       `db:"qty_total"`
	QtyClaimed    int       `db:"qty_claimed"`
	ProductURL    string    `db:"product_url"`
	ImageURL      string    `db:"image_url"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func fromItem(e entity.Item) itemSchema {
	return itemSchema{
		ID:            e.ID.String(),
		WishlistID:    e.WishlistID.String(),
		Name:          e.Name,
		PriceEstimate: e.PriceEstimate.Kobo(),
		QtyTotal:      e.QtyTotal,
		QtyClaimed:    e.QtyClaimed,
		ProductURL:    e.ProductURL,
		ImageURL:      e.ImageURL,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (s itemSchema) toDomain() entity.Item {
	return entity.Item{
		ID:            value.ItemID(s.ID),
		WishlistID:    value.WishlistID(s.WishlistID),
		Name:          s.Name,
		PriceEstimate: value.Money(s.PriceEstimate),
		QtyTotal:      s.QtyTotal,
		QtyClaimed:    s.QtyClaimed,
		ProductURL:    s.ProductURL,
		ImageURL:      s.ImageURL,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

type goalSchema struct {
	ID           string    `db:"id"`
	WishlistID   string    `db:"wishlist_id"`
	Title        string    `db:"title"`
	TargetAmount int64     `db:"target_amount"`
	AmountRaised int64     `db:"amount_raised"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func fromGoal(e entity.Goal) goalSchema {
	return goalSchema{
		ID:           e.ID.String(),
		WishlistID:   e.WishlistID.String(),
		Title:        e.Title,
		TargetAmount: e.TargetAmount.Kobo(),
		AmountRaised: e.AmountRaised.Kobo(),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (s goalSchema) toDomain() entity.Goal {
	return entity.Goal{
		ID:           value.GoalID(s.ID),
		WishlistID:   value.WishlistID(s.WishlistID),
		Title:        s.Title,
		TargetAmount: value.Money(s.TargetAmount),
		AmountRaised: value.Money(s.AmountRaised),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type claimSchema struct {
	ID           string     `db:"id"`
	ItemID       string     `db:"item_id"`
	SpenderID    *string    `db:"spender_id"`
	SpenderName  string     `db:"spender_name"`
	SpenderEmail string     `db:"spender_email"`
	Status       string     `db:"status"`
	AmountPaid   int64      `db:"amount_paid"`
	ExpireAt     *time.Time `db:"expire_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func fromClaim(e entity.Claim) claimSchema {
	s := claimSchema{
		ID:           e.ID.String(),
		ItemID:       e.ItemID.String(),
		SpenderName:  e.SpenderName,
		SpenderEmail: e.SpenderEmail,
		Status:       e.Status.String(),
		AmountPaid:   e.AmountPaid.Kobo(),
		ExpireAt:     e.ExpireAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}

	if e.SpenderID != "" {
		spenderID := e.SpenderID.String()
		s.SpenderID = &spenderID
	}

	return s
}

func (s claimSchema) toDomain() entity.Claim {
	c := entity.Claim{
		ID:           value.ClaimID(s.ID),
		ItemID:       value.ItemID(s.ItemID),
		SpenderName:  s.SpenderName,
		SpenderEmail: s.SpenderEmail,
		Status:       value.ClaimStatus(s.Status),
		AmountPaid:   value.Money(s.AmountPaid),
		ExpireAt:     s.ExpireAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	if s.SpenderID != nil {
		c.SpenderID = value.UserID(*s.SpenderID)
	}

	return c
}

type contributionSchema struct {
	ID          string    `db:"id"`
	GoalID      string    `db:"goal_id"`
	Amount      int64     `db:"amount"`
	DisplayName string    `db:"display_name"`
	Anonymous   bool      `db:"anonymous"`
	Reference   string    `db:"reference"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

func fromContribution(e entity.Contribution) contributionSchema {
	return contributionSchema{
		ID:          e.ID,
		GoalID:      e.GoalID.String(),
		Amount:      e.Amount.Kobo(),
		DisplayName: e.DisplayName,
		Anonymous:   e.Anonymous,
		Reference:   e.Reference,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

func (s contributionSchema) toDomain() entity.Contribution {
	return entity.Contribution{
		ID:          s.ID,
		GoalID:      value.GoalID(s.GoalID),
		Amount:      value.Money(s.Amount),
		DisplayName: s.DisplayName,
		Anonymous:   s.Anonymous,
		Reference:   s.Reference,
		Status:      value.ContributionStatus(s.Status),
		CreatedAt:   s.CreatedAt,
	}
}

type walletSchema struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Currency  string    `db:"currency"`
	CreatedAt time.Time `db:"created_at"`
}

func (s walletSchema) toDomain() entity.Wallet {
	return entity.Wallet{
		ID:        s.ID,
		UserID:    value.UserID(s.UserID),
		Currency:  s.Currency,
		CreatedAt: s.CreatedAt,
	}
}

type walletTransactionSchema struct {
	ID          string    `db:"id"`
	WalletID    string    `db:"wallet_id"`
	Kind        string    `db:"kind"`
	Amount      int64     `db:"amount"`
	Source      string    `db:"source"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	Reference   string    `db:"reference"`
	CreatedAt   time.Time `db:"created_at"`
}

func fromWalletTransaction(e entity.WalletTransaction) walletTransactionSchema {
	return walletTransactionSchema{
		ID:          e.ID,
		WalletID:    e.WalletID,
		Kind:        string(e.Kind),
		Amount:      e.Amount.Kobo(),
		Source:      e.Source,
		Description: e.Description,
		Category:    e.Category,
		Reference:   e.Reference,
		CreatedAt:   e.CreatedAt,
	}
}

func (s walletTransactionSchema) toDomain() entity.WalletTransaction {
	return entity.WalletTransaction{
		ID:          s.ID,
		WalletID:    s.WalletID,
		Kind:        entity.EntryKind(s.Kind),
		Amount:      value.Money(s.Amount),
		Source:      s.Source,
		Description: s.Description,
		Category:    s.Category,
		Reference:   s.Reference,
		CreatedAt:   s.CreatedAt,
	}
}

type payoutSchema struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	WalletID      string    `db:"wallet_id"`
	Amount        int64     `db:"amount"`
	Status        string    `db:"status"`
	BankCode      string    `db:"bank_code"`
	AccountNumber string    `db:"account_number"`
	AccountName   string    `db:"account_name"`
	RecipientCode string    `db:"recipient_code"`
	Reference     string    `db:"reference"`
	FailureReason string    `db:"failure_reason"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func fromPayout(e entity.Payout) payoutSchema {
	return payoutSchema{
		ID:            e.ID.String(),
		UserID:        e.UserID.String(),
		WalletID:      e.WalletID,
		Amount:        e.Amount.Kobo(),
		Status:        e.Status.String(),
		BankCode:      e.BankCode,
		AccountNumber: e.AccountNumber,
		AccountName:   e.AccountName,
		RecipientCode: e.RecipientCode,
		Reference:     e.Reference,
		FailureReason: e.FailureReason,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (s payoutSchema) toDomain() entity.Payout {
	return entity.Payout{
		ID:            value.PayoutID(s.ID),
		UserID:        value.UserID(s.UserID),
		WalletID:      s.WalletID,
		Amount:        value.Money(s.Amount),
		Status:        value.PayoutStatus(s.Status),
		BankCode:      s.BankCode,
		AccountNumber: s.AccountNumber,
		AccountName:   s.AccountName,
		RecipientCode: s.RecipientCode,
		Reference:     s.Reference,
		FailureReason: s.FailureReason,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

type reminderSchema struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	WishlistID string     `db:"wishlist_id"`
	Message    string     `db:"message"`
	RemindAt   time.Time  `db:"remind_at"`
	Recurrence string     `db:"recurrence"`
	Active     bool       `db:"active"`
	LastSentAt *time.Time `db:"last_sent_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

func fromReminder(e entity.Reminder) reminderSchema {
	return reminderSchema{
		ID:         e.ID.String(),
		UserID:     e.UserID.String(),
		WishlistID: e.WishlistID.String(),
		Message:    e.Message,
		RemindAt:   e.RemindAt,
		Recurrence: string(e.Recurrence),
		Active:     e.Active,
		LastSentAt: e.LastSentAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (s reminderSchema) toDomain() entity.Reminder {
	return entity.Reminder{
		ID:         value.ReminderID(s.ID),
		UserID:     value.UserID(s.UserID),
		WishlistID: value.WishlistID(s.WishlistID),
		Message:    s.Message,
		RemindAt:   s.RemindAt,
		Recurrence: value.Recurrence(s.Recurrence),
		Active:     s.Active,
		LastSentAt: s.LastSentAt,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

type paymentIntentSchema struct {
	Reference   string     `db:"reference"`
	Purpose     string     `db:"purpose"`
	ClaimID     *string    `db:"claim_id"`
	GoalID      *string    `db:"goal_id"`
	UserID      *string    `db:"user_id"`
	Amount      int64      `db:"amount"`
	Email       string     `db:"email"`
	DisplayName string     `db:"display_name"`
	Anonymous   bool       `db:"anonymous"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	SettledAt   *time.Time `db:"settled_at"`
}

func fromPaymentIntent(e entity.PaymentIntent) paymentIntentSchema {
	s := paymentIntentSchema{
		Reference:   e.Reference,
		Purpose:     string(e.Purpose),
		Amount:      e.Amount.Kobo(),
		Email:       e.Email,
		DisplayName: e.DisplayName,
		Anonymous:   e.Anonymous,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		SettledAt:   e.SettledAt,
	}

	if e.ClaimID != "" {
		claimID := e.ClaimID.String()
		s.ClaimID = &claimID
	}

	if e.GoalID != "" {
		goalID := e.GoalID.String()
		s.GoalID = &goalID
	}

	if e.UserID != "" {
		userID := e.UserID.String()
		s.UserID = &userID
	}

	return s
}

func (s paymentIntentSchema) toDomain() entity.PaymentIntent {
	e := entity.PaymentIntent{
		Reference:   s.Reference,
		Purpose:     entity.PaymentPurpose(s.Purpose),
		Amount:      value.Money(s.Amount),
		Email:       s.Email,
		DisplayName: s.DisplayName,
		Anonymous:   s.Anonymous,
		Status:      entity.PaymentIntentStatus(s.Status),
		CreatedAt:   s.CreatedAt,
		SettledAt:   s.SettledAt,
	}

	if s.ClaimID != nil {
		e.ClaimID = value.ClaimID(*s.ClaimID)
	}

	if s.GoalID != nil {
		e.GoalID = value.GoalID(*s.GoalID)
	}

	if s.UserID != nil {
		e.UserID = value.UserID(*s.UserID)
	}

	return e
}
