// REST models shared between the HTTP servers and their clients.
package rest

import "time"

type Wishlist struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Occasion      string    `json:"occasion,omitempty"`
	Visibility    string    `json:"visibility"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	Items         []Item    `json:"items,omitempty"`
	Goals         []Goal    `json:"goals,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateWishlistRequest struct {
	Title         string `json:"title" validate:"required,max=120"`
	Slug          string `json:"slug" validate:"omitempty,max=80,lowercase"`
	Occasion      string `json:"occasion" validate:"max=60"`
	Visibility    string `json:"visibility" validate:"required,oneof=public unlisted"`
	CoverImageURL string `json:"coverImageUrl" validate:"omitempty,url"`
}

type UpdateWishlistRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=120"`
	Occasion      *string `json:"occasion" validate:"omitempty,max=60"`
	Visibility    *string `json:"visibility" validate:"omitempty,oneof=public unlisted"`
	CoverImageURL *string `json:"coverImageUrl" validate:"omitempty,url"`
}

type Item struct {
	ID            string    `json:"id"`
	WishlistID    string    `json:"wishlistId"`
	Name          string    `json:"name"`
	PriceEstimate int64     `json:"priceEstimate"`
	QtyTotal      int       `json:"qtyTotal"`
	QtyClaimed    int       `json:"qtyClaimed"`
	ProductURL    string    `json:"productUrl,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CreateItemRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	PriceEstimate int64  `json:"priceEstimate" validate:"gte=0"`
	QtyTotal      int    `json:"qtyTotal" validate:"required,gte=1"`
	ProductURL    string `json:"productUrl" validate:"omitempty,url"`
	ImageURL      string `json:"imageUrl" validate:"omitempty,url"`
}

type UpdateItemRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=200"`
	PriceEstimate *int64  `json:"priceEstimate" validate:"omitempty,gte=0"`
	QtyTotal      *int    `json:"qtyTotal" validate:"omitempty,gte=1"`
	ProductURL    *string `json:"productUrl" validate:"omitempty,url"`
	ImageURL      *string `json:"imageUrl" validate:"omitempty,url"`
}

type Goal struct {
	ID           string  `json:"id"`
	WishlistID   string  `json:"wishlistId"`
	Title        string  `json:"title"`
	TargetAmount int64   `json:"targetAmount"`
	AmountRaised int64   `json:"amountRaised"`
	Progress     float64 `json:"progress"`
}

type CreateGoalRequest struct {
	Title        string `json:"title" validate:"required,max=120"`
	TargetAmount int64  `json:"targetAmount" validate:"required,gt=0"`
}

type Claim struct {
	ID           string     `json:"id"`
	ItemID       string     `json:"itemId"`
	SpenderID    string     `json:"spenderId,omitempty"`
	SpenderName  string     `json:"spenderName,omitempty"`
	SpenderEmail string     `json:"spenderEmail,omitempty"`
	Status       string     `json:"status"`
	AmountPaid   int64      `json:"amountPaid"`
	ExpireAt     *time.Time `json:"expireAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type CreateClaimRequest struct {
	ItemID       string `json:"itemId" validate:"required"`
	SpenderName  string `json:"spenderName" validate:"required_without=SpenderEmail,max=120"`
	SpenderEmail string `json:"spenderEmail" validate:"omitempty,email"`
}

type WalletSummary struct {
	Currency       string `json:"currency"`
	TotalReceived  int64  `json:"totalReceived"`
	TotalWithdrawn int64  `json:"totalWithdrawn"`
	Balance        int64  `json:"balance"`
}

type AdminTransactions struct {
	Summary      WalletSummary       `json:"summary"`
	Transactions []WalletTransaction `json:"transactions"`
}

type WalletTransaction struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Category    string    `json:"category"`
	Amount      int64     `json:"amount"`
	Source      string    `json:"source"`
	Description string    `json:"description,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Payout struct {
	ID            string    `json:"id"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	BankCode      string    `json:"bankCode"`
	AccountNumber string    `json:"accountNumber"`
	AccountName   string    `json:"accountName"`
	Reference     string    `json:"reference"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type RequestPayoutRequest struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	BankCode      string `json:"bankCode" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required,len=10,numeric"`
}

type Checkout struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl"`
}

type CheckoutRequest struct {
	Purpose     string `json:"purpose" validate:"required,oneof=claim_payment goal_contribution wallet_topup"`
	Email       string `json:"email" validate:"required,email"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	ClaimID     string `json:"claimId" validate:"required_if=Purpose claim_payment"`
	GoalID      string `json:"goalId" validate:"required_if=Purpose goal_contribution"`
	DisplayName string `json:"displayName" validate:"max=120"`
	Anonymous   bool   `json:"anonymous"`
}

type Contribution struct {
	ID          string    `json:"id"`
	GoalID      string    `json:"goalId"`
	Amount      int64     `json:"amount"`
	DisplayName string    `json:"displayName,omitempty"`
	Anonymous   bool      `json:"anonymous"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Reminder struct {
	ID         string     `json:"id"`
	WishlistID string     `json:"wishlistId"`
	Message    string     `json:"message"`
	RemindAt   time.Time  `json:"remindAt"`
	Recurrence string     `json:"recurrence"`
	Active     bool       `json:"active"`
	LastSentAt *time.Time `json:"lastSentAt,omitempty"`
}

type CreateReminderRequest struct {
	Message    string    `json:"message" validate:"required,max=500"`
	RemindAt   time.Time `json:"remindAt" validate:"required"`
	Recurrence string    `json:"recurrence" validate:"omitempty,oneof=none daily weekly"`
}

type UpdateReminderRequest struct {
	Message    *string    `json:"message" validate:"omitempty,max=500"`
	RemindAt   *time.Time `json:"remindAt"`
	Recurrence *string    `json:"recurrence" validate:"omitempty,oneof=none daily weekly"`
	Active     *bool      `json:"active"`
}

type RejectPayoutRequest struct {
	Reason string `json:"reason" validate:"required,max=300"`
}

type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// Error is the common error envelope returned by every endpoint.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	SupportID string    `json:"supportId,omitempty"`
}

type ErrorCode string
