package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	AccessTokenExpired  failure.ErrorCode = "AccessTokenExpired"
	AccessTokenInvalid  failure.ErrorCode = "AccessTokenInvalid"
	NotFound            failure.ErrorCode = "NotFound"

	InvalidUserID     failure.ErrorCode = "InvalidUserID"
	InvalidWishlistID failure.ErrorCode = "InvalidWishlistID"
	InvalidItemID     failure.ErrorCode = "InvalidItemID"
	InvalidGoalID     failure.ErrorCode = "InvalidGoalID"
	InvalidClaimID    failure.ErrorCode = "InvalidClaimID"
	InvalidPayoutID   failure.ErrorCode = "InvalidPayoutID"
	InvalidReminderID failure.ErrorCode = "InvalidReminderID"
	InvalidSlug       failure.ErrorCode = "InvalidSlug"
	InvalidAmount     failure.ErrorCode = "InvalidAmount"
	InvalidVisibility failure.ErrorCode = "InvalidVisibility"
	InvalidPaging     failure.ErrorCode = "InvalidPaging"

	UserNotFound          failure.ErrorCode = "UserNotFound"
	WishlistNotFound      failure.ErrorCode = "WishlistNotFound"
	ItemNotFound          failure.ErrorCode = "ItemNotFound"
	GoalNotFound          failure.ErrorCode = "GoalNotFound"
	ClaimNotFound         failure.ErrorCode = "ClaimNotFound"
	PayoutNotFound        failure.ErrorCode = "PayoutNotFound"
	ReminderNotFound      failure.ErrorCode = "ReminderNotFound"
	WalletNotFound        failure.ErrorCode = "WalletNotFound"
	PaymentIntentNotFound failure.ErrorCode = "PaymentIntentNotFound"
	ContributionNotFound  failure.ErrorCode = "ContributionNotFound"

	ItemFullyClaimed        failure.ErrorCode = "ItemFullyClaimed"
	ClaimTransitionInvalid  failure.ErrorCode = "ClaimTransitionInvalid"
	ClaimExpired            failure.ErrorCode = "ClaimExpired"
	SlugAlreadyInUse        failure.ErrorCode = "SlugAlreadyInUse"
	InsufficientBalance     failure.ErrorCode = "InsufficientBalance"
	PayoutTransitionInvalid failure.ErrorCode = "PayoutTransitionInvalid"
	PaymentAlreadySettled   failure.ErrorCode = "PaymentAlreadySettled"
	PaymentNotSuccessful    failure.ErrorCode = "PaymentNotSuccessful"
	PaymentGatewayError     failure.ErrorCode = "PaymentGatewayError"
	WebhookSignatureInvalid failure.ErrorCode = "WebhookSignatureInvalid"
	BankAccountUnresolved   failure.ErrorCode = "BankAccountUnresolved"
)
