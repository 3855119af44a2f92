package reply

import (
	"context"
	"errors"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"heyspender/pkg/contextx"
	"heyspender/pkg/errcodes"
	"heyspender/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// coder is implemented by domain errors that carry a stable error code.
type coder interface {
	ErrorCode() failure.ErrorCode
	Error() string
}

//nolint:gochecknoglobals
var codeStatuses = map[failure.ErrorCode]int{
	errcodes.ValidationError:         http.StatusBadRequest,
	errcodes.InvalidUserID:           http.StatusBadRequest,
	errcodes.InvalidWishlistID:       http.StatusBadRequest,
	errcodes.InvalidItemID:           http.StatusBadRequest,
	errcodes.InvalidGoalID:           http.StatusBadRequest,
	errcodes.InvalidClaimID:          http.StatusBadRequest,
	errcodes.InvalidPayoutID:         http.StatusBadRequest,
	errcodes.InvalidReminderID:       http.StatusBadRequest,
	errcodes.InvalidSlug:             http.StatusBadRequest,
	errcodes.InvalidAmount:           http.StatusBadRequest,
	errcodes.InvalidVisibility:       http.StatusBadRequest,
	errcodes.InvalidPaging:           http.StatusBadRequest,
	errcodes.BankAccountUnresolved:   http.StatusBadRequest,
	errcodes.AccessTokenExpired:      http.StatusUnauthorized,
	errcodes.AccessTokenInvalid:      http.StatusUnauthorized,
	errcodes.WebhookSignatureInvalid: http.StatusUnauthorized,
	errcodes.Forbidden:               http.StatusForbidden,
	errcodes.NotFound:                http.StatusNotFound,
	errcodes.UserNotFound:            http.StatusNotFound,
	errcodes.WishlistNotFound:        http.StatusNotFound,
	errcodes.ItemNotFound:            http.StatusNotFound,
	errcodes.GoalNotFound:            http.StatusNotFound,
	errcodes.ClaimNotFound:           http.StatusNotFound,
	errcodes.PayoutNotFound:          http.StatusNotFound,
	errcodes.ReminderNotFound:        http.StatusNotFound,
	errcodes.WalletNotFound:          http.StatusNotFound,
	errcodes.ContributionNotFound:    http.StatusNotFound,
	errcodes.PaymentIntentNotFound:   http.StatusNotFound,
	errcodes.ItemFullyClaimed:        http.StatusConflict,
	errcodes.ClaimTransitionInvalid:  http.StatusConflict,
	errcodes.PayoutTransitionInvalid: http.StatusConflict,
	errcodes.SlugAlreadyInUse:        http.StatusConflict,
	errcodes.PaymentAlreadySettled:   http.StatusConflict,
	errcodes.ClaimExpired:            http.StatusUnprocessableEntity,
	errcodes.InsufficientBalance:     http.StatusUnprocessableEntity,
	errcodes.PaymentNotSuccessful:    http.StatusUnprocessableEntity,
	errcodes.PaymentGatewayError:     http.StatusBadGateway,
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	logger(ctx).Error("error", logx.Error(err))

	var coded coder
	if errors.As(err, &coded) {
		response := errorResponse{
			Code:      coded.ErrorCode().String(),
			Message:   coded.Error(),
			SupportID: supportID(ctx),
		}

		status, ok := codeStatuses[coded.ErrorCode()]
		if !ok {
			status = http.StatusInternalServerError
		}

		JSON(ctx, w, status, response)

		return
	}

	response := errorResponse{
		Code:      failure.Code(err).String(),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	}

	switch {
	case failure.IsInvalidArgumentError(err):
		response.WithDefaultCode(errcodes.ValidationError)
		JSON(ctx, w, http.StatusBadRequest, response)
	case failure.IsNotFoundError(err):
		response.WithDefaultCode(errcodes.NotFound)
		JSON(ctx, w, http.StatusNotFound, response)
	case failure.IsUnauthorizedError(err):
		JSON(ctx, w, http.StatusUnauthorized, response)
	case failure.IsForbiddenError(err):
		response.WithDefaultCode(errcodes.Forbidden)
		JSON(ctx, w, http.StatusForbidden, response)
	case failure.IsConflictError(err):
		JSON(ctx, w, http.StatusConflict, response)
	case failure.IsUnprocessableEntityError(err):
		JSON(ctx, w, http.StatusUnprocessableEntity, response)
	default:
		response.WithDefaultCode(errcodes.InternalServerError)
		JSON(ctx, w, http.StatusInternalServerError, response)
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
