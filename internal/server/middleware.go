package server

import (
	"context"
	"net/http"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/golang-jwt/jwt/v5"

	"heyspender/internal/domain/entity"
	"heyspender/internal/domain/value"
	"heyspender/pkg/contextx"
	"heyspender/pkg/errcodes"
	"heyspender/pkg/httpx/reply"
)

type userLoader interface {
	GetByID(ctx context.Context, id value.UserID) (entity.User, error)
}

// AuthMiddleware authenticates requests with an HMAC-signed bearer token.
// The subject claim is the user id; it lands in the context for handlers to
// pick up.
type AuthMiddleware struct {
	secret []byte
	users  userLoader
}

func NewAuthMiddleware(secret string, users userLoader) AuthMiddleware {
	return AuthMiddleware{secret: []byte(secret), users: users}
}

func (m AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.authenticate(r)
		if err != nil {
			reply.Error(r.Context(), w, err)
			return
		}

		ctx := contextx.WithUserID(r.Context(), contextx.UserID(userID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalUser attaches the user to the context when a bearer token is
// present but lets anonymous requests through. A token that is present and
// invalid is still rejected.
func (m AuthMiddleware) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.authenticate(r)
		if err != nil {
			reply.Error(r.Context(), w, err)
			return
		}

		ctx := contextx.WithUserID(r.Context(), contextx.UserID(userID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin builds on RequireUser and additionally checks the stored
// role, so a stale token cannot outlive a demotion.
func (m AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := userFromContext(ctx)
		if err != nil {
			reply.Error(ctx, w, err)
			return
		}

		user, err := m.users.GetByID(ctx, userID)
		if err != nil {
			reply.Error(ctx, w, err)
			return
		}

		if user.Role != value.RoleAdmin {
			reply.Error(ctx, w, failure.NewForbiddenError(
				"admin role required",
				failure.WithCode(errcodes.Forbidden),
			))
			return
		}

		next.ServeHTTP(w, r)
	}))
}

func (m AuthMiddleware) authenticate(r *http.Request) (value.UserID, error) {
	header := r.Header.Get("Authorization")

	rawToken, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || rawToken == "" {
		return "", failure.NewUnauthorizedError(
			"missing bearer token",
			failure.WithCode(errcodes.AccessTokenInvalid),
		)
	}

	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		code := errcodes.AccessTokenInvalid
		if strings.Contains(err.Error(), jwt.ErrTokenExpired.Error()) {
			code = errcodes.AccessTokenExpired
		}

		return "", failure.NewUnauthorizedError("invalid token", failure.WithCode(code))
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", failure.NewUnauthorizedError(
			"token has no subject",
			failure.WithCode(errcodes.AccessTokenInvalid),
		)
	}

	userID, err := value.ParseUserID(subject)
	if err != nil {
		return "", failure.NewUnauthorizedError(
			"token subject is not a user id",
			failure.WithCode(errcodes.AccessTokenInvalid),
		)
	}

	return userID, nil
}

func userFromContext(ctx context.Context) (value.UserID, error) {
	userID, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return "", failure.NewUnauthorizedError(
			"no authenticated user",
			failure.WithCode(errcodes.AccessTokenInvalid),
		)
	}

	return value.UserID(userID.String()), nil
}
