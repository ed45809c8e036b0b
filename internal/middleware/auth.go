package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"go-conference-manager/internal/access"
	"go-conference-manager/internal/model"
	"go-conference-manager/pkg/apierror"
)

type gate interface {
	Require(ctx context.Context, token string, level access.Level) (model.User, error)
}

type contextKey string

const currentUserContextKey contextKey = "current_user"

type AuthMiddleware struct {
	chain gate
}

func NewAuthMiddleware(chain gate) *AuthMiddleware {
	return &AuthMiddleware{chain: chain}
}

// Require admits the request only when the bearer token passes every gate up
// to level. The resolved user is stored in the request context.
func (m *AuthMiddleware) Require(level access.Level) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeGateError(w, model.ErrUnauthenticated)
				return
			}

			user, err := m.chain.Require(r.Context(), token, level)
			if err != nil {
				writeGateError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.Require(access.Authenticated)(next)
}

func (m *AuthMiddleware) RequireActive(next http.Handler) http.Handler {
	return m.Require(access.Active)(next)
}

func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.Require(access.AdminPrivilege)(next)
}

func (m *AuthMiddleware) RequireSuperAdmin(next http.Handler) http.Handler {
	return m.Require(access.SuperAdminPrivilege)(next)
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(currentUserContextKey).(model.User)
	return user, ok
}

// WithUser returns a copy of ctx carrying user, as Require does.
func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, currentUserContextKey, user)
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeGateError(w http.ResponseWriter, err error) {
	apiErr, ok := apierror.Resolve(err)
	if !ok {
		slog.Error("access gate failed", "error", err)
		apiErr = apierror.Internal()
	}

	if apiErr.HTTPStatus == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSONError(w, apiErr.HTTPStatus, apiErr.Code, apiErr.Message)
}
