package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"go-conference-manager/internal/access"
	"go-conference-manager/internal/model"
	"go-conference-manager/pkg/apierror"
)

type stubGate struct {
	user      model.User
	err       error
	lastToken string
	lastLevel access.Level
}

func (g *stubGate) Require(_ context.Context, token string, level access.Level) (model.User, error) {
	g.lastToken = token
	g.lastLevel = level
	return g.user, g.err
}

func TestAuthMiddleware_StoresUserInContext(t *testing.T) {
	t.Parallel()

	gate := &stubGate{user: model.User{ID: 5, Role: model.RoleAdmin, Enabled: true}}
	mw := NewAuthMiddleware(gate)

	var seen model.User
	handler := mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		seen = user
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, int64(5), seen.ID)
	require.Equal(t, "abc.def.ghi", gate.lastToken)
	require.Equal(t, access.AdminPrivilege, gate.lastLevel)
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	t.Parallel()

	gate := &stubGate{}
	handler := NewAuthMiddleware(gate).RequireAuth(okHandler())

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic dXNlcjpwYXNz", "token-without-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, header)
		require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	}
	require.Empty(t, gate.lastToken)
}

func TestAuthMiddleware_GateErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{err: fmt.Errorf("%w: %w", model.ErrUnauthenticated, model.ErrInvalidToken), status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{err: model.ErrInactiveAccount, status: http.StatusForbidden, code: "INACTIVE_ACCOUNT"},
		{err: model.ErrInsufficientPrivilege, status: http.StatusForbidden, code: "FORBIDDEN"},
		{err: errors.New("db down"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		handler := NewAuthMiddleware(&stubGate{err: tc.err}).RequireSuperAdmin(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, tc.status, rec.Code, tc.err.Error())
		require.Contains(t, rec.Body.String(), `"code":"`+tc.code+`"`)

		if shared, ok := apierror.Resolve(tc.err); ok {
			require.Contains(t, rec.Body.String(), `"message":"`+shared.Message+`"`)
		}
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	t.Parallel()

	_, ok := UserFromContext(context.Background())
	require.False(t, ok)

	user, ok := UserFromContext(WithUser(context.Background(), model.User{ID: 3}))
	require.True(t, ok)
	require.Equal(t, int64(3), user.ID)
}
