package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"customer-portal/internal/entities"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/utils"
)

type staticResolver struct {
	sessions map[string]*entities.User
}

func (r *staticResolver) ResolveSession(ctx context.Context, token string) (*entities.User, error) {
	user, ok := r.sessions[token]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return user, nil
}

func performRequest(t *testing.T, mw *AuthMiddleware, cookie *http.Cookie, roles ...constants.Role) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		user, err := utils.UserFromContext(c.Request().Context())
		require.NoError(t, err)
		return c.String(http.StatusOK, user.Username)
	}

	wrapped := mw.Auth(handler)
	if len(roles) > 0 {
		wrapped = mw.Auth(mw.RequireRoles(roles...)(handler))
	}
	require.NoError(t, wrapped(c))
	return rec
}

func TestAuthRejectsMissingCookie(t *testing.T) {
	mw := NewAuthMiddleware(&staticResolver{}, "portal_session", zap.NewNop())
	rec := performRequest(t, mw, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	mw := NewAuthMiddleware(&staticResolver{sessions: map[string]*entities.User{}}, "portal_session", zap.NewNop())
	rec := performRequest(t, mw, &http.Cookie{Name: "portal_session", Value: "stale"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsDeactivatedUser(t *testing.T) {
	resolver := &staticResolver{sessions: map[string]*entities.User{
		"tok": {ID: 1, Username: "ghost", Role: constants.RoleCustomer, Active: false},
	}}
	mw := NewAuthMiddleware(resolver, "portal_session", zap.NewNop())
	rec := performRequest(t, mw, &http.Cookie{Name: "portal_session", Value: "tok"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthPutsUserInContext(t *testing.T) {
	resolver := &staticResolver{sessions: map[string]*entities.User{
		"tok": {ID: 1, Username: "alice", Role: constants.RoleCustomer, Active: true},
	}}
	mw := NewAuthMiddleware(resolver, "portal_session", zap.NewNop())
	rec := performRequest(t, mw, &http.Cookie{Name: "portal_session", Value: "tok"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	resolver := &staticResolver{sessions: map[string]*entities.User{
		"customer": {ID: 1, Username: "alice", Role: constants.RoleCustomer, Active: true},
		"admin":    {ID: 2, Username: "root", Role: constants.RoleAdmin, Active: true},
	}}
	mw := NewAuthMiddleware(resolver, "portal_session", zap.NewNop())

	rec := performRequest(t, mw, &http.Cookie{Name: "portal_session", Value: "customer"}, constants.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = performRequest(t, mw, &http.Cookie{Name: "portal_session", Value: "admin"}, constants.RoleAdmin, constants.RoleModerator)
	assert.Equal(t, http.StatusOK, rec.Code)
}
