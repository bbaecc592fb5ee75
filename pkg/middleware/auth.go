package middleware

import (
	"context"

	"customer-portal/internal/entities"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/contextkeys"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionResolver turns a session cookie token into the user it belongs
// to. Implemented by the auth service on top of the Redis session store.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entities.User, error)
}

type AuthMiddleware struct {
	resolver   SessionResolver
	cookieName string
	logger     *zap.Logger
}

func NewAuthMiddleware(resolver SessionResolver, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver:   resolver,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Auth authenticates the request from its session cookie and stores the
// user in the request context.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}

		user, err := m.resolver.ResolveSession(c.Request().Context(), cookie.Value)
		if err != nil {
			m.logger.Warn("session resolution failed", zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}
		if !user.Active {
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserKey, user)
		ctx = context.WithValue(ctx, contextkeys.SessionTokenKey, cookie.Value)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRoles authorizes the already-authenticated user against an
// allowed role set. Route groups declare their set once, in the router.
func (m *AuthMiddleware) RequireRoles(allowed ...constants.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := utils.UserFromContext(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			if !user.Role.In(allowed...) {
				m.logger.Warn("role not permitted",
					zap.String("role", user.Role.String()),
					zap.String("uri", c.Request().RequestURI),
				)
				return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
			}
			return next(c)
		}
	}
}
