package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/services"
	"customer-portal/pkg/config"
	"customer-portal/pkg/contextkeys"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/utils"
)

type AuthController struct {
	authService   services.AuthServiceInterface
	sessionConfig config.SessionConfig
	logger        *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, sessionConfig config.SessionConfig, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService:   authService,
		sessionConfig: sessionConfig,
		logger:        logger,
	}
}

func (c *AuthController) Register(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.RegisterDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.authService.Register(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, user, "account created", http.StatusCreated)
}

func (c *AuthController) Login(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	token, user, err := c.authService.Login(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ctx.SetCookie(c.sessionCookie(token, int(c.sessionConfig.TTL.Seconds())))
	return utils.SuccessResponse(ctx, user, "logged in", http.StatusOK)
}

func (c *AuthController) Logout(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	token, ok := reqCtx.Value(contextkeys.SessionTokenKey).(string)
	if ok && token != "" {
		if err := c.authService.Logout(reqCtx, token); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}

	// Expire the cookie regardless of session state.
	ctx.SetCookie(c.sessionCookie("", -1))
	return utils.SuccessResponse(ctx, nil, "logged out", http.StatusOK)
}

func (c *AuthController) Me(ctx echo.Context) error {
	user, err := utils.UserFromContext(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result := services.UserToDTO(user)
	return utils.SuccessResponse(ctx, result, "current user", http.StatusOK)
}

func (c *AuthController) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.sessionConfig.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.sessionConfig.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
