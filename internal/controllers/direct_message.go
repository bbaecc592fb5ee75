package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/services"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/utils"
)

type DirectMessageController struct {
	messageService services.DirectMessageServiceInterface
	logger         *zap.Logger
}

func NewDirectMessageController(messageService services.DirectMessageServiceInterface, logger *zap.Logger) *DirectMessageController {
	return &DirectMessageController{messageService: messageService, logger: logger}
}

func (c *DirectMessageController) Send(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SendDirectMessageDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	message, err := c.messageService.Send(reqCtx, actor, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, message, "message sent", http.StatusCreated)
}

func (c *DirectMessageController) GetConversation(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	peerID, err := parseIDParam(ctx, "userId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	messages, total, err := c.messageService.GetConversation(reqCtx, actor, peerID, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, messages, "conversation listed", http.StatusOK, total)
}

func (c *DirectMessageController) CountUnread(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	count, err := c.messageService.CountUnread(reqCtx, actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]uint64{"unread": count}, "unread count", http.StatusOK)
}
