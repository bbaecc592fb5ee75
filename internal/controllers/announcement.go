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

type AnnouncementController struct {
	announcementService services.AnnouncementServiceInterface
	logger              *zap.Logger
}

func NewAnnouncementController(announcementService services.AnnouncementServiceInterface, logger *zap.Logger) *AnnouncementController {
	return &AnnouncementController{announcementService: announcementService, logger: logger}
}

func (c *AnnouncementController) GetAnnouncements(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	announcements, total, err := c.announcementService.GetAnnouncements(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, announcements, "announcements listed", http.StatusOK, total)
}

func (c *AnnouncementController) FindAnnouncement(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	announcement, err := c.announcementService.FindAnnouncement(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, announcement, "announcement found", http.StatusOK)
}

func (c *AnnouncementController) CreateAnnouncement(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateAnnouncementDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	announcement, err := c.announcementService.CreateAnnouncement(reqCtx, actor, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, announcement, "announcement created", http.StatusCreated)
}

func (c *AnnouncementController) UpdateAnnouncement(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateAnnouncementDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	announcement, err := c.announcementService.UpdateAnnouncement(reqCtx, actor, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, announcement, "announcement updated", http.StatusOK)
}

func (c *AnnouncementController) DeleteAnnouncement(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.announcementService.DeleteAnnouncement(reqCtx, actor, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "announcement deleted", http.StatusOK)
}
