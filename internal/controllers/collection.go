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

type CollectionController struct {
	collectionService services.CollectionServiceInterface
	logger            *zap.Logger
}

func NewCollectionController(collectionService services.CollectionServiceInterface, logger *zap.Logger) *CollectionController {
	return &CollectionController{collectionService: collectionService, logger: logger}
}

func (c *CollectionController) GetCollections(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	collections, total, err := c.collectionService.GetCollections(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, collections, "collections listed", http.StatusOK, total)
}

func (c *CollectionController) FindCollection(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	collection, err := c.collectionService.FindCollection(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, collection, "collection found", http.StatusOK)
}

func (c *CollectionController) CreateCollection(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateCollectionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	collection, err := c.collectionService.CreateCollection(reqCtx, actor, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, collection, "collection created", http.StatusCreated)
}

func (c *CollectionController) UpdateCollection(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateCollectionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	collection, err := c.collectionService.UpdateCollection(reqCtx, actor, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, collection, "collection updated", http.StatusOK)
}

func (c *CollectionController) DeleteCollection(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.collectionService.DeleteCollection(reqCtx, actor, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "collection deleted", http.StatusOK)
}

func (c *CollectionController) AddFile(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CollectionFileDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	collection, err := c.collectionService.AddFile(reqCtx, actor, id, payload.FileID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, collection, "file added to collection", http.StatusOK)
}

func (c *CollectionController) RemoveFile(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	fileID, err := parseIDParam(ctx, "fileId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	collection, err := c.collectionService.RemoveFile(reqCtx, actor, id, fileID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, collection, "file removed from collection", http.StatusOK)
}
