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

type FaqController struct {
	faqService services.FaqServiceInterface
	logger     *zap.Logger
}

func NewFaqController(faqService services.FaqServiceInterface, logger *zap.Logger) *FaqController {
	return &FaqController{faqService: faqService, logger: logger}
}

func (c *FaqController) GetProducts(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	products, total, err := c.faqService.GetProducts(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, products, "faq products listed", http.StatusOK, total)
}

func (c *FaqController) FindProduct(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	product, err := c.faqService.FindProduct(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, product, "faq product found", http.StatusOK)
}

func (c *FaqController) CreateProduct(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateFaqProductDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	product, err := c.faqService.CreateProduct(reqCtx, actor, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, product, "faq product created", http.StatusCreated)
}

func (c *FaqController) UpdateProduct(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateFaqProductDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	product, err := c.faqService.UpdateProduct(reqCtx, actor, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, product, "faq product updated", http.StatusOK)
}

func (c *FaqController) DeleteProduct(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.faqService.DeleteProduct(reqCtx, actor, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "faq product deleted", http.StatusOK)
}

func (c *FaqController) CreateItem(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateFaqItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	item, err := c.faqService.CreateItem(reqCtx, actor, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "faq item created", http.StatusCreated)
}

func (c *FaqController) UpdateItem(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateFaqItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	item, err := c.faqService.UpdateItem(reqCtx, actor, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "faq item updated", http.StatusOK)
}

func (c *FaqController) DeleteItem(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	actor, err := utils.UserFromContext(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.faqService.DeleteItem(reqCtx, actor, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "faq item deleted", http.StatusOK)
}
