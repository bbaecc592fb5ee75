package controllers

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"customer-portal/internal/services"
	"customer-portal/pkg/utils"
)

type DownloadHistoryController struct {
	historyService services.DownloadHistoryServiceInterface
	logger         *zap.Logger
}

func NewDownloadHistoryController(historyService services.DownloadHistoryServiceInterface, logger *zap.Logger) *DownloadHistoryController {
	return &DownloadHistoryController{historyService: historyService, logger: logger}
}

func (c *DownloadHistoryController) GetHistory(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	history, total, err := c.historyService.GetHistory(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, history, "download history listed", http.StatusOK, total)
}

func (c *DownloadHistoryController) ExportHistory(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	f, err := c.historyService.ExportHistory(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="download_history.xlsx"`)
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
