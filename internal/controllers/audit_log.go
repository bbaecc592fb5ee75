package controllers

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"customer-portal/internal/services"
	"customer-portal/pkg/utils"
)

type AuditLogController struct {
	auditService services.AuditLogServiceInterface
	logger       *zap.Logger
}

func NewAuditLogController(auditService services.AuditLogServiceInterface, logger *zap.Logger) *AuditLogController {
	return &AuditLogController{auditService: auditService, logger: logger}
}

func (c *AuditLogController) GetLogs(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	logs, total, err := c.auditService.GetLogs(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, logs, "audit logs listed", http.StatusOK, total)
}

func (c *AuditLogController) ExportLogs(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	f, err := c.auditService.ExportLogs(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="audit_logs.xlsx"`)
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
