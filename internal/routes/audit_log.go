package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runAuditLogRouter(secure *echo.Group, ctrl *controllers.AuditLogController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)

	secure.GET("/audit-logs", ctrl.GetLogs, adminOnly)
	secure.GET("/audit-logs/export", ctrl.ExportLogs, adminOnly)
}
