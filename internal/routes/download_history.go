package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runDownloadHistoryRouter(secure *echo.Group, ctrl *controllers.DownloadHistoryController, authMW *middleware.AuthMiddleware) {
	view := authMW.RequireRoles(constants.RoleAdmin, constants.RoleModerator)

	secure.GET("/download-history", ctrl.GetHistory, view)
	secure.GET("/download-history/export", ctrl.ExportHistory, view)
}
