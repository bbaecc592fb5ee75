package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runStatsRouter(secure *echo.Group, ctrl *controllers.StatsController, authMW *middleware.AuthMiddleware) {
	secure.GET("/stats", ctrl.GetStats, authMW.RequireRoles(constants.RoleAdmin, constants.RoleModerator))
}
