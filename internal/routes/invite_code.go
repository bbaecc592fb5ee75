package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runInviteCodeRouter(secure *echo.Group, ctrl *controllers.InviteCodeController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)

	secure.GET("/invite-codes", ctrl.GetInviteCodes, adminOnly)
	secure.POST("/invite-codes", ctrl.CreateInviteCode, adminOnly)
	secure.DELETE("/invite-codes/:id", ctrl.DeleteInviteCode, adminOnly)
}
