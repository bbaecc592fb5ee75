package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runUserRouter(secure *echo.Group, ctrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)

	secure.GET("/users", ctrl.GetUsers, adminOnly)
	secure.GET("/users/:id", ctrl.FindUser, adminOnly)
	secure.PUT("/users/:id", ctrl.UpdateUser, adminOnly)
	secure.DELETE("/users/:id", ctrl.DeleteUser, adminOnly)
}
