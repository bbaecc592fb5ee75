package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
)

func runAuthRouter(api *echo.Group, secure *echo.Group, ctrl *controllers.AuthController) {
	api.POST("/auth/register", ctrl.Register)
	api.POST("/auth/login", ctrl.Login)
	secure.POST("/auth/logout", ctrl.Logout)
	secure.GET("/auth/me", ctrl.Me)
}
