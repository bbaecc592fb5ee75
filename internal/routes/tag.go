package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runTagRouter(secure *echo.Group, ctrl *controllers.TagController, authMW *middleware.AuthMiddleware) {
	manage := authMW.RequireRoles(constants.RoleAdmin, constants.RoleModerator)

	secure.GET("/tags", ctrl.GetTags)
	secure.GET("/tags/:id", ctrl.FindTag)
	secure.POST("/tags", ctrl.CreateTag, manage)
	secure.PUT("/tags/:id", ctrl.UpdateTag, manage)
	secure.DELETE("/tags/:id", ctrl.DeleteTag, manage)
}
