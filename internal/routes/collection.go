package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runCollectionRouter(secure *echo.Group, ctrl *controllers.CollectionController, authMW *middleware.AuthMiddleware) {
	manage := authMW.RequireRoles(constants.RoleAdmin, constants.RoleModerator)

	secure.GET("/collections", ctrl.GetCollections)
	secure.GET("/collections/:id", ctrl.FindCollection)
	secure.POST("/collections", ctrl.CreateCollection, manage)
	secure.PUT("/collections/:id", ctrl.UpdateCollection, manage)
	secure.DELETE("/collections/:id", ctrl.DeleteCollection, manage)
	secure.POST("/collections/:id/files", ctrl.AddFile, manage)
	secure.DELETE("/collections/:id/files/:fileId", ctrl.RemoveFile, manage)
}
