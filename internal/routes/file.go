package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runFileRouter(secure *echo.Group, ctrl *controllers.FileController, authMW *middleware.AuthMiddleware) {
	manage := authMW.RequireRoles(constants.RoleAdmin, constants.RoleModerator)

	secure.GET("/files", ctrl.GetFiles)
	secure.GET("/files/:id", ctrl.FindFile)
	secure.GET("/files/:id/download", ctrl.Download)
	secure.POST("/files", ctrl.Upload, manage)
	secure.PUT("/files/:id", ctrl.UpdateFile, manage)
	secure.DELETE("/files/:id", ctrl.DeleteFile, manage)
}
