package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runAnnouncementRouter(secure *echo.Group, ctrl *controllers.AnnouncementController, authMW *middleware.AuthMiddleware) {
	manage := authMW.RequireRoles(constants.RoleAdmin, constants.RoleModerator)

	secure.GET("/announcements", ctrl.GetAnnouncements)
	secure.GET("/announcements/:id", ctrl.FindAnnouncement)
	secure.POST("/announcements", ctrl.CreateAnnouncement, manage)
	secure.PUT("/announcements/:id", ctrl.UpdateAnnouncement, manage)
	secure.DELETE("/announcements/:id", ctrl.DeleteAnnouncement, manage)
}
