package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
)

func runNotificationRouter(secure *echo.Group, ctrl *controllers.NotificationController) {
	secure.GET("/notifications", ctrl.GetMyNotifications)
	secure.PUT("/notifications/:id/read", ctrl.MarkRead)
	secure.PUT("/notifications/read-all", ctrl.MarkAllRead)
	secure.DELETE("/notifications/:id", ctrl.DeleteNotification)
}
