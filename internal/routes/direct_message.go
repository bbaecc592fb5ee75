package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
)

func runDirectMessageRouter(secure *echo.Group, ctrl *controllers.DirectMessageController) {
	secure.POST("/messages", ctrl.Send)
	secure.GET("/messages/unread-count", ctrl.CountUnread)
	secure.GET("/messages/:userId", ctrl.GetConversation)
}
