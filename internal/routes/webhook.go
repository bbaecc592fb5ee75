package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runWebhookRouter(secure *echo.Group, ctrl *controllers.WebhookController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequireRoles(constants.RoleAdmin)

	secure.GET("/webhooks", ctrl.GetWebhooks, adminOnly)
	secure.GET("/webhooks/:id", ctrl.FindWebhook, adminOnly)
	secure.POST("/webhooks", ctrl.CreateWebhook, adminOnly)
	secure.PUT("/webhooks/:id", ctrl.UpdateWebhook, adminOnly)
	secure.DELETE("/webhooks/:id", ctrl.DeleteWebhook, adminOnly)
}
