package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/middleware"
)

func runFaqRouter(secure *echo.Group, ctrl *controllers.FaqController, authMW *middleware.AuthMiddleware) {
	manage := authMW.RequireRoles(constants.RoleAdmin, constants.RoleModerator)

	secure.GET("/faq/products", ctrl.GetProducts)
	secure.GET("/faq/products/:id", ctrl.FindProduct)
	secure.POST("/faq/products", ctrl.CreateProduct, manage)
	secure.PUT("/faq/products/:id", ctrl.UpdateProduct, manage)
	secure.DELETE("/faq/products/:id", ctrl.DeleteProduct, manage)

	secure.POST("/faq/items", ctrl.CreateItem, manage)
	secure.PUT("/faq/items/:id", ctrl.UpdateItem, manage)
	secure.DELETE("/faq/items/:id", ctrl.DeleteItem, manage)
}
