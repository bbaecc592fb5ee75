package routes

import (
	"github.com/labstack/echo/v4"

	"customer-portal/internal/controllers"
)

// Forum routes are open to every authenticated role; author/moderator
// checks happen in the service.
func runForumRouter(secure *echo.Group, ctrl *controllers.ForumController) {
	secure.GET("/forum/threads", ctrl.GetThreads)
	secure.GET("/forum/threads/:id", ctrl.FindThread)
	secure.POST("/forum/threads", ctrl.CreateThread)
	secure.DELETE("/forum/threads/:id", ctrl.DeleteThread)
	secure.GET("/forum/threads/:id/posts", ctrl.GetPosts)
	secure.POST("/forum/threads/:id/posts", ctrl.CreatePost)
	secure.DELETE("/forum/posts/:postId", ctrl.DeletePost)
}
