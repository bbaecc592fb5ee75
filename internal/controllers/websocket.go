package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"customer-portal/pkg/utils"
	appwebsocket "customer-portal/pkg/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cookie auth already gates the upgrade; cross-origin browsers
		// cannot attach the session cookie.
		return true
	},
}

type WebSocketController struct {
	hub    *appwebsocket.Hub
	logger *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{hub: hub, logger: logger}
}

// ServeWs upgrades an authenticated request to the push channel. The
// auth middleware runs first, so an anonymous upgrade never reaches
// this handler.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	user, err := utils.UserFromContext(ctx.Request().Context())
	if err != nil {
		return ctx.String(http.StatusUnauthorized, "unauthorized")
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("websocket upgrade failed", zap.Error(err))
		return err
	}

	client := appwebsocket.NewClient(c.hub, conn, user.ID, c.logger)
	c.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("websocket client connected", zap.Uint64("userID", user.ID))
	return nil
}
