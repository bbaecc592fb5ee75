package main

import (
	"context"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"customer-portal/internal/routes"
	"customer-portal/pkg/config"
	"customer-portal/pkg/database/postgresql"
	apperrors "customer-portal/pkg/errors"
	applogger "customer-portal/pkg/logger"
	"customer-portal/pkg/utils"
	"customer-portal/pkg/validation"
	"customer-portal/pkg/websocket"
)

func main() {
	e := echo.New()
	e.HideBanner = true

	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	e.Validator = validation.New()

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	hub := websocket.NewHub(logger)

	if err := routes.InitRouter(e, dbConn, redisClient, hub, cfg, logger); err != nil {
		logger.Fatal("router init failed", zap.Error(err))
	}

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
