package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"customer-portal/internal/controllers"
	"customer-portal/internal/listeners"
	"customer-portal/internal/repositories"
	"customer-portal/internal/services"
	"customer-portal/pkg/config"
	"customer-portal/pkg/eventbus"
	"customer-portal/pkg/filestorage"
	"customer-portal/pkg/middleware"
	"customer-portal/pkg/websocket"
)

// InitRouter wires repositories, services, controllers and routes. The
// hub is passed in so main can own its lifecycle.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, hub *websocket.Hub, cfg *config.Config, logger *zap.Logger) error {
	api := e.Group("/api")

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Upload.BasePath)
	if err != nil {
		return err
	}

	txManager := repositories.NewTxManager(dbConn)
	bus := eventbus.New(logger)
	broadcaster := services.NewBroadcaster(hub, bus, logger)

	// Repositories.
	userRepo := repositories.NewUserRepository(dbConn)
	inviteRepo := repositories.NewInviteCodeRepository(dbConn)
	fileRepo := repositories.NewFileRepository(dbConn)
	historyRepo := repositories.NewDownloadHistoryRepository(dbConn)
	faqRepo := repositories.NewFaqRepository(dbConn)
	announcementRepo := repositories.NewAnnouncementRepository(dbConn)
	notificationRepo := repositories.NewNotificationRepository(dbConn)
	tagRepo := repositories.NewTagRepository(dbConn)
	collectionRepo := repositories.NewCollectionRepository(dbConn)
	forumRepo := repositories.NewForumRepository(dbConn)
	messageRepo := repositories.NewDirectMessageRepository(dbConn)
	auditRepo := repositories.NewAuditLogRepository(dbConn)
	webhookRepo := repositories.NewWebhookRepository(dbConn)
	statsRepo := repositories.NewStatsRepository(dbConn)
	sessionRepo := repositories.NewSessionRepository(redisClient)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// Services.
	auditService := services.NewAuditLogService(auditRepo, logger)
	authService := services.NewAuthService(userRepo, inviteRepo, sessionRepo, txManager, broadcaster, cfg.Session, logger)
	userService := services.NewUserService(userRepo, auditService, broadcaster, logger)
	inviteService := services.NewInviteCodeService(inviteRepo, auditService, broadcaster, logger)
	fileService := services.NewFileService(fileRepo, historyRepo, fileStorage, auditService, broadcaster, cfg.Upload, logger)
	historyService := services.NewDownloadHistoryService(historyRepo, logger)
	faqService := services.NewFaqService(faqRepo, auditService, broadcaster, logger)
	announcementService := services.NewAnnouncementService(announcementRepo, auditService, broadcaster, logger)
	notificationService := services.NewNotificationService(notificationRepo, broadcaster, logger)
	tagService := services.NewTagService(tagRepo, auditService, broadcaster, logger)
	collectionService := services.NewCollectionService(collectionRepo, fileRepo, auditService, broadcaster, logger)
	forumService := services.NewForumService(forumRepo, broadcaster, logger)
	messageService := services.NewDirectMessageService(messageRepo, userRepo, broadcaster, logger)
	webhookService := services.NewWebhookService(webhookRepo, auditService, broadcaster, logger)
	statsService := services.NewStatsService(statsRepo, cacheRepo, cfg.Stats, logger)

	// Async side effects.
	listeners.NewWebhookListener(webhookRepo, cfg.Webhook, logger).Register(bus)
	listeners.NewNotificationListener(userRepo, notificationService, logger).Register(bus)

	authMW := middleware.NewAuthMiddleware(authService, cfg.Session.CookieName, logger)
	secure := api.Group("", authMW.Auth)

	// Controllers.
	authController := controllers.NewAuthController(authService, cfg.Session, logger)
	userController := controllers.NewUserController(userService, logger)
	inviteController := controllers.NewInviteCodeController(inviteService, logger)
	fileController := controllers.NewFileController(fileService, logger)
	historyController := controllers.NewDownloadHistoryController(historyService, logger)
	faqController := controllers.NewFaqController(faqService, logger)
	announcementController := controllers.NewAnnouncementController(announcementService, logger)
	notificationController := controllers.NewNotificationController(notificationService, logger)
	tagController := controllers.NewTagController(tagService, logger)
	collectionController := controllers.NewCollectionController(collectionService, logger)
	forumController := controllers.NewForumController(forumService, logger)
	messageController := controllers.NewDirectMessageController(messageService, logger)
	auditController := controllers.NewAuditLogController(auditService, logger)
	webhookController := controllers.NewWebhookController(webhookService, logger)
	statsController := controllers.NewStatsController(statsService, logger)
	wsController := controllers.NewWebSocketController(hub, logger)

	runAuthRouter(api, secure, authController)
	runUserRouter(secure, userController, authMW)
	runInviteCodeRouter(secure, inviteController, authMW)
	runFileRouter(secure, fileController, authMW)
	runDownloadHistoryRouter(secure, historyController, authMW)
	runFaqRouter(secure, faqController, authMW)
	runAnnouncementRouter(secure, announcementController, authMW)
	runNotificationRouter(secure, notificationController)
	runTagRouter(secure, tagController, authMW)
	runCollectionRouter(secure, collectionController, authMW)
	runForumRouter(secure, forumController)
	runDirectMessageRouter(secure, messageController)
	runAuditLogRouter(secure, auditController, authMW)
	runWebhookRouter(secure, webhookController, authMW)
	runStatsRouter(secure, statsController, authMW)

	secure.GET("/realtime-ws", wsController.ServeWs)

	logger.Info("router initialized")
	return nil
}
