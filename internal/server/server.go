package server

import (
	"context"
	"strings"
	"time"

	"dormhub.io/repairdesk/internal/config"
	"dormhub.io/repairdesk/internal/middleware"
	"dormhub.io/repairdesk/pkg/jwt"
	"dormhub.io/repairdesk/pkg/response"
	"dormhub.io/repairdesk/pkg/storage"

	announcementHttp "dormhub.io/repairdesk/internal/modules/announcement/delivery/http"
	announcementRepo "dormhub.io/repairdesk/internal/modules/announcement/repository"
	announcementService "dormhub.io/repairdesk/internal/modules/announcement/service"

	evaluationHttp "dormhub.io/repairdesk/internal/modules/evaluation/delivery/http"
	evaluationRepo "dormhub.io/repairdesk/internal/modules/evaluation/repository"
	evaluationService "dormhub.io/repairdesk/internal/modules/evaluation/service"

	exportHttp "dormhub.io/repairdesk/internal/modules/export/delivery/http"
	exportService "dormhub.io/repairdesk/internal/modules/export/service"

	notiHttp "dormhub.io/repairdesk/internal/modules/notification/delivery/http"
	notifRepo "dormhub.io/repairdesk/internal/modules/notification/repository"
	notifService "dormhub.io/repairdesk/internal/modules/notification/service"

	orderHttp "dormhub.io/repairdesk/internal/modules/order/delivery/http"
	orderRepo "dormhub.io/repairdesk/internal/modules/order/repository"
	orderService "dormhub.io/repairdesk/internal/modules/order/service"

	uploadHttp "dormhub.io/repairdesk/internal/modules/upload/delivery/http"
	uploadRepo "dormhub.io/repairdesk/internal/modules/upload/repository"
	uploadService "dormhub.io/repairdesk/internal/modules/upload/service"

	userHttp "dormhub.io/repairdesk/internal/modules/user/delivery/http"
	userRepo "dormhub.io/repairdesk/internal/modules/user/repository"
	userService "dormhub.io/repairdesk/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *cron.Cron
	logger      *zap.Logger
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) (*Server, error) {
	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		return nil, err
	}

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepository := userRepo.NewUserRepository(db)
	authSvc := userService.NewAuthService(usersRepository, tokens, logger)
	authHandler := userHttp.NewAuthHandler(authSvc)

	profileSvc := userService.NewProfileService(usersRepository)
	profileHandler := userHttp.NewProfileHandler(profileSvc)

	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient, logger)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient, logger)

	ordersRepository := orderRepo.NewOrderRepository(db)
	orderSvc := orderService.NewOrderService(ordersRepository, notificationSvc, logger)
	orderHandler := orderHttp.NewOrderHandler(orderSvc)

	evaluationsRepository := evaluationRepo.NewEvaluationRepository(db)
	evaluationSvc := evaluationService.NewEvaluationService(evaluationsRepository, ordersRepository, logger)
	evaluationHandler := evaluationHttp.NewEvaluationHandler(evaluationSvc)

	announcementsRepository := announcementRepo.NewAnnouncementRepository(db)
	announcementSvc := announcementService.NewAnnouncementService(announcementsRepository, redisClient, logger)
	announcementHandler := announcementHttp.NewAnnouncementHandler(announcementSvc)

	uploadsRepository := uploadRepo.NewUploadRepository(db)
	uploadSvc := uploadService.NewUploadService(uploadsRepository, imageStorage, cfg.CloudinaryUploadFolder, logger)
	uploadHandler := uploadHttp.NewUploadHandler(uploadSvc)

	exportSvc := exportService.NewExportService(orderSvc, logger)
	exportHandler := exportHttp.NewExportHandler(exportSvc)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 12h", func() {
		if err := uploadSvc.CleanupOrphans(context.Background()); err != nil {
			logger.Error("orphan upload cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	setupCORS(router, cfg.AllowedOrigins)

	router.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"}, "")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}
	api.GET("/announcements", announcementHandler.List)
	api.GET("/announcements/:id", announcementHandler.GetByID)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/user/profile", profileHandler.GetProfile)
		protected.PUT("/user/profile", profileHandler.UpdateProfile)

		// Order routes
		protected.POST("/orders", authMiddleware.RequireStudent(), orderHandler.Create)
		protected.GET("/orders", authMiddleware.RequireStudent(), orderHandler.ListMine)
		protected.GET("/orders/:id", orderHandler.GetByID)

		// Evaluation routes
		protected.POST("/evaluations", authMiddleware.RequireStudent(), evaluationHandler.Create)
		protected.GET("/evaluations", authMiddleware.RequireStudent(), evaluationHandler.ListMine)

		// Upload routes
		protected.POST("/upload/repair", authMiddleware.RequireStudent(), uploadHandler.UploadRepairImages)
		protected.POST("/upload/completion", authMiddleware.RequireAdmin(), uploadHandler.UploadCompletionImages)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/orders", orderHandler.ListAll)
			adminGroup.GET("/orders/pending", orderHandler.ListPending)
			adminGroup.GET("/orders/export", exportHandler.ExportOrders)
			adminGroup.PUT("/orders/:id/accept", orderHandler.Accept)
			adminGroup.PUT("/orders/:id/complete", orderHandler.Complete)

			adminGroup.GET("/evaluations", evaluationHandler.ListAll)
		}

		// Announcement writes share the public read path but are admin-only.
		protected.POST("/announcements", authMiddleware.RequireAdmin(), announcementHandler.Create)
		protected.PUT("/announcements/:id", authMiddleware.RequireAdmin(), announcementHandler.Update)
		protected.DELETE("/announcements/:id", authMiddleware.RequireAdmin(), announcementHandler.Delete)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   scheduler,
		logger:      logger,
	}, nil
}

func (s *Server) Run(addr string) error {
	s.scheduler.Start()
	defer s.scheduler.Stop()
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
