package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	usercache "notify-hub/internal/cache"
	notificationHTTP "notify-hub/internal/controller/http"
	"notify-hub/internal/entity"
	"notify-hub/internal/repo/persistent"
	"notify-hub/internal/usecase"
	"notify-hub/pkg/config"
	"notify-hub/pkg/jwt"
	"notify-hub/pkg/logger"
	"notify-hub/pkg/middleware"
	"notify-hub/pkg/queue"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "notify-hub/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Explicit wiring: the cache is handed to the repository so every store
	// mutation invalidates before it returns.
	userCache := usercache.NewUserNotificationCache(redisClient, log)
	policy := persistent.DefaultGroupPolicy()
	notificationRepo := persistent.NewNotificationRepository(db, policy, userCache, log)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, userCache, usecase.TypeNameDecorator{}, log)
	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, queueClient, log)

	// Setup router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// Protected routes - require authentication
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/collections", notificationHandler.ListCollections)

		mutations := protected.Group("")
		mutations.Use(middleware.RateLimitMiddleware(redisClient, cfg.RateLimitRequests, time.Minute))
		{
			mutations.PATCH("/notifications", notificationHandler.UpdateAllNotifications)
			mutations.PATCH("/notifications/:id", notificationHandler.UpdateNotification)
			mutations.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
		}
	}

	// Internal routes for service-to-service calls
	{
		api.POST("/notifications", notificationHandler.CreateNotification)
		api.GET("/notifications/queue", notificationHandler.QueueStatus)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Consume producer events from RabbitMQ and persist them
	if queueClient != nil {
		err := queueClient.ConsumeEvents(func(event queue.Event) error {
			_, err := notificationUseCase.Create(
				context.Background(),
				entity.NotificationType(event.Type),
				event.ForUserID,
				event.FromUserID,
			)
			return err
		})
		if err != nil {
			log.Error("Failed to start notification event consumer: %v", err)
		}
	}

	go func() {
		log.Info("Notification service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down notification service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	if queueClient != nil {
		queueClient.Close()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Notification service exited")
}
