package main

import (
	"notify-hub/internal/app"
	"notify-hub/pkg/cache"
	"notify-hub/pkg/config"
	"notify-hub/pkg/database"
	"notify-hub/pkg/logger"
	"notify-hub/pkg/queue"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		// The API and cache still work without the event queue
		log.Warn("Failed to connect to RabbitMQ, producer events disabled: %v", err)
		queueClient = nil
	}

	app.Run(cfg, log, db, redisClient, queueClient)
}
