package main

import (
	"context"
	"fmt"
	"time"

	usercache "notify-hub/internal/cache"
	"notify-hub/internal/entity"
	"notify-hub/internal/model"
	"notify-hub/pkg/cache"
	"notify-hub/pkg/config"
	"notify-hub/pkg/database"
	"notify-hub/pkg/logger"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
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

	userCache := usercache.NewUserNotificationCache(redisClient, log)
	if err := seedNotifications(db, userCache, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedNotifications(db *gorm.DB, userCache *usercache.UserNotificationCache, log *logger.Logger) error {
	from := func(id int64) *int64 { return &id }
	now := time.Now()

	demo := []model.NotificationModel{
		// User 1: a like group from three users and one comment
		{Type: int(entity.TypeLike), ForUserID: 1, FromUserID: from(2), CreatedAt: now.Add(-3 * time.Hour)},
		{Type: int(entity.TypeLike), ForUserID: 1, FromUserID: from(3), CreatedAt: now.Add(-2 * time.Hour)},
		{Type: int(entity.TypeLike), ForUserID: 1, FromUserID: from(4), CreatedAt: now.Add(-1 * time.Hour)},
		{Type: int(entity.TypeComment), ForUserID: 1, FromUserID: from(5), CreatedAt: now.Add(-30 * time.Minute)},

		// User 2: messages from two senders stay in separate groups
		{Type: int(entity.TypeMessage), ForUserID: 2, FromUserID: from(1), CreatedAt: now.Add(-20 * time.Minute)},
		{Type: int(entity.TypeMessage), ForUserID: 2, FromUserID: from(3), CreatedAt: now.Add(-10 * time.Minute)},

		// A system notification without an acting user
		{Type: int(entity.TypeFollow), ForUserID: 2, CreatedAt: now.Add(-5 * time.Minute)},
	}

	for i := range demo {
		if err := db.Create(&demo[i]).Error; err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}
	}

	// Drop any cached views so the seeded rows show up immediately
	ctx := context.Background()
	for _, userID := range []int64{1, 2} {
		if err := userCache.Invalidate(ctx, userID); err != nil {
			log.Warn("Failed to invalidate cache for user %d: %v", userID, err)
		}
	}

	log.Info("Seeded %d notifications", len(demo))
	return nil
}
