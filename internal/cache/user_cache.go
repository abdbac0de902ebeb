package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"notify-hub/internal/entity"
	"notify-hub/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// The version prefix is disjoint from the data prefix so no user id can make
// a data key collide with a version key.
const (
	dataKeyPrefix    = "user-notifications:"
	versionKeyPrefix = "user-notifications-ver:"
)

// UserNotificationCache memoizes the full grouped result set per user. There
// is no TTL: entries live until a mutation for that user invalidates them.
//
// Populates run inside a WATCH on a per-user version key. Invalidate always
// bumps that key, so an invalidation arriving while a populate is in flight
// aborts the SET and the entry stays empty (invalidate wins). A populate is
// never allowed to overwrite a later invalidation.
type UserNotificationCache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewUserNotificationCache(client *redis.Client, log *logger.Logger) *UserNotificationCache {
	return &UserNotificationCache{client: client, logger: log}
}

// Remember returns the user's cached grouped rows, computing and caching them
// on a miss. A cache failure degrades to a direct compute: readers must keep
// working when Redis is down.
func (c *UserNotificationCache) Remember(ctx context.Context, userID int64, compute func() ([]entity.Notification, error)) ([]entity.Notification, error) {
	var (
		rows       []entity.Notification
		computed   bool
		computeErr error
	)

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cached, err := tx.Get(ctx, c.dataKey(userID)).Result()
		if err == nil {
			if jsonErr := json.Unmarshal([]byte(cached), &rows); jsonErr == nil {
				return nil
			}
			// Corrupt entry: recompute below and overwrite
		} else if !errors.Is(err, redis.Nil) {
			return err
		}

		rows, computeErr = compute()
		computed = true
		if computeErr != nil {
			return nil
		}

		data, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to marshal notifications: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.dataKey(userID), data, 0)
			return nil
		})
		if errors.Is(err, redis.TxFailedErr) {
			// An invalidation won the race. Serve the freshly computed rows
			// without caching them; the next read recomputes.
			return nil
		}
		return err
	}, c.versionKey(userID))

	if computeErr != nil {
		return nil, computeErr
	}
	if err != nil {
		c.logger.Warn("notification cache unavailable for user %d, reading store directly: %v", userID, err)
		if computed {
			return rows, nil
		}
		return compute()
	}
	return rows, nil
}

// Get returns the cached rows and whether the lookup was a hit. Errors are
// reported as misses.
func (c *UserNotificationCache) Get(ctx context.Context, userID int64) ([]entity.Notification, bool, error) {
	cached, err := c.client.Get(ctx, c.dataKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read notification cache for user %d: %w", userID, err)
	}

	var rows []entity.Notification
	if err := json.Unmarshal([]byte(cached), &rows); err != nil {
		return nil, false, fmt.Errorf("failed to decode notification cache for user %d: %w", userID, err)
	}
	return rows, true, nil
}

// Invalidate unconditionally drops the user's entry. The version bump makes
// any in-flight populate for the same user fail its transaction.
func (c *UserNotificationCache) Invalidate(ctx context.Context, userID int64) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey(userID))
		pipe.Del(ctx, c.dataKey(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate notification cache for user %d: %w", userID, err)
	}
	return nil
}

func (c *UserNotificationCache) dataKey(userID int64) string {
	return fmt.Sprintf("%s%d", dataKeyPrefix, userID)
}

func (c *UserNotificationCache) versionKey(userID int64) string {
	return fmt.Sprintf("%s%d", versionKeyPrefix, userID)
}
