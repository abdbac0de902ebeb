package cache

import (
	"context"
	"strings"
	"testing"

	"notify-hub/internal/entity"
	"notify-hub/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupCache(t *testing.T) *UserNotificationCache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewUserNotificationCache(client, logger.New())
}

func groupedRows() []entity.Notification {
	return []entity.Notification{
		{ID: 12, Type: entity.TypeLike, ForUserID: 42, GroupCount: 3, FromUserIDs: []int64{12, 11, 10}},
	}
}

func TestUserNotificationCache_Keys(t *testing.T) {
	c := NewUserNotificationCache(nil, logger.New())

	assert.Equal(t, "user-notifications:42", c.dataKey(42))
	assert.Equal(t, "user-notifications-ver:42", c.versionKey(42))

	// Version keys live in their own namespace: no user id can produce a
	// data key that reads as another user's version key.
	assert.False(t, strings.HasPrefix(c.versionKey(42), dataKeyPrefix))
	assert.False(t, strings.HasPrefix(c.dataKey(42), versionKeyPrefix))
}

func TestUserNotificationCache_RememberCachesAndHits(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	computes := 0
	compute := func() ([]entity.Notification, error) {
		computes++
		return groupedRows(), nil
	}

	rows, err := c.Remember(ctx, 42, compute)
	assert.NoError(t, err)
	assert.Equal(t, groupedRows(), rows)
	assert.Equal(t, 1, computes)

	cached, hit, err := c.Get(ctx, 42)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, groupedRows(), cached)

	// Second read is served from the entry, not the compute
	rows, err = c.Remember(ctx, 42, compute)
	assert.NoError(t, err)
	assert.Equal(t, groupedRows(), rows)
	assert.Equal(t, 1, computes)
}

func TestUserNotificationCache_InvalidateDuringPopulate(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	// An invalidation lands while the populate is computing: the populate
	// must abort rather than resurrect rows the invalidation just dropped.
	computes := 0
	racingCompute := func() ([]entity.Notification, error) {
		computes++
		assert.NoError(t, c.Invalidate(ctx, 42))
		return groupedRows(), nil
	}

	rows, err := c.Remember(ctx, 42, racingCompute)
	assert.NoError(t, err)
	assert.Equal(t, groupedRows(), rows, "the caller still gets the computed rows")
	assert.Equal(t, 1, computes)

	_, hit, err := c.Get(ctx, 42)
	assert.NoError(t, err)
	assert.False(t, hit, "invalidate wins: the aborted populate leaves no entry")

	// A quiet populate afterwards caches normally
	quietCompute := func() ([]entity.Notification, error) {
		computes++
		return groupedRows(), nil
	}
	rows, err = c.Remember(ctx, 42, quietCompute)
	assert.NoError(t, err)
	assert.Equal(t, groupedRows(), rows)
	assert.Equal(t, 2, computes)

	_, hit, err = c.Get(ctx, 42)
	assert.NoError(t, err)
	assert.True(t, hit)

	rows, err = c.Remember(ctx, 42, quietCompute)
	assert.NoError(t, err)
	assert.Equal(t, groupedRows(), rows)
	assert.Equal(t, 2, computes, "no recompute once the entry is populated")
}

func TestUserNotificationCache_InvalidateDropsEntry(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, err := c.Remember(ctx, 42, func() ([]entity.Notification, error) {
		return groupedRows(), nil
	})
	assert.NoError(t, err)

	assert.NoError(t, c.Invalidate(ctx, 42))

	_, hit, err := c.Get(ctx, 42)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestUserNotificationCache_ComputeErrorNotCached(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, err := c.Remember(ctx, 42, func() ([]entity.Notification, error) {
		return nil, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, hit, getErr := c.Get(ctx, 42)
	assert.NoError(t, getErr)
	assert.False(t, hit)
}
