package storage

import (
	"booking-restaurant-server/config"
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kataras/golog"
)

var Redis *redis.Client

const recentlyViewedLimit = 20

func InitializeRedis(cfg config.RedisConfig) {
	Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	golog.Infof("🔧 Redis initialized with address: %s", cfg.Addr)
}

func recentlyViewedKey(userID uint) string {
	return "recently_viewed:" + strconv.FormatUint(uint64(userID), 10)
}

// PushRecentlyViewed records a restaurant at the head of the user's recently viewed list.
func PushRecentlyViewed(ctx context.Context, userID, restaurantID uint) error {
	if Redis == nil {
		return nil
	}
	key := recentlyViewedKey(userID)
	member := strconv.FormatUint(uint64(restaurantID), 10)

	pipe := Redis.TxPipeline()
	pipe.LRem(ctx, key, 0, member)
	pipe.LPush(ctx, key, member)
	pipe.LTrim(ctx, key, 0, recentlyViewedLimit-1)
	pipe.Expire(ctx, key, 30*24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}

func RecentlyViewed(ctx context.Context, userID uint) ([]uint, error) {
	if Redis == nil {
		return nil, nil
	}
	values, err := Redis.LRange(ctx, recentlyViewedKey(userID), 0, recentlyViewedLimit-1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
