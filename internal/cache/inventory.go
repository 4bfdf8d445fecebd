package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix = "user:%s"
	weetKeyPrefix = "weet:%d"
)

const (
	UserTTL = 5 * time.Minute
	WeetTTL = 10 * time.Minute
)

// UserKey builds the cache key for a profile row.
func UserKey(handle string) string {
	return fmt.Sprintf(userKeyPrefix, handle)
}

// WeetKey builds the cache key for a weet detail row.
func WeetKey(weetID uint) string {
	return fmt.Sprintf(weetKeyPrefix, weetID)
}

// Invalidate removes a single key; a nil client makes it a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateUser removes a cached profile.
func InvalidateUser(ctx context.Context, handle string) {
	Invalidate(ctx, UserKey(handle))
}

// InvalidateWeet removes a cached weet detail.
func InvalidateWeet(ctx context.Context, weetID uint) {
	Invalidate(ctx, WeetKey(weetID))
}
