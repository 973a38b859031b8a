package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T) *CacheManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheManager(client)
}

func TestInvalidatePurchaseCache(t *testing.T) {
	ctx := context.Background()
	cm := newTestManager(t)

	type summary struct {
		TotalSpent float64 `json:"total_spent"`
	}
	if err := cm.Stats.Set(ctx, "purchases:user-1:summary", summary{TotalSpent: 29.99}, time.Minute); err != nil {
		t.Fatalf("Set user-1: %v", err)
	}
	if err := cm.Stats.Set(ctx, "purchases:user-2:summary", summary{TotalSpent: 10}, time.Minute); err != nil {
		t.Fatalf("Set user-2: %v", err)
	}

	InvalidatePurchaseCache(ctx, cm, "user-1")

	var dest summary
	if err := cm.Stats.Get(ctx, "purchases:user-1:summary", &dest); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("user-1 summary still cached after invalidation: %v", err)
	}
	if err := cm.Stats.Get(ctx, "purchases:user-2:summary", &dest); err != nil {
		t.Errorf("user-2 summary should survive: %v", err)
	}
}

func TestInvalidateDocumentCache(t *testing.T) {
	ctx := context.Background()
	cm := newTestManager(t)

	for _, key := range []string{"id:5", "sections:5", "list:page:1", "slug:intro-guide"} {
		if err := cm.Document.Set(ctx, key, "cached", time.Minute); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	InvalidateDocumentCache(ctx, cm, 5)

	var dest string
	for _, key := range []string{"id:5", "sections:5", "list:page:1", "slug:intro-guide"} {
		if err := cm.Document.Get(ctx, key, &dest); !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("%s still cached after invalidation: %v", key, err)
		}
	}
}
