package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateDocumentCache drops all cache entries touched by a
// documentation write, including its section-graph adjacency.
func InvalidateDocumentCache(ctx context.Context, cm *CacheManager, docID uint) {
	SafeDelete(ctx, cm.Document,
		fmt.Sprintf("id:%d", docID),
		fmt.Sprintf("sections:%d", docID))
	SafeInvalidatePattern(ctx, cm.Document, "list:*")
	SafeInvalidatePattern(ctx, cm.Document, "slug:*")
}

// InvalidatePurchaseCache drops the cached spending summary for a user
// after any write to their purchase ledger.
func InvalidatePurchaseCache(ctx context.Context, cm *CacheManager, userID string) {
	SafeDelete(ctx, cm.Stats, fmt.Sprintf("purchases:%s:summary", userID))
}

// InvalidateCourseCache drops all cache entries touched by a course or
// course-section write.
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID uint) {
	SafeDelete(ctx, cm.Course,
		fmt.Sprintf("id:%d", courseID),
		fmt.Sprintf("sections:%d", courseID))
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("course:%d:*", courseID))
}
