package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates a cache pattern with logging
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

// InvalidateCatalogCache drops every cached list of the given catalog table
func InvalidateCatalogCache(ctx context.Context, cm *CacheManager, table string) {
	SafeInvalidatePattern(ctx, cm.Catalog, fmt.Sprintf("%s:*", table))
}

// InvalidatePersonCache drops cached lookups for one person. The key
// must match what the person repository's GetByID writes: the bare id.
func InvalidatePersonCache(ctx context.Context, cm *CacheManager, personID uint) {
	SafeDelete(ctx, cm.Person, fmt.Sprintf("%d", personID))
}
