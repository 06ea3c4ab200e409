package lib

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"
	"tourbook/src/models"

	"github.com/redis/go-redis/v9"
)

const CatalogCacheKey = "catalog:packages"

type PackageLister interface {
	ListPackages(ctx context.Context) ([]models.PackageView, error)
}

// CatalogCache is a cache-aside in front of the CMS package list. Without a
// redis client every call goes to the source.
type CatalogCache struct {
	rdb *redis.Client
	src PackageLister
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, src PackageLister, ttl time.Duration) *CatalogCache {
	return &CatalogCache{rdb: rdb, src: src, ttl: ttl}
}

func (c *CatalogCache) ListPackages(ctx context.Context) ([]models.PackageView, error) {
	if c.rdb == nil {
		return c.src.ListPackages(ctx)
	}
	val, err := c.rdb.Get(ctx, CatalogCacheKey).Result()
	switch {
	case err == nil:
		var packages []models.PackageView
		if err := json.Unmarshal([]byte(val), &packages); err == nil {
			return packages, nil
		}
		log.Printf("[cache] Discarding unreadable %s\n", CatalogCacheKey)
	case !errors.Is(err, redis.Nil):
		log.Printf("[cache] Error reading %s: %s\n", CatalogCacheKey, err.Error())
	}

	packages, err := c.src.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(packages)
	if err != nil {
		return packages, nil
	}
	if err := c.rdb.SetEx(ctx, CatalogCacheKey, string(b), c.ttl).Err(); err != nil {
		log.Printf("[cache] Error writing %s: %s\n", CatalogCacheKey, err.Error())
	}
	return packages, nil
}

// Invalidate drops the cached list so the next read goes to the source.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, CatalogCacheKey).Err(); err != nil {
		log.Printf("[cache] Error deleting %s: %s\n", CatalogCacheKey, err.Error())
	}
}
