package catalog

import (
	"context"
	"fmt"

	"github.com/sareeghar/storefront/logger"
	"github.com/sareeghar/storefront/models"
	"go.uber.org/zap"
)

// Cache stores JSON-encodable values by name.
type Cache interface {
	Get(ctx context.Context, name string, dst any) (bool, error)
	Set(ctx context.Context, name string, v any) error
}

// CachedProducts serves the curated lists from a cache, falling back to the
// wrapped provider on a miss or a cache failure. Other calls pass through.
type CachedProducts struct {
	ProductProvider
	cache Cache
}

func NewCachedProducts(p ProductProvider, c Cache) *CachedProducts {
	return &CachedProducts{ProductProvider: p, cache: c}
}

func (c *CachedProducts) GetFeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return c.curated(ctx, "featured", limit, c.ProductProvider.GetFeaturedProducts)
}

func (c *CachedProducts) GetNewProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return c.curated(ctx, "new", limit, c.ProductProvider.GetNewProducts)
}

func (c *CachedProducts) GetSaleProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return c.curated(ctx, "sale", limit, c.ProductProvider.GetSaleProducts)
}

func (c *CachedProducts) curated(ctx context.Context, list string, limit int,
	load func(context.Context, int) ([]models.Product, error)) ([]models.Product, error) {
	key := fmt.Sprintf("products:%s:%d", list, limit)

	var products []models.Product
	hit, err := c.cache.Get(ctx, key, &products)
	if err != nil {
		logger.Warn(ctx, "catalog cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return products, nil
	}

	products, err = load(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, products); err != nil {
		logger.Warn(ctx, "catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return products, nil
}
