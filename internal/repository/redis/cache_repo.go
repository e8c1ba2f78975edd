package redis

import (
	"context"
	"encoding/json"

	"github.com/DRSN-tech/bakery-orders/internal/cfg"
	"github.com/DRSN-tech/bakery-orders/internal/domain"
	"github.com/DRSN-tech/bakery-orders/internal/repository/redis/converter"
	"github.com/DRSN-tech/bakery-orders/pkg/clients"
	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:v1"

// CatalogCacheRepo хранит снимок каталога товаров одним ключом с TTL.
type CatalogCacheRepo struct {
	client *clients.RedisClient
	conv   converter.CatalogConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCatalogCacheRepo(client *clients.RedisClient, conv converter.CatalogConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CatalogCacheRepo {
	return &CatalogCacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetCatalog возвращает закэшированный каталог. Промах или битое значение — (nil, nil).
func (c *CatalogCacheRepo) GetCatalog(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err == r.Nil {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.CatalogRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := c.client.Client.Del(ctx, catalogKey).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil
	}

	return c.conv.ToDomain(&model), nil
}

// SetCatalog кэширует каталог на CatalogTTL.
func (c *CatalogCacheRepo) SetCatalog(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(c.conv.ToRedisModel(products))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, catalogKey, data, c.cfg.CatalogTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// InvalidateCatalog удаляет снимок каталога.
func (c *CatalogCacheRepo) InvalidateCatalog(ctx context.Context) error {
	if err := c.client.Client.Del(ctx, catalogKey).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
