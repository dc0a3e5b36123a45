package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
)

const (
	keyPrefix      = "catalog:service:"
	activeListKey  = "catalog:services:active"
	defaultTTLSecs = 300
)

// Cache read-through кеш каталога услуг поверх Redis
// При недоступности Redis запросы идут напрямую в репозиторий
type Cache struct {
	repo   Repository
	redis  *redis.Client
	ttl    time.Duration
	logger Logger
}

// New создает кеш каталога. client может быть nil, тогда кеш выключен
func New(repo Repository, client *redis.Client, ttl time.Duration, logger Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultTTLSecs * time.Second
	}
	return &Cache{repo: repo, redis: client, ttl: ttl, logger: logger}
}

// GetByID получает услугу из кеша или из репозитория
func (c *Cache) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	key := serviceKey(id)

	var cached cachedService
	if c.read(ctx, key, &cached) {
		return cached.toDomain(), nil
	}

	service, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.write(ctx, key, toCached(service))
	return service, nil
}

// List получает список услуг. Кешируется только список активных
func (c *Cache) List(ctx context.Context, activeOnly bool) ([]*domain.Service, error) {
	if !activeOnly {
		return c.repo.List(ctx, false)
	}

	var cached []cachedService
	if c.read(ctx, activeListKey, &cached) {
		services := make([]*domain.Service, 0, len(cached))
		for _, s := range cached {
			services = append(services, s.toDomain())
		}
		return services, nil
	}

	services, err := c.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	toStore := make([]cachedService, 0, len(services))
	for _, s := range services {
		toStore = append(toStore, toCached(s))
	}
	c.write(ctx, activeListKey, toStore)

	return services, nil
}

// ExistingIDs не кешируется
func (c *Cache) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return c.repo.ExistingIDs(ctx, ids)
}

// SetActive меняет активность услуг и сбрасывает их записи в кеше
func (c *Cache) SetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	changed, err := c.repo.SetActive(ctx, ids, active)
	if err != nil {
		return 0, err
	}

	c.Invalidate(ctx, ids...)
	return changed, nil
}

// Invalidate удаляет из кеша услуги ids и список активных услуг
func (c *Cache) Invalidate(ctx context.Context, ids ...int64) {
	if c.redis == nil {
		return
	}

	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, activeListKey)
	for _, id := range ids {
		keys = append(keys, serviceKey(id))
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("CatalogCache.Invalidate: failed to delete keys %v: %v", keys, err)
	}
}

func (c *Cache) read(ctx context.Context, key string, out interface{}) bool {
	if c.redis == nil {
		return false
	}

	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("CatalogCache.read: redis get %s failed: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(val, out); err != nil {
		c.logger.Warn("CatalogCache.read: corrupted value for %s: %v", key, err)
		return false
	}
	return true
}

func (c *Cache) write(ctx context.Context, key string, val interface{}) {
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(val)
	if err != nil {
		c.logger.Warn("CatalogCache.write: marshal %s failed: %v", key, err)
		return
	}

	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("CatalogCache.write: redis set %s failed: %v", key, err)
	}
}

func serviceKey(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}
