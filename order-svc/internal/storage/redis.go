package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"quickbite/order-svc/internal/domain"
)

const DefaultCatalogTTL = 5 * time.Minute

// RedisCache keeps catalog reads as JSON blobs. A cache miss is reported as (false, nil).
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) RestaurantsKey() string {
	return "catalog:restaurants"
}

func (c *RedisCache) RestaurantKey(id int64) string {
	return "catalog:restaurant:" + strconv.FormatInt(id, 10)
}

func (c *RedisCache) DishesKey(restaurantID int64) string {
	return "catalog:dishes:" + strconv.FormatInt(restaurantID, 10)
}

func (c *RedisCache) get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, payload, c.TTL).Err()
}

func (c *RedisCache) GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool, error) {
	var restaurants []domain.Restaurant
	ok, err := c.get(ctx, c.RestaurantsKey(), &restaurants)
	return restaurants, ok, err
}

func (c *RedisCache) SetRestaurants(ctx context.Context, restaurants []domain.Restaurant) error {
	return c.set(ctx, c.RestaurantsKey(), restaurants)
}

func (c *RedisCache) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, bool, error) {
	var rest domain.Restaurant
	ok, err := c.get(ctx, c.RestaurantKey(id), &rest)
	if !ok {
		return nil, ok, err
	}
	return &rest, true, nil
}

func (c *RedisCache) SetRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	return c.set(ctx, c.RestaurantKey(rest.ID), rest)
}

func (c *RedisCache) GetDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, bool, error) {
	var dishes []domain.Dish
	ok, err := c.get(ctx, c.DishesKey(restaurantID), &dishes)
	return dishes, ok, err
}

func (c *RedisCache) SetDishes(ctx context.Context, restaurantID int64, dishes []domain.Dish) error {
	return c.set(ctx, c.DishesKey(restaurantID), dishes)
}

func (c *RedisCache) InvalidateDishes(ctx context.Context, restaurantID int64) error {
	return c.Client.Del(ctx, c.DishesKey(restaurantID)).Err()
}
