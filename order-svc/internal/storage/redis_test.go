package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickbite/order-svc/internal/domain"
)

func setupCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, time.Minute), mr
}

func TestRedisCache_Restaurants(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	_, ok, err := cache.GetRestaurants(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	restaurants := []domain.Restaurant{{ID: 1, Name: "Pizza Palace", Categories: []string{"pizza"}, Rating: 4.7}}
	require.NoError(t, cache.SetRestaurants(ctx, restaurants))

	got, ok, err := cache.GetRestaurants(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "Pizza Palace", got[0].Name)
	assert.Equal(t, []string{"pizza"}, got[0].Categories)
	assert.Equal(t, 4.7, got[0].Rating)
	assert.Equal(t, time.Minute, mr.TTL(cache.RestaurantsKey()))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.GetRestaurants(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Restaurant(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	got, ok, err := cache.GetRestaurant(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	require.NoError(t, cache.SetRestaurant(ctx, &domain.Restaurant{ID: 2, Name: "Sushi Bar"}))
	got, ok, err = cache.GetRestaurant(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Sushi Bar", got.Name)
}

func TestRedisCache_DishesInvalidate(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	dishes := []domain.Dish{{ID: 1, RestaurantID: 1, Name: "Margherita", Price: domain.MustMoney("12.50"), IsAvailable: true}}
	require.NoError(t, cache.SetDishes(ctx, 1, dishes))
	require.NoError(t, cache.SetDishes(ctx, 2, nil))

	got, ok, err := cache.GetDishes(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, dishes[0].Price.Equal(got[0].Price))

	require.NoError(t, cache.InvalidateDishes(ctx, 1))
	assert.False(t, mr.Exists(cache.DishesKey(1)))
	assert.True(t, mr.Exists(cache.DishesKey(2)))
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	cache, mr := setupCache(t)
	require.NoError(t, mr.Set(cache.RestaurantsKey(), "not json"))

	_, ok, err := cache.GetRestaurants(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_ServerDown(t *testing.T) {
	cache, mr := setupCache(t)
	mr.Close()

	_, ok, err := cache.GetDishes(context.Background(), 1)
	assert.Error(t, err)
	assert.False(t, ok)
}
