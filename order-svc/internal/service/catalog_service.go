package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"quickbite/order-svc/internal/domain"
)

// CatalogService reads restaurants and dishes through the cache, then storage, then the fallback
// catalog. Cache failures are logged and never surface to the caller.
type CatalogService struct {
	store  CatalogStore
	cache  CatalogCache
	logger *zap.Logger
}

// NewCatalogService accepts a nil cache.
func NewCatalogService(store CatalogStore, cache CatalogCache, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{store: store, cache: cache, logger: logger}
}

func (s *CatalogService) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetRestaurants(ctx)
		if err != nil {
			s.logger.Debug("catalog cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	restaurants, err := s.store.ListRestaurants(ctx)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return FallbackRestaurants(), nil
	}
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetRestaurants(ctx, restaurants); err != nil {
			s.logger.Debug("catalog cache write failed", zap.Error(err))
		}
	}
	return restaurants, nil
}

func (s *CatalogService) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetRestaurant(ctx, id)
		if err != nil {
			s.logger.Debug("catalog cache read failed", zap.Int64("restaurant_id", id), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	rest, err := s.store.GetRestaurant(ctx, id)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		if fallback, ok := fallbackRestaurant(id); ok {
			return fallback, nil
		}
		return nil, fmt.Errorf("restaurant %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetRestaurant(ctx, rest); err != nil {
			s.logger.Debug("catalog cache write failed", zap.Int64("restaurant_id", id), zap.Error(err))
		}
	}
	return rest, nil
}

func (s *CatalogService) ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetDishes(ctx, restaurantID)
		if err != nil {
			s.logger.Debug("catalog cache read failed", zap.Int64("restaurant_id", restaurantID), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	dishes, err := s.store.ListDishes(ctx, restaurantID)
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return FallbackDishes(restaurantID), nil
	}
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetDishes(ctx, restaurantID, dishes); err != nil {
			s.logger.Debug("catalog cache write failed", zap.Int64("restaurant_id", restaurantID), zap.Error(err))
		}
	}
	return dishes, nil
}

// ToggleDish flips a dish's availability. Unlike reads there is no fallback: without storage the
// caller gets domain.ErrStorageUnavailable.
func (s *CatalogService) ToggleDish(ctx context.Context, dishID int64) (*domain.Dish, error) {
	dish, err := s.store.ToggleDishAvailability(ctx, dishID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, dish.RestaurantID)
	return dish, nil
}

func (s *CatalogService) UpdateDish(ctx context.Context, dishID int64, update domain.DishUpdate) (*domain.Dish, error) {
	if update.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidRequest)
	}
	if update.Name != nil && *update.Name == "" {
		return nil, fmt.Errorf("%w: dish name cannot be empty", domain.ErrInvalidRequest)
	}
	if update.Price != nil && update.Price.IsNegative() {
		return nil, fmt.Errorf("%w: dish price cannot be negative", domain.ErrInvalidRequest)
	}
	dish, err := s.store.UpdateDish(ctx, dishID, update)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, dish.RestaurantID)
	return dish, nil
}

func (s *CatalogService) invalidate(ctx context.Context, restaurantID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDishes(ctx, restaurantID); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Int64("restaurant_id", restaurantID), zap.Error(err))
	}
}
