package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quickbite/order-svc/internal/domain"
	"quickbite/order-svc/internal/mocks"
	"quickbite/order-svc/internal/service"
)

func TestCatalogService_ListRestaurants(t *testing.T) {
	stored := []domain.Restaurant{{ID: 10, Name: "Stored"}}

	tests := []struct {
		name     string
		setup    func(*mocks.CatalogStore, *mocks.CatalogCache)
		wantName string
		wantErr  bool
	}{
		{
			name: "cache hit skips storage",
			setup: func(s *mocks.CatalogStore, c *mocks.CatalogCache) {
				c.On("GetRestaurants", mock.Anything).Return([]domain.Restaurant{{ID: 11, Name: "Cached"}}, true, nil).Once()
			},
			wantName: "Cached",
		},
		{
			name: "cache miss reads storage and fills cache",
			setup: func(s *mocks.CatalogStore, c *mocks.CatalogCache) {
				c.On("GetRestaurants", mock.Anything).Return(nil, false, nil).Once()
				s.On("ListRestaurants", mock.Anything).Return(stored, nil).Once()
				c.On("SetRestaurants", mock.Anything, stored).Return(nil).Once()
			},
			wantName: "Stored",
		},
		{
			name: "cache error falls through to storage",
			setup: func(s *mocks.CatalogStore, c *mocks.CatalogCache) {
				c.On("GetRestaurants", mock.Anything).Return(nil, false, assert.AnError).Once()
				s.On("ListRestaurants", mock.Anything).Return(stored, nil).Once()
				c.On("SetRestaurants", mock.Anything, stored).Return(assert.AnError).Once()
			},
			wantName: "Stored",
		},
		{
			name: "storage down serves fallback catalog",
			setup: func(s *mocks.CatalogStore, c *mocks.CatalogCache) {
				c.On("GetRestaurants", mock.Anything).Return(nil, false, nil).Once()
				s.On("ListRestaurants", mock.Anything).Return(nil, domain.ErrStorageUnavailable).Once()
			},
			wantName: service.FallbackRestaurants()[0].Name,
		},
		{
			name: "unexpected storage error",
			setup: func(s *mocks.CatalogStore, c *mocks.CatalogCache) {
				c.On("GetRestaurants", mock.Anything).Return(nil, false, nil).Once()
				s.On("ListRestaurants", mock.Anything).Return(nil, assert.AnError).Once()
			},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := mocks.NewCatalogStore(t)
			cache := mocks.NewCatalogCache(t)
			testCase.setup(store, cache)
			svc := service.NewCatalogService(store, cache, nil)

			got, err := svc.ListRestaurants(context.Background())
			if testCase.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, got)
			assert.Equal(t, testCase.wantName, got[0].Name)
		})
	}
}

func TestCatalogService_FallbackWithoutCache(t *testing.T) {
	store := mocks.NewCatalogStore(t)
	svc := service.NewCatalogService(store, nil, nil)

	store.On("GetRestaurant", mock.Anything, int64(2)).Return(nil, domain.ErrStorageUnavailable).Once()
	store.On("GetRestaurant", mock.Anything, int64(99)).Return(nil, domain.ErrStorageUnavailable).Once()
	store.On("ListDishes", mock.Anything, int64(1)).Return(nil, domain.ErrStorageUnavailable).Once()

	rest, err := svc.GetRestaurant(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rest.ID)

	_, err = svc.GetRestaurant(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	dishes, err := svc.ListDishes(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, dishes)
	for _, dish := range dishes {
		assert.Equal(t, int64(1), dish.RestaurantID)
	}
}

func TestCatalogService_ToggleDish(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*mocks.CatalogStore, *mocks.CatalogCache)
		wantErr error
	}{
		{
			name: "toggle invalidates restaurant dishes",
			setup: func(s *mocks.CatalogStore, c *mocks.CatalogCache) {
				s.On("ToggleDishAvailability", mock.Anything, int64(4)).
					Return(&domain.Dish{ID: 4, RestaurantID: 2, IsAvailable: false}, nil).Once()
				c.On("InvalidateDishes", mock.Anything, int64(2)).Return(nil).Once()
			},
		},
		{
			name: "storage down is surfaced",
			setup: func(s *mocks.CatalogStore, c *mocks.CatalogCache) {
				s.On("ToggleDishAvailability", mock.Anything, int64(4)).Return(nil, domain.ErrStorageUnavailable).Once()
			},
			wantErr: domain.ErrStorageUnavailable,
		},
		{
			name: "unknown dish",
			setup: func(s *mocks.CatalogStore, c *mocks.CatalogCache) {
				s.On("ToggleDishAvailability", mock.Anything, int64(4)).Return(nil, domain.ErrNotFound).Once()
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := mocks.NewCatalogStore(t)
			cache := mocks.NewCatalogCache(t)
			testCase.setup(store, cache)
			svc := service.NewCatalogService(store, cache, nil)

			dish, err := svc.ToggleDish(context.Background(), 4)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, dish.IsAvailable)
		})
	}
}

func TestCatalogService_UpdateDishValidation(t *testing.T) {
	empty := ""
	negative := domain.MustMoney("-1")
	tests := []struct {
		name   string
		update domain.DishUpdate
	}{
		{name: "nothing to update", update: domain.DishUpdate{}},
		{name: "blank name", update: domain.DishUpdate{Name: &empty}},
		{name: "negative price", update: domain.DishUpdate{Price: &negative}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc := service.NewCatalogService(mocks.NewCatalogStore(t), nil, nil)
			_, err := svc.UpdateDish(context.Background(), 1, testCase.update)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
}
