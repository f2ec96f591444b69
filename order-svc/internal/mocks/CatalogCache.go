package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "quickbite/order-svc/internal/domain"
)

// CatalogCache is a mock type for the CatalogCache type
type CatalogCache struct {
	mock.Mock
}

// GetRestaurants provides a mock function with given fields: ctx
func (_m *CatalogCache) GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool, error) {
	ret := _m.Called(ctx)

	var r0 []domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Restaurant)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

// SetRestaurants provides a mock function with given fields: ctx, restaurants
func (_m *CatalogCache) SetRestaurants(ctx context.Context, restaurants []domain.Restaurant) error {
	ret := _m.Called(ctx, restaurants)
	return ret.Error(0)
}

// GetRestaurant provides a mock function with given fields: ctx, id
func (_m *CatalogCache) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, bool, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Restaurant)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

// SetRestaurant provides a mock function with given fields: ctx, rest
func (_m *CatalogCache) SetRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	ret := _m.Called(ctx, rest)
	return ret.Error(0)
}

// GetDishes provides a mock function with given fields: ctx, restaurantID
func (_m *CatalogCache) GetDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, bool, error) {
	ret := _m.Called(ctx, restaurantID)

	var r0 []domain.Dish
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Dish)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

// SetDishes provides a mock function with given fields: ctx, restaurantID, dishes
func (_m *CatalogCache) SetDishes(ctx context.Context, restaurantID int64, dishes []domain.Dish) error {
	ret := _m.Called(ctx, restaurantID, dishes)
	return ret.Error(0)
}

// InvalidateDishes provides a mock function with given fields: ctx, restaurantID
func (_m *CatalogCache) InvalidateDishes(ctx context.Context, restaurantID int64) error {
	ret := _m.Called(ctx, restaurantID)
	return ret.Error(0)
}

// NewCatalogCache creates a new instance of CatalogCache. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCatalogCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogCache {
	m := &CatalogCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
