package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "quickbite/order-svc/internal/domain"
)

// CatalogStore is a mock type for the CatalogStore type
type CatalogStore struct {
	mock.Mock
}

// ListRestaurants provides a mock function with given fields: ctx
func (_m *CatalogStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	ret := _m.Called(ctx)

	var r0 []domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Restaurant)
	}
	return r0, ret.Error(1)
}

// GetRestaurant provides a mock function with given fields: ctx, id
func (_m *CatalogStore) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Restaurant)
	}
	return r0, ret.Error(1)
}

// ListDishes provides a mock function with given fields: ctx, restaurantID
func (_m *CatalogStore) ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error) {
	ret := _m.Called(ctx, restaurantID)

	var r0 []domain.Dish
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Dish)
	}
	return r0, ret.Error(1)
}

// ToggleDishAvailability provides a mock function with given fields: ctx, dishID
func (_m *CatalogStore) ToggleDishAvailability(ctx context.Context, dishID int64) (*domain.Dish, error) {
	ret := _m.Called(ctx, dishID)

	var r0 *domain.Dish
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Dish)
	}
	return r0, ret.Error(1)
}

// UpdateDish provides a mock function with given fields: ctx, dishID, update
func (_m *CatalogStore) UpdateDish(ctx context.Context, dishID int64, update domain.DishUpdate) (*domain.Dish, error) {
	ret := _m.Called(ctx, dishID, update)

	var r0 *domain.Dish
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Dish)
	}
	return r0, ret.Error(1)
}

// NewCatalogStore creates a new instance of CatalogStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCatalogStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogStore {
	m := &CatalogStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
