package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "quickbite/order-svc/internal/domain"
)

// OrderStore is a mock type for the OrderStore type
type OrderStore struct {
	mock.Mock
}

// CreateOrder provides a mock function with given fields: ctx, header
func (_m *OrderStore) CreateOrder(ctx context.Context, header *domain.Order) (string, error) {
	ret := _m.Called(ctx, header)

	if rf, ok := ret.Get(0).(func(context.Context, *domain.Order) (string, error)); ok {
		return rf(ctx, header)
	}
	return ret.String(0), ret.Error(1)
}

// AddLineItem provides a mock function with given fields: ctx, orderID, item
func (_m *OrderStore) AddLineItem(ctx context.Context, orderID string, item domain.OrderItem) error {
	ret := _m.Called(ctx, orderID, item)
	return ret.Error(0)
}

// ReadComposite provides a mock function with given fields: ctx, orderID
func (_m *OrderStore) ReadComposite(ctx context.Context, orderID string) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID)

	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

// ListOrdersForUser provides a mock function with given fields: ctx, userID, limit
func (_m *OrderStore) ListOrdersForUser(ctx context.Context, userID int64, limit int) ([]domain.Order, error) {
	ret := _m.Called(ctx, userID, limit)

	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

// ListAllOrders provides a mock function with given fields: ctx, limit
func (_m *OrderStore) ListAllOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	ret := _m.Called(ctx, limit)

	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

// UpdateStatus provides a mock function with given fields: ctx, orderID, status
func (_m *OrderStore) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID, status)

	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

// SaveQRCode provides a mock function with given fields: ctx, orderID, qr
func (_m *OrderStore) SaveQRCode(ctx context.Context, orderID string, qr []byte) error {
	ret := _m.Called(ctx, orderID, qr)
	return ret.Error(0)
}

// GetQRCode provides a mock function with given fields: ctx, orderID
func (_m *OrderStore) GetQRCode(ctx context.Context, orderID string) ([]byte, error) {
	ret := _m.Called(ctx, orderID)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

// GetUser provides a mock function with given fields: ctx, id
func (_m *OrderStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

// UserChannel provides a mock function with given fields: ctx, userID
func (_m *OrderStore) UserChannel(ctx context.Context, userID int64) (string, error) {
	ret := _m.Called(ctx, userID)
	return ret.String(0), ret.Error(1)
}

// UserStats provides a mock function with given fields: ctx, userID
func (_m *OrderStore) UserStats(ctx context.Context, userID int64) (domain.UserStats, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(domain.UserStats), ret.Error(1)
}

// GlobalStats provides a mock function with given fields: ctx
func (_m *OrderStore) GlobalStats(ctx context.Context) (domain.GlobalStats, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(domain.GlobalStats), ret.Error(1)
}

// NewOrderStore creates a new instance of OrderStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewOrderStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderStore {
	m := &OrderStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
