package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "quickbite/order-svc/internal/domain"
)

// AccountStore is a mock type for the AccountStore type
type AccountStore struct {
	mock.Mock
}

// CreateUser provides a mock function with given fields: ctx, user
func (_m *AccountStore) CreateUser(ctx context.Context, user *domain.User) error {
	ret := _m.Called(ctx, user)

	if rf, ok := ret.Get(0).(func(context.Context, *domain.User) error); ok {
		return rf(ctx, user)
	}
	return ret.Error(0)
}

// GetUser provides a mock function with given fields: ctx, id
func (_m *AccountStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

// GetUserByEmail provides a mock function with given fields: ctx, email
func (_m *AccountStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ret := _m.Called(ctx, email)

	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

// UpdatePassword provides a mock function with given fields: ctx, userID, hash
func (_m *AccountStore) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	ret := _m.Called(ctx, userID, hash)
	return ret.Error(0)
}

// NewAccountStore creates a new instance of AccountStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAccountStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountStore {
	m := &AccountStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
