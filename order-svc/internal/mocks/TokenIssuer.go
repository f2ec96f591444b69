package mocks

import (
	mock "github.com/stretchr/testify/mock"

	domain "quickbite/order-svc/internal/domain"
)

// TokenIssuer is a mock type for the TokenIssuer type
type TokenIssuer struct {
	mock.Mock
}

// Issue provides a mock function with given fields: userID, role
func (_m *TokenIssuer) Issue(userID int64, role domain.Role) (string, error) {
	ret := _m.Called(userID, role)
	return ret.String(0), ret.Error(1)
}

// NewTokenIssuer creates a new instance of TokenIssuer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTokenIssuer(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenIssuer {
	m := &TokenIssuer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
