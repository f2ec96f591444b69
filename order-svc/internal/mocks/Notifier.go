package mocks

import (
	mock "github.com/stretchr/testify/mock"

	domain "quickbite/order-svc/internal/domain"
	notify "quickbite/order-svc/internal/notify"
)

// Notifier is a mock type for the Notifier type
type Notifier struct {
	mock.Mock
}

// NotifyOrder provides a mock function with given fields: summary
func (_m *Notifier) NotifyOrder(summary notify.OrderSummary) {
	_m.Called(summary)
}

// NotifyStatus provides a mock function with given fields: chatID, order
func (_m *Notifier) NotifyStatus(chatID string, order domain.Order) {
	_m.Called(chatID, order)
}

// NewNotifier creates a new instance of Notifier. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *Notifier {
	m := &Notifier{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
