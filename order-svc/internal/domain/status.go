package domain

import "fmt"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPreparing  OrderStatus = "preparing"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var AllStatuses = []OrderStatus{
	StatusPending,
	StatusPreparing,
	StatusDelivering,
	StatusDelivered,
	StatusCancelled,
}

// ParseStatus accepts only the exact members of AllStatuses.
func ParseStatus(raw string) (OrderStatus, error) {
	for _, status := range AllStatuses {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
