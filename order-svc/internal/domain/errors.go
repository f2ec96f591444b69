package domain

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
