package reconcile

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrCourierNotFound = errors.New("courier not found")
	ErrMissingFields   = errors.New("reply has no order or provider binding")
)
