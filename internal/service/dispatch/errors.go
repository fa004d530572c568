package dispatch

import "errors"

var (
	ErrEmptyPhone    = errors.New("courier has no phone")
	ErrEventLogWrite = errors.New("event log write failed")
)
