package assignment

import (
	"errors"
	"fmt"
)

var (
	ErrNoAccessToken  = errors.New("login response has no access_token")
	ErrAssignRejected = errors.New("assignment api did not confirm the assignment")
)

type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("assignment %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
