package cityrun

import "errors"

var (
	ErrNoOffer        = errors.New("no offer available")
	ErrPolicyNotFound = errors.New("no active policy for city")
	ErrNothingToOffer = errors.New("no stuck orders in city")
)
