package retrier

import (
	"context"
	"time"
)

// Retrier повторяет операцию до успеха или исчерпания бюджета времени.
type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

// ShouldRetryFunc решает, имеет ли смысл повтор после данной ошибки.
type ShouldRetryFunc func(error) bool

type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Randomization   float64
	Multiplier      float64

	// nil — ретраятся все ошибки.
	ShouldRetry ShouldRetryFunc
}
