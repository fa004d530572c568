//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=budget_test
package budget

import (
	"context"
	"time"

	"sai/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
}

type EventCounter interface {
	CountOffersSentSince(ctx context.Context, since time.Time) (int64, error)
}
