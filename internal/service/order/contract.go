//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_test
package order

import (
	"context"

	"sai/internal/entities"
	"sai/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type EventLog interface {
	UnansweredCouriersForOrder(ctx context.Context, orderID int64) ([]int64, error)
	AppendBatch(ctx context.Context, events []entities.EventLogAppend) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
