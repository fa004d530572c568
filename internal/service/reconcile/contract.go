//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=reconcile_test
package reconcile

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
	Append(ctx context.Context, event entities.EventLogAppend) error
}

type OrderSource interface {
	OrderProviderID(ctx context.Context, orderID int64) (int64, error)
}

type AssignmentGateway interface {
	Login(ctx context.Context) (string, error)
	Assign(ctx context.Context, token string, orderID, providerID int64) error
}

type Messenger interface {
	SendText(ctx context.Context, phone, text string) error
}

// NextBest запускает урезанный проход матчинга по одному заказу
// после отказа курьера.
type NextBest interface {
	OfferNext(ctx context.Context, orderID, rejectedProviderID int64) error
}
