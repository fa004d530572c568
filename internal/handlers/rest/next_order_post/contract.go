//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=next_order_post_test
package next_order_post

import (
	"context"

	"sai/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	OfferNextForCourier(ctx context.Context, phone string) error
}
