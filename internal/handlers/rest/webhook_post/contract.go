//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=webhook_post_test
package webhook_post

import (
	"context"

	"sai/internal/service/reconcile"
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
	HandleReply(ctx context.Context, reply reconcile.Reply) error
}
