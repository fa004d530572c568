//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_test
package dispatch

import (
	"context"
	"time"

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

type RegistrationStatus struct {
	Status      string
	Description string
}

type DialogResult struct {
	Success bool
	Raw     string
}

type MessagingGateway interface {
	RegisterChat(ctx context.Context, phone, displayName string) (string, error)
	RegistrationStatus(ctx context.Context, contactID string) (*RegistrationStatus, error)
	UpdateCustomFields(ctx context.Context, phone string, fields map[string]string) error
	ExecuteDialog(ctx context.Context, phone, dialogID string, params []string) (*DialogResult, error)
}

type EventLog interface {
	Append(ctx context.Context, event entities.EventLogAppend) error
}

type MessageFactory interface {
	TemplateParams(offer entities.Offer) []string
}

// Clock инжектируется, чтобы тестировать цикл опроса регистрации
// без реальных задержек.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration)
}
