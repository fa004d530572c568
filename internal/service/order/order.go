package order

import (
	"context"
	"fmt"

	"sai/internal/entities"
	"sai/pkg/logger"
)

// Статусы, после которых заказ больше не нуждается в курьере:
// забрал другой курьер, диспетчер назначил вручную или заказ отменили.
var closingStatuses = map[string]struct{}{
	"assigned":  {},
	"accepted":  {},
	"completed": {},
	"cancelled": {},
}

var knownStatuses = map[string]struct{}{
	"searching": {},
	"assigned":  {},
	"accepted":  {},
	"completed": {},
	"cancelled": {},
}

type Service struct {
	log       handlerLogger
	eventLog  EventLog
	txManager TxManager
}

func New(log handlerLogger, eventLog EventLog, txManager TxManager) *Service {
	return &Service{
		log:       log,
		eventLog:  eventLog,
		txManager: txManager,
	}
}

// ProcessOrderStatusChange закрывает висящие оферы заказа, который ушел
// из поиска в обход нашего канала. Каждому курьеру с неотвеченным
// офером пишется ORDER_ALREADY_TAKEN, чтобы дедупликация и cooldown
// видели завершение окна. Чтение и батч-запись идут одной транзакцией:
// параллельный вебхук не должен застать окно полузакрытым.
func (s *Service) ProcessOrderStatusChange(ctx context.Context, orderID int64, status string) (int, error) {
	if _, ok := knownStatuses[status]; !ok {
		return 0, ErrUndefinedStatus
	}
	if _, ok := closingStatuses[status]; !ok {
		return 0, nil
	}

	closed := 0
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		courierIDs, err := s.eventLog.UnansweredCouriersForOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("load unanswered couriers: %w", err)
		}
		if len(courierIDs) == 0 {
			return nil
		}

		events := make([]entities.EventLogAppend, 0, len(courierIDs))
		for _, courierID := range courierIDs {
			events = append(events, entities.EventLogAppend{
				OrderID:    orderID,
				ProviderID: courierID,
				Type:       entities.EventOrderAlreadyTaken,
				Metadata: map[string]interface{}{
					"reason": "external_status_change",
					"status": status,
				},
			})
		}

		if err := s.eventLog.AppendBatch(ctx, events); err != nil {
			return fmt.Errorf("append closing events: %w", err)
		}
		closed = len(events)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if closed > 0 {
		s.log.With(
			logger.NewField("order", orderID),
			logger.NewField("status", status),
			logger.NewField("closed_offers", closed),
		).Info("closed dangling offers for externally settled order")
	}
	return closed, nil
}
