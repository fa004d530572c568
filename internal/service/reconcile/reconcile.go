package reconcile

import (
	"context"
	"errors"
	"fmt"

	"sai/internal/entities"
	"sai/pkg/logger"
)

// Тексты для терминальных ветвей: курьер всегда получает либо шаблонный
// офер, либо человеческое объяснение, почему заказ не его.
const (
	textAlreadyTaken      = "Infelizmente esta corrida já foi aceita por outro entregador. Em breve enviaremos novas corridas próximas de você!"
	textAssignmentFailure = "Não foi possível concluir a atribuição desta corrida. Nossa equipe já foi notificada, por favor aguarde novas ofertas."
)

// Reply — разобранный вебхук канала: классификация ответа и пара,
// сохраненная в кастомных полях контакта при регистрации.
type Reply struct {
	Phone      string
	Accepted   bool
	OrderID    int64
	ProviderID int64
}

type Service struct {
	log        handlerLogger
	eventLog   EventLog
	orders     OrderSource
	assignment AssignmentGateway
	messenger  Messenger
	nextBest   NextBest
}

func New(
	log handlerLogger,
	eventLog EventLog,
	orders OrderSource,
	assignment AssignmentGateway,
	messenger Messenger,
	nextBest NextBest,
) *Service {
	return &Service{
		log:        log,
		eventLog:   eventLog,
		orders:     orders,
		assignment: assignment,
		messenger:  messenger,
		nextBest:   nextBest,
	}
}

// HandleReply сводит ответ курьера к авторитетному назначению.
// Возвращаемые ошибки: ErrMissingFields и ErrOrderNotFound транслируются
// хендлером в 400/404, все бизнес-исходы (включая гонку) — это 200.
func (s *Service) HandleReply(ctx context.Context, reply Reply) error {
	if reply.OrderID == 0 || reply.ProviderID == 0 {
		return ErrMissingFields
	}

	replyLog := s.log.With(
		logger.NewField("order", reply.OrderID),
		logger.NewField("courier", reply.ProviderID),
	)

	if !reply.Accepted {
		return s.handleRejection(ctx, replyLog, reply)
	}
	return s.handleAcceptance(ctx, replyLog, reply)
}

func (s *Service) handleAcceptance(ctx context.Context, log logger.Logger, reply Reply) error {
	if err := s.append(ctx, reply, entities.EventProviderAccepted, nil); err != nil {
		return err
	}

	// Страховка от гонки: между отправкой офера и ответом заказ мог
	// забрать другой курьер или внешний диспетчер. Проверка и назначение
	// не транзакционны относительно стора заказов, окно остается.
	currentProviderID, err := s.orders.OrderProviderID(ctx, reply.OrderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			if appendErr := s.append(ctx, reply, entities.EventVerificationNotFound, nil); appendErr != nil {
				return appendErr
			}
			return ErrOrderNotFound
		}
		return fmt.Errorf("verify order provider: %w", err)
	}

	if !entities.IsProviderUnassigned(currentProviderID) {
		log.With(
			logger.NewField("current_provider", currentProviderID),
		).Info("order already taken, acknowledging without assignment")

		if err := s.append(ctx, reply, entities.EventOrderAlreadyTaken, map[string]interface{}{
			"current_provider_id": currentProviderID,
		}); err != nil {
			return err
		}
		s.sendText(ctx, log, reply.Phone, textAlreadyTaken)
		return nil
	}

	token, err := s.assignment.Login(ctx)
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Error("assignment login failed")

		if appendErr := s.append(ctx, reply, entities.EventAssignmentLoginFailed, map[string]interface{}{
			"error": err.Error(),
		}); appendErr != nil {
			return appendErr
		}
		s.sendText(ctx, log, reply.Phone, textAssignmentFailure)
		return nil
	}

	if err := s.assignment.Assign(ctx, token, reply.OrderID, reply.ProviderID); err != nil {
		log.With(
			logger.NewField("error", err),
		).Error("assignment call failed")

		if appendErr := s.append(ctx, reply, entities.EventAssignmentFailure, map[string]interface{}{
			"error": err.Error(),
		}); appendErr != nil {
			return appendErr
		}
		s.sendText(ctx, log, reply.Phone, textAssignmentFailure)
		return nil
	}

	log.Info("order assigned")
	return s.append(ctx, reply, entities.EventAssignmentSuccess, nil)
}

func (s *Service) handleRejection(ctx context.Context, log logger.Logger, reply Reply) error {
	if err := s.append(ctx, reply, entities.EventProviderRejected, nil); err != nil {
		return err
	}

	// Передача заказа следующему кандидату — best-effort, отказ
	// уже зафиксирован и подтвержден каналу.
	if err := s.nextBest.OfferNext(ctx, reply.OrderID, reply.ProviderID); err != nil {
		log.With(
			logger.NewField("error", err),
		).Warn("next-best hand-off failed")
	}
	return nil
}

func (s *Service) append(ctx context.Context, reply Reply, eventType entities.EventType, metadata map[string]interface{}) error {
	err := s.eventLog.Append(ctx, entities.EventLogAppend{
		OrderID:    reply.OrderID,
		ProviderID: reply.ProviderID,
		Type:       eventType,
		Metadata:   metadata,
	})
	if err != nil {
		return fmt.Errorf("append %s: %w", eventType, err)
	}
	return nil
}

func (s *Service) sendText(ctx context.Context, log logger.Logger, phone, text string) {
	if phone == "" {
		return
	}
	if err := s.messenger.SendText(ctx, phone, text); err != nil {
		log.With(
			logger.NewField("error", err),
		).Warn("courier notification failed")
	}
}
