package dispatch

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"sai/internal/entities"
	"sai/internal/pkg/phone"
	"sai/pkg/logger"
)

const (
	registrationPollAttempts = 5
	registrationPollInterval = 3 * time.Second
)

// Состояния машины регистрации контакта.
type registrationState int

const (
	stateRegistering registrationState = iota
	stateRegistered
	stateFailed
	stateTimedOut
)

var correctedPhoneRe = regexp.MustCompile(`[0-9]{10,15}`)

type Orchestrator struct {
	log      handlerLogger
	gateway  MessagingGateway
	eventLog EventLog
	messages MessageFactory
	clock    Clock
	dialogID string
}

func New(
	log handlerLogger,
	gateway MessagingGateway,
	eventLog EventLog,
	messages MessageFactory,
	clock Clock,
	dialogID string,
) *Orchestrator {
	return &Orchestrator{
		log:      log,
		gateway:  gateway,
		eventLog: eventLog,
		messages: messages,
		clock:    clock,
		dialogID: dialogID,
	}
}

// Dispatch проводит один офер через трехшаговый протокол канала:
// регистрация контакта → подтверждение → отправка шаблона.
// Ровно одно событие на исход: OFFER_SENT либо OFFER_DELIVERY_FAILURE.
// Ретраев нет — неудачная пара вернется на следующем проходе,
// потому что «уже предложено» фиксируется только по OFFER_SENT.
func (o *Orchestrator) Dispatch(ctx context.Context, offer entities.Offer) (entities.DispatchOutcome, error) {
	session := entities.DispatchSession{
		Offer: offer,
		Phone: phone.NormalizeE164(offer.Courier.Phone),
	}
	if session.Phone == "" {
		return entities.DispatchFailed, ErrEmptyPhone
	}

	dispatchLog := o.log.With(
		logger.NewField("order", offer.Order.ID),
		logger.NewField("courier", offer.Courier.ID),
	)

	state := o.register(ctx, dispatchLog, &session)

	switch state {
	case stateRegistered:
		// дальше по протоколу
	case stateTimedOut:
		session.Outcome = entities.DispatchTimeout
		return session.Outcome, o.logOutcome(ctx, &session)
	default:
		session.Outcome = entities.DispatchFailed
		return session.Outcome, o.logOutcome(ctx, &session)
	}

	o.pushCustomFields(ctx, dispatchLog, &session)

	if err := o.sendOffer(ctx, dispatchLog, &session); err != nil {
		session.Outcome = entities.DispatchFailed
		if session.RawResponse == "" {
			session.RawResponse = err.Error()
		}
		return session.Outcome, o.logOutcome(ctx, &session)
	}

	session.Outcome = entities.DispatchSent
	return session.Outcome, o.logOutcome(ctx, &session)
}

// register выполняет chat_add и опрашивает статус регистрации
// не более пяти раз с паузой в три секунды (бюджет 15 секунд).
func (o *Orchestrator) register(ctx context.Context, log logger.Logger, session *entities.DispatchSession) registrationState {
	contactID, err := o.gateway.RegisterChat(ctx, session.Phone, session.Offer.Courier.Name)
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Warn("chat registration call failed")
		session.RawResponse = err.Error()
		return stateFailed
	}
	session.ContactID = contactID

	for attempt := 1; attempt <= registrationPollAttempts; attempt++ {
		status, err := o.gateway.RegistrationStatus(ctx, session.ContactID)
		if err != nil {
			log.With(
				logger.NewField("error", err),
				logger.NewField("attempt", attempt),
			).Warn("registration status call failed")
			session.RawResponse = err.Error()
			return stateFailed
		}

		switch strings.ToLower(status.Status) {
		case "success", "fetched", "done":
			// Канал может вернуть исправленный номер в свободном тексте;
			// все последующие вызовы идут на него.
			if corrected := correctedPhoneRe.FindString(status.Description); corrected != "" && corrected != session.Phone {
				log.With(
					logger.NewField("original", session.Phone),
					logger.NewField("corrected", corrected),
				).Info("channel corrected recipient phone")
				session.Phone = corrected
			}
			return stateRegistered
		case "pending":
			if attempt < registrationPollAttempts {
				o.clock.Sleep(ctx, registrationPollInterval)
			}
		default:
			session.RawResponse = fmt.Sprintf("status=%s description=%s", status.Status, status.Description)
			return stateFailed
		}
	}

	session.RawResponse = "registration still pending after poll budget"
	return stateTimedOut
}

// pushCustomFields кладет order_id/provider_id в контакт.
// Best-effort: без них вебхук не свяжет ответ с парой, но отправку
// из-за этого не срываем — канал часто догоняет поля с задержкой.
func (o *Orchestrator) pushCustomFields(ctx context.Context, log logger.Logger, session *entities.DispatchSession) {
	fields := map[string]string{
		"order_id":    fmt.Sprintf("%d", session.Offer.Order.ID),
		"provider_id": fmt.Sprintf("%d", session.Offer.Courier.ID),
	}

	if err := o.gateway.UpdateCustomFields(ctx, session.Phone, fields); err != nil {
		log.With(
			logger.NewField("error", err),
		).Warn("custom fields update failed")
	}
}

func (o *Orchestrator) sendOffer(ctx context.Context, log logger.Logger, session *entities.DispatchSession) error {
	params := o.messages.TemplateParams(session.Offer)

	result, err := o.gateway.ExecuteDialog(ctx, session.Phone, o.dialogID, params)
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Warn("dialog execution failed")
		return err
	}
	if !result.Success {
		session.RawResponse = result.Raw
		return fmt.Errorf("channel rejected dialog: %s", result.Raw)
	}
	return nil
}

func (o *Orchestrator) logOutcome(ctx context.Context, session *entities.DispatchSession) error {
	metadata := map[string]interface{}{
		"distance_km":   session.Offer.DistanceKm,
		"score":         session.Offer.Courier.Score,
		"cancellations": session.Offer.Courier.Cancellations,
		"tier":          int(session.Offer.Courier.Tier),
	}

	eventType := entities.EventOfferSent
	if session.Outcome != entities.DispatchSent {
		eventType = entities.EventOfferDeliveryFailure
		metadata["outcome"] = session.Outcome.String()
		metadata["channel_response"] = session.RawResponse
	}

	event := entities.EventLogAppend{
		OrderID:    session.Offer.Order.ID,
		ProviderID: session.Offer.Courier.ID,
		Type:       eventType,
		Metadata:   metadata,
	}

	if err := o.eventLog.Append(ctx, event); err != nil {
		// Потеря записи лога ломает дедупликацию пар, это не проглатываем.
		return fmt.Errorf("%w: %v", ErrEventLogWrite, err)
	}

	observeOutcome(session.Offer.Order.CityID, eventType)
	return nil
}
