package entities

import "time"

type EventType string

// Закрытый набор типов событий sai_event_log.
// Лог append-only: записанное событие никогда не меняется и не удаляется.
const (
	EventOfferSent             EventType = "OFFER_SENT"
	EventOfferDeliveryFailure  EventType = "OFFER_DELIVERY_FAILURE"
	EventProviderAccepted      EventType = "PROVIDER_ACCEPTED"
	EventProviderRejected      EventType = "PROVIDER_REJECTED"
	EventOrderAlreadyTaken     EventType = "ORDER_ALREADY_TAKEN"
	EventVerificationNotFound  EventType = "VERIFICATION_FAILED_NOT_FOUND"
	EventAssignmentSuccess     EventType = "ASSIGNMENT_SUCCESS"
	EventAssignmentFailure     EventType = "ASSIGNMENT_FAILURE"
	EventAssignmentLoginFailed EventType = "ASSIGNMENT_FAILURE_LOGIN"
)

func (t EventType) String() string {
	return string(t)
}

type EventLogEntry struct {
	ID         int64
	OrderID    int64
	ProviderID int64
	Type       EventType
	Timestamp  time.Time
	Metadata   map[string]interface{}
}

type EventLogAppend struct {
	OrderID    int64
	ProviderID int64
	Type       EventType
	Metadata   map[string]interface{}
}

// IsProviderResponse — ответ курьера (принял/отклонил), закрывающий окно
// неотвеченных оферов.
func (t EventType) IsProviderResponse() bool {
	return t == EventProviderAccepted || t == EventProviderRejected
}
