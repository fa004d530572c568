package eventlog

import (
	"encoding/json"

	"sai/internal/entities"
)

func ToDomain(e *EventLogDB) *entities.EventLogEntry {
	if e == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(e.Metadata) > 0 {
		// Невалидный metadata не роняет чтение лога, событие важнее деталей.
		_ = json.Unmarshal(e.Metadata, &metadata)
	}

	return &entities.EventLogEntry{
		ID:         e.ID,
		OrderID:    e.OrderID,
		ProviderID: e.ProviderID,
		Type:       entities.EventType(e.EventType),
		Timestamp:  e.Timestamp,
		Metadata:   metadata,
	}
}

func marshalMetadata(metadata map[string]interface{}) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	return json.Marshal(metadata)
}
