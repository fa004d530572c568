package chatguru

import (
	"errors"
	"fmt"
)

var ErrEmptyChatAddID = errors.New("chat_add response has no chat_add_id")

// APIError сохраняет HTTP-статус и сырое тело ответа канала:
// они уходят в metadata события OFFER_DELIVERY_FAILURE.
type APIError struct {
	Action     string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chatguru %s: status %d: %s", e.Action, e.StatusCode, e.Body)
}
