package eligibility

import (
	"time"

	"sai/internal/entities"
)

// InCooldown решает, остыл ли курьер после серии проигнорированных оферов.
//
// last_response — момент последнего PROVIDER_ACCEPTED/PROVIDER_REJECTED;
// неотвеченные — все OFFER_SENT строго после него (или вообще все, если
// ответа не было никогда). Курьер в cooldown, если неотвеченных не меньше
// maxUnanswered и самый свежий из них моложе окна cooldown.
// История обязана быть упорядочена по времени.
func InCooldown(history []entities.EventLogEntry, maxUnanswered int, cooldown time.Duration, now time.Time) bool {
	if maxUnanswered <= 0 || cooldown <= 0 {
		return false
	}

	var lastResponse time.Time
	for _, event := range history {
		if event.Type.IsProviderResponse() && event.Timestamp.After(lastResponse) {
			lastResponse = event.Timestamp
		}
	}

	unanswered := 0
	var lastUnansweredSend time.Time
	for _, event := range history {
		if event.Type != entities.EventOfferSent {
			continue
		}
		if !event.Timestamp.After(lastResponse) {
			continue
		}
		unanswered++
		if event.Timestamp.After(lastUnansweredSend) {
			lastUnansweredSend = event.Timestamp
		}
	}

	if unanswered < maxUnanswered {
		return false
	}
	return now.Sub(lastUnansweredSend) < cooldown
}
