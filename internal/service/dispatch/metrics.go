package dispatch

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sai/internal/entities"
)

var dispatchOutcomeTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "offer_dispatch_outcome_total",
		Help: "Total number of offer dispatch attempts by city and resulting event",
	},
	[]string{"city_id", "event"},
)

func observeOutcome(cityID int64, event entities.EventType) {
	dispatchOutcomeTotal.WithLabelValues(strconv.FormatInt(cityID, 10), string(event)).Inc()
}
