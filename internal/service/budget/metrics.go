package budget

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	budgetPauseTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_budget_pause_total",
			Help: "Times dispatch was paused because the daily messaging budget was exhausted",
		},
	)

	budgetSpentAtPause = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "messaging_budget_spent_at_pause",
			Help: "Estimated spend at the moment the last pause was triggered",
		},
	)
)

func observeBudgetPause(spent float64) {
	budgetPauseTotal.Inc()
	budgetSpentAtPause.Set(spent)
}
