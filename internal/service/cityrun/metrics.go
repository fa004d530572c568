package cityrun

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cityPassTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "city_pass_completed_total",
			Help: "Completed matching passes per city",
		},
		[]string{"city_id"},
	)

	cityPassOffers = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "city_pass_offers",
			Help:    "Offers dispatched per completed city pass",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"city_id"},
	)
)

func observeCityPass(cityID int64, offers int) {
	label := strconv.FormatInt(cityID, 10)
	cityPassTotal.WithLabelValues(label).Inc()
	cityPassOffers.WithLabelValues(label).Observe(float64(offers))
}
