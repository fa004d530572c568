package offer_message

import (
	"fmt"
	"time"

	"sai/internal/entities"
	"sai/internal/pkg/geo"
)

// MessageFactory собирает упорядоченные параметры шаблона офера.
// Порядок параметров обязан совпадать со слотами диалога в канале:
// значение, точка забора, дистанция/ETA до забора, полная дистанция/ETA.
type MessageFactory struct {
	avgSpeedKmh float64
}

func New(avgSpeedKmh float64) *MessageFactory {
	return &MessageFactory{
		avgSpeedKmh: avgSpeedKmh,
	}
}

func (f *MessageFactory) TemplateParams(offer entities.Offer) []string {
	pickupEta := f.eta(offer.DistanceKm)

	totalKm := offer.DistanceKm
	if offer.Order.DeliveryLat != nil && offer.Order.DeliveryLon != nil {
		totalKm += geo.DistanceKm(
			offer.Order.StoreLat, offer.Order.StoreLon,
			*offer.Order.DeliveryLat, *offer.Order.DeliveryLon,
		)
	}
	totalEta := f.eta(totalKm)

	return []string{
		fmt.Sprintf("R$%.2f", offer.Order.Value),
		offer.Order.PickupText,
		fmt.Sprintf("%.1f km (~%d min)", offer.DistanceKm, int(pickupEta.Minutes())),
		fmt.Sprintf("%.1f km (~%d min)", totalKm, int(totalEta.Minutes())),
	}
}

func (f *MessageFactory) eta(distanceKm float64) time.Duration {
	if f.avgSpeedKmh <= 0 {
		return 0
	}
	hours := distanceKm / f.avgSpeedKmh
	return time.Duration(hours * float64(time.Hour))
}
