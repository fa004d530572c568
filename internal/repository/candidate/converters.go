package candidate

import (
	"time"

	"sai/internal/entities"
)

// toDomainOrder отбрасывает заказы без координат магазина:
// без точки забора дистанцию не посчитать, офер не собрать.
func toDomainOrder(o *StuckOrderDB, now time.Time) *entities.StuckOrder {
	if o == nil || o.StoreLat == nil || o.StoreLon == nil {
		return nil
	}

	return &entities.StuckOrder{
		ID:            o.ID,
		StoreID:       o.StoreID,
		Value:         o.Value,
		CityID:        o.CityID,
		PickupText:    o.PickupText,
		StoreLat:      *o.StoreLat,
		StoreLon:      *o.StoreLon,
		DeliveryLat:   o.DeliveryLat,
		DeliveryLon:   o.DeliveryLon,
		CreatedAt:     o.CreatedAt,
		StuckDuration: now.Sub(o.CreatedAt),
	}
}

func toDomainOrderList(models []StuckOrderDB, now time.Time) []entities.StuckOrder {
	orders := make([]entities.StuckOrder, 0, len(models))
	for i := range models {
		if order := toDomainOrder(&models[i], now); order != nil {
			orders = append(orders, *order)
		}
	}
	return orders
}

func toDomainCourier(c *CourierDB, tier entities.CourierTier) *entities.CourierCandidate {
	if c == nil || c.Lat == nil || c.Lon == nil {
		return nil
	}

	courier := entities.CourierCandidate{
		ID:     c.ID,
		Name:   c.Name,
		Phone:  c.Phone,
		Lat:    *c.Lat,
		Lon:    *c.Lon,
		Tier:   tier,
		CityID: c.CityID,
	}
	if c.Score != nil {
		courier.Score = *c.Score
	}
	if c.Cancellations != nil {
		courier.Cancellations = *c.Cancellations
	}
	return &courier
}

func toDomainCourierList(models []CourierDB, tier entities.CourierTier) []entities.CourierCandidate {
	couriers := make([]entities.CourierCandidate, 0, len(models))
	for i := range models {
		if courier := toDomainCourier(&models[i], tier); courier != nil {
			couriers = append(couriers, *courier)
		}
	}
	return couriers
}
