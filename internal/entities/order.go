package entities

import "time"

// Заглушки provider_id у неназначенного заказа:
// 0 — NULL в исходной таблице, 1 — сервисный аккаунт поиска.
const searchPlaceholderProviderID int64 = 1

type StuckOrder struct {
	ID            int64
	StoreID       int64
	Value         float64
	CityID        int64
	PickupText    string
	StoreLat      float64
	StoreLon      float64
	DeliveryLat   *float64
	DeliveryLon   *float64
	CreatedAt     time.Time
	StuckDuration time.Duration
}

func IsProviderUnassigned(providerID int64) bool {
	return providerID == 0 || providerID == searchPlaceholderProviderID
}
