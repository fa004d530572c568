package candidate

import "time"

type StuckOrderDB struct {
	ID          int64
	StoreID     int64
	Value       float64
	CityID      int64
	PickupText  string
	StoreLat    *float64
	StoreLon    *float64
	DeliveryLat *float64
	DeliveryLon *float64
	CreatedAt   time.Time
}

type CourierDB struct {
	ID            int64
	Name          string
	Phone         string
	Lat           *float64
	Lon           *float64
	Score         *float64
	Cancellations *int64
	CityID        int64
}
