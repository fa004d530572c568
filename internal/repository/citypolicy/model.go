package citypolicy

import "time"

type CityPolicyDB struct {
	CityID             int64
	Name               string
	StuckThresholdMin  int64
	MaxOffersPerOrder  int32
	OfferRadiusKm      float64
	MaxUnansweredSends int32
	CooldownHours      int64
	OfferToAllOffline  bool
	RequireResponded   bool
	RunIntervalSec     int64
	Active             bool
	LastRunAt          *time.Time
}
