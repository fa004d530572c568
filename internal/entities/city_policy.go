package entities

import "time"

type CityPolicy struct {
	CityID             int64
	Name               string
	StuckThreshold     time.Duration
	MaxOffersPerOrder  int
	OfferRadiusKm      float64
	MaxUnansweredSends int
	Cooldown           time.Duration
	OfferToAllOffline  bool
	RequireResponded   bool
	RunInterval        time.Duration
	Active             bool
	LastRunAt          time.Time
}

type CityPolicyModify struct {
	CityID    *int64
	LastRunAt *time.Time
}

// Due сообщает, пора ли запускать проход по городу.
func (p CityPolicy) Due(now time.Time) bool {
	if !p.Active {
		return false
	}
	return p.LastRunAt.IsZero() || now.Sub(p.LastRunAt) >= p.RunInterval
}
