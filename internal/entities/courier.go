package entities

type CourierTier int

const (
	TierOnline         CourierTier = 1
	TierOfflineHistory CourierTier = 2
	TierOfflineGeneric CourierTier = 2
)

type CourierCandidate struct {
	ID            int64
	Name          string
	Phone         string
	Lat           float64
	Lon           float64
	Score         float64
	Cancellations int64
	Tier          CourierTier
	CityID        int64
}
