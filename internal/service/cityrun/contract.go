//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=cityrun_test
package cityrun

import (
	"context"
	"time"

	"sai/internal/entities"
	"sai/internal/service/eligibility"
	"sai/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type PolicySource interface {
	GetActive(ctx context.Context) ([]entities.CityPolicy, error)
	UpdateLastRun(ctx context.Context, cityID int64, lastRunAt time.Time) error
}

type CandidateSource interface {
	StuckOrders(ctx context.Context, cityID int64, threshold time.Duration) ([]entities.StuckOrder, error)
	OnlineCouriers(ctx context.Context, cityID int64) ([]entities.CourierCandidate, error)
	OfflineCouriersWithHistory(ctx context.Context, cityID int64) ([]entities.CourierCandidate, error)
	AllOfflineCouriers(ctx context.Context, cityID int64) ([]entities.CourierCandidate, error)
	CourierByPhone(ctx context.Context, phone string) (*entities.CourierCandidate, error)
	OrderByID(ctx context.Context, orderID int64) (*entities.StuckOrder, error)
	BlockedPairs(ctx context.Context, cityID int64) (map[entities.PairKey]struct{}, error)
	BusyCouriers(ctx context.Context) (map[int64]struct{}, error)
	FixedCouriers(ctx context.Context) (map[int64]struct{}, error)
}

type EventSource interface {
	OfferedPairs(ctx context.Context, orderIDs []int64) (entities.PairSet, error)
	CourierHistories(ctx context.Context, courierIDs []int64) (map[int64][]entities.EventLogEntry, error)
}

type Filter interface {
	Filter(
		orders []entities.StuckOrder,
		couriers []entities.CourierCandidate,
		snapshot eligibility.Snapshot,
		policy entities.CityPolicy,
		now time.Time,
	) eligibility.Result
}

type Matcher interface {
	Rank(
		orders []entities.StuckOrder,
		eligible eligibility.Result,
		policy entities.CityPolicy,
	) []entities.Offer
	RankForCourier(
		orders []entities.StuckOrder,
		courier entities.CourierCandidate,
		eligible eligibility.Result,
		policy entities.CityPolicy,
	) []entities.Offer
}

type Dispatcher interface {
	Dispatch(ctx context.Context, offer entities.Offer) (entities.DispatchOutcome, error)
}

type Clock interface {
	Now() time.Time
}
