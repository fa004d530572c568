package eligibility

import (
	"time"

	"sai/internal/entities"
)

// Snapshot — все прочитанные до начала фильтрации данные.
// Цепочка фильтров сама ничего не читает и не пишет.
type Snapshot struct {
	Busy              map[int64]struct{}
	Fixed             map[int64]struct{}
	BlockedStorePairs map[entities.PairKey]struct{} // (store_id, provider_id)
	Histories         map[int64][]entities.EventLogEntry
	OfferedPairs      entities.PairSet
}

type Result struct {
	Couriers     []entities.CourierCandidate
	OfferedPairs entities.PairSet
	BlockedPairs entities.PairSet // (order_id, provider_id), раскрытые из блокировок магазинов
}

type Chain struct{}

func New() *Chain {
	return &Chain{}
}

// Filter прогоняет кандидатов через фиксированную цепочку:
// занятые → исключенные → блокировки → cooldown → фильтр отзывчивости.
// Каждый этап строго сужает выход предыдущего.
func (c *Chain) Filter(
	orders []entities.StuckOrder,
	couriers []entities.CourierCandidate,
	snapshot Snapshot,
	policy entities.CityPolicy,
	now time.Time,
) Result {
	filtered := dedupeCouriers(couriers)

	filtered = removeInSet(filtered, snapshot.Busy)
	filtered = removeInSet(filtered, snapshot.Fixed)

	blockedPairs := expandBlockedPairs(orders, snapshot.BlockedStorePairs)

	cooled := make([]entities.CourierCandidate, 0, len(filtered))
	for _, courier := range filtered {
		history := snapshot.Histories[courier.ID]
		if InCooldown(history, policy.MaxUnansweredSends, policy.Cooldown, now) {
			continue
		}
		cooled = append(cooled, courier)
	}
	filtered = cooled

	if policy.RequireResponded {
		responded := make([]entities.CourierCandidate, 0, len(filtered))
		for _, courier := range filtered {
			if hasEverResponded(snapshot.Histories[courier.ID]) {
				responded = append(responded, courier)
			}
		}
		filtered = responded
	}

	offered := snapshot.OfferedPairs
	if offered == nil {
		offered = entities.PairSet{}
	}

	return Result{
		Couriers:     filtered,
		OfferedPairs: offered,
		BlockedPairs: blockedPairs,
	}
}

// dedupeCouriers схлопывает курьера, попавшего в несколько ярусов выборки,
// оставляя первое вхождение (ярусы запрашиваются от онлайна к офлайну).
func dedupeCouriers(couriers []entities.CourierCandidate) []entities.CourierCandidate {
	seen := make(map[int64]struct{}, len(couriers))
	result := make([]entities.CourierCandidate, 0, len(couriers))
	for _, courier := range couriers {
		if _, ok := seen[courier.ID]; ok {
			continue
		}
		seen[courier.ID] = struct{}{}
		result = append(result, courier)
	}
	return result
}

func removeInSet(couriers []entities.CourierCandidate, exclude map[int64]struct{}) []entities.CourierCandidate {
	if len(exclude) == 0 {
		return couriers
	}
	result := make([]entities.CourierCandidate, 0, len(couriers))
	for _, courier := range couriers {
		if _, ok := exclude[courier.ID]; ok {
			continue
		}
		result = append(result, courier)
	}
	return result
}

// expandBlockedPairs переводит блокировки (магазин, курьер) в пары
// (заказ, курьер): курьер, заблокированный одним магазином,
// остается кандидатом для заказов других магазинов.
func expandBlockedPairs(orders []entities.StuckOrder, storeBlocks map[entities.PairKey]struct{}) entities.PairSet {
	blocked := entities.PairSet{}
	if len(storeBlocks) == 0 {
		return blocked
	}
	for _, order := range orders {
		for pair := range storeBlocks {
			if pair.OrderID == order.StoreID {
				blocked.Add(order.ID, pair.CourierID)
			}
		}
	}
	return blocked
}

func hasEverResponded(history []entities.EventLogEntry) bool {
	for _, event := range history {
		if event.Type.IsProviderResponse() {
			return true
		}
	}
	return false
}
