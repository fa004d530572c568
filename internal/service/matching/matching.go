package matching

import (
	"sort"

	"sai/internal/entities"
	"sai/internal/pkg/geo"
	"sai/internal/service/eligibility"
)

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Rank строит декартово произведение заказов и допущенных курьеров,
// отсекает пары за радиусом и уже предложенные/заблокированные,
// ранжирует и выбирает не более MaxOffersPerOrder курьеров на заказ.
//
// Порядок сортировки несущий: ярус (онлайн раньше офлайна) важнее
// дистанции, дистанция важнее числа отмен, отмены важнее скора.
func (e *Engine) Rank(
	orders []entities.StuckOrder,
	eligible eligibility.Result,
	policy entities.CityPolicy,
) []entities.Offer {
	candidates := buildCandidates(orders, eligible, policy.OfferRadiusKm)

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Order.ID != b.Order.ID {
			return a.Order.ID < b.Order.ID
		}
		if a.Courier.Tier != b.Courier.Tier {
			return a.Courier.Tier < b.Courier.Tier
		}
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		if a.Courier.Cancellations != b.Courier.Cancellations {
			return a.Courier.Cancellations < b.Courier.Cancellations
		}
		return a.Courier.Score > b.Courier.Score
	})

	// Два шага строго по очереди: сначала срез по MaxOffersPerOrder,
	// затем по уже срезанному списку — не больше одного офера на курьера,
	// первое вхождение выигрывает. Курьер-дубль занимает слот заказа и
	// только потом отбрасывается: заказ в этом проходе остается ни с чем,
	// поздние кандидаты слот не добирают.
	perOrder := make(map[int64]int, len(orders))
	capped := make([]entities.Offer, 0, len(orders)*policy.MaxOffersPerOrder)

	for _, candidate := range candidates {
		if perOrder[candidate.Order.ID] >= policy.MaxOffersPerOrder {
			continue
		}
		perOrder[candidate.Order.ID]++
		capped = append(capped, entities.Offer{
			Order:      candidate.Order,
			Courier:    candidate.Courier,
			DistanceKm: candidate.DistanceKm,
		})
	}

	usedCouriers := make(map[int64]struct{}, len(capped))
	offers := make([]entities.Offer, 0, len(capped))
	for _, offer := range capped {
		if _, ok := usedCouriers[offer.Courier.ID]; ok {
			continue
		}
		usedCouriers[offer.Courier.ID] = struct{}{}
		offers = append(offers, offer)
	}

	return offers
}

// RankForCourier — урезанный вариант для pull-потока: один курьер,
// все застрявшие заказы его города, лимит один офер.
func (e *Engine) RankForCourier(
	orders []entities.StuckOrder,
	courier entities.CourierCandidate,
	eligible eligibility.Result,
	policy entities.CityPolicy,
) []entities.Offer {
	singleCourier := eligibility.Result{
		Couriers:     []entities.CourierCandidate{courier},
		OfferedPairs: eligible.OfferedPairs,
		BlockedPairs: eligible.BlockedPairs,
	}

	candidates := buildCandidates(orders, singleCourier, policy.OfferRadiusKm)
	if len(candidates) == 0 {
		return nil
	}

	// Курьеру отдаем ровно один, ближайший к нему заказ.
	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.DistanceKm < best.DistanceKm {
			best = candidate
		}
	}
	return []entities.Offer{{
		Order:      best.Order,
		Courier:    best.Courier,
		DistanceKm: best.DistanceKm,
	}}
}

func buildCandidates(orders []entities.StuckOrder, eligible eligibility.Result, radiusKm float64) []entities.OfferCandidate {
	candidates := make([]entities.OfferCandidate, 0, len(orders)*len(eligible.Couriers))

	for _, order := range orders {
		for _, courier := range eligible.Couriers {
			if eligible.OfferedPairs.Has(order.ID, courier.ID) {
				continue
			}
			if eligible.BlockedPairs.Has(order.ID, courier.ID) {
				continue
			}

			distance := geo.DistanceKm(order.StoreLat, order.StoreLon, courier.Lat, courier.Lon)
			// Ровно на границе радиуса — еще кандидат.
			if distance > radiusKm {
				continue
			}

			candidates = append(candidates, entities.OfferCandidate{
				Order:      order,
				Courier:    courier,
				DistanceKm: distance,
			})
		}
	}
	return candidates
}
