package cityrun

import (
	"context"
	"errors"
	"fmt"

	"sai/internal/entities"
	"sai/internal/service/dispatch"
	"sai/internal/service/eligibility"
	"sai/pkg/logger"
)

// Service — однопоточный планировщик проходов по городам.
// Каждый город обрабатывается независимо и синхронно: сбой одного
// города не трогает остальные, два прохода одного города не
// перекрываются.
type Service struct {
	log        handlerLogger
	policies   PolicySource
	candidates CandidateSource
	events     EventSource
	filter     Filter
	matcher    Matcher
	dispatcher Dispatcher
	clock      Clock
}

func New(
	log handlerLogger,
	policies PolicySource,
	candidates CandidateSource,
	events EventSource,
	filter Filter,
	matcher Matcher,
	dispatcher Dispatcher,
	clock Clock,
) *Service {
	return &Service{
		log:        log,
		policies:   policies,
		candidates: candidates,
		events:     events,
		filter:     filter,
		matcher:    matcher,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// ProcessDueCities выполняет один тик планировщика: берет активные
// политики и прогоняет города, у которых истек интервал запуска.
func (s *Service) ProcessDueCities(ctx context.Context) error {
	policies, err := s.policies.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("load city policies: %w", err)
	}

	now := s.clock.Now()
	for _, policy := range policies {
		if !policy.Due(now) {
			continue
		}

		cityLog := s.log.With(
			logger.NewField("city", policy.CityID),
			logger.NewField("city_name", policy.Name),
		)

		if err := s.processCity(ctx, cityLog, policy); err != nil {
			if errors.Is(err, ErrNothingToOffer) {
				continue
			}
			// Потеря записи в лог событий деградирует дедупликацию,
			// такой тик лучше оборвать целиком.
			if errors.Is(err, dispatch.ErrEventLogWrite) {
				return err
			}
			cityLog.With(
				logger.NewField("error", err),
			).Error("city pass failed")
			continue
		}
	}
	return nil
}

// processCity — один полный проход: выборка → фильтрация → ранжирование
// → последовательный диспатч. last_run_at двигается только после
// успешного завершения, пустой город просто ждет следующего тика.
func (s *Service) processCity(ctx context.Context, log logger.Logger, policy entities.CityPolicy) error {
	orders, err := s.candidates.StuckOrders(ctx, policy.CityID, policy.StuckThreshold)
	if err != nil {
		return fmt.Errorf("load stuck orders: %w", err)
	}
	if len(orders) == 0 {
		return ErrNothingToOffer
	}

	couriers, err := s.loadCouriers(ctx, policy)
	if err != nil {
		return err
	}
	if len(couriers) == 0 {
		return ErrNothingToOffer
	}

	eligible, err := s.filterEligible(ctx, orders, couriers, policy)
	if err != nil {
		return err
	}

	offers := s.matcher.Rank(orders, eligible, policy)
	if len(offers) > 0 {
		log.Info("dispatching offers",
			logger.NewField("orders", len(orders)),
			logger.NewField("eligible_couriers", len(eligible.Couriers)),
			logger.NewField("offers", len(offers)),
		)
	}

	if err := s.dispatchAll(ctx, log, offers); err != nil {
		return err
	}

	if err := s.policies.UpdateLastRun(ctx, policy.CityID, s.clock.Now()); err != nil {
		return fmt.Errorf("update last run: %w", err)
	}
	observeCityPass(policy.CityID, len(offers))
	return nil
}

// OfferNext — урезанный проход по одному заказу после отказа курьера.
// Отказавшийся курьер уже имеет OFFER_SENT по этой паре и отсекается
// дедупликацией, отдельно исключать его не нужно.
func (s *Service) OfferNext(ctx context.Context, orderID, rejectedProviderID int64) error {
	order, err := s.candidates.OrderByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load rejected order: %w", err)
	}

	policy, err := s.policyFor(ctx, order.CityID)
	if err != nil {
		return err
	}
	// Один заказ — один следующий кандидат.
	policy.MaxOffersPerOrder = 1

	couriers, err := s.loadCouriers(ctx, policy)
	if err != nil {
		return err
	}

	orders := []entities.StuckOrder{*order}
	eligible, err := s.filterEligible(ctx, orders, couriers, policy)
	if err != nil {
		return err
	}

	offers := s.matcher.Rank(orders, eligible, policy)
	if len(offers) == 0 {
		return ErrNoOffer
	}

	log := s.log.With(
		logger.NewField("order", orderID),
		logger.NewField("rejected_by", rejectedProviderID),
	)
	return s.dispatchAll(ctx, log, offers[:1])
}

// OfferNextForCourier — pull-поток: курьер сам запрашивает ближайший
// застрявший заказ своего города.
func (s *Service) OfferNextForCourier(ctx context.Context, phone string) error {
	courier, err := s.candidates.CourierByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("load courier by phone: %w", err)
	}

	policy, err := s.policyFor(ctx, courier.CityID)
	if err != nil {
		return err
	}

	orders, err := s.candidates.StuckOrders(ctx, policy.CityID, policy.StuckThreshold)
	if err != nil {
		return fmt.Errorf("load stuck orders: %w", err)
	}
	if len(orders) == 0 {
		return ErrNoOffer
	}

	eligible, err := s.filterEligible(ctx, orders, []entities.CourierCandidate{*courier}, policy)
	if err != nil {
		return err
	}

	offers := s.matcher.RankForCourier(orders, *courier, eligible, policy)
	if len(offers) == 0 {
		return ErrNoOffer
	}

	log := s.log.With(
		logger.NewField("courier", courier.ID),
	)
	return s.dispatchAll(ctx, log, offers)
}

// loadCouriers собирает ярусы доступности в приоритетном порядке:
// онлайн, офлайн с историей, затем (по политике) весь офлайн города.
func (s *Service) loadCouriers(ctx context.Context, policy entities.CityPolicy) ([]entities.CourierCandidate, error) {
	online, err := s.candidates.OnlineCouriers(ctx, policy.CityID)
	if err != nil {
		return nil, fmt.Errorf("load online couriers: %w", err)
	}

	offline, err := s.candidates.OfflineCouriersWithHistory(ctx, policy.CityID)
	if err != nil {
		return nil, fmt.Errorf("load offline couriers with history: %w", err)
	}

	couriers := make([]entities.CourierCandidate, 0, len(online)+len(offline))
	couriers = append(couriers, online...)
	couriers = append(couriers, offline...)

	if policy.OfferToAllOffline {
		allOffline, err := s.candidates.AllOfflineCouriers(ctx, policy.CityID)
		if err != nil {
			return nil, fmt.Errorf("load all offline couriers: %w", err)
		}
		couriers = append(couriers, allOffline...)
	}
	return couriers, nil
}

func (s *Service) filterEligible(
	ctx context.Context,
	orders []entities.StuckOrder,
	couriers []entities.CourierCandidate,
	policy entities.CityPolicy,
) (eligibility.Result, error) {
	snapshot, err := s.loadSnapshot(ctx, orders, couriers, policy.CityID)
	if err != nil {
		return eligibility.Result{}, err
	}
	return s.filter.Filter(orders, couriers, snapshot, policy, s.clock.Now()), nil
}

func (s *Service) loadSnapshot(
	ctx context.Context,
	orders []entities.StuckOrder,
	couriers []entities.CourierCandidate,
	cityID int64,
) (eligibility.Snapshot, error) {
	busy, err := s.candidates.BusyCouriers(ctx)
	if err != nil {
		return eligibility.Snapshot{}, fmt.Errorf("load busy couriers: %w", err)
	}

	fixed, err := s.candidates.FixedCouriers(ctx)
	if err != nil {
		return eligibility.Snapshot{}, fmt.Errorf("load fixed couriers: %w", err)
	}

	blocked, err := s.candidates.BlockedPairs(ctx, cityID)
	if err != nil {
		return eligibility.Snapshot{}, fmt.Errorf("load blocked pairs: %w", err)
	}

	orderIDs := make([]int64, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}
	offered, err := s.events.OfferedPairs(ctx, orderIDs)
	if err != nil {
		return eligibility.Snapshot{}, fmt.Errorf("load offered pairs: %w", err)
	}

	courierIDs := make([]int64, 0, len(couriers))
	for _, courier := range couriers {
		courierIDs = append(courierIDs, courier.ID)
	}
	histories, err := s.events.CourierHistories(ctx, courierIDs)
	if err != nil {
		return eligibility.Snapshot{}, fmt.Errorf("load courier histories: %w", err)
	}

	return eligibility.Snapshot{
		Busy:              busy,
		Fixed:             fixed,
		BlockedStorePairs: blocked,
		Histories:         histories,
		OfferedPairs:      offered,
	}, nil
}

// dispatchAll шлет оферы строго в порядке ранжирования.
// Сбой одного офера не прерывает остальные, фатальна только
// потеря записи в лог событий.
func (s *Service) dispatchAll(ctx context.Context, log logger.Logger, offers []entities.Offer) error {
	for _, offer := range offers {
		outcome, err := s.dispatcher.Dispatch(ctx, offer)
		if err != nil {
			if errors.Is(err, dispatch.ErrEventLogWrite) {
				return err
			}
			log.With(
				logger.NewField("order", offer.Order.ID),
				logger.NewField("courier", offer.Courier.ID),
				logger.NewField("outcome", outcome),
				logger.NewField("error", err),
			).Warn("offer dispatch failed")
		}
	}
	return nil
}

func (s *Service) policyFor(ctx context.Context, cityID int64) (entities.CityPolicy, error) {
	policies, err := s.policies.GetActive(ctx)
	if err != nil {
		return entities.CityPolicy{}, fmt.Errorf("load city policies: %w", err)
	}
	for _, policy := range policies {
		if policy.CityID == cityID {
			return policy, nil
		}
	}
	return entities.CityPolicy{}, ErrPolicyNotFound
}
