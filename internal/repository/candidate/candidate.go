package candidate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"sai/internal/entities"
	"sai/internal/service/reconcile"
)

const offlineHistoryWindow = 14 * 24 * time.Hour

type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Repository — read-only представление исходных данных платформы
// (заказы, курьеры, блокировки). Ядро их никогда не мутирует.
type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// StuckOrders возвращает заказы города, застрявшие в поиске дольше порога.
// COALESCE(provider_id, 0) IN (0, 1) — значения-заглушки «не назначен»,
// см. entities.IsProviderUnassigned.
func (r *Repository) StuckOrders(ctx context.Context, cityID int64, threshold time.Duration) ([]entities.StuckOrder, error) {
	query := `SELECT ur.id, ur.store_id, ur.amount, ur.city_id, ur.pickup_text,
			ur.store_latitude, ur.store_longitude, ur.latitude, ur.longitude, ur.created_at
		FROM user_requests ur
		WHERE ur.city_id = $1
		  AND COALESCE(ur.provider_id, 0) IN (0, 1)
		  AND ur.status = 'searching'
		  AND ur.created_at <= NOW() - make_interval(secs => $2)
		ORDER BY ur.created_at`

	rows, err := r.querier.Query(ctx, query, cityID, threshold.Seconds())
	if err != nil {
		return nil, fmt.Errorf("unexpected candidate repository stuckorders error: %w", err)
	}
	defer rows.Close()

	orderModels := make([]StuckOrderDB, 0, 8)
	for rows.Next() {
		var model StuckOrderDB
		err := rows.Scan(
			&model.ID,
			&model.StoreID,
			&model.Value,
			&model.CityID,
			&model.PickupText,
			&model.StoreLat,
			&model.StoreLon,
			&model.DeliveryLat,
			&model.DeliveryLon,
			&model.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected candidate repository stuckorders error: %w", err)
		}
		orderModels = append(orderModels, model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected candidate repository stuckorders error: %w", err)
	}
	return toDomainOrderList(orderModels, time.Now().UTC()), nil
}

func (r *Repository) OnlineCouriers(ctx context.Context, cityID int64) ([]entities.CourierCandidate, error) {
	query := `SELECT p.id, CONCAT(p.first_name, ' ', p.last_name), p.mobile,
			p.latitude, p.longitude, score.score, COALESCE(pc.cancellations, 0), p.city_id
		FROM providers p
		INNER JOIN provider_services ps ON p.id = ps.provider_id AND ps.status = 'active'
		LEFT JOIN provider_scores score ON p.id = score.provider_id
		LEFT JOIN provider_cancellations pc ON p.id = pc.provider_id
		WHERE p.city_id = $1`

	couriers, err := r.queryCouriers(ctx, query, cityID)
	if err != nil {
		return nil, fmt.Errorf("unexpected candidate repository onlinecouriers error: %w", err)
	}
	return toDomainCourierList(couriers, entities.TierOnline), nil
}

// OfflineCouriersWithHistory — офлайн-курьеры, завершавшие доставки
// в этом городе за последние две недели.
func (r *Repository) OfflineCouriersWithHistory(ctx context.Context, cityID int64) ([]entities.CourierCandidate, error) {
	query := `SELECT DISTINCT p.id, CONCAT(p.first_name, ' ', p.last_name), p.mobile,
			p.latitude, p.longitude, score.score, COALESCE(pc.cancellations, 0), p.city_id
		FROM providers p
		INNER JOIN user_requests ur ON ur.provider_id = p.id
			AND ur.status = 'completed'
			AND ur.created_at >= NOW() - make_interval(secs => $2)
		LEFT JOIN provider_services ps ON p.id = ps.provider_id AND ps.status = 'active'
		LEFT JOIN provider_scores score ON p.id = score.provider_id
		LEFT JOIN provider_cancellations pc ON p.id = pc.provider_id
		WHERE p.city_id = $1 AND ps.provider_id IS NULL`

	couriers, err := r.queryCouriers(ctx, query, cityID, offlineHistoryWindow.Seconds())
	if err != nil {
		return nil, fmt.Errorf("unexpected candidate repository offlinecourierswithhistory error: %w", err)
	}
	return toDomainCourierList(couriers, entities.TierOfflineHistory), nil
}

// AllOfflineCouriers — все офлайн-курьеры города. Включается политикой
// offer_to_all_offline для маленьких городов.
func (r *Repository) AllOfflineCouriers(ctx context.Context, cityID int64) ([]entities.CourierCandidate, error) {
	query := `SELECT p.id, CONCAT(p.first_name, ' ', p.last_name), p.mobile,
			p.latitude, p.longitude, score.score, COALESCE(pc.cancellations, 0), p.city_id
		FROM providers p
		LEFT JOIN provider_services ps ON p.id = ps.provider_id AND ps.status = 'active'
		LEFT JOIN provider_scores score ON p.id = score.provider_id
		LEFT JOIN provider_cancellations pc ON p.id = pc.provider_id
		WHERE p.city_id = $1 AND ps.provider_id IS NULL`

	couriers, err := r.queryCouriers(ctx, query, cityID)
	if err != nil {
		return nil, fmt.Errorf("unexpected candidate repository allofflinecouriers error: %w", err)
	}
	return toDomainCourierList(couriers, entities.TierOfflineGeneric), nil
}

func (r *Repository) CourierByPhone(ctx context.Context, phone string) (*entities.CourierCandidate, error) {
	query := `SELECT p.id, CONCAT(p.first_name, ' ', p.last_name), p.mobile,
			p.latitude, p.longitude, score.score, COALESCE(pc.cancellations, 0), p.city_id
		FROM providers p
		LEFT JOIN provider_scores score ON p.id = score.provider_id
		LEFT JOIN provider_cancellations pc ON p.id = pc.provider_id
		WHERE p.mobile = $1`

	var model CourierDB
	err := r.querier.QueryRow(ctx, query, phone).Scan(
		&model.ID,
		&model.Name,
		&model.Phone,
		&model.Lat,
		&model.Lon,
		&model.Score,
		&model.Cancellations,
		&model.CityID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, reconcile.ErrCourierNotFound
		}
		return nil, fmt.Errorf("unexpected candidate repository courierbyphone error: %w", err)
	}

	courier := toDomainCourier(&model, entities.TierOnline)
	if courier == nil {
		return nil, reconcile.ErrCourierNotFound
	}
	return courier, nil
}

// BlockedPairs — пары (магазин, курьер), запрещенные навсегда.
func (r *Repository) BlockedPairs(ctx context.Context, cityID int64) (map[entities.PairKey]struct{}, error) {
	query := `SELECT b.store_id, b.provider_id
		FROM store_provider_blocks b
		INNER JOIN providers p ON p.id = b.provider_id
		WHERE p.city_id = $1`

	rows, err := r.querier.Query(ctx, query, cityID)
	if err != nil {
		return nil, fmt.Errorf("unexpected candidate repository blockedpairs error: %w", err)
	}
	defer rows.Close()

	blocked := map[entities.PairKey]struct{}{}
	for rows.Next() {
		var storeID, providerID int64
		if err := rows.Scan(&storeID, &providerID); err != nil {
			return nil, fmt.Errorf("unexpected candidate repository blockedpairs error: %w", err)
		}
		// PairKey здесь переиспользуется как (магазин, курьер)
		blocked[entities.PairKey{OrderID: storeID, CourierID: providerID}] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected candidate repository blockedpairs error: %w", err)
	}
	return blocked, nil
}

// BusyCouriers — курьеры на незавершенных заказах.
func (r *Repository) BusyCouriers(ctx context.Context) (map[int64]struct{}, error) {
	query := `SELECT DISTINCT provider_id
		FROM user_requests
		WHERE provider_id IS NOT NULL
		  AND status NOT IN ('completed', 'cancelled')`

	return r.queryIDSet(ctx, query)
}

// FixedCouriers — постоянный реестр исключенных курьеров.
func (r *Repository) FixedCouriers(ctx context.Context) (map[int64]struct{}, error) {
	query := `SELECT provider_id FROM sai_fixed_providers`

	return r.queryIDSet(ctx, query)
}

// OrderProviderID читает живое поле provider_id заказа
// непосредственно перед назначением (защита от гонки).
func (r *Repository) OrderProviderID(ctx context.Context, orderID int64) (int64, error) {
	query := `SELECT COALESCE(provider_id, 0) FROM user_requests WHERE id = $1`

	var providerID int64
	err := r.querier.QueryRow(ctx, query, orderID).Scan(&providerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, reconcile.ErrOrderNotFound
		}
		return 0, fmt.Errorf("unexpected candidate repository orderproviderid error: %w", err)
	}
	return providerID, nil
}

func (r *Repository) OrderByID(ctx context.Context, orderID int64) (*entities.StuckOrder, error) {
	query := `SELECT ur.id, ur.store_id, ur.amount, ur.city_id, ur.pickup_text,
			ur.store_latitude, ur.store_longitude, ur.latitude, ur.longitude, ur.created_at
		FROM user_requests ur
		WHERE ur.id = $1`

	var model StuckOrderDB
	err := r.querier.QueryRow(ctx, query, orderID).Scan(
		&model.ID,
		&model.StoreID,
		&model.Value,
		&model.CityID,
		&model.PickupText,
		&model.StoreLat,
		&model.StoreLon,
		&model.DeliveryLat,
		&model.DeliveryLon,
		&model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, reconcile.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected candidate repository orderbyid error: %w", err)
	}

	order := toDomainOrder(&model, time.Now().UTC())
	if order == nil {
		return nil, reconcile.ErrOrderNotFound
	}
	return order, nil
}

func (r *Repository) queryCouriers(ctx context.Context, query string, args ...interface{}) ([]CourierDB, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courierModels := make([]CourierDB, 0, 8)
	for rows.Next() {
		var model CourierDB
		err := rows.Scan(
			&model.ID,
			&model.Name,
			&model.Phone,
			&model.Lat,
			&model.Lon,
			&model.Score,
			&model.Cancellations,
			&model.CityID,
		)
		if err != nil {
			return nil, err
		}
		courierModels = append(courierModels, model)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courierModels, nil
}

func (r *Repository) queryIDSet(ctx context.Context, query string) (map[int64]struct{}, error) {
	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unexpected candidate repository error: %w", err)
	}
	defer rows.Close()

	ids := map[int64]struct{}{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("unexpected candidate repository error: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected candidate repository error: %w", err)
	}
	return ids, nil
}
