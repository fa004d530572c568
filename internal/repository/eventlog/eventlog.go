package eventlog

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"sai/internal/entities"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Repository — единственная точка записи в sai_event_log.
// Таблица append-only: только INSERT, никаких UPDATE/DELETE.
type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Append(ctx context.Context, event entities.EventLogAppend) error {
	metadata, err := marshalMetadata(event.Metadata)
	if err != nil {
		return fmt.Errorf("marshal event metadata: %w", err)
	}

	query := `INSERT INTO sai_event_log (order_id, provider_id, event_type, metadata)
		VALUES ($1, $2, $3, $4)`

	_, err = r.querier.Exec(ctx, query, event.OrderID, event.ProviderID, event.Type.String(), metadata)
	if err != nil {
		return fmt.Errorf("unexpected eventlog repository append error: %w", err)
	}
	return nil
}

func (r *Repository) AppendBatch(ctx context.Context, events []entities.EventLogAppend) error {
	if len(events) == 0 {
		return nil
	}

	builder := qb.
		Insert("sai_event_log").
		Columns("order_id", "provider_id", "event_type", "metadata")

	for _, event := range events {
		metadata, err := marshalMetadata(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshal event metadata: %w", err)
		}
		builder = builder.Values(event.OrderID, event.ProviderID, event.Type.String(), metadata)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("unexpected eventlog repository appendbatch error: %w", err)
	}

	_, err = r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected eventlog repository appendbatch error: %w", err)
	}
	return nil
}

// OfferedPairs возвращает пары (заказ, курьер), которым офер уже уходил.
// Пара предлагается не более одного раза за всю жизнь.
func (r *Repository) OfferedPairs(ctx context.Context, orderIDs []int64) (entities.PairSet, error) {
	pairs := entities.PairSet{}
	if len(orderIDs) == 0 {
		return pairs, nil
	}

	query := `SELECT order_id, provider_id
		FROM sai_event_log
		WHERE event_type = $1 AND order_id = ANY($2)`

	rows, err := r.querier.Query(ctx, query, entities.EventOfferSent.String(), orderIDs)
	if err != nil {
		return nil, fmt.Errorf("unexpected eventlog repository offeredpairs error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID, providerID int64
		if err := rows.Scan(&orderID, &providerID); err != nil {
			return nil, fmt.Errorf("unexpected eventlog repository offeredpairs error: %w", err)
		}
		pairs.Add(orderID, providerID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected eventlog repository offeredpairs error: %w", err)
	}
	return pairs, nil
}

// CourierHistories возвращает события оферов и ответов по каждому курьеру,
// упорядоченные по времени. Основа для cooldown и фильтра отзывчивости.
func (r *Repository) CourierHistories(ctx context.Context, courierIDs []int64) (map[int64][]entities.EventLogEntry, error) {
	histories := make(map[int64][]entities.EventLogEntry, len(courierIDs))
	if len(courierIDs) == 0 {
		return histories, nil
	}

	eventTypes := []string{
		entities.EventOfferSent.String(),
		entities.EventProviderAccepted.String(),
		entities.EventProviderRejected.String(),
	}

	query := `SELECT log_id, order_id, provider_id, event_type, event_timestamp, metadata
		FROM sai_event_log
		WHERE provider_id = ANY($1) AND event_type = ANY($2)
		ORDER BY event_timestamp`

	rows, err := r.querier.Query(ctx, query, courierIDs, eventTypes)
	if err != nil {
		return nil, fmt.Errorf("unexpected eventlog repository courierhistories error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var model EventLogDB
		err := rows.Scan(
			&model.ID,
			&model.OrderID,
			&model.ProviderID,
			&model.EventType,
			&model.Timestamp,
			&model.Metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected eventlog repository courierhistories error: %w", err)
		}
		entry := ToDomain(&model)
		histories[entry.ProviderID] = append(histories[entry.ProviderID], *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected eventlog repository courierhistories error: %w", err)
	}
	return histories, nil
}

// CountOffersSentSince считает OFFER_SENT с указанного момента.
// Используется бюджетным ограничителем (с локальной полуночи).
func (r *Repository) CountOffersSentSince(ctx context.Context, since time.Time) (int64, error) {
	query := `SELECT COUNT(*)
		FROM sai_event_log
		WHERE event_type = $1 AND event_timestamp >= $2`

	var count int64
	err := r.querier.QueryRow(ctx, query, entities.EventOfferSent.String(), since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("unexpected eventlog repository countofferssentsince error: %w", err)
	}
	return count, nil
}

// UnansweredCouriersForOrder возвращает курьеров, чей офер по заказу
// остался без ответа и без терминального события.
func (r *Repository) UnansweredCouriersForOrder(ctx context.Context, orderID int64) ([]int64, error) {
	query := `SELECT sent.provider_id
		FROM sai_event_log sent
		WHERE sent.order_id = $1
		  AND sent.event_type = $2
		  AND NOT EXISTS (
			SELECT 1 FROM sai_event_log other
			WHERE other.order_id = sent.order_id
			  AND other.provider_id = sent.provider_id
			  AND other.event_type = ANY($3)
			  AND other.event_timestamp >= sent.event_timestamp
		  )`

	closingTypes := []string{
		entities.EventProviderAccepted.String(),
		entities.EventProviderRejected.String(),
		entities.EventOrderAlreadyTaken.String(),
	}

	rows, err := r.querier.Query(ctx, query, orderID, entities.EventOfferSent.String(), closingTypes)
	if err != nil {
		return nil, fmt.Errorf("unexpected eventlog repository unansweredcouriersfororder error: %w", err)
	}
	defer rows.Close()

	var courierIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("unexpected eventlog repository unansweredcouriersfororder error: %w", err)
		}
		courierIDs = append(courierIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected eventlog repository unansweredcouriersfororder error: %w", err)
	}
	return courierIDs, nil
}
