package citypolicy

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

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) GetActive(ctx context.Context) ([]entities.CityPolicy, error) {
	query := `SELECT city_id, name, stuck_threshold_min, max_offers_per_order, offer_radius_km,
			max_unanswered_offers, cooldown_hours, offer_to_all_offline, require_responded,
			run_interval_sec, active, last_run_at
		FROM city_policies
		WHERE active = TRUE
		ORDER BY city_id`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unexpected citypolicy repository getactive error: %w", err)
	}
	defer rows.Close()

	policyModels := make([]CityPolicyDB, 0, 8)
	for rows.Next() {
		var model CityPolicyDB
		err := rows.Scan(
			&model.CityID,
			&model.Name,
			&model.StuckThresholdMin,
			&model.MaxOffersPerOrder,
			&model.OfferRadiusKm,
			&model.MaxUnansweredSends,
			&model.CooldownHours,
			&model.OfferToAllOffline,
			&model.RequireResponded,
			&model.RunIntervalSec,
			&model.Active,
			&model.LastRunAt,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected citypolicy repository getactive error: %w", err)
		}
		policyModels = append(policyModels, model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected citypolicy repository getactive error: %w", err)
	}
	return ToDomainList(policyModels), nil
}

// UpdateLastRun вызывается только однопоточным планировщиком
// после успешного завершения прохода по городу.
func (r *Repository) UpdateLastRun(ctx context.Context, cityID int64, lastRunAt time.Time) error {
	builder := qb.
		Update("city_policies").
		Set("last_run_at", lastRunAt).
		Where(sq.Eq{"city_id": cityID})

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("unexpected citypolicy repository updatelastrun error: %w", err)
	}

	tag, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unexpected citypolicy repository updatelastrun error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("unexpected citypolicy repository updatelastrun error: city %d not found", cityID)
	}
	return nil
}
