package city_dispatch

import (
	"context"
	"time"
)

type Scheduler interface {
	ProcessDueCities(ctx context.Context) error
}

type Budget interface {
	Allow(ctx context.Context, now time.Time) (bool, error)
}

type Clock interface {
	Now() time.Time
}

// CityDispatch — тик планировщика: бюджетная заслонка, затем проход
// по городам с истекшим интервалом. Заслонка глобальная, проверяется
// один раз за тик, а не перед каждым городом.
type CityDispatch struct {
	scheduler Scheduler
	budget    Budget
	clock     Clock
	interval  time.Duration
}

func NewCityDispatch(scheduler Scheduler, budget Budget, clock Clock, interval time.Duration) *CityDispatch {
	return &CityDispatch{
		scheduler: scheduler,
		budget:    budget,
		clock:     clock,
		interval:  interval,
	}
}

// // TTL возвращает интервал между выполнениями задачи.
func (c *CityDispatch) TTL() time.Duration {
	return c.interval
}

// // Do выполняет логику задачи.
func (c *CityDispatch) Do(ctx context.Context) error {
	allowed, err := c.budget.Allow(ctx, c.clock.Now())
	if err != nil {
		return err
	}
	if !allowed {
		return nil
	}

	return c.scheduler.ProcessDueCities(ctx)
}

// // Info возвращает читаемое описание задачи для логгирования и отладки.
func (c *CityDispatch) Info() string {
	return "city dispatch"
}
