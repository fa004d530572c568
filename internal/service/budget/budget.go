package budget

import (
	"context"
	"fmt"
	"time"

	"sai/pkg/logger"
)

// Governor — мягкий глобальный предохранитель расходов на сообщения.
// Считает отправленные оферы с местной полуночи, умножает на стоимость
// шаблона и при достижении дневного лимита глушит диспатч целиком
// до истечения паузы. Не per-city: лимит общий на весь процесс.
type Governor struct {
	log          handlerLogger
	counter      EventCounter
	perOfferCost float64
	dailyCap     float64
	pauseFor     time.Duration
	location     *time.Location

	pausedUntil time.Time
}

func New(
	log handlerLogger,
	counter EventCounter,
	perOfferCost float64,
	dailyCap float64,
	pauseFor time.Duration,
	location *time.Location,
) *Governor {
	if location == nil {
		location = time.UTC
	}
	return &Governor{
		log:          log,
		counter:      counter,
		perOfferCost: perOfferCost,
		dailyCap:     dailyCap,
		pauseFor:     pauseFor,
		location:     location,
	}
}

// Allow отвечает, можно ли диспатчить в этом тике.
// Пока действует пауза, в лог событий даже не ходим.
// Вызывается только из однопоточного цикла воркера.
func (g *Governor) Allow(ctx context.Context, now time.Time) (bool, error) {
	if g.dailyCap <= 0 {
		return true, nil
	}
	if now.Before(g.pausedUntil) {
		return false, nil
	}

	sent, err := g.counter.CountOffersSentSince(ctx, g.localMidnight(now))
	if err != nil {
		return false, fmt.Errorf("count offers sent: %w", err)
	}

	spent := float64(sent) * g.perOfferCost
	if spent >= g.dailyCap {
		g.pausedUntil = now.Add(g.pauseFor)
		g.log.Warn("daily messaging budget exhausted, pausing dispatch",
			logger.NewField("spent", spent),
			logger.NewField("cap", g.dailyCap),
			logger.NewField("paused_until", g.pausedUntil),
		)
		observeBudgetPause(spent)
		return false, nil
	}
	return true, nil
}

func (g *Governor) localMidnight(now time.Time) time.Time {
	local := now.In(g.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, g.location)
}
