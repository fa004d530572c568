package background

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"sai/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Task — периодическая фоновая задача.
type Task interface {
	// TTL возвращает интервал между запусками.
	TTL() time.Duration

	// Do выполняет один проход задачи.
	Do(context.Context) error

	// Info возвращает читаемое имя задачи для логов.
	Info() string
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// Worker гоняет набор фоновых задач по их интервалам.
type Worker struct {
	log   handlerLogger
	tasks []Task
}

// New прогревает задачи синхронным первым проходом и запускает их в фоне.
// Ошибка или паника на прогреве валит старт целиком: битая задача не
// должна молча крутиться до первого тика. Дальше задачи живут до отмены
// контекста.
func New(ctx context.Context, log handlerLogger, tasks []Task) (*Worker, error) {
	worker := &Worker{
		log:   log,
		tasks: tasks,
	}
	if len(tasks) == 0 {
		return worker, nil
	}

	initGroup, initCtx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		initGroup.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					err = fmt.Errorf("init panic: %v\n%s", r, stack)
					log.Error("task panic during init",
						logger.NewField("task", task.Info()),
						logger.NewField("recover", r),
						logger.NewField("stack", stack),
					)
				}
			}()
			log.Info("initializing task", logger.NewField("task", task.Info()))
			return task.Do(initCtx)
		})
	}
	if err := initGroup.Wait(); err != nil {
		return nil, fmt.Errorf("initialize tasks: %w", err)
	}

	for _, task := range tasks {
		go worker.runTask(ctx, task)
	}
	return worker, nil
}

func (w *Worker) runTask(ctx context.Context, task Task) {
	ttl := task.TTL()
	if ttl <= 0 {
		w.log.Warn("invalid TTL, skipping periodic execution",
			logger.NewField("task", task.Info()),
			logger.NewField("ttl", ttl),
		)
		return
	}
	w.log.Info("starting periodic execution",
		logger.NewField("task", task.Info()),
		logger.NewField("ttl", ttl),
	)

	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("stopping task", logger.NewField("task", task.Info()))
			return
		case <-ticker.C:
			w.runTaskSafely(ctx, task)
		}
	}
}

func (w *Worker) runTaskSafely(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("background task panic",
				logger.NewField("task", task.Info()),
				logger.NewField("recover", r),
				logger.NewField("stack", debug.Stack()),
			)
		}
	}()

	if err := task.Do(ctx); err != nil {
		w.log.Error("background task failed",
			logger.NewField("task", task.Info()),
			logger.NewField("error", err),
		)
	}
}
