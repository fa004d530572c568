package app

import (
	"context"
	"time"

	"sai/internal/gateway/assignment"
	"sai/internal/gateway/chatguru"
	"sai/internal/handlers/rest/next_order_post"
	"sai/internal/handlers/rest/webhook_post"
	"sai/internal/handlers/tasks/city_dispatch"
	"sai/internal/pkg/config"
	"sai/internal/pkg/factory/offer_message"
	"sai/internal/pkg/httpclient"

	candidateRepo "sai/internal/repository/candidate"
	citypolicyRepo "sai/internal/repository/citypolicy"
	eventlogRepo "sai/internal/repository/eventlog"
	budgetService "sai/internal/service/budget"
	cityrunService "sai/internal/service/cityrun"
	dispatchService "sai/internal/service/dispatch"
	orderService "sai/internal/service/order"
	reconcileService "sai/internal/service/reconcile"

	"sai/pkg/background"
	"sai/pkg/logger"
	"sai/pkg/querier"
	"sai/pkg/retrier"
	"sai/pkg/retrier/backoff_adapter"
	"sai/pkg/tx"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Application struct {
	ServiceReconcile webhook_post.Service
	ServiceNextOrder next_order_post.Service
}

type WorkerApp struct {
	BackgroundWorkers *background.Worker
}

type KafkaWorkerApp struct {
	OrderService *orderService.Service
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideEventLogRepository(querier *querier.Querier) *eventlogRepo.Repository {
	return eventlogRepo.New(querier)
}

func provideCityPolicyRepository(querier *querier.Querier) *citypolicyRepo.Repository {
	return citypolicyRepo.New(querier)
}

func provideCandidateRepository(querier *querier.Querier) *candidateRepo.Repository {
	return candidateRepo.New(querier)
}

func provideChatGuruClient(cfg *config.Config) *chatguru.Client {
	httpClient := httpclient.New(cfg.ChatGuru.Timeout, false)
	return chatguru.New(httpClient, chatguru.Config{
		BaseURL:   cfg.ChatGuru.URL,
		Key:       cfg.ChatGuru.Key,
		AccountID: cfg.ChatGuru.AccountID,
		PhoneID:   cfg.ChatGuru.PhoneID,
	})
}

func provideAssignmentClient(cfg *config.Config) *assignment.Client {
	httpClient := httpclient.New(cfg.Assignment.Timeout, cfg.Assignment.InsecureSkipVerify)
	loginRetrier := backoff_adapter.New(retrier.Config{
		InitialInterval: time.Second,
		MaxInterval:     10 * time.Second,
		MaxElapsedTime:  30 * time.Second,
		Randomization:   0.5,
		Multiplier:      2,
		ShouldRetry:     assignment.ShouldRetryLogin,
	})
	return assignment.New(httpClient, loginRetrier, assignment.Config{
		BaseURL:  cfg.Assignment.URL,
		Email:    cfg.Assignment.Email,
		Password: cfg.Assignment.Password,
	})
}

func provideMessageFactory(cfg *config.Config) *offer_message.MessageFactory {
	return offer_message.New(cfg.Offer.AvgSpeedKmh)
}

func provideSystemClock() *dispatchService.SystemClock {
	return dispatchService.NewSystemClock()
}

func provideDispatchOrchestrator(
	log logger.Logger,
	gateway dispatchService.MessagingGateway,
	eventLog dispatchService.EventLog,
	messages dispatchService.MessageFactory,
	clock dispatchService.Clock,
	cfg *config.Config,
) *dispatchService.Orchestrator {
	return dispatchService.New(log, gateway, eventLog, messages, clock, cfg.ChatGuru.DialogID)
}

func provideCityRunService(
	log logger.Logger,
	policies cityrunService.PolicySource,
	candidates cityrunService.CandidateSource,
	events cityrunService.EventSource,
	filter cityrunService.Filter,
	matcher cityrunService.Matcher,
	dispatcher cityrunService.Dispatcher,
	clock cityrunService.Clock,
) *cityrunService.Service {
	return cityrunService.New(log, policies, candidates, events, filter, matcher, dispatcher, clock)
}

func provideReconcileService(
	log logger.Logger,
	eventLog reconcileService.EventLog,
	orders reconcileService.OrderSource,
	assignmentGateway reconcileService.AssignmentGateway,
	messenger reconcileService.Messenger,
	nextBest reconcileService.NextBest,
) *reconcileService.Service {
	return reconcileService.New(log, eventLog, orders, assignmentGateway, messenger, nextBest)
}

func provideBudgetGovernor(
	log logger.Logger,
	counter budgetService.EventCounter,
	cfg *config.Config,
) (*budgetService.Governor, error) {
	location := time.UTC
	if cfg.Budget.Timezone != "" {
		var err error
		location, err = time.LoadLocation(cfg.Budget.Timezone)
		if err != nil {
			return nil, err
		}
	}
	return budgetService.New(
		log,
		counter,
		cfg.Budget.PerOfferCost,
		cfg.Budget.DailyCap,
		cfg.Budget.Pause,
		location,
	), nil
}

func provideOrderService(
	log logger.Logger,
	eventLog orderService.EventLog,
	txManager orderService.TxManager,
) *orderService.Service {
	return orderService.New(log, eventLog, txManager)
}

func provideCityDispatchTask(
	scheduler city_dispatch.Scheduler,
	budget city_dispatch.Budget,
	clock city_dispatch.Clock,
	cfg *config.Config,
) *city_dispatch.CityDispatch {
	return city_dispatch.NewCityDispatch(scheduler, budget, clock, cfg.Tasks.CityDispatchInterval)
}

func provideTaskList(
	cityDispatchTask *city_dispatch.CityDispatch,
) []background.Task {
	return []background.Task{
		cityDispatchTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
