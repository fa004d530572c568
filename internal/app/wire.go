//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"sai/internal/gateway/assignment"
	"sai/internal/gateway/chatguru"
	"sai/internal/handlers/rest/next_order_post"
	"sai/internal/handlers/rest/webhook_post"
	"sai/internal/handlers/tasks/city_dispatch"
	"sai/internal/pkg/config"
	"sai/internal/pkg/factory/offer_message"

	candidateRepo "sai/internal/repository/candidate"
	citypolicyRepo "sai/internal/repository/citypolicy"
	eventlogRepo "sai/internal/repository/eventlog"
	budgetService "sai/internal/service/budget"
	cityrunService "sai/internal/service/cityrun"
	dispatchService "sai/internal/service/dispatch"
	"sai/internal/service/eligibility"
	"sai/internal/service/matching"
	orderService "sai/internal/service/order"
	reconcileService "sai/internal/service/reconcile"

	"sai/pkg/logger"
	"sai/pkg/tx"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideQuerier,

		provideEventLogRepository,
		provideCityPolicyRepository,
		provideCandidateRepository,

		provideChatGuruClient,
		provideAssignmentClient,

		provideMessageFactory,
		provideSystemClock,
		provideDispatchOrchestrator,
		eligibility.New,
		matching.New,
		provideCityRunService,
		provideReconcileService,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(webhook_post.Service), new(*reconcileService.Service)),
		wire.Bind(new(next_order_post.Service), new(*cityrunService.Service)),

		wire.Bind(new(dispatchService.MessagingGateway), new(*chatguru.Client)),
		wire.Bind(new(dispatchService.EventLog), new(*eventlogRepo.Repository)),
		wire.Bind(new(dispatchService.MessageFactory), new(*offer_message.MessageFactory)),
		wire.Bind(new(dispatchService.Clock), new(*dispatchService.SystemClock)),

		wire.Bind(new(cityrunService.PolicySource), new(*citypolicyRepo.Repository)),
		wire.Bind(new(cityrunService.CandidateSource), new(*candidateRepo.Repository)),
		wire.Bind(new(cityrunService.EventSource), new(*eventlogRepo.Repository)),
		wire.Bind(new(cityrunService.Filter), new(*eligibility.Chain)),
		wire.Bind(new(cityrunService.Matcher), new(*matching.Engine)),
		wire.Bind(new(cityrunService.Dispatcher), new(*dispatchService.Orchestrator)),
		wire.Bind(new(cityrunService.Clock), new(*dispatchService.SystemClock)),

		wire.Bind(new(reconcileService.EventLog), new(*eventlogRepo.Repository)),
		wire.Bind(new(reconcileService.OrderSource), new(*candidateRepo.Repository)),
		wire.Bind(new(reconcileService.AssignmentGateway), new(*assignment.Client)),
		wire.Bind(new(reconcileService.Messenger), new(*chatguru.Client)),
		wire.Bind(new(reconcileService.NextBest), new(*cityrunService.Service)),
	)
	return &Application{}, nil
}

// InitializeWorkerApp для воркера матчинга (cmd/worker)
func InitializeWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*WorkerApp, error) {
	wire.Build(
		provideQuerier,

		provideEventLogRepository,
		provideCityPolicyRepository,
		provideCandidateRepository,

		provideChatGuruClient,

		provideMessageFactory,
		provideSystemClock,
		provideDispatchOrchestrator,
		eligibility.New,
		matching.New,
		provideCityRunService,
		provideBudgetGovernor,

		provideCityDispatchTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(WorkerApp), "*"),

		wire.Bind(new(dispatchService.MessagingGateway), new(*chatguru.Client)),
		wire.Bind(new(dispatchService.EventLog), new(*eventlogRepo.Repository)),
		wire.Bind(new(dispatchService.MessageFactory), new(*offer_message.MessageFactory)),
		wire.Bind(new(dispatchService.Clock), new(*dispatchService.SystemClock)),

		wire.Bind(new(cityrunService.PolicySource), new(*citypolicyRepo.Repository)),
		wire.Bind(new(cityrunService.CandidateSource), new(*candidateRepo.Repository)),
		wire.Bind(new(cityrunService.EventSource), new(*eventlogRepo.Repository)),
		wire.Bind(new(cityrunService.Filter), new(*eligibility.Chain)),
		wire.Bind(new(cityrunService.Matcher), new(*matching.Engine)),
		wire.Bind(new(cityrunService.Dispatcher), new(*dispatchService.Orchestrator)),
		wire.Bind(new(cityrunService.Clock), new(*dispatchService.SystemClock)),

		wire.Bind(new(budgetService.EventCounter), new(*eventlogRepo.Repository)),

		wire.Bind(new(city_dispatch.Scheduler), new(*cityrunService.Service)),
		wire.Bind(new(city_dispatch.Budget), new(*budgetService.Governor)),
		wire.Bind(new(city_dispatch.Clock), new(*dispatchService.SystemClock)),
	)
	return &WorkerApp{}, nil
}

// InitializeKafkaWorkerApp для Kafka воркера (cmd/worker-order-status-changed)
func InitializeKafkaWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,

		provideEventLogRepository,
		provideOrderService,

		wire.Bind(new(orderService.EventLog), new(*eventlogRepo.Repository)),
		wire.Bind(new(orderService.TxManager), new(*tx.Manager)),

		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}
