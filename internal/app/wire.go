//go:build wireinject
// +build wireinject

package app

import (
	"context"
	"time"

	eligibilityGateway "courier-dispatch/internal/gateway/grpc/eligibility"
	"courier-dispatch/internal/gateway/local"
	"courier-dispatch/internal/handlers/kafka-consumer/orders_placed"
	"courier-dispatch/internal/handlers/rest/admin_code_post"
	"courier-dispatch/internal/handlers/rest/admin_order_post"
	"courier-dispatch/internal/handlers/rest/admin_orders_get"
	"courier-dispatch/internal/handlers/rest/admin_session_get"
	"courier-dispatch/internal/handlers/rest/offers_get"
	"courier-dispatch/internal/handlers/rest/order_action_post"
	"courier-dispatch/internal/handlers/rest/session_action_post"
	"courier-dispatch/internal/handlers/rest/session_get"
	"courier-dispatch/internal/handlers/rest/session_start_post"
	"courier-dispatch/internal/handlers/tasks/offer_expiry"
	"courier-dispatch/internal/handlers/tasks/pending_rebroadcast"
	"courier-dispatch/internal/pkg/config"
	"courier-dispatch/internal/pkg/factory/order_id"
	"courier-dispatch/internal/pkg/hub"
	"courier-dispatch/internal/pkg/securecode"

	"courier-dispatch/internal/repository/memory"
	"courier-dispatch/internal/repository/offer"
	orderRepo "courier-dispatch/internal/repository/order"
	sessionRepo "courier-dispatch/internal/repository/session"
	"courier-dispatch/internal/service/arbiter"
	"courier-dispatch/internal/service/dispatch"
	"courier-dispatch/internal/service/lifecycle"
	orderService "courier-dispatch/internal/service/order"
	sessionService "courier-dispatch/internal/service/session"

	"courier-dispatch/pkg/background"
	"courier-dispatch/pkg/logger"
	"courier-dispatch/pkg/querier"
	"courier-dispatch/pkg/tx"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/grpc"
)

type (
	OfferExpiryInterval        time.Duration
	PendingRebroadcastInterval time.Duration
)

type Application struct {
	ServiceLifecycle  ServiceLifecycle
	ServiceSession    ServiceSession
	ServiceOrders     ServiceOrders
	Hub               *hub.Hub
	Dispatch          *dispatch.Dispatch
	BackgroundWorkers *background.Worker
}

type ServiceLifecycle interface {
	order_action_post.Service
	offers_get.Service
	admin_order_post.Service
	orders_placed.Service
}

type ServiceSession interface {
	session_start_post.Service
	session_action_post.Service
	session_get.Service
	admin_code_post.Service
	admin_session_get.Service
}

type ServiceOrders interface {
	admin_orders_get.Service
}

// общая часть графа, не зависящая от хранилища
var domainSet = wire.NewSet(
	provideOfferExpiryInterval,
	providePendingRebroadcastInterval,

	offer.New,
	order_id.New,
	securecode.NewGenerator,
	provideCodeHasher,
	provideHub,
	provideEligibility,

	orderService.New,
	sessionService.New,
	provideDispatch,
	provideArbiter,
	provideLifecycle,

	provideOfferExpiryTask,
	providePendingRebroadcastTask,
	provideTaskList,
	provideBackgroundWorkers,

	wire.Struct(new(Application), "*"),

	wire.Bind(new(ServiceLifecycle), new(*lifecycle.Coordinator)),
	wire.Bind(new(ServiceSession), new(*sessionService.Session)),
	wire.Bind(new(ServiceOrders), new(*orderService.Registry)),

	wire.Bind(new(orderService.IDGenerator), new(*order_id.OrderIDFactory)),
	wire.Bind(new(sessionService.CodeHasher), new(*securecode.Hasher)),
	wire.Bind(new(sessionService.CodeGenerator), new(*securecode.Generator)),
	wire.Bind(new(sessionService.OfferRetractor), new(*dispatch.Dispatch)),

	wire.Bind(new(dispatch.OfferStore), new(*offer.Store)),
	wire.Bind(new(dispatch.OrderReader), new(*orderService.Registry)),
	wire.Bind(new(dispatch.Pusher), new(*hub.Hub)),

	wire.Bind(new(arbiter.OrderReader), new(*orderService.Registry)),
	wire.Bind(new(arbiter.Broadcaster), new(*dispatch.Dispatch)),

	wire.Bind(new(lifecycle.SessionService), new(*sessionService.Session)),
	wire.Bind(new(lifecycle.Registry), new(*orderService.Registry)),
	wire.Bind(new(lifecycle.Arbiter), new(*arbiter.Arbiter)),
	wire.Bind(new(lifecycle.Broadcaster), new(*dispatch.Dispatch)),

	wire.Bind(new(offer_expiry.Service), new(*dispatch.Dispatch)),
	wire.Bind(new(pending_rebroadcast.Service), new(*dispatch.Dispatch)),
)

// InitializeApplication собирает приложение поверх postgres (STORAGE_DRIVER=postgres).
// conn может быть nil, тогда допуск курьеров решается по активным сменам.
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	conn *grpc.ClientConn,
	publisher lifecycle.EventPublisher,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		domainSet,

		provideTxManager,
		provideQuerier,
		provideOrderRepository,
		provideSessionRepository,

		wire.Bind(new(orderService.Repository), new(*orderRepo.Repository)),
		wire.Bind(new(orderService.TxManager), new(*tx.Manager)),
		wire.Bind(new(arbiter.OrderAccepter), new(*orderRepo.Repository)),
		wire.Bind(new(sessionService.Repository), new(*sessionRepo.Repository)),
		wire.Bind(new(dispatch.SessionFilter), new(*sessionRepo.Repository)),
		wire.Bind(new(local.ActiveLister), new(*sessionRepo.Repository)),
	)
	return &Application{}, nil
}

// InitializeMemoryApplication собирает приложение на памяти процесса (STORAGE_DRIVER=memory).
func InitializeMemoryApplication(
	ctx context.Context,
	log logger.Logger,
	conn *grpc.ClientConn,
	publisher lifecycle.EventPublisher,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		domainSet,

		memory.NewOrders,
		memory.NewSessions,
		wire.Value(tx.Nop{}),

		wire.Bind(new(orderService.Repository), new(*memory.Orders)),
		wire.Bind(new(orderService.TxManager), new(tx.Nop)),
		wire.Bind(new(arbiter.OrderAccepter), new(*memory.Orders)),
		wire.Bind(new(sessionService.Repository), new(*memory.Sessions)),
		wire.Bind(new(dispatch.SessionFilter), new(*memory.Sessions)),
		wire.Bind(new(local.ActiveLister), new(*memory.Sessions)),
	)
	return &Application{}, nil
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideOrderRepository(querier *querier.Querier) *orderRepo.Repository {
	return orderRepo.New(querier)
}

func provideSessionRepository(querier *querier.Querier) *sessionRepo.Repository {
	return sessionRepo.New(querier)
}

func provideCodeHasher(cfg *config.Config) *securecode.Hasher {
	return securecode.NewHasher(cfg.Auth.CodeHashCost)
}

func provideHub(log logger.Logger, cfg *config.Config) *hub.Hub {
	return hub.New(log, hub.Config{
		SendBuffer:   cfg.Channel.SendBuffer,
		PingInterval: cfg.Channel.PingInterval,
		WriteTimeout: cfg.Channel.WriteTimeout,
	})
}

func provideEligibility(cfg *config.Config, conn *grpc.ClientConn, sessions local.ActiveLister) dispatch.Eligibility {
	if conn == nil {
		return local.NewEligibility(sessions)
	}
	return eligibilityGateway.New(conn, cfg.Eligibility.Timeout)
}

// provideDispatch подписывает рассылку на подключения курьеров: живые офферы
// досылаются в каждый новый канал.
func provideDispatch(
	store dispatch.OfferStore,
	orders dispatch.OrderReader,
	eligibility dispatch.Eligibility,
	sessions dispatch.SessionFilter,
	channels *hub.Hub,
	log logger.Logger,
	cfg *config.Config,
) *dispatch.Dispatch {
	d := dispatch.New(store, orders, eligibility, sessions, channels, log, cfg.Dispatch.OfferTTL)
	channels.OnConnect(d.Redeliver)
	return d
}

func provideArbiter(
	accepter arbiter.OrderAccepter,
	orders arbiter.OrderReader,
	broadcaster arbiter.Broadcaster,
	log logger.Logger,
) *arbiter.Arbiter {
	return arbiter.New(accepter, orders, broadcaster, log)
}

func provideLifecycle(
	sessions lifecycle.SessionService,
	registry lifecycle.Registry,
	arb lifecycle.Arbiter,
	broadcaster lifecycle.Broadcaster,
	publisher lifecycle.EventPublisher,
	log logger.Logger,
) *lifecycle.Coordinator {
	return lifecycle.New(sessions, registry, arb, broadcaster, publisher, log)
}

func provideOfferExpiryInterval(cfg *config.Config) OfferExpiryInterval {
	return OfferExpiryInterval(cfg.Tasks.OfferExpiryInterval)
}

func providePendingRebroadcastInterval(cfg *config.Config) PendingRebroadcastInterval {
	return PendingRebroadcastInterval(cfg.Tasks.PendingRebroadcastInterval)
}

func provideOfferExpiryTask(
	log logger.Logger,
	service offer_expiry.Service,
	interval OfferExpiryInterval,
) *offer_expiry.OfferExpiry {
	return offer_expiry.NewOfferExpiry(log, service, time.Duration(interval))
}

func providePendingRebroadcastTask(
	log logger.Logger,
	service pending_rebroadcast.Service,
	interval PendingRebroadcastInterval,
) *pending_rebroadcast.PendingRebroadcast {
	return pending_rebroadcast.NewPendingRebroadcast(log, service, time.Duration(interval))
}

func provideTaskList(
	offerExpiryTask *offer_expiry.OfferExpiry,
	pendingRebroadcastTask *pending_rebroadcast.PendingRebroadcast,
) []background.Task {
	return []background.Task{
		offerExpiryTask,
		pendingRebroadcastTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
