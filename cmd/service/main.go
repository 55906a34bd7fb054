package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	application "courier-dispatch/internal/app"
	"courier-dispatch/internal/handlers/kafka-consumer/orders_placed"
	"courier-dispatch/internal/handlers/rest/admin_code_post"
	"courier-dispatch/internal/handlers/rest/admin_order_post"
	"courier-dispatch/internal/handlers/rest/admin_orders_get"
	"courier-dispatch/internal/handlers/rest/admin_session_get"
	"courier-dispatch/internal/handlers/rest/healthcheck_head"
	"courier-dispatch/internal/handlers/rest/offers_get"
	"courier-dispatch/internal/handlers/rest/order_action_post"
	"courier-dispatch/internal/handlers/rest/ping_get"
	"courier-dispatch/internal/handlers/rest/session_action_post"
	"courier-dispatch/internal/handlers/rest/session_get"
	"courier-dispatch/internal/handlers/rest/session_start_post"
	"courier-dispatch/internal/handlers/ws/channel_get"
	"courier-dispatch/internal/pkg/config"
	"courier-dispatch/internal/pkg/dotenv"
	"courier-dispatch/internal/pkg/grpcclient"
	"courier-dispatch/internal/pkg/kafka"
	metrics_system "courier-dispatch/internal/pkg/metrics"
	"courier-dispatch/internal/pkg/middlewares/auth"
	"courier-dispatch/internal/pkg/middlewares/graceful_shutdown"
	"courier-dispatch/internal/pkg/middlewares/metrics"
	"courier-dispatch/internal/pkg/middlewares/rate_limiter"
	"courier-dispatch/internal/pkg/middlewares/timeout"
	"courier-dispatch/internal/pkg/postgres"
	"courier-dispatch/internal/service/lifecycle"
	"courier-dispatch/pkg/logger"
	"courier-dispatch/pkg/logger/zap_adapter"
	"courier-dispatch/pkg/token_bucket"

	"github.com/IBM/sarama"
	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

func main() {
	// .env читается до логгера, чтобы LOG_LEVEL можно было задать в нём
	dotenvErr := dotenv.Load()

	zapLogger, err := zap_adapter.NewZapAdapter(os.Getenv("LOG_LEVEL"))
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting courier-dispatch application")

	if dotenvErr != nil {
		mainLog.Error("failed to load .env file", logger.NewField("error", dotenvErr))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck,gocyclo // BaseContext и shutdownCtx намеренно отвязаны от ctx, это часть graceful shutdown
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second

		systemMetricsInterval = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With(
		logger.NewField("storage", cfg.Storage.Driver),
	)

	var conn *grpc.ClientConn
	if cfg.Eligibility.GRPCHost != "" {
		var err error
		conn, err = grpcclient.NewConnClient(ctx, log, &cfg.Eligibility)
		if err != nil {
			return fmt.Errorf("gRPC client: %w", err)
		}
		defer func() {
			err := conn.Close()
			if err != nil {
				runLog.Error("failed to close gRPC connection",
					logger.NewField("error", err),
				)
			}
		}()
	} else {
		runLog.Warn("ELIGIBILITY_GRPC_HOST is empty, every active courier is a candidate")
	}

	var publisher lifecycle.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := kafka.NewPublisher(ctx, log, &cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka publisher: %w", err)
		}
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				runLog.Error("failed to close kafka publisher", logger.NewField("error", err))
			}
		}()
		publisher = kafkaPublisher
	}

	// backgroundCtx останавливает периодические задачи после остановки сервера
	backgroundCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var (
		businessApp *application.Application
		checks      []healthcheck_head.Checker
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		var err error
		businessApp, err = application.InitializeMemoryApplication(backgroundCtx, log, conn, publisher, cfg)
		if err != nil {
			return fmt.Errorf("business logic: %w", err)
		}
	default:
		pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, log, pool); err != nil {
			return fmt.Errorf("database: %w", err)
		}

		businessApp, err = application.InitializeApplication(backgroundCtx, log, pool, pgxv5.DefaultCtxGetter, conn, publisher, cfg)
		if err != nil {
			return fmt.Errorf("business logic: %w", err)
		}
		checks = append(checks, pool)
	}
	defer businessApp.Hub.Close()

	metrics_system.StartCollector(backgroundCtx, systemMetricsInterval, businessApp.Dispatch)

	// ongoingCtx используется для BaseContext и не должен отменяться при SIGTERM.
	// Он отменяется только после server.Shutdown() для завершения in-flight запросов.
	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	// основной http сервер
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, businessApp, cfg, checks),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	// основной http сервер

	// kafka consumer размещённых заказов
	var consumerErr chan error
	if cfg.Kafka.Enabled {
		kafkaHandler := orders_placed.New(log, businessApp.ServiceLifecycle, cfg.Kafka.Handlers.OrderPlaced.ProcessTimeout)

		consumer, err := kafka.NewConsumer(ctx, log, &cfg.Kafka, kafkaHandler)
		if err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		defer func() {
			if err := consumer.Close(); err != nil {
				runLog.Error("failed to close kafka consumer", logger.NewField("error", err))
			}
		}()

		consumerErr = make(chan error, 1)
		go func() {
			defer close(consumerErr)
			if err := consumer.Start(ongoingCtx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, sarama.ErrClosedConsumerGroup) {
					runLog.Info("Kafka consumer stopped gracefully")
				} else {
					consumerErr <- err
				}
			}
		}()
	}
	// kafka consumer размещённых заказов

	// pprof http сервер
	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				pprofServerErr <- err
			}
		}()
	}
	// pprof http сервер

	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-consumerErr: // nil канал при выключенной Kafka, кейс игнорируется
		return fmt.Errorf("consumer: %w", err)
	case err := <-pprofServerErr: // if !cfg.Server.PprofEnabled будет nil по умолчанию, и данный кейс будет проигнорирован
		return fmt.Errorf("pprof server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)

	defer cancel()

	var shutdownErr error
	err := server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()
	stopBackground()
	businessApp.BackgroundWorkers.Wait()

	if err != nil || shutdownErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	runLog.Info("Server stopped")
	return nil
}

func initRouter(
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	app *application.Application,
	cfg *config.Config,
	checks []healthcheck_head.Checker,
) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))
	router.Use(metrics.Middleware(log))

	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, checks...)).Methods("HEAD")
	router.Handle("/ping", ping_get.New(log, app.Hub, app.Dispatch)).Methods("GET")

	tokens := auth.NewTokens(cfg.Auth.JWTSecret)
	limiter := token_bucket.NewKeyed(cfg.Server.RateLimiterQPS, float64(cfg.Server.RateLimiterBurst))

	// лимитер после auth: ключом служит курьер, а не адрес
	courierAuth := auth.Middleware(log, tokens, auth.RoleCourier)
	rateLimit := rate_limiter.Middleware(log, cfg.Server.RateLimiterQPS, limiter)
	requestTimeout := timeout.Middleware(cfg.Server.RequestTimeout)
	courier := func(h http.Handler) http.Handler {
		return courierAuth(rateLimit(requestTimeout(h)))
	}

	router.Handle("/session/start", courier(session_start_post.New(log, app.ServiceSession))).Methods("POST")
	router.Handle("/session/{action}", courier(session_action_post.New(log, app.ServiceSession))).Methods("POST")
	router.Handle("/session", courier(session_get.New(log, app.ServiceSession))).Methods("GET")
	router.Handle("/offers", courier(offers_get.New(log, app.ServiceLifecycle))).Methods("GET")
	router.Handle("/orders/{id}/{action}", courier(order_action_post.New(log, app.ServiceLifecycle))).Methods("POST")

	// долгоживущее соединение, без таймаута запроса
	router.Handle("/channel", courierAuth(rateLimit(channel_get.New(log, app.Hub)))).Methods("GET")

	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Middleware(log, tokens, auth.RoleAdmin))
	admin.Use(rateLimit)
	admin.Use(requestTimeout)

	admin.Handle("/couriers/{id}/code", admin_code_post.New(log, app.ServiceSession)).Methods("POST")
	admin.Handle("/couriers/{id}/session", admin_session_get.New(log, app.ServiceSession)).Methods("GET")
	admin.Handle("/sessions", admin_session_get.New(log, app.ServiceSession)).Methods("GET")
	admin.Handle("/couriers/{id}/orders", admin_orders_get.New(log, app.ServiceOrders)).Methods("GET")
	admin.Handle("/orders", admin_order_post.New(log, app.ServiceLifecycle)).Methods("POST")

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods("HEAD")
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
