package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"customer-manager-api/config"
	"customer-manager-api/internal/application/ports"
	"customer-manager-api/internal/application/services"
	"customer-manager-api/internal/infrastructure/db/postgres"
	"customer-manager-api/internal/infrastructure/db/postgres/customer"
	"customer-manager-api/internal/infrastructure/logger"
	"customer-manager-api/internal/infrastructure/metrics"
	"customer-manager-api/internal/infrastructure/mq"
	"customer-manager-api/internal/interface/api/rest"
	"customer-manager-api/internal/interface/api/rest/middleware"
	"customer-manager-api/pkg/rmqconsumer"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogGin(log, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		return nil, fmt.Errorf("DB config error: %w", err)
	}
	dbPool, err := postgres.New(ctx, log, dbDsn, cfg.DB.MaxConns)
	if err != nil {
		return nil, err
	}
	if err = customer.EnsureSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, err
	}

	app := &App{
		logger:   log,
		cfg:      cfg,
		db:       dbPool,
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
	}

	if !cfg.MQ.Enabled {
		log.Info("rabbitmq disabled, customer events are not published")
		return app, nil
	}

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("RabbitMQ config error: %w", err)
	}
	rbMQ := mq.New(cfg.MQ, log)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to connect to rabbitMQ: %w", err)
	}
	if err = rbMQ.Init(); err != nil {
		dbPool.Close()
		_ = rbMQ.GetConn().Close()
		return nil, fmt.Errorf("failed init rabbitMQ: %w", err)
	}

	// rmqConsumer
	rmqConsumer := rmqconsumer.New(cfg.MQ, log)
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		dbPool.Close()
		_ = rbMQ.GetConn().Close()
		return nil, fmt.Errorf("failed to connect rabbitMQ consumer: %w", err)
	}
	if err = rmqConsumer.Init(mq.RoutingKeys); err != nil {
		dbPool.Close()
		_ = rbMQ.GetConn().Close()
		rmqConsumer.Close()
		return nil, fmt.Errorf("failed to init rabbitMQ consumer: %w", err)
	}

	app.mq = rbMQ
	app.mqConsumer = rmqConsumer

	return app, nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mqConsumer != nil {
		a.mqConsumer.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run serves HTTP and drives the publisher and consumer workers until the
// process receives SIGINT or SIGTERM. The publisher is stopped only after the
// HTTP server has shut down, so events of in-flight requests are still drained.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pubCtx, stopPublisher := context.WithCancel(context.WithoutCancel(ctx))
	defer stopPublisher()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.cfg.App.Host+":"+a.cfg.App.Port))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(pubCtx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	err := a.httpSrv.Shutdown(shutdownCtx)
	stopPublisher()
	if err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
		return err
	}

	if err = g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	customerRepo := customer.NewRepository(a.db)

	// services
	customerService := services.NewCustomerService(customerRepo, a.mq, a.mCounter, a.logger)

	// controllers
	rest.NewCustomerController(a.router, customerService, a.logger)

	// ops
	a.router.GET(rest.RouteHealth, rest.HealthHandler(a.db, a.logger))
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
