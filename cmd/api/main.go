package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wms-platform/fulfillment-service/internal/api/handlers"
	"github.com/wms-platform/fulfillment-service/internal/application"
	"github.com/wms-platform/fulfillment-service/internal/config"
	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/internal/infrastructure/events"
	mongoRepo "github.com/wms-platform/fulfillment-service/internal/infrastructure/mongodb"
	temporalExec "github.com/wms-platform/fulfillment-service/internal/infrastructure/temporal"
	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
	"github.com/wms-platform/fulfillment-service/pkg/kafka"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/middleware"
	"github.com/wms-platform/fulfillment-service/pkg/mongodb"
	"github.com/wms-platform/fulfillment-service/pkg/temporal"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

type mongoClient interface {
	Database() *mongo.Database
	Close(context.Context) error
	HealthCheck(context.Context) error
}

type workflowClient interface {
	temporal.WorkflowStarter
	HealthCheck(context.Context) error
	Close()
}

type eventProducer interface {
	kafka.EventProducer
	Close() error
}

var newMongoClient = func(ctx context.Context, cfg *mongodb.Config) (mongoClient, error) {
	return mongodb.NewClient(ctx, cfg)
}

var newWorkflowClient = func(ctx context.Context, cfg *temporal.Config) (workflowClient, error) {
	return temporal.NewClient(ctx, cfg)
}

var newEventProducer = func(cfg *kafka.Config) eventProducer {
	return kafka.NewProducer(cfg)
}

var newOrderRepository = func(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) domain.OrderRepository {
	return mongoRepo.NewOrderRepository(db, m, logger)
}

var newTemplateRepository = func(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) domain.TemplateRepository {
	return mongoRepo.NewTemplateRepository(db, m, logger)
}

var initTracing = tracing.Initialize

var startHTTPServer = func(srv *http.Server) error {
	return srv.ListenAndServe()
}

func main() {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(context.Background(), signalCh); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, signalCh <-chan os.Signal) error {
	cfg, err := config.Load()
	if err != nil {
		logging.New(logging.DefaultConfig("fulfillment-service")).WithError(err).Error("Failed to load configuration")
		return err
	}

	logConfig := logging.DefaultConfig(cfg.ServiceName)
	logConfig.Level = logging.ParseLevel(cfg.LogLevel)
	logConfig.Environment = cfg.Environment
	logConfig.Version = cfg.Version
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting fulfillment-service API")

	scoring, err := config.LoadScoring(cfg.ScoringConfigPath)
	if err != nil {
		logger.WithError(err).Error("Failed to load scoring config")
		return err
	}

	tracerProvider, err := initTracing(ctx, &tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampling,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "enabled", cfg.TracingEnabled, "endpoint", cfg.OTLPEndpoint)
	}

	m := metrics.New(metrics.DefaultConfig(cfg.ServiceName))

	mongoConfig := mongodb.DefaultConfig()
	mongoConfig.URI = cfg.MongoURI
	mongoConfig.Database = cfg.MongoDatabase
	mongoConfig.AppName = cfg.ServiceName
	mongoConn, err := newMongoClient(ctx, mongoConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		return err
	}
	defer mongoConn.Close(context.Background())
	logger.Info("Connected to MongoDB", "database", cfg.MongoDatabase)

	temporalConfig := temporal.DefaultConfig()
	temporalConfig.HostPort = cfg.TemporalHost
	temporalConfig.Namespace = cfg.TemporalNamespace
	temporalConfig.TaskQueue = cfg.TemporalTaskQueue
	temporalConfig.Identity = cfg.ServiceName
	temporalConfig.WorkflowExecutionTimeout = cfg.TemporalWorkflowTimeout
	temporalClient, err := newWorkflowClient(ctx, temporalConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to Temporal")
		return err
	}
	defer temporalClient.Close()
	logger.Info("Connected to Temporal", "hostPort", cfg.TemporalHost, "taskQueue", cfg.TemporalTaskQueue)

	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.Brokers = cfg.KafkaBrokers
	kafkaConfig.ClientID = cfg.KafkaClientID
	producer := newEventProducer(kafkaConfig)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", cfg.KafkaBrokers)

	publisher := events.NewKafkaEventPublisher(
		kafka.NewCircuitBreakerProducer(producer, m, logger),
		cloudevents.NewEventFactory(cloudevents.SourceFulfillment),
	)

	db := mongoConn.Database()
	core := domain.NewCore(scoring, domain.DefaultActionRules())
	service := application.NewFulfillmentService(
		core,
		newOrderRepository(db, m, logger),
		newTemplateRepository(db, m, logger),
		temporalExec.NewActionExecutor(temporalClient, temporalConfig, m, logger),
		logger,
		application.WithMetrics(m),
		application.WithEventPublisher(publisher),
		application.WithSnapshotLimit(cfg.QueueSnapshotLimit),
	)

	handler, err := handlers.NewFulfillmentHandler(service, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to register request validators")
		return err
	}

	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(cfg.ServiceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m, "/metrics", "/health", "/ready"))
	router.Use(middleware.TracingMiddleware(middleware.DefaultTracingConfig(cfg.ServiceName)))

	router.GET("/health", middleware.HealthCheck(cfg.ServiceName))
	router.GET("/ready", middleware.ReadinessCheck(cfg.ServiceName, 2*time.Second,
		middleware.DependencyCheck{Name: "mongodb", Check: mongoConn.HealthCheck},
		middleware.DependencyCheck{Name: "temporal", Check: temporalClient.HealthCheck},
	))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	handler.RegisterRoutes(router.Group("/api/v1"))

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := startHTTPServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server error")
			serverErr <- err
		}
	}()
	logger.Info("Server started", "addr", cfg.ServerAddr)

	select {
	case <-signalCh:
		logger.Info("Shutting down server...")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
	return nil
}
