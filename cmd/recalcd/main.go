package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/devflexlabs/flex-analise-backend/internal/application/usecase"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/port"
	"github.com/devflexlabs/flex-analise-backend/internal/domain/service"
	"github.com/devflexlabs/flex-analise-backend/internal/infrastructure/bacen"
	"github.com/devflexlabs/flex-analise-backend/internal/infrastructure/cache"
	"github.com/devflexlabs/flex-analise-backend/internal/infrastructure/config"
	"github.com/devflexlabs/flex-analise-backend/internal/infrastructure/kafka"
	"github.com/devflexlabs/flex-analise-backend/internal/infrastructure/metrics"
	pgRepo "github.com/devflexlabs/flex-analise-backend/internal/infrastructure/postgres"
	grpcPresentation "github.com/devflexlabs/flex-analise-backend/internal/presentation/grpc"
	"github.com/devflexlabs/flex-analise-backend/internal/presentation/rest"
	"github.com/devflexlabs/flex-analise-backend/pkg/auth"
	pkgkafka "github.com/devflexlabs/flex-analise-backend/pkg/kafka"
	"github.com/devflexlabs/flex-analise-backend/pkg/observability"
	pkgpostgres "github.com/devflexlabs/flex-analise-backend/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("recalc-service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration.
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Telemetry.LogLevel,
		Format:  cfg.Telemetry.LogFormat,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting recalc-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"rate_cache", cfg.Cache.Backend,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	recorder, err := metrics.NewRecorder(otel.Meter(cfg.ServiceName))
	if err != nil {
		return fmt.Errorf("init recorder: %w", err)
	}

	// Database connection and migrations.
	dbCfg := pkgpostgres.Config{
		Host:           cfg.DB.Host,
		Port:           cfg.DB.Port,
		User:           cfg.DB.User,
		Password:       cfg.DB.Password,
		Database:       cfg.DB.Name,
		SSLMode:        cfg.DB.SSLMode,
		MaxConns:       int32(cfg.DB.MaxConns), //nolint:gosec // small configured value
		ConnectTimeout: 10 * time.Second,
	}
	pool, err := pkgpostgres.NewPool(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrationsFS(dbCfg.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	readiness := map[string]rest.Pinger{"postgres": pool}

	// Reference rates: SGS client behind a rate cache.
	sgs := bacen.NewClient(bacen.Config{
		BaseURL:           cfg.Bacen.BaseURL,
		Timeout:           cfg.Bacen.Timeout,
		RequestsPerSecond: cfg.Bacen.RateLimit,
	}, nil, logger)

	var rateCache bacen.RateCache
	switch cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
		defer func() { _ = client.Close() }() //nolint:errcheck // shutdown
		redisCache := cache.NewRedisRateCache(client, cfg.Cache.TTL, logger)
		readiness["redis"] = redisCache
		rateCache = redisCache
	default:
		rateCache = cache.NewMemoryRateCache(cfg.Cache.TTL)
	}
	source := bacen.NewCachedSource(sgs, rateCache)
	rates := bacen.NewReferenceRateProvider(source, recorder)

	// Domain services and use cases.
	repo := pgRepo.NewAnalysisRepo(pool)
	recalculator := service.NewContractRecalculator(rates,
		service.NewMethodologyDetector(cfg.Recalc.DetectionTolerance), time.Now)
	validator := service.NewContractValidator(cfg.Recalc.ValidationTolerance)

	var m port.Metrics = recorder
	recalcUC := usecase.NewRecalculateContractUseCase(repo, recalculator, validator, m, logger)
	batchUC := usecase.NewBatchRecalculateUseCase(recalcUC, cfg.Recalc.BatchConcurrency)
	getAnalysisUC := usecase.NewGetAnalysisUseCase(repo)
	seriesUC := usecase.NewGetReferenceSeriesUseCase(source)

	// Kafka: outbox relay and extracted contracts consumer.
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		ClientID:      cfg.ServiceName,
	}
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer func() { _ = producer.Close() }() //nolint:errcheck // shutdown

	relay := kafka.NewOutboxRelay(
		pgRepo.NewOutboxStore(pool),
		kafka.NewKafkaEntryPublisher(producer, cfg.Kafka.EventsTopic, logger),
		cfg.Recalc.OutboxPollInterval,
		cfg.Recalc.OutboxBatchSize,
		logger,
	)

	contracts := kafka.NewContractsHandler(recalcUC, logger)
	consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.ContractsTopic, contracts.Handle, logger)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}
	defer func() { _ = consumer.Close() }() //nolint:errcheck // shutdown

	// JWT service (validation-only: public key preferred, secret as fallback).
	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return err
	}

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewRecalculationHandler(recalcUC, getAnalysisUC, logger),
		jwtSvc,
		grpcPresentation.ServerConfig{
			ServiceName: cfg.ServiceName,
			TLSCertFile: cfg.GRPC.TLSCertFile,
			TLSKeyFile:  cfg.GRPC.TLSKeyFile,
			Reflection:  cfg.GRPC.Reflection,
		},
		logger,
	)
	if err != nil {
		return err
	}

	// HTTP server.
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, readiness, logger).RegisterRoutes(mux)
	rest.NewRecalculationHandler(recalcUC, batchUC, getAnalysisUC, seriesUC, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.Chain(mux,
			rest.Logging(logger),
			rest.RateLimit(cfg.HTTPRateLimit),
			rest.Authenticate(jwtSvc, []string{"/healthz", "/readyz", "/metrics"}),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start workers and servers.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	errCh := make(chan error, 4)

	go func() {
		if err := relay.Run(workerCtx); err != nil {
			errCh <- fmt.Errorf("outbox relay: %w", err)
		}
	}()

	go func() {
		if err := consumer.Start(workerCtx); err != nil {
			errCh <- fmt.Errorf("contracts consumer: %w", err)
		}
	}()

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("component failed", "error", runErr)
	}

	// Graceful shutdown: stop intake first, then drain workers.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	grpcServer.GracefulStop()
	stopWorkers()

	logger.Info("recalc-service stopped")
	return runErr
}

func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer}
	switch {
	case cfg.PublicKey != "":
		jwtCfg.PublicKeyPEM = cfg.PublicKey
	case cfg.PublicKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load JWT public key file: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = cfg.Secret
	}
	svc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize JWT service: %w", err)
	}
	return svc, nil
}
