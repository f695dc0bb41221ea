package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/asqwklop12/sparta/internal/auth"
	"github.com/asqwklop12/sparta/internal/config"
	"github.com/asqwklop12/sparta/internal/event"
	handler "github.com/asqwklop12/sparta/internal/handler/http"
	"github.com/asqwklop12/sparta/internal/lookup"
	"github.com/asqwklop12/sparta/internal/repository/postgres"
	"github.com/asqwklop12/sparta/internal/scheduler"
	"github.com/asqwklop12/sparta/internal/service"
	"github.com/asqwklop12/sparta/migrations"
	"github.com/asqwklop12/sparta/pkg/database"
	"github.com/asqwklop12/sparta/pkg/health"
	"github.com/asqwklop12/sparta/pkg/httpclient"
	pkgkafka "github.com/asqwklop12/sparta/pkg/kafka"
	"github.com/asqwklop12/sparta/pkg/middleware"
	"github.com/asqwklop12/sparta/pkg/tracing"
)

const (
	serviceName    = "myselectshop"
	idempotencyTTL = 24 * time.Hour
)

// App wires together all dependencies and runs the wish-list service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	dlq            *pkgkafka.DLQProducer
	lookupResults  *pkgkafka.Consumer
	priceSync      *scheduler.PriceSync
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Kafka producer. Publishing is best effort, so a missing broker only
	// degrades the service.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	if err := pingKafkaWithRetry(ctx, producer, logger); err != nil {
		logger.Warn("kafka producer ping failed after retries, continuing in degraded mode",
			slog.String("error", err.Error()),
		)
	} else {
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Idempotency store for the lookup-result consumer.
	var (
		redisClient *redis.Client
		dedup       pkgkafka.IdempotencyStore
	)
	if cfg.Redis().Enabled() {
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			logger.Warn("redis unavailable, using in-memory idempotency store",
				slog.String("error", err.Error()),
			)
		}
	}
	if redisClient != nil {
		dedup = pkgkafka.NewRedisIdempotencyStore(redisClient, serviceName+":processed", idempotencyTTL)
		logger.Info("redis idempotency store initialized", slog.String("addr", cfg.Redis().Addr()))
	} else {
		dedup = pkgkafka.NewMemoryIdempotencyStore(idempotencyTTL)
	}

	// Shopping search client: rate limited, retried and behind a breaker.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.LookupTimeout
	httpCfg.RatePerSecond = cfg.LookupRatePerSec
	httpCfg.Burst = 1
	breaker := httpclient.NewBreakerClient(httpclient.New(httpCfg), httpclient.DefaultBreakerConfig("shopping-search"), logger)
	lookupClient := lookup.NewClient(breaker, lookup.Config{
		BaseURL:      cfg.LookupBaseURL,
		ClientID:     cfg.LookupClientID,
		ClientSecret: cfg.LookupClientSecret,
	}, logger)

	// Build the dependency graph.
	store := postgres.NewStore(pool)
	eventProducer := event.NewProducer(producer, logger)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessExpiry)

	productService := service.NewProductService(store, eventProducer, lookupClient, logger)
	folderService := service.NewFolderService(store, logger)
	userService := service.NewUserService(store.Users(), jwtManager, cfg.AdminToken, logger)

	// Lookup results computed elsewhere arrive over Kafka.
	dlq := pkgkafka.NewDLQProducer(cfg.KafkaBrokers, logger)
	lookupConsumer := event.NewLookupConsumer(productService, logger)
	lookupResults := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.KafkaConsumerGroup,
		Topic:    cfg.KafkaLookupTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	}, pkgkafka.IdempotentHandler(dedup, lookupConsumer.Handle, logger), dlq, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	router := handler.NewRouter(
		handler.Services{
			Products: productService,
			Folders:  folderService,
			Users:    userService,
			Search:   lookupClient,
		},
		jwtManager.TokenValidator(),
		healthHandler,
		logger,
		middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins},
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		dlq:            dlq,
		lookupResults:  lookupResults,
		priceSync:      scheduler.NewPriceSync(productService, cfg.SyncInterval, logger),
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server, the Kafka consumer and the price sync job, then
// blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		if err := a.lookupResults.Start(ctx); err != nil {
			errCh <- fmt.Errorf("lookup result consumer: %w", err)
		}
	}()

	go a.priceSync.Run(ctx)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown stops components in order: HTTP server, tracer, consumer,
// producers, Redis, then the PostgreSQL pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Flush spans after the HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.lookupResults.Close(); err != nil {
		a.logger.Error("lookup result consumer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if err := a.dlq.Close(); err != nil {
		a.logger.Error("dlq producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// pingKafkaWithRetry pings the brokers up to three times, backing off 1s then
// 2s with 25% jitter.
func pingKafkaWithRetry(ctx context.Context, producer *pkgkafka.Producer, logger *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if lastErr = producer.Ping(ctx); lastErr == nil {
			return nil
		}
		if attempt == 2 {
			break
		}
		base := time.Duration(1<<uint(attempt)) * time.Second
		jitter := time.Duration(float64(base) * 0.25 * (2*rand.Float64() - 1)) // #nosec G404 -- jitter only
		wait := base + jitter
		logger.Warn("kafka producer ping failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", wait),
			slog.String("error", lastErr.Error()),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("kafka ping: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("kafka producer ping failed after 3 attempts: %w", lastErr)
}
