package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/joao-fontenele/salesdesk/internal/changes"
	"github.com/joao-fontenele/salesdesk/internal/config"
	"github.com/joao-fontenele/salesdesk/internal/httpapi"
	"github.com/joao-fontenele/salesdesk/internal/lifecycle"
	"github.com/joao-fontenele/salesdesk/internal/maintenance"
	"github.com/joao-fontenele/salesdesk/internal/messaging"
	"github.com/joao-fontenele/salesdesk/internal/notifications"
	"github.com/joao-fontenele/salesdesk/internal/seed"
	"github.com/joao-fontenele/salesdesk/internal/session"
	"github.com/joao-fontenele/salesdesk/internal/stats"
	"github.com/joao-fontenele/salesdesk/internal/store"
	"github.com/joao-fontenele/salesdesk/internal/store/memory"
	"github.com/joao-fontenele/salesdesk/internal/store/postgres"
	"github.com/joao-fontenele/salesdesk/internal/telemetry"
)

const serviceName = "salesdesk"

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, serviceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	metrics, err := telemetry.NewOrderMetrics(otel.GetMeterProvider())
	if err != nil {
		logger.Error("failed to create instruments", "error", err)
		os.Exit(1)
	}

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	sessionStore, closeSessions, err := openSessions(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	tokens, err := session.NewTokens([]byte(cfg.JWTSecret), cfg.SessionTTL)
	if err != nil {
		logger.Error("failed to create token issuer", "error", err)
		os.Exit(1)
	}
	sessions := session.NewManager(st.Users(), sessionStore, tokens, cfg.SessionTTL, logger)

	publisher, subscriber, closeFeed := openFeed(ctx, cfg, logger)
	defer closeFeed()

	seedOpts := seed.Options{AdminPassword: cfg.BootstrapAdminPassword, Catalog: cfg.SeedCatalog}
	if err := seed.EnsureDefaults(ctx, st, seedOpts, logger); err != nil {
		logger.Error("failed to seed defaults", "error", err)
		os.Exit(1)
	}

	backlog := stats.NewBacklog(st.Orders(), logger)
	if err := backlog.Watch(ctx, subscriber); err != nil {
		logger.Error("failed to watch order backlog", "error", err)
		os.Exit(1)
	}
	if _, err := telemetry.RegisterPendingGauge(otel.GetMeterProvider(), backlog.Pending); err != nil {
		logger.Error("failed to register backlog gauge", "error", err)
		os.Exit(1)
	}

	engine := lifecycle.NewEngine(st,
		lifecycle.WithPublisher(publisher),
		lifecycle.WithMetrics(metrics),
		lifecycle.WithLogger(logger),
	)
	api := httpapi.NewServer(
		st,
		engine,
		notifications.NewService(st.Notifications(), publisher, logger),
		sessions,
		maintenance.NewWiper(st, sessions, seedOpts, logger),
		logger,
	)

	root := chi.NewRouter()
	root.Handle("/metrics", metricsHandler)
	root.Mount("/", api.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(root, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		logger.Info("starting salesdesk", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.PostgresURL == "" {
		logger.Warn("POSTGRES_URL not set, data is kept in memory only")
		return memory.New(), func() {}, nil
	}
	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	return postgres.New(db), func() { _ = db.Close() }, nil
}

func openSessions(ctx context.Context, cfg config.Config, logger *slog.Logger) (session.Store, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, sessions are lost on restart")
		return session.NewMemoryStore(), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return session.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
}

// openFeed wires the change feed. With Kafka every instance publishes to the
// topic and tails it without a consumer group, so each one sees every change.
func openFeed(ctx context.Context, cfg config.Config, logger *slog.Logger) (changes.Publisher, changes.Subscriber, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		local := changes.NewLocal()
		return local, local, func() {}
	}

	producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.ChangesTopic)
	consumer := messaging.NewConsumer(cfg.KafkaBrokers, cfg.ChangesTopic, "")
	stream := changes.NewStream(consumer, logger)

	go func() {
		if err := stream.Run(ctx); err != nil {
			logger.Error("change stream stopped", "error", err)
		}
	}()

	return changes.NewKafkaPublisher(producer), stream, func() {
		_ = producer.Close()
		_ = consumer.Close()
	}
}
