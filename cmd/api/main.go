package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/shieldads/shieldads/config"
	"github.com/shieldads/shieldads/internal/handlers"
	"github.com/shieldads/shieldads/internal/services"
	"github.com/shieldads/shieldads/pkg/database"
	"github.com/shieldads/shieldads/pkg/events"
	"github.com/shieldads/shieldads/pkg/health"
	"github.com/shieldads/shieldads/pkg/kafka"
	"github.com/shieldads/shieldads/pkg/middleware"
	"github.com/shieldads/shieldads/pkg/plans"
	"github.com/shieldads/shieldads/pkg/redis"
	"github.com/shieldads/shieldads/pkg/repositories"
	"github.com/shieldads/shieldads/pkg/startup"
	"github.com/shieldads/shieldads/pkg/tracing"
	"github.com/shieldads/shieldads/pkg/tracing/exporters"
)

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read config: %v", err)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerShutdown := initTracing(ctx, cfg, logger)
	defer tracerShutdown()

	// PostgreSQL
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)
	sqlxDB, err := sqlx.Connect(cfg.DatabaseDriver, dsn)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	sqlxDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	sqlxDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)
	defer sqlxDB.Close()

	db := database.NewDatabaseInstance(sqlxDB, logger)

	if err := runMigrations(cfg, logger, sqlxDB); err != nil {
		logger.WithError(err).Error("Failed to run database migrations")
		os.Exit(1)
	}

	// Redis (optional, backs rate limiting and the readiness probe)
	var redisClient *redis.Client
	var limiter *redis.RateLimiter
	if cfg.RedisEnabled {
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to Redis")
			os.Exit(1)
		}
		defer redisClient.Close()
		limiter = redis.NewRateLimiter(redisClient, cfg.AppName)
	}

	// Kafka producer (optional, emitter is nil-safe when disabled)
	var producer *kafka.Producer
	var emitter *events.Emitter
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
		emitter = events.NewEmitter(producer, logger)
	}

	plan, ok := plans.Get(cfg.DefaultPlan)
	if !ok {
		logger.Warnf("Unknown plan '%s', falling back to default", cfg.DefaultPlan)
		plan = plans.Default()
	}

	// Repositories
	groupRepo := repositories.NewAccountGroupRepository(db, logger)
	accountRepo := repositories.NewAccountRepository(db, logger)
	costRepo := repositories.NewCostRepository(db, logger)
	scriptRepo := repositories.NewScriptRepository(db, logger)
	executionRepo := repositories.NewScriptExecutionRepository(db, logger)
	teamRepo := repositories.NewTeamMemberRepository(db, logger)
	suspensionRepo := repositories.NewSuspensionRepository(db, logger)
	alertRepo := repositories.NewAlertRepository(db, logger)

	// Services
	groupService := services.NewGroupService(db, logger, groupRepo, accountRepo, costRepo, emitter)
	accountService := services.NewAccountService(db, logger, accountRepo, groupRepo, costRepo, plan, emitter)
	costService := services.NewCostService(logger, costRepo)
	scriptService := services.NewScriptService(db, logger, scriptRepo, executionRepo)
	suspensionService := services.NewSuspensionService(db, logger, suspensionRepo, accountRepo, alertRepo, emitter)
	teamService := services.NewTeamService(logger, teamRepo, plan)
	dashboardService := services.NewDashboardService(logger, groupService, scriptRepo, costRepo)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Metrics())

	checker := health.NewChecker(sqlxDB, rawRedis(redisClient), cfg.Version)
	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	if cfg.AuthEnabled {
		api.Use(middleware.Authentication(logger, cfg.AuthIssuerURL, cfg.AuthClientID))
	}
	api.Use(middleware.Identity(teamRepo, cfg.OwnerEmail, logger))
	if cfg.RateLimitEnabled && limiter != nil {
		api.Use(middleware.RateLimit(limiter, cfg.RateLimitMax, cfg.RateLimitWindow, logger))
	}

	handlers.NewGroupHandler(groupService, logger).Register(api.Group("/account-groups"))
	handlers.NewAccountHandler(accountService, suspensionService, costService, logger).Register(api.Group("/accounts"))
	handlers.NewCostHandler(costService, logger).Register(api.Group("/costs"))
	handlers.NewScriptHandler(scriptService, logger).Register(api.Group("/scripts"))
	handlers.NewSuspensionHandler(suspensionService, logger).Register(api.Group("/suspensions"))
	handlers.NewTeamHandler(teamService, logger).Register(api.Group("/team"))
	handlers.NewAlertHandler(alertRepo, logger).Register(api.Group("/alerts"))
	handlers.NewDashboardHandler(dashboardService, logger).Register(api.Group("/dashboard"))
	handlers.NewCatalogHandler().Register(api.Group("/catalog"))

	boot := startup.NewStartup[any](logger, cfg.StartupMaxAttempts)
	boot.AddDependency(&serverDependency{e: e, port: cfg.Port, logger: logger})

	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}
	checker.SetReady(true)
	logger.Infof("%s listening on port %d", cfg.AppName, cfg.Port)

	<-ctx.Done()
	logger.Info("Shutdown signal received")
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := boot.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}

func newLogger(cfg config.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

// initTracing wires the OTLP (or console) exporter into a tracer provider and
// registers the shared tracer. Returns a shutdown func, which is a no-op when
// tracing is disabled.
func initTracing(ctx context.Context, cfg config.Config, logger ectologger.Logger) func() {
	if !cfg.TracingEnabled {
		tracing.SetTracer(otel.Tracer(cfg.AppName))
		return func() {}
	}

	var exporter sdktrace.SpanExporter
	if cfg.TracingExporter == "otlp" {
		otlpExporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
			Endpoint: cfg.OTLPEndpoint,
			Protocol: cfg.OTLPProtocol,
			Insecure: true,
		})
		if err != nil {
			logger.WithError(err).Error("Failed to create OTLP exporter")
			os.Exit(1)
		}
		exporter = otlpExporter
	} else {
		exporter = &exporters.ConsoleExporter{}
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	tracing.SetTracer(otel.Tracer(cfg.AppName))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to shut down tracer provider")
		}
	}
}

func runMigrations(cfg config.Config, logger ectologger.Logger, sqlxDB *sqlx.DB) error {
	driver, err := postgres.WithInstance(sqlxDB.DB, &postgres.Config{})
	if err != nil {
		return err
	}
	migrationService := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	return migrationService.Migrate(cfg.DatabaseName, driver)
}

func rawRedis(client *redis.Client) *goredis.Client {
	if client == nil {
		return nil
	}
	return client.Redis()
}

// serverDependency runs the echo server as a startup dependency so boot
// retries and ordered shutdown come from the same place as everything else.
type serverDependency struct {
	e      *echo.Echo
	port   int
	logger ectologger.Logger
}

func (d *serverDependency) GetName() string     { return "http-server" }
func (d *serverDependency) DependsOn() []string { return nil }

func (d *serverDependency) Start(ctx context.Context) error {
	go func() {
		if err := d.e.Start(fmt.Sprintf(":%d", d.port)); err != nil && err != http.ErrServerClosed {
			d.logger.WithError(err).Error("HTTP server stopped unexpectedly")
			os.Exit(1)
		}
	}()
	return nil
}

func (d *serverDependency) Stop(ctx context.Context) error {
	return d.e.Shutdown(ctx)
}
