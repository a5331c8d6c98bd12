package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appbanking "github.com/billbook/backend/internal/application/banking"
	appidentity "github.com/billbook/backend/internal/application/identity"
	appinvoicing "github.com/billbook/backend/internal/application/invoicing"
	appledger "github.com/billbook/backend/internal/application/ledger"
	appsettings "github.com/billbook/backend/internal/application/settings"
	appstaff "github.com/billbook/backend/internal/application/staff"
	apptreasury "github.com/billbook/backend/internal/application/treasury"
	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/infrastructure/auth"
	"github.com/billbook/backend/internal/infrastructure/cache"
	"github.com/billbook/backend/internal/infrastructure/config"
	"github.com/billbook/backend/internal/infrastructure/event"
	"github.com/billbook/backend/internal/infrastructure/lock"
	"github.com/billbook/backend/internal/infrastructure/logger"
	"github.com/billbook/backend/internal/infrastructure/mail"
	"github.com/billbook/backend/internal/infrastructure/migration"
	"github.com/billbook/backend/internal/infrastructure/persistence"
	"github.com/billbook/backend/internal/infrastructure/telemetry"
	"github.com/billbook/backend/internal/interfaces/http/handler"
	"github.com/billbook/backend/internal/interfaces/http/middleware"
	"github.com/billbook/backend/internal/interfaces/http/router"
	"github.com/billbook/backend/migrations"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, syncLog, err := logger.New(loggerConfig(cfg))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer syncLog()

	log.Info("Starting billbook",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing
	tp, err := telemetry.NewTracerProvider(ctx, telemetryConfig(cfg, version), log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Metrics
	mp, err := telemetry.NewMeterProvider(ctx, metricsConfig(cfg, version), log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database
	var gormOpts []logger.GormLoggerOption
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		gormOpts = append(gormOpts, logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), gormOpts...)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	if err := telemetry.RegisterDBTracing(db.DB, dbTracingConfig(cfg), log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(ctx, db.DB, mp, dbMetricsConfig(cfg), log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	if err := migrateSchema(&cfg.Database, db, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Redis is optional: without it the cache, rate limits and token
	// blacklist live in process memory and invoice numbers rely on row locks.
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		redisClient = client
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	otpRepo := persistence.NewGormOTPRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	companyBillRepo := persistence.NewGormCompanyBillRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	cashEntryRepo := persistence.NewGormCashEntryRepository(db.DB)

	var allocator invoicing.NumberAllocator = persistence.NewGormNumberAllocator(db.DB, db.SupportsRowLocks())
	if redisClient != nil && cfg.Lock.Enabled {
		allocator = lock.NewAllocationLocker(allocator, lock.NewRedisLocker(redisClient, cfg.Lock), log)
		log.Info("Invoice number allocation guarded by Redis lock")
	}

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	// Ledger cache and event bus
	balanceCache := cache.NewBalanceCacheFactory(cfg.Cache, cache.WithLogger(log)).Create(redisClient)
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(appledger.NewCacheInvalidationHandler(balanceCache, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Invoice pricing and printing
	pricer, err := pricerFrom(cfg.Invoice)
	if err != nil {
		log.Fatal("Invalid invoice configuration", zap.Error(err))
	}
	var printer appinvoicing.Printer
	if cfg.Printing.Enabled {
		invoicePrinter, err := newPrinter(cfg.Printing, pricer, log)
		if err != nil {
			log.Fatal("Failed to initialize invoice printer", zap.Error(err))
		}
		defer func() {
			if err := invoicePrinter.Close(); err != nil {
				log.Error("Error closing invoice printer", zap.Error(err))
			}
		}()
		printer = invoicePrinter
	}

	// Application services
	authService := appidentity.NewAuthService(userRepo, otpRepo, jwtService, tokenBlacklist,
		mail.New(cfg.Mail, log), eventBus, log)
	invoiceService := appinvoicing.NewInvoiceService(invoiceRepo, allocator, settingRepo, eventBus, printer,
		appinvoicing.InvoiceServiceConfig{
			Pricer:        pricer,
			MaxAllocRetry: cfg.Invoice.MaxAllocRetry,
			Metrics:       invoiceMetrics(mp, log),
		}, log)
	balanceService := appledger.NewBalanceService(invoiceRepo, companyBillRepo, balanceCache, log)
	settingService := appsettings.NewService(settingRepo, log)
	transactionService := appbanking.NewTransactionService(appbanking.Repositories{
		CompanyBills:    companyBillRepo,
		Buyers:          persistence.NewGormBuyerTransactionRepository(db.DB),
		Salaries:        persistence.NewGormSalaryPaymentRepository(db.DB),
		Others:          persistence.NewGormOtherTransactionRepository(db.DB),
		BankingDeposits: persistence.NewGormBankingDepositRepository(db.DB),
		Banks:           persistence.NewGormBankRepository(db.DB),
		Partners:        persistence.NewGormPartnerRepository(db.DB),
		Invoices:        invoiceRepo,
	}, eventBus, log)
	treasuryService := apptreasury.NewService(bankAccountRepo, cashEntryRepo, log)
	employeeService := appstaff.NewEmployeeService(employeeRepo, log)

	// Configure validator with json tag names and custom rules
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to configure validator", zap.Error(err))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	globalLimiter, authLimiter, stopLimiters := rateLimiters(redisClient, cfg.HTTP)
	defer stopLimiters()

	// Middleware order matters: recovery first, then request ID so every
	// later log line and span carries it.
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(middleware.Tracing(telemetryConfig(cfg, version).ServiceName, cfg.Telemetry.Enabled))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(mp, log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(globalLimiter))
	}

	requireAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	})
	var authGuards []gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		authGuards = append(authGuards, middleware.RateLimitByKey(authLimiter, middleware.IPKey))
	}

	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		checks["redis"] = redisCheck(redisClient)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	handler.Handlers{
		System:   handler.NewSystemHandler(cfg.App.Name, version, checks),
		Auth:     handler.NewAuthHandler(authService),
		Invoice:  handler.NewInvoiceHandler(invoiceService),
		Balance:  handler.NewBalanceHandler(balanceService),
		Settings: handler.NewSettingsHandler(settingService),
		Banking:  handler.NewBankingHandler(transactionService),
		Treasury: handler.NewTreasuryHandler(treasuryService),
		Employee: handler.NewEmployeeHandler(employeeService),
	}.Register(r, requireAuth, authGuards...)
	r.Setup()

	for _, route := range r.Routes() {
		log.Debug("Route registered",
			zap.String("group", route.Group),
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrateSchema brings the schema up to date. PostgreSQL runs the versioned
// SQL migrations over a connection of its own, since closing the migrator
// closes the pool it was given. SQLite and MySQL are created from the models.
func migrateSchema(cfg *config.DatabaseConfig, db *persistence.Database, log *zap.Logger) error {
	if db.Driver != config.DriverPostgres {
		log.Info("Creating schema from models", zap.String("driver", db.Driver))
		return persistence.AutoMigrate(db.DB)
	}

	migrationDB, err := persistence.NewDatabase(cfg, nil)
	if err != nil {
		return err
	}
	sqlDB, err := migrationDB.DB.DB()
	if err != nil {
		_ = migrationDB.Close()
		return err
	}
	m, err := migration.New(sqlDB, migration.Source{FS: migrations.FS}, log)
	if err != nil {
		_ = migrationDB.Close()
		return err
	}
	defer m.Close()
	return m.Up()
}
