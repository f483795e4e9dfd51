// Package main provides the main entry point for the Funnely daily task service
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/mh853/Funnely-sub001/app/handlers"
	"github.com/mh853/Funnely-sub001/app/middleware"
	"github.com/mh853/Funnely-sub001/app/router"
	"github.com/mh853/Funnely-sub001/app/scheduler"
	"github.com/mh853/Funnely-sub001/app/services"
	businessflow "github.com/mh853/Funnely-sub001/business_flow"
	"github.com/mh853/Funnely-sub001/config"
	"github.com/mh853/Funnely-sub001/repository"
	"github.com/mh853/Funnely-sub001/utils"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Funnely daily task service...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		listenCfg := fiber.ListenConfig{DisableStartupMessage: true}
		if cfg.Security.TLSEnabled {
			listenCfg.CertFile = cfg.Security.TLSCertFile
			listenCfg.CertKeyFile = cfg.Security.TLSKeyFile
		}
		if err := app.server.Listen(address, listenCfg); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeLogger points the standard logger at stdout and a rotated file
func initializeLogger(cfg config.LoggingConfig) (*log.Logger, func()) {
	if cfg.FilePath == "" {
		return log.Default(), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		log.Printf("failed to create log directory, logging to stdout only: %v", err)
		return log.Default(), func() {}
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, lj))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.LUTC)
	return log.Default(), func() { _ = lj.Close() }
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	gormCfg := &gorm.Config{}
	if cfg.SlowQueryLog {
		gormCfg.Logger = gormlogger.New(log.Default(), gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache connects to redis when the run lock is enabled
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established (db=%d)", cfg.RedisDB)
	return rc, nil
}

func initializeEmailSender(cfg config.EmailConfig, logger *log.Logger) (services.EmailSender, error) {
	switch cfg.Provider {
	case "brevo":
		return services.NewBrevoEmailSender(cfg.BrevoAPIKey)
	case "mock":
		return services.NewMockEmailSender(logger), nil
	default:
		// Lead digests report an error while no provider is configured
		return nil, nil
	}
}

func initializeSheetSource(cfg config.SheetsConfig) (services.SheetSource, error) {
	switch cfg.Provider {
	case "google":
		if cfg.CredentialsFile == "" && cfg.CredentialsJSON == "" {
			return nil, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		src, err := services.NewGoogleSheetsSource(ctx, cfg.CredentialsFile, cfg.CredentialsJSON)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "xlsx":
		return services.NewXLSXSheetSource(cfg.XLSXDir), nil
	default:
		return nil, nil
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	logger, closeLog := initializeLogger(cfg.Logging)
	stopFuncs := []func(){}

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	emailSender, err := initializeEmailSender(cfg.Email, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email sender: %w", err)
	}
	if emailSender == nil {
		logger.Printf("Email provider %q not configured; lead digests will report an error", cfg.Email.Provider)
	}

	sheetSource, err := initializeSheetSource(cfg.Sheets)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheet source: %w", err)
	}
	if sheetSource == nil {
		logger.Printf("Sheet source %q not configured; sheet sync will report an error when integrations exist", cfg.Sheets.Provider)
	}

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	sentLogRepo := repository.NewNotificationSentLogRepository(db)
	revenueMetricRepo := repository.NewRevenueMetricRepository(db)
	healthScoreRepo := repository.NewHealthScoreRepository(db)
	sheetConfigRepo := repository.NewSheetSyncConfigRepository(db)
	sheetLogRepo := repository.NewSheetSyncLogRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	queueRepo := repository.NewLeadNotificationQueueRepository(db)
	queueLogRepo := repository.NewLeadNotificationLogRepository(db)
	landingPageRepo := repository.NewLandingPageRepository(db)
	supportTicketRepo := repository.NewSupportTicketRepository(db)
	opportunityRepo := repository.NewGrowthOpportunityRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize flows
	jobs := businessflow.DailyJobs{
		SubscriptionExpiry: businessflow.NewSubscriptionExpiryFlow(subscriptionRepo, notificationRepo, sentLogRepo, db, logger),
		Revenue:            businessflow.NewRevenueFlow(subscriptionRepo, revenueMetricRepo, logger),
		HealthScores: businessflow.NewHealthScoreFlow(
			companyRepo,
			subscriptionRepo,
			leadRepo,
			landingPageRepo,
			supportTicketRepo,
			healthScoreRepo,
			logger,
			cfg.Cron.HealthConcurrency,
		),
		SheetSync: businessflow.NewSheetSyncFlow(sheetConfigRepo, sheetLogRepo, leadRepo, sheetSource, db, logger),
		Growth: businessflow.NewGrowthOpportunityFlow(
			companyRepo,
			subscriptionRepo,
			leadRepo,
			healthScoreRepo,
			revenueMetricRepo,
			opportunityRepo,
			logger,
		),
		LeadDigest: businessflow.NewLeadDigestFlow(queueRepo, queueLogRepo, companyRepo, emailSender, cfg.Email, logger),
		TimerSweep: businessflow.NewTimerSweepFlow(landingPageRepo, db, logger),
	}

	var runLock services.RunLock
	if rc != nil {
		runLock = services.NewRedisRunLock(rc, cfg.Cache.RedisPrefix+utils.DailyTasksLockKey, cfg.Cron.LockTTL)
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
	}

	dailyTaskFlow := businessflow.NewDailyTaskFlow(db, jobs, runLock, auditLogRepo, logger)

	// Initialize handlers
	cronHandler := handlers.NewCronHandler(dailyTaskFlow, cfg.Cron.RequestTimeout, logger)
	cronAuth := middleware.NewCronAuthMiddleware(cfg.Cron.Secret)
	healthHandler := handlers.NewHealthHandler(db, cfg.Deployment.Version)

	appRouter := router.NewFiberRouter(cfg, healthHandler, cronHandler, cronAuth)

	if cfg.Cron.SchedulerEnabled {
		hour, minute, err := cfg.Cron.RunAtClock()
		if err != nil {
			return nil, err
		}
		sched := scheduler.NewDailyScheduler(dailyTaskFlow, hour, minute, cfg.Cron.CheckInterval, cfg.Cron.RequestTimeout, cfg.Cron.LogFilePath)
		stopFuncs = append(stopFuncs, sched.Start(context.Background()))
		logger.Printf("Daily scheduler enabled at %02d:%02d %s", hour, minute, utils.RegionalTimezone)
	}

	stopFuncs = append(stopFuncs, closeLog)

	fiberRouter := appRouter.(*router.FiberRouter)
	return &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}, nil
}
