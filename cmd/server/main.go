package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fleetapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/fleet"
	invoicingapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/invoicing"
	partnerapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/partner"
	tariffapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/tariff"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/cache"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/config"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/logger"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/persistence"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/telemetry"
	"github.com/TarekBesrour/TMSv3-sub004/internal/interfaces/http/handler"
	"github.com/TarekBesrour/TMSv3-sub004/internal/interfaces/http/middleware"
	"github.com/TarekBesrour/TMSv3-sub004/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting tariff engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing before anything that creates spans
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Bridge application logs to the collector when enabled
	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	if loggerProvider.IsEnabled() {
		bridgeLevel, levelErr := zapcore.ParseLevel(cfg.Log.Level)
		if levelErr != nil {
			bridgeLevel = zapcore.InfoLevel
		}
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          bridgeLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore,
			zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}

	// Metrics export over OTLP
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing when enabled
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Database query and connection pool metrics
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(context.Background())
		defer dbMetrics.Stop()
	}

	// Fuel index store: Redis when reachable, in-memory otherwise
	fuelStore := cache.NewFuelIndexStore(cfg.Redis, log)

	// Idempotency store backing replay-safe mutating requests
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize repositories
	rateRepo := persistence.NewGormRateRepository(db.DB)
	contractLineRepo := persistence.NewGormContractLineRepository(db.DB)
	surchargeRepo := persistence.NewGormSurchargeRepository(db.DB)
	pricingRuleRepo := persistence.NewGormPricingRuleRepository(db.DB)
	carrierInvoiceRepo := persistence.NewGormCarrierInvoiceRepository(db.DB)
	carrierRepo := persistence.NewGormCarrierRepository(db.DB)
	vehicleRepo := persistence.NewGormVehicleRepository(db.DB)
	siteRepo := persistence.NewGormSiteRepository(db.DB)

	// Initialize application services
	quoteService := tariffapp.NewQuoteService(rateRepo, contractLineRepo, surchargeRepo, pricingRuleRepo, fuelStore)
	rateService := tariffapp.NewRateService(rateRepo, contractLineRepo)
	surchargeService := tariffapp.NewSurchargeService(surchargeRepo)
	pricingRuleService := tariffapp.NewPricingRuleService(pricingRuleRepo)
	invoiceService := invoicingapp.NewInvoiceControlService(carrierInvoiceRepo)
	carrierService := partnerapp.NewCarrierService(carrierRepo)
	fleetService := fleetapp.NewFleetService(vehicleRepo, siteRepo)

	// Business metrics: per-quote and per-audit counters plus a periodic
	// review backlog collector
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("business"),
			Logger:        log,
			AuditProvider: telemetry.NewGormAuditMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		quoteService.SetBusinessMetrics(businessMetrics)
		invoiceService.SetBusinessMetrics(businessMetrics)

		businessMetrics.StartPeriodicCollection(context.Background(),
			telemetry.NewGormTenantProvider(db.DB), cfg.Telemetry.MetricsCollectBacklog)
		defer businessMetrics.Stop()
	}

	// Initialize HTTP handlers
	quoteHandler := handler.NewQuoteHandler(quoteService)
	rateHandler := handler.NewRateHandler(rateService)
	surchargeHandler := handler.NewSurchargeHandler(surchargeService)
	pricingRuleHandler := handler.NewPricingRuleHandler(pricingRuleService)
	fuelIndexHandler := handler.NewFuelIndexHandler(fuelStore, cfg.Tariff.FuelIndexTTL)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	carrierHandler := handler.NewCarrierHandler(carrierService)
	fleetHandler := handler.NewFleetHandler(fleetService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing - Create spans for requests, mark errors
	// 8. Tenant - Resolve the tenant from headers
	// 9. Metrics - Record request metrics with the resolved tenant
	// 10. Idempotency - Reject replayed mutating requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Request tracing
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())

	// Tenant resolution from the X-Tenant-ID header
	engine.Use(middleware.TenantMiddleware())
	engine.Use(middleware.TracingAttributeInjector())

	// HTTP server metrics; placed after tenant resolution so the tenant
	// label is populated
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.MetricsEnabled,
	}))

	// Replay protection keyed on the Idempotency-Key header
	engine.Use(middleware.Idempotency(middleware.IdempotencyMiddlewareConfig{
		Store: idempotencyStore,
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Tariff domain (quoting, rates, contract lines, surcharges, pricing rules)
	tariffRoutes := router.NewDomainGroup("tariff", "/tariff")
	tariffRoutes.POST("/quotes", quoteHandler.Compose)

	tariffRoutes.POST("/rates", rateHandler.Create)
	tariffRoutes.GET("/rates", rateHandler.List)
	tariffRoutes.GET("/rates/:id", rateHandler.Get)
	tariffRoutes.PUT("/rates/:id/term", rateHandler.UpdateTerm)
	tariffRoutes.POST("/rates/:id/deactivate", rateHandler.Deactivate)
	tariffRoutes.DELETE("/rates/:id", rateHandler.Delete)

	tariffRoutes.POST("/contract-lines", rateHandler.CreateContractLine)
	tariffRoutes.GET("/contracts/:contract_id/lines", rateHandler.ListContractLines)
	tariffRoutes.PUT("/contract-lines/:id/term", rateHandler.UpdateContractLineTerm)
	tariffRoutes.POST("/contract-lines/:id/deactivate", rateHandler.DeactivateContractLine)

	tariffRoutes.POST("/surcharges", surchargeHandler.Create)
	tariffRoutes.GET("/surcharges", surchargeHandler.List)
	tariffRoutes.GET("/surcharges/:id", surchargeHandler.Get)
	tariffRoutes.POST("/surcharges/:id/deactivate", surchargeHandler.Deactivate)
	tariffRoutes.DELETE("/surcharges/:id", surchargeHandler.Delete)

	tariffRoutes.POST("/pricing-rules", pricingRuleHandler.Create)
	tariffRoutes.GET("/pricing-rules", pricingRuleHandler.List)
	tariffRoutes.GET("/pricing-rules/:id", pricingRuleHandler.Get)
	tariffRoutes.POST("/pricing-rules/:id/deactivate", pricingRuleHandler.Deactivate)
	tariffRoutes.DELETE("/pricing-rules/:id", pricingRuleHandler.Delete)

	tariffRoutes.GET("/fuel-index", fuelIndexHandler.Get)
	tariffRoutes.PUT("/fuel-index", fuelIndexHandler.Set)

	// Invoicing domain (carrier invoice registration, audit, workflow)
	invoicingRoutes := router.NewDomainGroup("invoicing", "/invoicing")
	invoicingRoutes.POST("/invoices", invoiceHandler.Register)
	invoicingRoutes.GET("/invoices", invoiceHandler.List)
	invoicingRoutes.GET("/invoices/pending-review", invoiceHandler.ListPendingReview)
	invoicingRoutes.GET("/invoices/:id", invoiceHandler.Get)
	invoicingRoutes.POST("/invoices/:id/audit", invoiceHandler.Audit)
	invoicingRoutes.POST("/invoices/:id/correct-line", invoiceHandler.CorrectLine)
	invoicingRoutes.POST("/invoices/:id/start-review", invoiceHandler.StartReview)
	invoicingRoutes.POST("/invoices/:id/validate", invoiceHandler.Validate)
	invoicingRoutes.POST("/invoices/:id/approve", invoiceHandler.Approve)
	invoicingRoutes.POST("/invoices/:id/dispute", invoiceHandler.Dispute)
	invoicingRoutes.POST("/invoices/:id/resolve-dispute", invoiceHandler.ResolveDispute)
	invoicingRoutes.POST("/invoices/:id/reject", invoiceHandler.Reject)
	invoicingRoutes.POST("/invoices/:id/mark-paid", invoiceHandler.MarkPaid)
	invoicingRoutes.POST("/invoices/:id/require-manual-review", invoiceHandler.RequireManualReview)

	// Partner domain (carriers)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/carriers", carrierHandler.Create)
	partnerRoutes.GET("/carriers", carrierHandler.List)
	partnerRoutes.GET("/carriers/:id", carrierHandler.Get)
	partnerRoutes.GET("/carriers/code/:code", carrierHandler.GetByCode)
	partnerRoutes.PUT("/carriers/:id", carrierHandler.Update)
	partnerRoutes.POST("/carriers/:id/activate", carrierHandler.Activate)
	partnerRoutes.POST("/carriers/:id/deactivate", carrierHandler.Deactivate)
	partnerRoutes.POST("/carriers/:id/block", carrierHandler.Block)
	partnerRoutes.DELETE("/carriers/:id", carrierHandler.Delete)

	// Fleet domain (vehicles, sites)
	fleetRoutes := router.NewDomainGroup("fleet", "/fleet")
	fleetRoutes.POST("/vehicles", fleetHandler.CreateVehicle)
	fleetRoutes.GET("/vehicles", fleetHandler.ListVehicles)
	fleetRoutes.GET("/vehicles/:id", fleetHandler.GetVehicle)
	fleetRoutes.PUT("/vehicles/:id/status", fleetHandler.SetVehicleStatus)
	fleetRoutes.POST("/vehicles/:id/retire", fleetHandler.RetireVehicle)
	fleetRoutes.POST("/sites", fleetHandler.CreateSite)
	fleetRoutes.GET("/sites", fleetHandler.ListSites)
	fleetRoutes.GET("/sites/:id", fleetHandler.GetSite)
	fleetRoutes.POST("/sites/:id/deactivate", fleetHandler.DeactivateSite)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(tariffRoutes).
		Register(invoicingRoutes).
		Register(partnerRoutes).
		Register(fleetRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
