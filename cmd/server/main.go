package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appmarketplace "github.com/rathi101/ankisho-billing-software/internal/application/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/domain/marketplace"
	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/auth"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/cache"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/config"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/ecommerce"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/logger"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/persistence"
	"github.com/rathi101/ankisho-billing-software/internal/infrastructure/scheduler"
	"github.com/rathi101/ankisho-billing-software/internal/interfaces/http/handler"
	"github.com/rathi101/ankisho-billing-software/internal/interfaces/http/middleware"
	"github.com/rathi101/ankisho-billing-software/internal/interfaces/http/router"

	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting marketplace sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	orderRepo := persistence.NewGormMarketplaceOrderRepository(db.DB)
	configRepo := persistence.NewGormMarketplaceConfigRepository(db.DB)

	// Conversion lock backend
	lock, err := newConversionLock(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize conversion lock", zap.Error(err))
	}
	defer func() {
		if err := lock.Close(); err != nil {
			log.Error("Error closing conversion lock", zap.Error(err))
		}
	}()

	// Marketplace adapter registry
	registry := ecommerce.NewRegistry(configRepo, log)

	// Application services
	configService := appmarketplace.NewConfigService(configRepo, log)
	syncService := appmarketplace.NewSyncService(registry, orderRepo, configRepo, log)
	orderQueryService := appmarketplace.NewOrderQueryService(orderRepo)
	analyticsService := appmarketplace.NewAnalyticsService(orderRepo)
	conversionService := appmarketplace.NewConversionService(
		db.DB,
		func(tx *gorm.DB) appmarketplace.TxRepos {
			return appmarketplace.TxRepos{
				Orders:    persistence.NewGormMarketplaceOrderRepository(tx),
				Customers: persistence.NewGormCustomerRepository(tx),
				Products:  persistence.NewGormProductRepository(tx),
				Sales:     persistence.NewGormSaleRepository(tx),
			}
		},
		lock,
		shared.LockConfig{TTL: cfg.Lock.TTL},
		log,
	)

	// JWT
	jwtService := auth.NewJWTService(cfg.JWT)

	// Handlers
	marketplaceHandler := handler.NewMarketplaceHandler(
		configService,
		syncService,
		orderQueryService,
		conversionService,
		analyticsService,
		log,
	)

	// Gin mode
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// CORS, then the body size limiter
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodySizeLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning, unauthenticated)
	engine.GET("/health", healthHandler(db))

	// API routes behind JWT auth
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	}))
	r.Register(marketplaceHandler)
	r.Setup()

	// Auto-sync scheduler
	var autoSync *scheduler.AutoSyncScheduler
	if cfg.Scheduler.Enabled {
		autoSync, err = scheduler.NewAutoSyncScheduler(
			scheduler.AutoSyncSchedulerConfig{
				CheckInterval: cfg.Scheduler.CheckInterval,
				SyncTimeout:   cfg.Scheduler.SyncTimeout,
			},
			configRepo,
			syncerAdapter{svc: syncService},
			log,
		)
		if err != nil {
			log.Fatal("Failed to initialize auto-sync scheduler", zap.Error(err))
		}
		if err := autoSync.Start(context.Background()); err != nil {
			log.Fatal("Failed to start auto-sync scheduler", zap.Error(err))
		}
		log.Info("Auto-sync scheduler started",
			zap.Duration("check_interval", cfg.Scheduler.CheckInterval))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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

	if autoSync != nil {
		if err := autoSync.Stop(ctx); err != nil {
			log.Warn("Auto-sync scheduler shutdown error", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// syncerAdapter narrows SyncService to the scheduler's OrderSyncer interface
type syncerAdapter struct {
	svc *appmarketplace.SyncService
}

func (a syncerAdapter) SyncOrders(ctx context.Context, mp marketplace.Marketplace, from, to *time.Time) error {
	_, err := a.svc.SyncOrders(ctx, mp, from, to)
	return err
}

// newConversionLock selects the lock backend from configuration
func newConversionLock(cfg *config.Config, log *zap.Logger) (shared.ConversionLock, error) {
	switch cfg.Lock.Backend {
	case "redis":
		log.Info("Using redis conversion lock",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port))
		return cache.NewRedisConversionLock(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, "lock:")
	default:
		return cache.NewInMemoryConversionLock(), nil
	}
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
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
