package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sgmi-dev/sgmi-api/internal/fixture"
	"github.com/sgmi-dev/sgmi-api/internal/handler"
	"github.com/sgmi-dev/sgmi-api/internal/middleware"
	"github.com/sgmi-dev/sgmi-api/internal/repository"
	"github.com/sgmi-dev/sgmi-api/internal/service"
	"github.com/sgmi-dev/sgmi-api/pkg/cache"
	"github.com/sgmi-dev/sgmi-api/pkg/config"
	"github.com/sgmi-dev/sgmi-api/pkg/database"
	"github.com/sgmi-dev/sgmi-api/pkg/logger"
	corsmiddleware "github.com/sgmi-dev/sgmi-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sgmi-dev/sgmi-api/pkg/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	var db *sqlx.DB
	var redisClient *redis.Client

	var (
		userStore      service.UserStore
		roleStore      service.RoleStore
		workOrderStore service.WorkOrderStore
		inventoryStore service.InventoryStore
	)

	if cfg.Demo.Enabled {
		logr.Info("demo mode enabled, using in-memory fixture store")
		users := fixture.NewUserStore()
		userStore = users
		roleStore = fixture.NewRoleStore()
		workOrderStore = fixture.NewWorkOrderStore(users)
		inventoryStore = fixture.NewInventoryStore()
	} else {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()

		userStore = repository.NewUserRepository(db)
		roleStore = repository.NewRoleRepository(db)
		workOrderStore = repository.NewWorkOrderRepository(db)
		inventoryStore = repository.NewInventoryRepository(db)
	}

	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, report caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	authService := service.NewAuthService(userStore, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		RefreshTokenSecret: cfg.JWT.RefreshSecret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		Demo:               cfg.Demo.Enabled,
	})
	userService := service.NewUserService(userStore, roleStore, validate, logr)
	workOrderService := service.NewWorkOrderService(workOrderStore, validate, logr)
	inventoryService := service.NewInventoryService(inventoryStore, validate, logr)

	var reportCache *repository.CacheRepository
	if redisClient != nil {
		reportCache = repository.NewCacheRepository(redisClient, logr)
	}
	reportService := service.NewReportService(workOrderStore, inventoryStore, reportCacheOrNil(reportCache), metrics, logr, cfg.Reports.CacheTTL)
	workOrderService.OnWrite(reportService.InvalidateStatistics)
	inventoryService.OnWrite(reportService.InvalidateStatistics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if db != nil {
			if err := db.Ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Users:     handler.NewUserHandler(userService),
		Orders:    handler.NewWorkOrderHandler(workOrderService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Reports:   handler.NewReportHandler(reportService),
	}, authService)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env, "demo", cfg.Demo.Enabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("forced shutdown", zap.Error(err))
	}
}

// reportCacheOrNil keeps the nil check in one place; a typed nil pointer
// inside a non-nil interface would defeat the service's cache == nil guard.
func reportCacheOrNil(c *repository.CacheRepository) service.ReportCache {
	if c == nil {
		return nil
	}
	return c
}
