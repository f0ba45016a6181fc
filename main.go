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
	"weighbridge/application/health"
	"weighbridge/application/weighbridge/domain"
	"weighbridge/application/weighbridge/handler"
	"weighbridge/application/weighbridge/repository"
	"weighbridge/application/weighbridge/service"
	"weighbridge/internal/config"
	"weighbridge/internal/events"
	"weighbridge/internal/logger"
	"weighbridge/middleware"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	dotEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	z, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer z.Sync()

	if !dotEnv {
		z.Info("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, pinger, err := setupStore(cfg, z)
	if err != nil {
		z.Fatal("Failed to setup ticket store", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	if cfg.SeedDemo {
		n, err := repository.Seed(ctx, store, time.Now())
		if err != nil {
			z.Fatal("Failed to seed demo tickets", zap.Error(err))
		}
		z.Info("Seeded demo tickets", zap.Int("count", n))
	}

	bus := events.NewBus(events.Config{OutputBuffer: 64}, z)
	defer bus.Close()

	repo := repository.NewRepository(store)
	svc := service.NewService(repo, bus, z)

	if err := bus.SubscribeTicketSaved(ctx, svc.Sessions().HandleTicketSaved); err != nil {
		z.Fatal("Failed to subscribe list sessions to ticket events", zap.Error(err))
	}

	r := SetupRouter(cfg, z, svc, health.NewRepository(pinger, cfg.DBDriver))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  55 * time.Second,
		WriteTimeout: 55 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		z.Info("🚀 Server starting", zap.String("addr", srv.Addr), zap.String("driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			z.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	z.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		z.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// setupStore opens the configured ticket store. The returned pinger is nil for
// the in-memory driver.
func setupStore(cfg config.Config, z *zap.Logger) (domain.Store, health.Pinger, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMemory:
		z.Info("📦 Using in-memory ticket store")
		return repository.NewMemoryStore(), nil, nil
	case config.DriverMySQL:
		z.Info("🗄️  Connecting to MySQL", zap.String("host", cfg.MySQL.Host), zap.String("database", cfg.MySQL.Name))
		dialector = mysql.Open(cfg.MySQL.DSN())
	default:
		z.Info("📦 Opening SQLite database", zap.String("path", cfg.SQLitePath))
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	if cfg.DBDriver == config.DriverMySQL {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := repository.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	store := repository.NewGormStore(db)
	return store, store, nil
}

func SetupRouter(cfg config.Config, z *zap.Logger, svc *service.Service, healthRepo *health.Repository) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestInit())
	r.Use(middleware.ResponseInit(z))

	healthSvc := health.NewService(healthRepo, svc.Sessions())
	healthHandler := health.NewHandler(healthSvc)
	ticketHandler := handler.NewHandler(svc)

	// Register routes
	api := r.Group("")
	healthHandler.RegisterRoutes(api)
	ticketHandler.RegisterRoutes(api)

	return r
}
