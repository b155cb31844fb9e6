// Package main 是应用程序入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/cache"
	"github.com/dumeirei/hotel-booking-backend/internal/common/config"
	"github.com/dumeirei/hotel-booking-backend/internal/common/database"
	"github.com/dumeirei/hotel-booking-backend/internal/common/logger"
	"github.com/dumeirei/hotel-booking-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-booking-backend/internal/common/tracing"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
	"github.com/dumeirei/hotel-booking-backend/internal/scheduler"
	billingService "github.com/dumeirei/hotel-booking-backend/internal/service/billing"
	bookingService "github.com/dumeirei/hotel-booking-backend/internal/service/booking"
	"github.com/dumeirei/hotel-booking-backend/internal/common/lock"
	"github.com/dumeirei/hotel-booking-backend/pkg/oss"
)

func main() {
	// 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()

	log.Info("Starting Hotel Booking Backend",
		zap.String("version", "1.0.0"),
		zap.String("env", cfg.Server.Mode),
	)

	// 初始化数据库连接
	db, err := database.Init(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// 数据库迁移
	if err := autoMigrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// 初始化 Redis 连接
	redisClient, err := cache.Init(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Redis connected successfully")

	// 初始化监控指标
	if cfg.Metrics.Enabled {
		metrics.Init("hotel_booking")
	}

	// 初始化链路追踪
	tracer, err := tracing.Init(&tracing.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Server.Mode,
		Endpoint:       cfg.Tracing.Endpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		log.Warn("Failed to init tracing, continuing without it", zap.Error(err))
	}

	// 初始化文件存储
	uploader, err := newUploader(cfg)
	if err != nil {
		log.Fatal("Failed to init storage", zap.Error(err))
	}

	// 设置 Gin 模式
	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Server.Mode == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 设置路由
	setupRouter(engine, cfg, log, db, redisClient, uploader)

	// 启动定时任务
	sched := setupScheduler(db, cfg)
	sched.Start()

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Info("HTTP server starting",
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// 创建超时上下文用于优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 停止定时任务
	sched.Stop()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// 关闭链路追踪
	if tracer != nil {
		_ = tracer.Shutdown(ctx)
	}

	// 关闭数据库连接
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}

	log.Info("Server exited")
}

// autoMigrate 执行数据库迁移
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Room{},
		&models.Booking{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Payment{},
		&models.InventoryItem{},
		&models.OperationLog{},
	)
}

// newUploader 根据配置创建文件存储
func newUploader(cfg *config.Config) (oss.Uploader, error) {
	switch cfg.Storage.Provider {
	case "aliyun":
		return oss.NewAliyunUploader(&oss.AliyunConfig{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			AccessKeySecret: cfg.Storage.AccessKeySecret,
			BucketName:      cfg.Storage.Bucket,
			Domain:          cfg.Storage.CustomDomain,
			BasePath:        cfg.Storage.UploadDir,
		})
	default:
		return oss.NewLocalUploader(&oss.LocalConfig{
			BaseDir: cfg.Storage.LocalDir,
			BaseURL: cfg.Storage.BaseURL,
		})
	}
}

// setupScheduler 创建后台定时任务
func setupScheduler(db *gorm.DB, cfg *config.Config) *scheduler.Scheduler {
	bookingRepo := repository.NewBookingRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	operationLogRepo := repository.NewOperationLogRepository(db)

	bookingSvc := bookingService.NewBookingService(db, bookingRepo, roomRepo, customerRepo, lock.NewKeyMutex(), bookingService.Options{
		MaxNights:       cfg.Business.Booking.MaxNights,
		LockTimeout:     cfg.Business.Booking.LockTimeoutDuration(),
		NoShowGraceDays: cfg.Business.Booking.NoShowGraceDays,
	})
	invoiceSvc := billingService.NewInvoiceService(db, invoiceRepo, paymentRepo, customerRepo, bookingRepo, billingService.Options{
		NumberPrefix:   cfg.Business.Invoice.NumberPrefix,
		DefaultDueDays: cfg.Business.Invoice.DefaultDueDays,
	})

	sched := scheduler.NewScheduler()
	taskHandler := scheduler.NewTaskHandler(bookingSvc, invoiceSvc, operationLogRepo)
	scheduler.SetupTasks(sched, taskHandler)
	return sched
}
