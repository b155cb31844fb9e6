// Package main 是应用程序入口
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/config"
	"github.com/dumeirei/hotel-booking-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-booking-backend/internal/common/lock"
	"github.com/dumeirei/hotel-booking-backend/internal/common/metrics"
	commonMiddleware "github.com/dumeirei/hotel-booking-backend/internal/common/middleware"
	adminHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/admin"
	authHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/auth"
	billingHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/billing"
	bookingHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/booking"
	customerHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/customer"
	roomHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/room"
	uploadHandler "github.com/dumeirei/hotel-booking-backend/internal/handler/upload"
	"github.com/dumeirei/hotel-booking-backend/internal/middleware"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
	authService "github.com/dumeirei/hotel-booking-backend/internal/service/auth"
	billingService "github.com/dumeirei/hotel-booking-backend/internal/service/billing"
	bookingService "github.com/dumeirei/hotel-booking-backend/internal/service/booking"
	customerService "github.com/dumeirei/hotel-booking-backend/internal/service/customer"
	inventoryService "github.com/dumeirei/hotel-booking-backend/internal/service/inventory"
	roomService "github.com/dumeirei/hotel-booking-backend/internal/service/room"
	userService "github.com/dumeirei/hotel-booking-backend/internal/service/user"
	"github.com/dumeirei/hotel-booking-backend/pkg/oss"
)

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	uploader oss.Uploader,
) {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	operationLogRepo := repository.NewOperationLogRepository(db)

	// 预订并发控制：多实例部署用 Redis 锁，单机退化为进程内锁
	var locker lock.Locker
	if redisClient != nil {
		locker = lock.NewRedisLocker(redisClient, "lock:room:")
	} else {
		locker = lock.NewKeyMutex()
	}

	// 初始化服务
	authSvc := authService.NewAuthService(userRepo, customerRepo, jwtManager)
	customerSvc := customerService.NewCustomerService(customerRepo)
	userSvc := userService.NewUserService(userRepo)
	roomSvc := roomService.NewRoomService(roomRepo, bookingRepo)
	bookingSvc := bookingService.NewBookingService(db, bookingRepo, roomRepo, customerRepo, locker, bookingService.Options{
		MaxNights:       cfg.Business.Booking.MaxNights,
		LockTimeout:     cfg.Business.Booking.LockTimeoutDuration(),
		NoShowGraceDays: cfg.Business.Booking.NoShowGraceDays,
	})
	invoiceSvc := billingService.NewInvoiceService(db, invoiceRepo, paymentRepo, customerRepo, bookingRepo, billingService.Options{
		NumberPrefix:   cfg.Business.Invoice.NumberPrefix,
		DefaultDueDays: cfg.Business.Invoice.DefaultDueDays,
	})
	paymentSvc := billingService.NewPaymentService(db, paymentRepo, invoiceRepo)
	inventorySvc := inventoryService.NewInventoryService(inventoryRepo)

	// 初始化处理器
	authH := authHandler.NewAuthHandler(authSvc, customerSvc)
	roomH := roomHandler.NewRoomHandler(roomSvc, bookingSvc)
	bookingH := bookingHandler.NewBookingHandler(bookingSvc)
	invoiceH := billingHandler.NewInvoiceHandler(invoiceSvc)
	profileH := customerHandler.NewProfileHandler(customerSvc)
	uploadH := uploadHandler.NewUploadHandler(uploader)

	adminRoomH := adminHandler.NewRoomHandler(roomSvc)
	adminBookingH := adminHandler.NewBookingHandler(bookingSvc)
	adminBillingH := adminHandler.NewBillingHandler(invoiceSvc, paymentSvc)
	adminCustomerH := adminHandler.NewCustomerHandler(customerSvc)
	adminUserH := adminHandler.NewUserHandler(userSvc)
	adminInventoryH := adminHandler.NewInventoryHandler(inventorySvc)
	adminSystemH := adminHandler.NewSystemHandler(operationLogRepo)

	operationLogger := commonMiddleware.NewOperationLogger(operationLogRepo)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.CORS(nil))
	r.Use(middleware.AccessLog(logger))
	if cfg.Tracing.Enabled {
		r.Use(commonMiddleware.Tracing(&commonMiddleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
		}))
	}
	if cfg.Metrics.Enabled {
		r.Use(metrics.GetMetrics().Middleware())
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 公开接口（无需认证）
		public := v1.Group("")
		{
			auth := public.Group("/auth")
			if redisClient != nil {
				auth.Use(middleware.LoginRateLimit(redisClient))
			}
			auth.POST("/register", authH.Register)
			auth.POST("/login", authH.CustomerLogin)
			auth.POST("/refresh", authH.RefreshToken)

			// 房间浏览与可订性查询
			public.GET("/rooms", roomH.ListRooms)
			public.GET("/rooms/availability", roomH.SearchAvailability)
			public.GET("/rooms/:id", roomH.GetRoom)
			public.GET("/rooms/:id/availability", roomH.CheckRoomAvailability)
		}

		// 客户端接口（需要客户认证）
		customer := v1.Group("")
		customer.Use(middleware.CustomerAuth(jwtManager))
		{
			customer.PUT("/auth/password", authH.ChangeCustomerPassword)

			customer.GET("/profile", profileH.GetProfile)
			customer.PUT("/profile", profileH.UpdateProfile)

			customer.POST("/bookings", bookingH.CreateBooking)
			customer.GET("/bookings", bookingH.GetMyBookings)
			customer.GET("/bookings/:id", bookingH.GetBookingDetail)
			customer.POST("/bookings/:id/cancel", bookingH.CancelBooking)
			customer.GET("/bookings/:id/qrcode", bookingH.GetBookingQRCode)

			customer.GET("/invoices", invoiceH.GetMyInvoices)
			customer.GET("/invoices/:id", invoiceH.GetInvoiceDetail)
		}

		// 管理后台接口（需要员工认证）
		admin := v1.Group("/admin")
		{
			adminAuth := admin.Group("/auth")
			if redisClient != nil {
				adminAuth.Use(middleware.LoginRateLimit(redisClient))
			}
			adminAuth.POST("/login", authH.StaffLogin)
			adminAuth.POST("/refresh", authH.RefreshToken)

			staff := admin.Group("")
			staff.Use(middleware.StaffAuth(jwtManager))
			staff.Use(operationLogger.Log())
			{
				staff.PUT("/auth/password", authH.ChangeStaffPassword)

				// 房间管理（编辑及以上）
				rooms := staff.Group("/rooms", middleware.RequireEditor())
				{
					rooms.POST("", adminRoomH.CreateRoom)
					rooms.GET("", adminRoomH.ListRooms)
					rooms.GET("/:id", adminRoomH.GetRoom)
					rooms.PUT("/:id", adminRoomH.UpdateRoom)
					rooms.PUT("/:id/status", adminRoomH.UpdateRoomStatus)
					rooms.PUT("/:id/published", adminRoomH.SetPublished)
					rooms.DELETE("/:id", adminRoomH.DeleteRoom)
					rooms.GET("/:id/bookings", adminBookingH.ListRoomBookings)
				}

				// 预订管理
				bookings := staff.Group("/bookings", middleware.RequireEditor())
				{
					bookings.POST("", adminBookingH.CreateBooking)
					bookings.GET("", adminBookingH.ListBookings)
					bookings.GET("/:id", adminBookingH.GetBooking)
					bookings.PUT("/:id", adminBookingH.UpdateBooking)
					bookings.PUT("/:id/status", adminBookingH.UpdateBookingStatus)
					bookings.DELETE("/:id", adminBookingH.DeleteBooking)
				}

				// 账单与支付管理
				invoices := staff.Group("/invoices", middleware.RequireEditor())
				{
					invoices.POST("", adminBillingH.CreateInvoice)
					invoices.GET("", adminBillingH.ListInvoices)
					invoices.GET("/:id", adminBillingH.GetInvoice)
					invoices.PUT("/:id", adminBillingH.UpdateInvoice)
					invoices.PUT("/:id/status", adminBillingH.UpdateInvoiceStatus)
					invoices.DELETE("/:id", adminBillingH.DeleteInvoice)
					invoices.POST("/:id/payments", adminBillingH.CreateInvoicePayment)
					invoices.GET("/:id/payments", adminBillingH.ListInvoicePayments)
				}
				payments := staff.Group("/payments", middleware.RequireEditor())
				{
					payments.POST("", adminBillingH.CreatePayment)
					payments.GET("", adminBillingH.ListPayments)
					payments.GET("/:id", adminBillingH.GetPayment)
					payments.DELETE("/:id", adminBillingH.DeletePayment)
				}

				// 客户管理
				customers := staff.Group("/customers", middleware.RequireEditor())
				{
					customers.GET("", adminCustomerH.ListCustomers)
					customers.GET("/:id", adminCustomerH.GetCustomer)
					customers.PUT("/:id", adminCustomerH.UpdateCustomer)
					customers.PUT("/:id/active", adminCustomerH.SetCustomerActive)
				}

				// 物资库存管理
				inventory := staff.Group("/inventory", middleware.RequireEditor())
				{
					inventory.POST("", adminInventoryH.CreateItem)
					inventory.GET("", adminInventoryH.ListItems)
					inventory.GET("/reorder", adminInventoryH.ListNeedingReorder)
					inventory.GET("/:id", adminInventoryH.GetItem)
					inventory.PUT("/:id", adminInventoryH.UpdateItem)
					inventory.POST("/:id/adjust", adminInventoryH.AdjustQuantity)
					inventory.DELETE("/:id", adminInventoryH.DeleteItem)
				}

				// 上传
				staff.POST("/upload/room-image", middleware.RequireEditor(), uploadH.UploadRoomImage)

				// 员工账号管理（仅管理员）
				users := staff.Group("/users", middleware.RequireAdmin())
				{
					users.POST("", adminUserH.CreateUser)
					users.GET("", adminUserH.ListUsers)
					users.GET("/:id", adminUserH.GetUser)
					users.PUT("/:id", adminUserH.UpdateUser)
					users.PUT("/:id/active", adminUserH.SetUserActive)
				}

				// 系统管理（仅管理员）
				system := staff.Group("/system", middleware.RequireAdmin())
				{
					system.GET("/logs", adminSystemH.ListOperationLogs)
					system.GET("/logs/target", adminSystemH.ListTargetLogs)
					system.GET("/logs/stats", adminSystemH.GetModuleStats)
				}
			}
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})
}
