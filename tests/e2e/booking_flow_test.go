// Package e2e 住客完整旅程 E2E 测试
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-booking-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-booking-backend/internal/common/lock"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
	authService "github.com/dumeirei/hotel-booking-backend/internal/service/auth"
	billingService "github.com/dumeirei/hotel-booking-backend/internal/service/billing"
	bookingService "github.com/dumeirei/hotel-booking-backend/internal/service/booking"
	customerService "github.com/dumeirei/hotel-booking-backend/internal/service/customer"
	roomService "github.com/dumeirei/hotel-booking-backend/internal/service/room"
)

// e2eTestContext 端到端测试上下文
type e2eTestContext struct {
	db              *gorm.DB
	authService     *authService.AuthService
	customerService *customerService.CustomerService
	roomService     *roomService.RoomService
	bookingService  *bookingService.BookingService
	invoiceService  *billingService.InvoiceService
	paymentService  *billingService.PaymentService
}

func setupE2EContext(t *testing.T) *e2eTestContext {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Room{},
		&models.Booking{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Payment{},
	)
	require.NoError(t, err)

	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            "test-secret-key-e2e",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "test",
	})

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	return &e2eTestContext{
		db:              db,
		authService:     authService.NewAuthService(userRepo, customerRepo, jwtManager),
		customerService: customerService.NewCustomerService(customerRepo),
		roomService:     roomService.NewRoomService(roomRepo, bookingRepo),
		bookingService: bookingService.NewBookingService(db, bookingRepo, roomRepo, customerRepo, lock.NewKeyMutex(), bookingService.Options{
			MaxNights:       30,
			LockTimeout:     5 * time.Second,
			NoShowGraceDays: 1,
		}),
		invoiceService: billingService.NewInvoiceService(db, invoiceRepo, paymentRepo, customerRepo, bookingRepo, billingService.Options{
			NumberPrefix:   "INV",
			DefaultDueDays: 14,
		}),
		paymentService: billingService.NewPaymentService(db, paymentRepo, invoiceRepo),
	}
}

// TestE2E_GuestJourney 测试住客从注册到退房结账的完整旅程
func TestE2E_GuestJourney(t *testing.T) {
	tc := setupE2EContext(t)
	ctx := context.Background()

	// 后台录入并上架房间
	seaView := models.ViewTypeSea
	room, err := tc.roomService.CreateRoom(ctx, &roomService.CreateRoomRequest{
		RoomNumber:       "1201",
		Title:            "海景豪华双床房",
		Description:      "正对海湾的豪华双床房",
		RoomType:         models.RoomTypeDouble,
		CapacityAdults:   2,
		CapacityChildren: 1,
		BedConfiguration: "2张单人床",
		ViewType:         &seaView,
		BasePrice:        588.0,
	})
	require.NoError(t, err)

	_, err = tc.roomService.SetPublished(ctx, room.ID, true)
	require.NoError(t, err)

	// 1. 住客注册并登录
	customer, err := tc.customerService.Register(ctx, &customerService.RegisterRequest{
		Email:     "journey@example.com",
		Password:  "password123",
		FirstName: "五",
		LastName:  "王",
	})
	require.NoError(t, err)

	loginResp, err := tc.authService.CustomerLogin(ctx, &authService.CustomerLoginRequest{
		Email:    "journey@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, loginResp.Token.AccessToken)

	t.Logf("住客注册登录成功: %s", customer.Email)

	// 2. 浏览在售房间并查询空房
	checkIn := time.Now().AddDate(0, 0, 7)
	checkOut := checkIn.AddDate(0, 0, 2)

	rooms, total, err := tc.roomService.ListPublishedRooms(ctx, &roomService.ListRoomsParams{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	available, err := tc.bookingService.FindAvailableRooms(ctx, checkIn, checkOut, 2, 0)
	require.NoError(t, err)
	require.Len(t, available, 1)

	t.Logf("空房查询成功: %s", rooms[0].Title)

	// 3. 创建预订
	booking, err := tc.bookingService.CreateBooking(ctx, customer.ID, &bookingService.CreateBookingRequest{
		RoomID:       room.ID,
		CheckInDate:  checkIn.Format("2006-01-02"),
		CheckOutDate: checkOut.Format("2006-01-02"),
		NumAdults:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.InDelta(t, 588.0*2, booking.TotalPrice, 0.01)

	// 该时段空房查询不再返回此房间
	available, err = tc.bookingService.FindAvailableRooms(ctx, checkIn, checkOut, 2, 0)
	require.NoError(t, err)
	assert.Empty(t, available)

	// 4. 前台确认并办理入住
	_, err = tc.bookingService.UpdateBookingStatus(ctx, booking.ID, models.BookingStatusConfirmed)
	require.NoError(t, err)
	_, err = tc.bookingService.UpdateBookingStatus(ctx, booking.ID, models.BookingStatusCheckedIn)
	require.NoError(t, err)

	// 5. 退房并开具账单
	_, err = tc.bookingService.UpdateBookingStatus(ctx, booking.ID, models.BookingStatusCheckedOut)
	require.NoError(t, err)

	invoice, err := tc.invoiceService.CreateInvoice(ctx, &billingService.CreateInvoiceRequest{
		CustomerID: customer.ID,
		BookingID:  &booking.ID,
		Items: []billingService.InvoiceItemRequest{
			{Description: "住宿费 2晚", Quantity: 2, UnitPrice: 588.0},
			{Description: "客房送餐", Quantity: 1, UnitPrice: 96.0},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1272.0, invoice.TotalAmount, 0.01)

	t.Logf("账单开具成功: %s", invoice.InvoiceNumber)

	// 6. 结账
	_, err = tc.paymentService.CreatePayment(ctx, &billingService.CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    invoice.TotalAmount,
		Method:    models.PaymentMethodCard,
	})
	require.NoError(t, err)

	settled, err := tc.invoiceService.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, settled.Status)

	// 7. 住客查看历史预订与账单
	bookings, total, err := tc.bookingService.ListCustomerBookings(ctx, customer.ID, 0, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, models.BookingStatusCheckedOut, bookings[0].Status)

	invoices, total, err := tc.invoiceService.ListCustomerInvoices(ctx, customer.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, models.InvoiceStatusPaid, invoices[0].Status)

	t.Logf("住客旅程完成: Booking=%s, Invoice=%s", booking.ID, invoice.InvoiceNumber)
}
