// Package billing 账单与支付服务单元测试
package billing

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appErrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// setupTestDB 创建测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	err = db.AutoMigrate(
		&models.Customer{},
		&models.Room{},
		&models.Booking{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Payment{},
	)
	require.NoError(t, err)

	return db
}

func setupBillingServices(t *testing.T) (*InvoiceService, *PaymentService, *gorm.DB) {
	db := setupTestDB(t)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	invoiceService := NewInvoiceService(db, invoiceRepo, paymentRepo, customerRepo, bookingRepo,
		Options{NumberPrefix: "INV", DefaultDueDays: 14})
	paymentService := NewPaymentService(db, paymentRepo, invoiceRepo)
	return invoiceService, paymentService, db
}

func createCustomer(t *testing.T, db *gorm.DB, email string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "San",
		LastName:     "Zhang",
		IsActive:     true,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestInvoiceService_CreateInvoice_FromItems(t *testing.T) {
	invoiceService, _, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "inv@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		DueDate:    strPtr("2099-12-31"),
		Items: []InvoiceItemRequest{
			{Description: "住宿费 2 晚", Quantity: 2, UnitPrice: 500},
			{Description: "早餐", Quantity: 4, UnitPrice: 50},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 1200.00, invoice.TotalAmount, 0.001, "明细汇总 2×500 + 4×50")
	assert.InDelta(t, 0.0, invoice.PaidAmount, 0.001)
	assert.InDelta(t, 1200.00, invoice.BalanceDue, 0.001)
	assert.Equal(t, models.InvoiceStatusPending, invoice.Status)
	assert.True(t, strings.HasPrefix(invoice.InvoiceNumber, "INV"))
	require.Len(t, invoice.Items, 2)
	assert.InDelta(t, 1000.00, invoice.Items[0].Amount, 0.001)
}

func TestInvoiceService_CreateInvoice_ExplicitAmountWins(t *testing.T) {
	invoiceService, _, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "explicit@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		DueDate:    strPtr("2099-12-31"),
		Items: []InvoiceItemRequest{
			// 显式金额覆盖数量×单价
			{Description: "折扣住宿", Quantity: 2, UnitPrice: 500, Amount: floatPtr(800)},
		},
		PaidAmount: floatPtr(300),
	})
	require.NoError(t, err)
	assert.InDelta(t, 800.00, invoice.TotalAmount, 0.001)
	assert.InDelta(t, 500.00, invoice.BalanceDue, 0.001)
}

func TestInvoiceService_CreateInvoice_DerivedStatus(t *testing.T) {
	invoiceService, _, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "derive@example.com")

	// 全额已付 ⇒ PAID
	paid, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		TotalAmount: floatPtr(500),
		PaidAmount:  floatPtr(500),
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	// 已过期未付 ⇒ OVERDUE
	overdue, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		IssueDate:   strPtr("2020-01-01"),
		DueDate:     strPtr("2020-01-15"),
		TotalAmount: floatPtr(500),
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusOverdue, overdue.Status)
}

func TestInvoiceService_CreateInvoice_NumberConflict(t *testing.T) {
	invoiceService, _, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "conflict@example.com")

	_, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:    customer.ID,
		InvoiceNumber: strPtr("INV-FIXED-001"),
		TotalAmount:   floatPtr(100),
	})
	require.NoError(t, err)

	_, err = invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:    customer.ID,
		InvoiceNumber: strPtr("INV-FIXED-001"),
		TotalAmount:   floatPtr(100),
	})
	assert.ErrorIs(t, err, appErrors.ErrInvoiceNumberUsed)
}

func TestInvoiceService_CreateInvoice_UnknownCustomer(t *testing.T) {
	invoiceService, _, _ := setupBillingServices(t)

	_, err := invoiceService.CreateInvoice(context.Background(), &CreateInvoiceRequest{
		CustomerID:  "missing",
		TotalAmount: floatPtr(100),
	})
	assert.ErrorIs(t, err, appErrors.ErrCustomerNotFound)
}

func TestInvoiceService_UpdateInvoice_RecomputesFromItems(t *testing.T) {
	invoiceService, _, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "update@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		DueDate:    strPtr("2099-12-31"),
		Items: []InvoiceItemRequest{
			{Description: "住宿费", Quantity: 1, UnitPrice: 500},
		},
	})
	require.NoError(t, err)

	updated, err := invoiceService.UpdateInvoice(ctx, invoice.ID, &UpdateInvoiceRequest{
		Items: []InvoiceItemRequest{
			{Description: "住宿费", Quantity: 2, UnitPrice: 500},
			{Description: "迷你吧", Quantity: 1, UnitPrice: 80},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1080.00, updated.TotalAmount, 0.001)
	assert.InDelta(t, 1080.00, updated.BalanceDue, 0.001)

	found, err := invoiceService.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 2)
}

func TestInvoiceService_UpdateInvoice_PaidAmountAndNumber(t *testing.T) {
	invoiceService, _, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "fields@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		DueDate:     strPtr("2099-12-31"),
		TotalAmount: floatPtr(1000),
	})
	require.NoError(t, err)

	updated, err := invoiceService.UpdateInvoice(ctx, invoice.ID, &UpdateInvoiceRequest{
		InvoiceNumber: strPtr("INV-MANUAL-001"),
		IssueDate:     strPtr("2026-01-02"),
		PaidAmount:    floatPtr(400),
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-MANUAL-001", updated.InvoiceNumber)
	assert.Equal(t, "2026-01-02", updated.IssueDate.Format("2006-01-02"))
	assert.InDelta(t, 400.00, updated.PaidAmount, 0.001)
	assert.InDelta(t, 600.00, updated.BalanceDue, 0.001, "余额按更新后的已付金额重算")

	// 付清后状态推导为 PAID
	paid, err := invoiceService.UpdateInvoice(ctx, invoice.ID, &UpdateInvoiceRequest{
		PaidAmount: floatPtr(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	// 账单号已被其他账单占用
	other, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		DueDate:     strPtr("2099-12-31"),
		TotalAmount: floatPtr(100),
	})
	require.NoError(t, err)
	_, err = invoiceService.UpdateInvoice(ctx, other.ID, &UpdateInvoiceRequest{
		InvoiceNumber: strPtr("INV-MANUAL-001"),
	})
	assert.ErrorIs(t, err, appErrors.ErrInvoiceNumberUsed)
}

func TestInvoiceService_CreateInvoice_NumberRaceMapsToConflict(t *testing.T) {
	invoiceService, _, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "numrace@example.com")

	_, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:    customer.ID,
		InvoiceNumber: strPtr("INV-RACE-001"),
		TotalAmount:   floatPtr(100),
	})
	require.NoError(t, err)

	// 绕过预检查直接插入同号，复现预检查与插入之间的竞争窗口
	dup := &models.Invoice{
		InvoiceNumber: "INV-RACE-001",
		CustomerID:    customer.ID,
		IssueDate:     time.Now(),
		DueDate:       time.Now().AddDate(0, 0, 14),
		TotalAmount:   100,
		BalanceDue:    100,
		Status:        models.InvoiceStatusPending,
	}
	err = db.Create(dup).Error
	require.Error(t, err)
	assert.True(t, isDuplicateInvoiceNumber(err), "唯一索引冲突映射为账单号占用")
	assert.True(t, isDuplicateInvoiceNumber(gorm.ErrDuplicatedKey))
	assert.False(t, isDuplicateInvoiceNumber(gorm.ErrInvalidData))
}

func TestInvoiceService_UpdateInvoiceStatus_CancelSticky(t *testing.T) {
	invoiceService, paymentService, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "cancel@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		DueDate:     strPtr("2099-12-31"),
		TotalAmount: floatPtr(1000),
	})
	require.NoError(t, err)

	cancelled, err := invoiceService.UpdateInvoiceStatus(ctx, invoice.ID, models.InvoiceStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusCancelled, cancelled.Status)

	// 作废账单不接受支付
	_, err = paymentService.CreatePayment(ctx, &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    100,
		Method:    models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, appErrors.ErrInvoiceCancelled)

	// 非法状态值
	_, err = invoiceService.UpdateInvoiceStatus(ctx, invoice.ID, "BOGUS")
	assert.ErrorIs(t, err, appErrors.ErrInvoiceStatusInvalid)
}

func TestInvoiceService_DeleteInvoice_CascadesItemsAndPayments(t *testing.T) {
	invoiceService, paymentService, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "del@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID: customer.ID,
		DueDate:    strPtr("2099-12-31"),
		Items: []InvoiceItemRequest{
			{Description: "住宿费", Quantity: 1, UnitPrice: 500},
		},
	})
	require.NoError(t, err)

	_, err = paymentService.CreatePayment(ctx, &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    200,
		Method:    models.PaymentMethodCash,
	})
	require.NoError(t, err)

	require.NoError(t, invoiceService.DeleteInvoice(ctx, invoice.ID))

	var itemCount, paymentCount int64
	require.NoError(t, db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", invoice.ID).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.Payment{}).Where("invoice_id = ?", invoice.ID).Count(&paymentCount).Error)
	assert.Zero(t, itemCount)
	assert.Zero(t, paymentCount)

	err = invoiceService.DeleteInvoice(ctx, invoice.ID)
	assert.ErrorIs(t, err, appErrors.ErrInvoiceNotFound)
}

func TestPaymentService_CreatePayment_UpdatesLedger(t *testing.T) {
	invoiceService, paymentService, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "ledger@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		DueDate:     strPtr("2099-12-31"),
		TotalAmount: floatPtr(1000),
	})
	require.NoError(t, err)

	_, err = paymentService.CreatePayment(ctx, &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    400,
		Method:    models.PaymentMethodCard,
	})
	require.NoError(t, err)

	partial, err := invoiceService.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 400.00, partial.PaidAmount, 0.001)
	assert.InDelta(t, 600.00, partial.BalanceDue, 0.001)
	assert.Equal(t, models.InvoiceStatusPending, partial.Status)

	_, err = paymentService.CreatePayment(ctx, &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    600,
		Method:    models.PaymentMethodTransfer,
	})
	require.NoError(t, err)

	settled, err := invoiceService.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, settled.BalanceDue, 0.001)
	assert.Equal(t, models.InvoiceStatusPaid, settled.Status)
	assert.NotNil(t, settled.PaidAt)
}

func TestPaymentService_CreatePayment_Validation(t *testing.T) {
	invoiceService, paymentService, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "pv@example.com")
	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		DueDate:     strPtr("2099-12-31"),
		TotalAmount: floatPtr(100),
	})
	require.NoError(t, err)

	// 负数金额
	_, err = paymentService.CreatePayment(ctx, &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    -1,
		Method:    models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, appErrors.ErrPaymentAmountInvalid)

	// 未知支付方式
	_, err = paymentService.CreatePayment(ctx, &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    10,
		Method:    "BARTER",
	})
	assert.ErrorIs(t, err, appErrors.ErrPaymentMethodInvalid)

	// 账单不存在
	_, err = paymentService.CreatePayment(ctx, &CreatePaymentRequest{
		InvoiceID: "missing",
		Amount:    10,
		Method:    models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, appErrors.ErrInvoiceNotFound)
}

func TestPaymentService_DeletePayment_SymmetricReversal(t *testing.T) {
	invoiceService, paymentService, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "reverse@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		DueDate:     strPtr("2099-12-31"),
		TotalAmount: floatPtr(500),
	})
	require.NoError(t, err)

	payment, err := paymentService.CreatePayment(ctx, &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    500,
		Method:    models.PaymentMethodCash,
	})
	require.NoError(t, err)

	settled, err := invoiceService.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, settled.Status)

	// 删除支付后台账对称回退
	require.NoError(t, paymentService.DeletePayment(ctx, payment.ID))

	reopened, err := invoiceService.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, reopened.PaidAmount, 0.001)
	assert.InDelta(t, 500.00, reopened.BalanceDue, 0.001)
	assert.Equal(t, models.InvoiceStatusPending, reopened.Status)
	assert.Nil(t, reopened.PaidAt)

	err = paymentService.DeletePayment(ctx, payment.ID)
	assert.ErrorIs(t, err, appErrors.ErrPaymentNotFound)
}

func TestPaymentService_ConcurrentPayments_NoLostIncrement(t *testing.T) {
	invoiceService, paymentService, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "race@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		DueDate:     strPtr("2099-12-31"),
		TotalAmount: floatPtr(1000),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := paymentService.CreatePayment(ctx, &CreatePaymentRequest{
				InvoiceID: invoice.ID,
				Amount:    100,
				Method:    models.PaymentMethodCash,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)
	for err := range results {
		require.NoError(t, err)
	}

	settled, err := invoiceService.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 500.00, settled.PaidAmount, 0.001, "并发支付不丢增量")
	assert.InDelta(t, 500.00, settled.BalanceDue, 0.001)
	assert.Equal(t, models.InvoiceStatusPending, settled.Status)
}

func TestPaymentService_OverpaymentStillPaid(t *testing.T) {
	invoiceService, paymentService, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "over@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		DueDate:     strPtr("2099-12-31"),
		TotalAmount: floatPtr(300),
	})
	require.NoError(t, err)

	_, err = paymentService.CreatePayment(ctx, &CreatePaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    400,
		Method:    models.PaymentMethodCash,
	})
	require.NoError(t, err)

	found, err := invoiceService.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.InDelta(t, -100.00, found.BalanceDue, 0.001)
	assert.Equal(t, models.InvoiceStatusPaid, found.Status)
}

func TestInvoiceService_SweepOverdueInvoices(t *testing.T) {
	invoiceService, _, db := setupBillingServices(t)
	ctx := context.Background()

	customer := createCustomer(t, db, "sweep@example.com")

	_, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		IssueDate:   strPtr("2020-01-01"),
		DueDate:     strPtr("2020-01-15"),
		TotalAmount: floatPtr(100),
		Status:      strPtr(models.InvoiceStatusPending),
	})
	require.NoError(t, err)

	_, err = invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  customer.ID,
		DueDate:     strPtr("2099-12-31"),
		TotalAmount: floatPtr(100),
	})
	require.NoError(t, err)

	marked, err := invoiceService.SweepOverdueInvoices(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)
}

func TestInvoiceService_GetCustomerInvoice_Scoping(t *testing.T) {
	invoiceService, _, db := setupBillingServices(t)
	ctx := context.Background()

	owner := createCustomer(t, db, "own@example.com")
	other := createCustomer(t, db, "oth@example.com")

	invoice, err := invoiceService.CreateInvoice(ctx, &CreateInvoiceRequest{
		CustomerID:  owner.ID,
		DueDate:     strPtr("2099-12-31"),
		TotalAmount: floatPtr(100),
	})
	require.NoError(t, err)

	_, err = invoiceService.GetCustomerInvoice(ctx, other.ID, invoice.ID)
	assert.ErrorIs(t, err, appErrors.ErrInvoiceNotFound)

	found, err := invoiceService.GetCustomerInvoice(ctx, owner.ID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, found.ID)
}
