// Package helpers 提供测试辅助工具
package helpers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dumeirei/hotel-booking-backend/internal/common/crypto"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// RandomString 生成随机字符串
func RandomString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

// RandomEmail 生成随机邮箱
func RandomEmail() string {
	return fmt.Sprintf("guest_%s@example.com", RandomString(8))
}

// RandomPhone 生成随机手机号
func RandomPhone() string {
	return fmt.Sprintf("138%08d", rand.Intn(100000000))
}

// RandomInt 生成随机整数
func RandomInt(min, max int) int {
	return rand.Intn(max-min+1) + min
}

// RandomFloat 生成随机浮点数
func RandomFloat(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// NewTestCustomer 创建测试客户，密码为 password123
func NewTestCustomer() *models.Customer {
	hash, _ := crypto.HashPassword("password123")
	phone := RandomPhone()
	return &models.Customer{
		Email:        RandomEmail(),
		PasswordHash: hash,
		FirstName:    "测试",
		LastName:     "客户" + RandomString(4),
		Phone:        &phone,
		IsActive:     true,
	}
}

// NewTestStaff 创建测试员工，密码为 password123
func NewTestStaff(role string) *models.User {
	hash, _ := crypto.HashPassword("password123")
	name := RandomString(8)
	return &models.User{
		Username:     "staff_" + name,
		Email:        fmt.Sprintf("staff_%s@example.com", name),
		PasswordHash: hash,
		DisplayName:  "员工" + name[:4],
		Role:         role,
		IsActive:     true,
	}
}

// NewTestRoom 创建已上架的测试房间
func NewTestRoom(roomNumber string) *models.Room {
	return &models.Room{
		RoomNumber:       roomNumber,
		Title:            "海景大床房 " + roomNumber,
		Description:      "测试房间描述",
		RoomType:         models.RoomTypeDouble,
		Capacity:         models.Capacity{Adults: 2, Children: 1},
		BedConfiguration: "1张大床",
		BasePrice:        388.0,
		RoomStatus:       models.RoomStatusAvailable,
		IsPublished:      true,
	}
}

// NewTestBooking 创建测试预订
func NewTestBooking(roomID, customerID string, checkIn time.Time, nights int, status string) *models.Booking {
	return &models.Booking{
		RoomID:       roomID,
		CustomerID:   customerID,
		CheckInDate:  checkIn,
		CheckOutDate: checkIn.AddDate(0, 0, nights),
		NumAdults:    2,
		Status:       status,
		TotalPrice:   388.0 * float64(nights),
	}
}

// NewTestInvoice 创建测试账单
func NewTestInvoice(customerID string, total float64) *models.Invoice {
	now := time.Now()
	return &models.Invoice{
		InvoiceNumber: fmt.Sprintf("INV-TEST-%s", RandomString(8)),
		CustomerID:    customerID,
		IssueDate:     now,
		DueDate:       now.AddDate(0, 0, 14),
		TotalAmount:   total,
		PaidAmount:    0,
		BalanceDue:    total,
		Status:        models.InvoiceStatusPending,
	}
}

// NewTestPayment 创建测试支付记录
func NewTestPayment(invoiceID string, amount float64) *models.Payment {
	return &models.Payment{
		InvoiceID:   invoiceID,
		Amount:      amount,
		Method:      models.PaymentMethodCard,
		PaymentDate: time.Now(),
	}
}

// NewTestInventoryItem 创建测试库存物品
func NewTestInventoryItem(sku string, quantity, reorderLevel int) *models.InventoryItem {
	return &models.InventoryItem{
		SKU:          sku,
		Name:         "测试物品" + RandomString(4),
		Category:     "LINEN",
		Quantity:     quantity,
		ReorderLevel: reorderLevel,
	}
}
