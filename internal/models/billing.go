package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice 账单模型
type Invoice struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	InvoiceNumber string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"invoice_number"`
	CustomerID    string     `gorm:"type:varchar(36);index;not null" json:"customer_id"`
	BookingID     *string    `gorm:"type:varchar(36);index" json:"booking_id,omitempty"`
	IssueDate     time.Time  `gorm:"not null" json:"issue_date"`
	DueDate       time.Time  `gorm:"not null" json:"due_date"`
	TotalAmount   float64    `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaidAmount    float64    `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	BalanceDue    float64    `gorm:"type:decimal(12,2);not null" json:"balance_due"`
	Status        string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Notes         *string    `gorm:"type:text" json:"notes,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName 表名
func (Invoice) TableName() string {
	return "invoices"
}

// BeforeCreate 创建前生成 UUID
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// InvoiceItem 账单明细行
type InvoiceItem struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	InvoiceID   string    `gorm:"type:varchar(36);index;not null" json:"invoice_id"`
	Description string    `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// BeforeCreate 创建前生成 UUID
func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Payment 支付记录
type Payment struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	InvoiceID     string    `gorm:"type:varchar(36);index;not null" json:"invoice_id"`
	Amount        float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method        string    `gorm:"type:varchar(20);not null" json:"method"`
	PaymentDate   time.Time `gorm:"not null" json:"payment_date"`
	TransactionID *string   `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`
	Notes         *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate 创建前生成 UUID
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Invoice 状态
const (
	InvoiceStatusPending   = "PENDING"   // 待支付
	InvoiceStatusPaid      = "PAID"      // 已结清
	InvoiceStatusOverdue   = "OVERDUE"   // 已逾期
	InvoiceStatusCancelled = "CANCELLED" // 已作废
)

// 支付方式
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodOnline   = "ONLINE"
)

// ValidInvoiceStatus 判断账单状态是否合法
func ValidInvoiceStatus(status string) bool {
	switch status {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod 判断支付方式是否合法
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOnline:
		return true
	}
	return false
}

// DeriveInvoiceStatus 按余额与到期日推导账单状态（作废账单不参与推导）
func DeriveInvoiceStatus(inv *Invoice, now time.Time) string {
	if inv.Status == InvoiceStatusCancelled {
		return InvoiceStatusCancelled
	}
	if inv.BalanceDue <= 0 {
		return InvoiceStatusPaid
	}
	if now.After(inv.DueDate) {
		return InvoiceStatusOverdue
	}
	return InvoiceStatusPending
}
