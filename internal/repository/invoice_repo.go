// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// InvoiceRepository 账单仓储
type InvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository 创建账单仓储
func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create 创建账单（含明细行）
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// GetByID 根据 ID 获取账单
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetByIDWithDetails 根据 ID 获取账单（包含明细、支付记录与客户）
func (r *InvoiceRepository) GetByIDWithDetails(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Preload("Customer").
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetByNumber 根据账单号获取账单
func (r *InvoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("invoice_number = ?", invoiceNumber).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ExistsByNumber 检查账单号是否已存在
func (r *InvoiceRepository) ExistsByNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error
	return count > 0, err
}

// GetByIDForUpdate 在事务中加行锁获取账单
// sqlite 没有 FOR UPDATE 语法，单连接下写事务本身串行
func (r *InvoiceRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Invoice, error) {
	query := tx.WithContext(ctx)
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var invoice models.Invoice
	err := query.Where("id = ?", id).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Update 更新账单
func (r *InvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// UpdateFields 更新指定字段
func (r *InvoiceRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Invoice{}).Where("id = ?", id).Updates(fields).Error
}

// List 获取账单列表
func (r *InvoiceRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Invoice, int64, error) {
	var invoices []*models.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Invoice{})

	// 应用过滤条件
	if customerID, ok := filters["customer_id"].(string); ok && customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if bookingID, ok := filters["booking_id"].(string); ok && bookingID != "" {
		query = query.Where("booking_id = ?", bookingID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if invoiceNumber, ok := filters["invoice_number"].(string); ok && invoiceNumber != "" {
		query = query.Where("invoice_number LIKE ?", "%"+invoiceNumber+"%")
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("issue_date >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("issue_date <= ?", endDate)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

// ListByCustomer 获取客户的账单列表
func (r *InvoiceRepository) ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*models.Invoice, int64, error) {
	filters := map[string]interface{}{
		"customer_id": customerID,
	}
	return r.List(ctx, offset, limit, filters)
}

// ListByBooking 获取预订关联的账单列表
func (r *InvoiceRepository) ListByBooking(ctx context.Context, bookingID string) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

// ListDueOverdue 获取应标记为逾期的账单（未结清且已过期）
func (r *InvoiceRepository) ListDueOverdue(ctx context.Context, now time.Time, limit int) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ?", models.InvoiceStatusPending).
		Where("balance_due > 0").
		Where("due_date < ?", now).
		Limit(limit).
		Find(&invoices).Error
	return invoices, err
}

// SumBalanceByCustomer 统计客户未结清余额
func (r *InvoiceRepository) SumBalanceByCustomer(ctx context.Context, customerID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Select("COALESCE(SUM(balance_due), 0)").
		Where("customer_id = ?", customerID).
		Where("status NOT IN ?", []string{models.InvoiceStatusCancelled, models.InvoiceStatusPaid}).
		Scan(&total).Error
	return total, err
}

// CountByStatus 按状态统计账单数量
func (r *InvoiceRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
