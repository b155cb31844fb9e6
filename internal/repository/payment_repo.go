// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// PaymentRepository 支付记录仓储
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付记录仓储
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create 创建支付记录
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID 根据 ID 获取支付记录
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Delete 删除支付记录
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Payment{}).Error
}

// ListByInvoice 获取账单的支付记录列表
func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

// SumByInvoice 统计账单已支付总额
func (r *PaymentRepository) SumByInvoice(ctx context.Context, invoiceID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("invoice_id = ?", invoiceID).
		Scan(&total).Error
	return total, err
}

// List 获取支付记录列表
func (r *PaymentRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{})

	// 应用过滤条件
	if invoiceID, ok := filters["invoice_id"].(string); ok && invoiceID != "" {
		query = query.Where("invoice_id = ?", invoiceID)
	}
	if method, ok := filters["method"].(string); ok && method != "" {
		query = query.Where("method = ?", method)
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("payment_date >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("payment_date <= ?", endDate)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Order("payment_date DESC").
		Offset(offset).Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// SumByMethodSince 按支付方式统计指定时间以来的收款总额
func (r *PaymentRepository) SumByMethodSince(ctx context.Context, since time.Time) (map[string]float64, error) {
	var results []struct {
		Method string
		Total  float64
	}

	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("method, COALESCE(SUM(amount), 0) as total").
		Where("payment_date >= ?", since).
		Group("method").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	for _, row := range results {
		sums[row.Method] = row.Total
	}
	return sums, nil
}
