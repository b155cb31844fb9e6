// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// InventoryRepository 物资库存仓储
type InventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建物资库存仓储
func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Create 创建物资
func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetByID 根据 ID 获取物资
func (r *InventoryRepository) GetByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetBySKU 根据 SKU 获取物资
func (r *InventoryRepository) GetBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsBySKU 检查 SKU 是否已存在
func (r *InventoryRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("sku = ?", sku).
		Count(&count).Error
	return count > 0, err
}

// Update 更新物资
func (r *InventoryRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// UpdateFields 更新指定字段
func (r *InventoryRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.InventoryItem{}).Where("id = ?", id).Updates(fields).Error
}

// AdjustQuantity 调整库存数量（delta 可为负，不允许扣成负数）
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Where("quantity + ? >= 0", delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除物资
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryItem{}).Error
}

// List 获取物资列表
func (r *InventoryRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.InventoryItem, int64, error) {
	var items []*models.InventoryItem
	var total int64

	query := r.db.WithContext(ctx).Model(&models.InventoryItem{})

	// 应用过滤条件
	if category, ok := filters["category"].(string); ok && category != "" {
		query = query.Where("category = ?", category)
	}
	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("name LIKE ? OR sku LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if lowStock, ok := filters["low_stock"].(bool); ok && lowStock {
		query = query.Where("quantity <= reorder_level")
	}
	if supplier, ok := filters["supplier"].(string); ok && supplier != "" {
		query = query.Where("supplier = ?", supplier)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Order("sku ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListNeedingReorder 获取低于补货线的物资列表
func (r *InventoryRepository) ListNeedingReorder(ctx context.Context) ([]*models.InventoryItem, error) {
	var items []*models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("quantity <= reorder_level").
		Order("sku ASC").
		Find(&items).Error
	return items, err
}
