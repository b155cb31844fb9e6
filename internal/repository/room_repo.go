// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// RoomRepository 房间仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间仓储
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create 创建房间
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID 根据 ID 获取房间
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByRoomNumber 根据房间号获取房间
func (r *RoomRepository) GetByRoomNumber(ctx context.Context, roomNumber string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Where("room_number = ?", roomNumber).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByRoomNumber 检查房间号是否已存在
func (r *RoomRepository) ExistsByRoomNumber(ctx context.Context, roomNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("room_number = ?", roomNumber).
		Count(&count).Error
	return count > 0, err
}

// Update 更新房间
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// UpdateFields 更新指定字段
func (r *RoomRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatus 更新房间运营状态
func (r *RoomRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Update("room_status", status).Error
}

// SetPublished 设置上架状态
func (r *RoomRepository) SetPublished(ctx context.Context, id string, published bool) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Update("is_published", published).Error
}

// Delete 删除房间
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Room{}).Error
}

// List 获取房间列表
func (r *RoomRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	var rooms []*models.Room
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Room{})

	// 应用过滤条件
	if roomType, ok := filters["room_type"].(string); ok && roomType != "" {
		query = query.Where("room_type = ?", roomType)
	}
	if status, ok := filters["room_status"].(string); ok && status != "" {
		query = query.Where("room_status = ?", status)
	}
	if published, ok := filters["is_published"].(bool); ok {
		query = query.Where("is_published = ?", published)
	}
	if onSale, ok := filters["on_sale"].(bool); ok {
		query = query.Where("on_sale = ?", onSale)
	}
	if viewType, ok := filters["view_type"].(string); ok && viewType != "" {
		query = query.Where("view_type = ?", viewType)
	}
	if minPrice, ok := filters["min_price"].(float64); ok && minPrice > 0 {
		query = query.Where("base_price >= ?", minPrice)
	}
	if maxPrice, ok := filters["max_price"].(float64); ok && maxPrice > 0 {
		query = query.Where("base_price <= ?", maxPrice)
	}
	if adults, ok := filters["adults"].(int); ok && adults > 0 {
		query = query.Where("capacity_adults >= ?", adults)
	}
	if children, ok := filters["children"].(int); ok && children > 0 {
		query = query.Where("capacity_children >= ?", children)
	}
	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		query = query.Where("title LIKE ? OR room_number LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Order("room_number ASC").
		Offset(offset).Limit(limit).
		Find(&rooms).Error; err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// ListPublished 获取已上架房间列表
func (r *RoomRepository) ListPublished(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	if filters == nil {
		filters = map[string]interface{}{}
	}
	filters["is_published"] = true
	return r.List(ctx, offset, limit, filters)
}

// ListBookable 获取可被预订的已上架房间（AVAILABLE / CLEANING）
func (r *RoomRepository) ListBookable(ctx context.Context) ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Where("room_status IN ?", []string{models.RoomStatusAvailable, models.RoomStatusCleaning}).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

// CountByStatus 按运营状态统计房间数量
func (r *RoomRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("room_status = ?", status).
		Count(&count).Error
	return count, err
}
