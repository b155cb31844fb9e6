// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// BookingRepository 预订仓储
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建预订仓储
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// blockingStatuses 占用房间时段的预订状态（取消与未到店不占用）
func blockingStatuses() []string {
	return []string{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCheckedIn,
		models.BookingStatusCheckedOut,
	}
}

// Create 创建预订
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetByID 根据 ID 获取预订
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByIDWithDetails 根据 ID 获取预订（包含关联信息）
func (r *BookingRepository) GetByIDWithDetails(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Customer").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Update 更新预订
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// UpdateFields 更新指定字段
func (r *BookingRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除预订
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Booking{}).Error
}

// List 获取预订列表
func (r *BookingRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Booking, int64, error) {
	var bookings []*models.Booking
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Booking{})

	// 应用过滤条件
	if customerID, ok := filters["customer_id"].(string); ok && customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if roomID, ok := filters["room_id"].(string); ok && roomID != "" {
		query = query.Where("room_id = ?", roomID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if statuses, ok := filters["statuses"].([]string); ok && len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("check_in_date >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("check_in_date <= ?", endDate)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	if err := query.
		Preload("Room").
		Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// ListByCustomer 获取客户的预订列表
func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string, offset, limit int, status *string) ([]*models.Booking, int64, error) {
	filters := map[string]interface{}{
		"customer_id": customerID,
	}
	if status != nil {
		filters["status"] = *status
	}
	return r.List(ctx, offset, limit, filters)
}

// ListByRoom 获取房间的预订列表
func (r *BookingRepository) ListByRoom(ctx context.Context, roomID string, offset, limit int) ([]*models.Booking, int64, error) {
	filters := map[string]interface{}{
		"room_id": roomID,
	}
	return r.List(ctx, offset, limit, filters)
}

// ListOverlapping 获取与指定时段重叠的占用预订
// 重叠判定为半开区间 [check_in, check_out)：s < checkOut && e > checkIn
func (r *BookingRepository) ListOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	query := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status IN ?", blockingStatuses()).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeBookingID != "" {
		query = query.Where("id <> ?", excludeBookingID)
	}
	err := query.Find(&bookings).Error
	return bookings, err
}

// HasOverlap 检查房间在指定时段是否存在占用预订
func (r *BookingRepository) HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", blockingStatuses()).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeBookingID != "" {
		query = query.Where("id <> ?", excludeBookingID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// ListOccupiedRoomIDs 获取指定时段被占用的房间 ID 集合
func (r *BookingRepository) ListOccupiedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]string, error) {
	var roomIDs []string
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Distinct("room_id").
		Where("status IN ?", blockingStatuses()).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
		Pluck("room_id", &roomIDs).Error
	return roomIDs, err
}

// ListDueNoShow 获取超过宽限期仍未入住的预订
func (r *BookingRepository) ListDueNoShow(ctx context.Context, cutoff time.Time, limit int) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Where("check_in_date < ?", cutoff).
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

// CountUnfinishedByRoom 统计房间未完结的预订数量
func (r *BookingRepository) CountUnfinishedByRoom(ctx context.Context, roomID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", []string{
			models.BookingStatusPending,
			models.BookingStatusConfirmed,
			models.BookingStatusCheckedIn,
		}).
		Count(&count).Error
	return count, err
}

// CountByStatus 按状态统计预订数量
func (r *BookingRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CountTodayBookings 统计今日创建的预订数量
func (r *BookingRepository) CountTodayBookings(ctx context.Context) (int64, error) {
	var count int64
	today := time.Now().Truncate(24 * time.Hour)
	tomorrow := today.Add(24 * time.Hour)
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("created_at >= ? AND created_at < ?", today, tomorrow).
		Count(&count).Error
	return count, err
}
