// Package booking 提供房间预订与可订性服务
package booking

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/lock"
	"github.com/dumeirei/hotel-booking-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// Options 预订服务业务参数
type Options struct {
	MaxNights       int           // 单次预订最长晚数，0 表示不限制
	LockTimeout     time.Duration // 获取房间锁的等待上限
	NoShowGraceDays int           // 未入住宽限天数
}

// BookingService 预订服务
type BookingService struct {
	db           *gorm.DB
	bookingRepo  *repository.BookingRepository
	roomRepo     *repository.RoomRepository
	customerRepo *repository.CustomerRepository
	locker       lock.Locker
	opts         Options
}

// NewBookingService 创建预订服务
func NewBookingService(
	db *gorm.DB,
	bookingRepo *repository.BookingRepository,
	roomRepo *repository.RoomRepository,
	customerRepo *repository.CustomerRepository,
	locker lock.Locker,
	opts Options,
) *BookingService {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 5 * time.Second
	}
	return &BookingService{
		db:           db,
		bookingRepo:  bookingRepo,
		roomRepo:     roomRepo,
		customerRepo: customerRepo,
		locker:       locker,
		opts:         opts,
	}
}

// CreateBookingRequest 创建预订请求
type CreateBookingRequest struct {
	RoomID          string  `json:"room_id" binding:"required"`
	CustomerID      string  `json:"customer_id"`
	CheckInDate     string  `json:"check_in_date" binding:"required"`
	CheckOutDate    string  `json:"check_out_date" binding:"required"`
	NumAdults       int     `json:"num_adults" binding:"required,min=1"`
	NumChildren     int     `json:"num_children" binding:"min=0"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

// UpdateBookingRequest 更新预订请求（仅人数与备注，日期与房间不可变更）
type UpdateBookingRequest struct {
	NumAdults       *int    `json:"num_adults,omitempty"`
	NumChildren     *int    `json:"num_children,omitempty"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

// ListBookingsParams 预订列表查询参数
type ListBookingsParams struct {
	CustomerID string
	RoomID     string
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
	Offset     int
	Limit      int
}

// Nights 计算晚数（按日历日差）
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// CreateBooking 创建预订
// 同一房间的冲突检查与写入在房间锁内的事务中完成，
// 两个完全重叠的并发请求只有一个成功
func (s *BookingService) CreateBooking(ctx context.Context, customerID string, req *CreateBookingRequest) (*models.Booking, error) {
	checkIn, checkOut, err := parseStayRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return nil, errors.ErrInvalidDateRange
	}
	if s.opts.MaxNights > 0 && nights > s.opts.MaxNights {
		return nil, errors.ErrInvalidDateRange.WithMessage("超出单次预订最长晚数")
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCustomerNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !customer.IsActive {
		return nil, errors.ErrCustomerDisabled
	}

	room, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !roomBookable(room) {
		return nil, errors.ErrRoomNotAvailable
	}
	if req.NumAdults > room.Capacity.Adults || req.NumChildren > room.Capacity.Children {
		return nil, errors.ErrGuestCountExceed
	}

	booking := &models.Booking{
		RoomID:          room.ID,
		CustomerID:      customer.ID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumAdults:       req.NumAdults,
		NumChildren:     req.NumChildren,
		Status:          models.BookingStatusPending,
		TotalPrice:      float64(nights) * room.UnitPrice(),
		SpecialRequests: req.SpecialRequests,
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.opts.LockTimeout)
	defer cancel()
	release, err := s.locker.Acquire(lockCtx, room.ID, s.opts.LockTimeout)
	if err != nil {
		return nil, errors.ErrRoomNotAvailable.WithError(err)
	}
	defer release()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewBookingRepository(tx)
		overlap, err := txRepo.HasOverlap(ctx, room.ID, checkIn, checkOut, "")
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if overlap {
			return errors.ErrRoomNotAvailable
		}
		return txRepo.Create(ctx, booking)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordBooking(booking.Status)
	return booking, nil
}

// GetBooking 获取预订详情
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return booking, nil
}

// GetCustomerBooking 获取客户自己的预订，归属不符按不存在处理
func (s *BookingService) GetCustomerBooking(ctx context.Context, customerID, bookingID string) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, errors.ErrBookingNotFound
	}
	return booking, nil
}

// UpdateBooking 更新预订的人数与备注（已完结预订拒绝修改）
func (s *BookingService) UpdateBooking(ctx context.Context, id string, req *UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if models.BookingFinished(booking.Status) {
		return nil, errors.ErrBookingFinished
	}

	adults := booking.NumAdults
	children := booking.NumChildren
	if req.NumAdults != nil {
		adults = *req.NumAdults
	}
	if req.NumChildren != nil {
		children = *req.NumChildren
	}
	if booking.Room != nil && (adults > booking.Room.Capacity.Adults || children > booking.Room.Capacity.Children) {
		return nil, errors.ErrGuestCountExceed
	}

	fields := make(map[string]interface{})
	if req.NumAdults != nil {
		fields["num_adults"] = adults
		booking.NumAdults = adults
	}
	if req.NumChildren != nil {
		fields["num_children"] = children
		booking.NumChildren = children
	}
	if req.SpecialRequests != nil {
		fields["special_requests"] = *req.SpecialRequests
		booking.SpecialRequests = req.SpecialRequests
	}
	if len(fields) == 0 {
		return booking, nil
	}

	if err := s.bookingRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return booking, nil
}

// UpdateBookingStatus 变更预订状态（按状态机校验）
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id string, status string) (*models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return nil, errors.ErrInvalidParams.WithMessage("无效的预订状态")
	}

	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionBooking(booking.Status, status) {
		return nil, errors.ErrBookingTransition
	}

	now := time.Now()
	fields := map[string]interface{}{"status": status}
	switch status {
	case models.BookingStatusCheckedIn:
		fields["checked_in_at"] = now
		booking.CheckedInAt = &now
	case models.BookingStatusCheckedOut:
		fields["checked_out_at"] = now
		booking.CheckedOutAt = &now
	case models.BookingStatusCancelled:
		fields["cancelled_at"] = now
		booking.CancelledAt = &now
	}

	if err := s.bookingRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	booking.Status = status

	metrics.GetMetrics().RecordBooking(status)
	return booking, nil
}

// CancelCustomerBooking 客户取消自己的预订
func (s *BookingService) CancelCustomerBooking(ctx context.Context, customerID, bookingID string) (*models.Booking, error) {
	if _, err := s.GetCustomerBooking(ctx, customerID, bookingID); err != nil {
		return nil, err
	}
	return s.UpdateBookingStatus(ctx, bookingID, models.BookingStatusCancelled)
}

// DeleteBooking 删除预订（后台数据修正工具，不回滚账务）
func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	if _, err := s.bookingRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrBookingNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListBookings 获取预订列表（后台）
func (s *BookingService) ListBookings(ctx context.Context, params *ListBookingsParams) ([]*models.Booking, int64, error) {
	filters := make(map[string]interface{})
	if params.CustomerID != "" {
		filters["customer_id"] = params.CustomerID
	}
	if params.RoomID != "" {
		filters["room_id"] = params.RoomID
	}
	if params.Status != "" {
		filters["status"] = params.Status
	}
	if params.StartDate != nil {
		filters["start_date"] = *params.StartDate
	}
	if params.EndDate != nil {
		filters["end_date"] = *params.EndDate
	}

	bookings, total, err := s.bookingRepo.List(ctx, params.Offset, params.Limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, total, nil
}

// ListCustomerBookings 获取客户的预订列表
func (s *BookingService) ListCustomerBookings(ctx context.Context, customerID string, offset, limit int, status *string) ([]*models.Booking, int64, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, errors.ErrCustomerNotFound
		}
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	bookings, total, err := s.bookingRepo.ListByCustomer(ctx, customerID, offset, limit, status)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, total, nil
}

// ListRoomBookings 获取房间的预订列表
func (s *BookingService) ListRoomBookings(ctx context.Context, roomID string, offset, limit int) ([]*models.Booking, int64, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, errors.ErrRoomNotFound
		}
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	bookings, total, err := s.bookingRepo.ListByRoom(ctx, roomID, offset, limit)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return bookings, total, nil
}

// MarkOverdueNoShows 将超过宽限期仍未入住的预订标记为未到店，返回处理数量
func (s *BookingService) MarkOverdueNoShows(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	graceDays := s.opts.NoShowGraceDays
	if graceDays < 0 {
		graceDays = 0
	}
	cutoff := time.Now().AddDate(0, 0, -graceDays).Truncate(24 * time.Hour)

	due, err := s.bookingRepo.ListDueNoShow(ctx, cutoff, batchSize)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	marked := 0
	for _, booking := range due {
		if !models.CanTransitionBooking(booking.Status, models.BookingStatusNoShow) {
			continue
		}
		err := s.bookingRepo.UpdateFields(ctx, booking.ID, map[string]interface{}{
			"status": models.BookingStatusNoShow,
		})
		if err != nil {
			return marked, errors.ErrDatabaseError.WithError(err)
		}
		metrics.GetMetrics().RecordBooking(models.BookingStatusNoShow)
		marked++
	}
	return marked, nil
}

// parseStayRange 解析入住/退房日期（YYYY-MM-DD）
func parseStayRange(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse("2006-01-02", checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ErrInvalidParams.WithMessage("无效的入住日期")
	}
	checkOut, err := time.Parse("2006-01-02", checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ErrInvalidParams.WithMessage("无效的退房日期")
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, errors.ErrInvalidDateRange
	}
	return checkIn, checkOut, nil
}
