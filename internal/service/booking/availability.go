package booking

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/cache"
	"github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

const availabilityCacheTTL = 30 * time.Second

// roomBookable 判断房间运营状态是否允许接单
func roomBookable(room *models.Room) bool {
	return room.RoomStatus == models.RoomStatusAvailable || room.RoomStatus == models.RoomStatusCleaning
}

// IsRoomAvailable 检查房间在指定时段是否可预订
// 依次检查：容量、运营状态、时段冲突（半开区间 [check_in, check_out)）
func (s *BookingService) IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, adults, children int) (bool, error) {
	if !checkOut.After(checkIn) {
		return false, errors.ErrInvalidDateRange
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, errors.ErrRoomNotFound
		}
		return false, errors.ErrDatabaseError.WithError(err)
	}

	if adults > room.Capacity.Adults || children > room.Capacity.Children {
		return false, nil
	}
	if !roomBookable(room) {
		return false, nil
	}

	overlap, err := s.bookingRepo.HasOverlap(ctx, roomID, checkIn, checkOut, "")
	if err != nil {
		return false, errors.ErrDatabaseError.WithError(err)
	}
	return !overlap, nil
}

// FindAvailableRooms 查询指定时段内可预订的已上架房间
func (s *BookingService) FindAvailableRooms(ctx context.Context, checkIn, checkOut time.Time, adults, children int) ([]*models.Room, error) {
	if !checkOut.After(checkIn) {
		return nil, errors.ErrInvalidDateRange
	}

	cacheKey := availabilityCacheKey(checkIn, checkOut, adults, children)
	if cache.GetClient() != nil {
		var cached []*models.Room
		if err := cache.Get(ctx, cacheKey, &cached); err == nil {
			metrics.RecordCacheHitGlobal("availability")
			return cached, nil
		}
		metrics.RecordCacheMissGlobal("availability")
	}

	rooms, err := s.roomRepo.ListBookable(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	occupiedIDs, err := s.bookingRepo.ListOccupiedRoomIDs(ctx, checkIn, checkOut)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	occupied := make(map[string]struct{}, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occupied[id] = struct{}{}
	}

	available := make([]*models.Room, 0, len(rooms))
	for _, room := range rooms {
		if adults > room.Capacity.Adults || children > room.Capacity.Children {
			continue
		}
		if _, ok := occupied[room.ID]; ok {
			continue
		}
		available = append(available, room)
	}

	if cache.GetClient() != nil {
		_ = cache.Set(ctx, cacheKey, available, availabilityCacheTTL)
	}

	return available, nil
}

func availabilityCacheKey(checkIn, checkOut time.Time, adults, children int) string {
	return cache.BuildKey("availability",
		checkIn.Format("2006-01-02"),
		checkOut.Format("2006-01-02"),
		fmt.Sprintf("%d-%d", adults, children))
}
