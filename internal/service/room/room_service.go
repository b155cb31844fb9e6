// Package room 提供房间目录管理服务
package room

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// RoomService 房间服务
type RoomService struct {
	roomRepo    *repository.RoomRepository
	bookingRepo *repository.BookingRepository
}

// NewRoomService 创建房间服务
func NewRoomService(roomRepo *repository.RoomRepository, bookingRepo *repository.BookingRepository) *RoomService {
	return &RoomService{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
	}
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	RoomNumber       string   `json:"room_number" binding:"required,max=20"`
	Title            string   `json:"title" binding:"required,max=200"`
	Description      string   `json:"description" binding:"required"`
	RoomType         string   `json:"room_type" binding:"required"`
	CapacityAdults   int      `json:"capacity_adults" binding:"required,min=1"`
	CapacityChildren int      `json:"capacity_children" binding:"min=0"`
	SizeSqMeters     *int     `json:"size_sq_meters,omitempty"`
	Floor            *int     `json:"floor,omitempty"`
	BedConfiguration string   `json:"bed_configuration" binding:"required,max=100"`
	ViewType         *string  `json:"view_type,omitempty"`
	BasePrice        float64  `json:"base_price" binding:"required,gt=0"`
	WeekendPrice     *float64 `json:"weekend_price,omitempty"`
	OnSale           bool     `json:"on_sale"`
	SalePrice        *float64 `json:"sale_price,omitempty"`
	ImageURLs        []string `json:"image_urls,omitempty"`
	ThumbnailURL     *string  `json:"thumbnail_url,omitempty"`
	Amenities        []string `json:"amenities,omitempty"`
	InternalNotes    *string  `json:"internal_notes,omitempty"`
}

// UpdateRoomRequest 更新房间请求（仅更新提供的字段）
type UpdateRoomRequest struct {
	Title            *string  `json:"title,omitempty"`
	Description      *string  `json:"description,omitempty"`
	RoomType         *string  `json:"room_type,omitempty"`
	CapacityAdults   *int     `json:"capacity_adults,omitempty"`
	CapacityChildren *int     `json:"capacity_children,omitempty"`
	SizeSqMeters     *int     `json:"size_sq_meters,omitempty"`
	Floor            *int     `json:"floor,omitempty"`
	BedConfiguration *string  `json:"bed_configuration,omitempty"`
	ViewType         *string  `json:"view_type,omitempty"`
	BasePrice        *float64 `json:"base_price,omitempty"`
	WeekendPrice     *float64 `json:"weekend_price,omitempty"`
	OnSale           *bool    `json:"on_sale,omitempty"`
	SalePrice        *float64 `json:"sale_price,omitempty"`
	ImageURLs        []string `json:"image_urls,omitempty"`
	ThumbnailURL     *string  `json:"thumbnail_url,omitempty"`
	Amenities        []string `json:"amenities,omitempty"`
	InternalNotes    *string  `json:"internal_notes,omitempty"`
}

// ListRoomsParams 房间列表查询参数
type ListRoomsParams struct {
	RoomType   string
	RoomStatus string
	ViewType   string
	Keyword    string
	OnSale     *bool
	Published  *bool
	MinPrice   *float64
	MaxPrice   *float64
	Adults     int
	Children   int
	Offset     int
	Limit      int
}

// CreateRoom 创建房间
func (s *RoomService) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*models.Room, error) {
	exists, err := s.roomRepo.ExistsByRoomNumber(ctx, req.RoomNumber)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrRoomNumberUsed
	}

	room := &models.Room{
		RoomNumber:  req.RoomNumber,
		Title:       req.Title,
		Description: req.Description,
		RoomType:    req.RoomType,
		Capacity: models.Capacity{
			Adults:   req.CapacityAdults,
			Children: req.CapacityChildren,
		},
		SizeSqMeters:     req.SizeSqMeters,
		Floor:            req.Floor,
		BedConfiguration: req.BedConfiguration,
		ViewType:         req.ViewType,
		BasePrice:        req.BasePrice,
		WeekendPrice:     req.WeekendPrice,
		OnSale:           req.OnSale,
		SalePrice:        req.SalePrice,
		ImageURLs:        req.ImageURLs,
		ThumbnailURL:     req.ThumbnailURL,
		Amenities:        req.Amenities,
		RoomStatus:       models.RoomStatusAvailable,
		InternalNotes:    req.InternalNotes,
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return room, nil
}

// GetRoom 获取房间详情
func (s *RoomService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return room, nil
}

// GetPublishedRoom 获取已上架的房间详情（客户侧）
func (s *RoomService) GetPublishedRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.IsPublished {
		return nil, errors.ErrRoomNotPublished
	}
	return room, nil
}

// UpdateRoom 更新房间信息
func (s *RoomService) UpdateRoom(ctx context.Context, id string, req *UpdateRoomRequest) (*models.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		room.Title = *req.Title
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.RoomType != nil {
		room.RoomType = *req.RoomType
	}
	if req.CapacityAdults != nil {
		room.Capacity.Adults = *req.CapacityAdults
	}
	if req.CapacityChildren != nil {
		room.Capacity.Children = *req.CapacityChildren
	}
	if req.SizeSqMeters != nil {
		room.SizeSqMeters = req.SizeSqMeters
	}
	if req.Floor != nil {
		room.Floor = req.Floor
	}
	if req.BedConfiguration != nil {
		room.BedConfiguration = *req.BedConfiguration
	}
	if req.ViewType != nil {
		room.ViewType = req.ViewType
	}
	if req.BasePrice != nil {
		room.BasePrice = *req.BasePrice
	}
	if req.WeekendPrice != nil {
		room.WeekendPrice = req.WeekendPrice
	}
	if req.OnSale != nil {
		room.OnSale = *req.OnSale
	}
	if req.SalePrice != nil {
		room.SalePrice = req.SalePrice
	}
	if req.ImageURLs != nil {
		room.ImageURLs = req.ImageURLs
	}
	if req.ThumbnailURL != nil {
		room.ThumbnailURL = req.ThumbnailURL
	}
	if req.Amenities != nil {
		room.Amenities = req.Amenities
	}
	if req.InternalNotes != nil {
		room.InternalNotes = req.InternalNotes
	}

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return room, nil
}

// UpdateRoomStatus 更新房间运营状态
func (s *RoomService) UpdateRoomStatus(ctx context.Context, id string, status string) (*models.Room, error) {
	if !models.ValidRoomStatus(status) {
		return nil, errors.ErrRoomStatusInvalid
	}

	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.roomRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	room.RoomStatus = status
	return room, nil
}

// SetPublished 上架或下架房间
func (s *RoomService) SetPublished(ctx context.Context, id string, published bool) (*models.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.roomRepo.SetPublished(ctx, id, published); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	room.IsPublished = published
	return room, nil
}

// DeleteRoom 删除房间（存在未完结预订时拒绝）
func (s *RoomService) DeleteRoom(ctx context.Context, id string) error {
	if _, err := s.GetRoom(ctx, id); err != nil {
		return err
	}

	count, err := s.bookingRepo.CountUnfinishedByRoom(ctx, id)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return errors.ErrRoomHasBookings
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListRooms 获取房间列表（后台）
func (s *RoomService) ListRooms(ctx context.Context, params *ListRoomsParams) ([]*models.Room, int64, error) {
	filters := buildRoomFilters(params)
	rooms, total, err := s.roomRepo.List(ctx, params.Offset, params.Limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return rooms, total, nil
}

// ListPublishedRooms 获取已上架房间列表（客户侧）
func (s *RoomService) ListPublishedRooms(ctx context.Context, params *ListRoomsParams) ([]*models.Room, int64, error) {
	filters := buildRoomFilters(params)
	rooms, total, err := s.roomRepo.ListPublished(ctx, params.Offset, params.Limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return rooms, total, nil
}

func buildRoomFilters(params *ListRoomsParams) map[string]interface{} {
	filters := make(map[string]interface{})
	if params.RoomType != "" {
		filters["room_type"] = params.RoomType
	}
	if params.RoomStatus != "" {
		filters["room_status"] = params.RoomStatus
	}
	if params.ViewType != "" {
		filters["view_type"] = params.ViewType
	}
	if params.Keyword != "" {
		filters["keyword"] = params.Keyword
	}
	if params.OnSale != nil {
		filters["on_sale"] = *params.OnSale
	}
	if params.Published != nil {
		filters["is_published"] = *params.Published
	}
	if params.MinPrice != nil {
		filters["min_price"] = *params.MinPrice
	}
	if params.MaxPrice != nil {
		filters["max_price"] = *params.MaxPrice
	}
	if params.Adults > 0 {
		filters["adults"] = params.Adults
	}
	if params.Children > 0 {
		filters["children"] = params.Children
	}
	return filters
}
