// Package room 提供面向客户的房间浏览 HTTP Handler
package room

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	bookingService "github.com/dumeirei/hotel-booking-backend/internal/service/booking"
	roomService "github.com/dumeirei/hotel-booking-backend/internal/service/room"
)

// RoomHandler 房间浏览处理器
type RoomHandler struct {
	roomService    *roomService.RoomService
	bookingService *bookingService.BookingService
}

// NewRoomHandler 创建房间浏览处理器
func NewRoomHandler(roomSvc *roomService.RoomService, bookingSvc *bookingService.BookingService) *RoomHandler {
	return &RoomHandler{
		roomService:    roomSvc,
		bookingService: bookingSvc,
	}
}

// ListRooms 获取已上架房间列表
// @Summary 获取已上架房间列表
// @Tags 房间
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param room_type query string false "房型"
// @Param view_type query string false "景观"
// @Param min_price query number false "最低价"
// @Param max_price query number false "最高价"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	p := handler.BindPagination(c)

	params := &roomService.ListRoomsParams{
		RoomType: c.Query("room_type"),
		ViewType: c.Query("view_type"),
		Keyword:  c.Query("keyword"),
		Offset:   p.GetOffset(),
		Limit:    p.GetLimit(),
	}
	if v := c.Query("min_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			params.MinPrice = &price
		}
	}
	if v := c.Query("max_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			params.MaxPrice = &price
		}
	}

	rooms, total, err := h.roomService.ListPublishedRooms(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, rooms, total, p.Page, p.PageSize)
}

// GetRoom 获取房间详情
// @Summary 获取房间详情
// @Tags 房间
// @Produce json
// @Param id path string true "房间ID"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := handler.GetID(c, "房间")
	if !ok {
		return
	}

	room, err := h.roomService.GetPublishedRoom(c.Request.Context(), id)
	handler.MustSucceed(c, err, room)
}

// SearchAvailability 查询指定日期范围内的可订房间
// @Summary 查询可订房间
// @Tags 房间
// @Produce json
// @Param check_in query string true "入住日期 (YYYY-MM-DD)"
// @Param check_out query string true "退房日期 (YYYY-MM-DD)"
// @Param adults query int false "成人数"
// @Param children query int false "儿童数"
// @Success 200 {object} response.Response{data=[]models.Room}
// @Router /api/v1/rooms/availability [get]
func (h *RoomHandler) SearchAvailability(c *gin.Context) {
	checkIn, checkOut, ok := handler.ParseRequiredStayRange(c)
	if !ok {
		return
	}

	adults, _ := strconv.Atoi(c.DefaultQuery("adults", "1"))
	children, _ := strconv.Atoi(c.DefaultQuery("children", "0"))

	rooms, err := h.bookingService.FindAvailableRooms(c.Request.Context(), checkIn, checkOut, adults, children)
	handler.MustSucceed(c, err, rooms)
}

// CheckRoomAvailability 查询单个房间在指定日期是否可订
// @Summary 查询单个房间是否可订
// @Tags 房间
// @Produce json
// @Param id path string true "房间ID"
// @Param check_in query string true "入住日期 (YYYY-MM-DD)"
// @Param check_out query string true "退房日期 (YYYY-MM-DD)"
// @Param adults query int false "成人数"
// @Param children query int false "儿童数"
// @Success 200 {object} response.Response
// @Router /api/v1/rooms/{id}/availability [get]
func (h *RoomHandler) CheckRoomAvailability(c *gin.Context) {
	id, ok := handler.GetID(c, "房间")
	if !ok {
		return
	}

	checkIn, checkOut, ok := handler.ParseRequiredStayRange(c)
	if !ok {
		return
	}

	adults, _ := strconv.Atoi(c.DefaultQuery("adults", "1"))
	children, _ := strconv.Atoi(c.DefaultQuery("children", "0"))

	available, err := h.bookingService.IsRoomAvailable(c.Request.Context(), id, checkIn, checkOut, adults, children)
	if handler.HandleError(c, err) {
		return
	}
	response.Success(c, gin.H{"available": available})
}
