package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	bookingService "github.com/dumeirei/hotel-booking-backend/internal/service/booking"
)

// BookingHandler 后台预订管理处理器
type BookingHandler struct {
	bookingService *bookingService.BookingService
}

// NewBookingHandler 创建后台预订管理处理器
func NewBookingHandler(bookingSvc *bookingService.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingSvc}
}

// CreateBookingRequest 后台代客创建预订请求
type CreateBookingRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	bookingService.CreateBookingRequest
}

// CreateBooking 代客创建预订
// @Summary 代客创建预订
// @Tags 后台-预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateBookingRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/admin/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), req.CustomerID, &req.CreateBookingRequest)
	handler.MustSucceed(c, err, booking)
}

// ListBookings 获取预订列表
// @Summary 获取预订列表
// @Tags 后台-预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param customer_id query string false "客户ID"
// @Param room_id query string false "房间ID"
// @Param status query string false "状态"
// @Param start_date query string false "开始日期"
// @Param end_date query string false "结束日期"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	p := handler.BindPagination(c)

	start, end, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}

	params := &bookingService.ListBookingsParams{
		CustomerID: c.Query("customer_id"),
		RoomID:     c.Query("room_id"),
		Status:     c.Query("status"),
		StartDate:  start,
		EndDate:    end,
		Offset:     p.GetOffset(),
		Limit:      p.GetLimit(),
	}

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, bookings, total, p.Page, p.PageSize)
}

// GetBooking 获取预订详情
// @Summary 获取预订详情
// @Tags 后台-预订
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/admin/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := handler.GetID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), id)
	handler.MustSucceed(c, err, booking)
}

// UpdateBooking 更新预订信息
// @Summary 更新预订信息
// @Tags 后台-预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Param request body bookingService.UpdateBookingRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/admin/bookings/{id} [put]
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, ok := handler.GetID(c, "预订")
	if !ok {
		return
	}

	var req bookingService.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, booking)
}

// UpdateBookingStatusRequest 更新预订状态请求
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateBookingStatus 更新预订状态（确认/入住/退房/取消/未到店）
// @Summary 更新预订状态
// @Tags 后台-预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Param request body UpdateBookingStatusRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/admin/bookings/{id}/status [put]
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	id, ok := handler.GetID(c, "预订")
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceed(c, err, booking)
}

// DeleteBooking 删除预订
// @Summary 删除预订
// @Tags 后台-预订
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/bookings/{id} [delete]
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, ok := handler.GetID(c, "预订")
	if !ok {
		return
	}

	handler.MustSucceedWithMessage(c, h.bookingService.DeleteBooking(c.Request.Context(), id), "预订已删除", nil)
}

// ListRoomBookings 获取某房间的预订列表
// @Summary 获取房间预订列表
// @Tags 后台-预订
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/rooms/{id}/bookings [get]
func (h *BookingHandler) ListRoomBookings(c *gin.Context) {
	id, ok := handler.GetID(c, "房间")
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	bookings, total, err := h.bookingService.ListRoomBookings(c.Request.Context(), id, p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, bookings, total, p.Page, p.PageSize)
}
