// Package booking 提供面向客户的预订 HTTP Handler
package booking

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/qrcode"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	bookingService "github.com/dumeirei/hotel-booking-backend/internal/service/booking"
)

// BookingHandler 预订处理器
type BookingHandler struct {
	bookingService *bookingService.BookingService
	qrGenerator    *qrcode.Generator
}

// NewBookingHandler 创建预订处理器
func NewBookingHandler(bookingSvc *bookingService.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingSvc,
		qrGenerator:    qrcode.NewGenerator(qrcode.WithSize(256)),
	}
}

// CreateBooking 创建预订
// @Summary 创建预订
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body bookingService.CreateBookingRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	customerID, ok := handler.RequireCustomerID(c)
	if !ok {
		return
	}

	var req bookingService.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), customerID, &req)
	handler.MustSucceed(c, err, booking)
}

// GetMyBookings 获取我的预订列表
// @Summary 获取我的预订列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "状态"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/bookings [get]
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	customerID, ok := handler.RequireCustomerID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)

	var statusPtr *string
	if status := c.Query("status"); status != "" {
		statusPtr = &status
	}

	bookings, total, err := h.bookingService.ListCustomerBookings(
		c.Request.Context(), customerID, p.GetOffset(), p.GetLimit(), statusPtr)
	handler.MustSucceedPage(c, err, bookings, total, p.Page, p.PageSize)
}

// GetBookingDetail 获取预订详情
// @Summary 获取预订详情
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id} [get]
func (h *BookingHandler) GetBookingDetail(c *gin.Context) {
	customerID, bookingID, ok := handler.RequireCustomerAndGetID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetCustomerBooking(c.Request.Context(), customerID, bookingID)
	handler.MustSucceed(c, err, booking)
}

// CancelBooking 取消预订
// @Summary 取消预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path string true "预订ID"
// @Success 200 {object} response.Response{data=models.Booking}
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	customerID, bookingID, ok := handler.RequireCustomerAndGetID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.CancelCustomerBooking(c.Request.Context(), customerID, bookingID)
	handler.MustSucceedWithMessage(c, err, "预订已取消", booking)
}

// GetBookingQRCode 获取办理入住用的预订二维码
// @Summary 获取预订二维码
// @Tags 预订
// @Produce png
// @Security Bearer
// @Param id path string true "预订ID"
// @Success 200 {file} binary
// @Router /api/v1/bookings/{id}/qrcode [get]
func (h *BookingHandler) GetBookingQRCode(c *gin.Context) {
	customerID, bookingID, ok := handler.RequireCustomerAndGetID(c, "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetCustomerBooking(c.Request.Context(), customerID, bookingID)
	if handler.HandleError(c, err) {
		return
	}

	// 二维码内容为预订标识，前台扫码后据此办理入住
	content := fmt.Sprintf("booking:%s", booking.ID)
	png, err := h.qrGenerator.GeneratePNG(content)
	if handler.HandleError(c, err) {
		return
	}

	c.Data(200, "image/png", png)
}
