// Package admin 提供后台管理 HTTP Handler
package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	roomService "github.com/dumeirei/hotel-booking-backend/internal/service/room"
)

// RoomHandler 后台房间管理处理器
type RoomHandler struct {
	roomService *roomService.RoomService
}

// NewRoomHandler 创建后台房间管理处理器
func NewRoomHandler(roomSvc *roomService.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomSvc}
}

// CreateRoom 创建房间
// @Summary 创建房间
// @Tags 后台-房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body roomService.CreateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/admin/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req roomService.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), &req)
	handler.MustSucceed(c, err, room)
}

// ListRooms 获取房间列表（含未上架）
// @Summary 获取房间列表
// @Tags 后台-房间
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param room_type query string false "房型"
// @Param room_status query string false "房态"
// @Param published query bool false "是否上架"
// @Param keyword query string false "关键字"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	p := handler.BindPagination(c)

	params := &roomService.ListRoomsParams{
		RoomType:   c.Query("room_type"),
		RoomStatus: c.Query("room_status"),
		ViewType:   c.Query("view_type"),
		Keyword:    c.Query("keyword"),
		Offset:     p.GetOffset(),
		Limit:      p.GetLimit(),
	}
	if v := c.Query("published"); v != "" {
		if published, err := strconv.ParseBool(v); err == nil {
			params.Published = &published
		}
	}
	if v := c.Query("on_sale"); v != "" {
		if onSale, err := strconv.ParseBool(v); err == nil {
			params.OnSale = &onSale
		}
	}

	rooms, total, err := h.roomService.ListRooms(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, rooms, total, p.Page, p.PageSize)
}

// GetRoom 获取房间详情
// @Summary 获取房间详情
// @Tags 后台-房间
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/admin/rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := handler.GetID(c, "房间")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), id)
	handler.MustSucceed(c, err, room)
}

// UpdateRoom 更新房间信息
// @Summary 更新房间信息
// @Tags 后台-房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Param request body roomService.UpdateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/admin/rooms/{id} [put]
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := handler.GetID(c, "房间")
	if !ok {
		return
	}

	var req roomService.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, room)
}

// UpdateRoomStatusRequest 更新房态请求
type UpdateRoomStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRoomStatus 更新房态
// @Summary 更新房态
// @Tags 后台-房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Param request body UpdateRoomStatusRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/admin/rooms/{id}/status [put]
func (h *RoomHandler) UpdateRoomStatus(c *gin.Context) {
	id, ok := handler.GetID(c, "房间")
	if !ok {
		return
	}

	var req UpdateRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.UpdateRoomStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceed(c, err, room)
}

// SetPublishedRequest 上架/下架请求
type SetPublishedRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// SetPublished 上架或下架房间
// @Summary 上架或下架房间
// @Tags 后台-房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Param request body SetPublishedRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/admin/rooms/{id}/published [put]
func (h *RoomHandler) SetPublished(c *gin.Context) {
	id, ok := handler.GetID(c, "房间")
	if !ok {
		return
	}

	var req SetPublishedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.SetPublished(c.Request.Context(), id, *req.Published)
	handler.MustSucceed(c, err, room)
}

// DeleteRoom 删除房间
// @Summary 删除房间
// @Tags 后台-房间
// @Produce json
// @Security Bearer
// @Param id path string true "房间ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := handler.GetID(c, "房间")
	if !ok {
		return
	}

	handler.MustSucceedWithMessage(c, h.roomService.DeleteRoom(c.Request.Context(), id), "房间已删除", nil)
}
