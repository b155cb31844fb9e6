package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	userService "github.com/dumeirei/hotel-booking-backend/internal/service/user"
)

// UserHandler 后台员工账号管理处理器
type UserHandler struct {
	userService *userService.UserService
}

// NewUserHandler 创建后台员工账号管理处理器
func NewUserHandler(userSvc *userService.UserService) *UserHandler {
	return &UserHandler{userService: userSvc}
}

// CreateUser 创建员工账号
// @Summary 创建员工账号
// @Tags 后台-员工
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body userService.CreateUserRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/admin/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req userService.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	handler.MustSucceed(c, err, user)
}

// ListUsers 获取员工列表
// @Summary 获取员工列表
// @Tags 后台-员工
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "关键字"
// @Param role query string false "角色"
// @Param is_active query bool false "是否启用"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := handler.BindPagination(c)

	params := &userService.ListUsersParams{
		Keyword: c.Query("keyword"),
		Role:    c.Query("role"),
		Offset:  p.GetOffset(),
		Limit:   p.GetLimit(),
	}
	if v := c.Query("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			params.IsActive = &active
		}
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, users, total, p.Page, p.PageSize)
}

// GetUser 获取员工详情
// @Summary 获取员工详情
// @Tags 后台-员工
// @Produce json
// @Security Bearer
// @Param id path string true "员工ID"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/admin/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := handler.GetID(c, "员工")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	handler.MustSucceed(c, err, user)
}

// UpdateUser 更新员工信息
// @Summary 更新员工信息
// @Tags 后台-员工
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "员工ID"
// @Param request body userService.UpdateUserRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := handler.GetID(c, "员工")
	if !ok {
		return
	}

	var req userService.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, user)
}

// SetUserActiveRequest 启用/停用员工请求
type SetUserActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetUserActive 启用或停用员工账号
// @Summary 启用或停用员工账号
// @Tags 后台-员工
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "员工ID"
// @Param request body SetUserActiveRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/admin/users/{id}/active [put]
func (h *UserHandler) SetUserActive(c *gin.Context) {
	id, ok := handler.GetID(c, "员工")
	if !ok {
		return
	}

	var req SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.userService.SetActive(c.Request.Context(), id, *req.IsActive)
	handler.MustSucceed(c, err, user)
}
