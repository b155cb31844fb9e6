// Package auth 提供认证相关的 HTTP Handler
package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	authService "github.com/dumeirei/hotel-booking-backend/internal/service/auth"
	customerService "github.com/dumeirei/hotel-booking-backend/internal/service/customer"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService     *authService.AuthService
	customerService *customerService.CustomerService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authSvc *authService.AuthService, customerSvc *customerService.CustomerService) *AuthHandler {
	return &AuthHandler{
		authService:     authSvc,
		customerService: customerSvc,
	}
}

// StaffLogin 员工登录
// @Summary 员工登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authService.StaffLoginRequest true "请求参数"
// @Success 200 {object} response.Response{data=authService.StaffLoginResponse}
// @Router /api/v1/admin/auth/login [post]
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	var req authService.StaffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.authService.StaffLogin(c.Request.Context(), &req)
	handler.MustSucceed(c, err, result)
}

// CustomerLogin 客户登录
// @Summary 客户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authService.CustomerLoginRequest true "请求参数"
// @Success 200 {object} response.Response{data=authService.CustomerLoginResponse}
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) CustomerLogin(c *gin.Context) {
	var req authService.CustomerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.authService.CustomerLogin(c.Request.Context(), &req)
	handler.MustSucceed(c, err, result)
}

// Register 客户注册
// @Summary 客户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body customerService.RegisterRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Customer}
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req customerService.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	customer, err := h.customerService.Register(c.Request.Context(), &req)
	handler.MustSucceed(c, err, customer)
}

// RefreshToken 刷新令牌
// @Summary 刷新令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authService.RefreshRequest true "请求参数"
// @Success 200 {object} response.Response{data=jwt.TokenPair}
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authService.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	pair, err := h.authService.RefreshToken(c.Request.Context(), &req)
	handler.MustSucceed(c, err, pair)
}

// ChangeCustomerPassword 客户修改密码
// @Summary 客户修改密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body authService.ChangePasswordRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangeCustomerPassword(c *gin.Context) {
	customerID, ok := handler.RequireCustomerID(c)
	if !ok {
		return
	}

	var req authService.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.authService.ChangeCustomerPassword(c.Request.Context(), customerID, &req)
	handler.MustSucceedWithMessage(c, err, "密码修改成功", nil)
}

// ChangeStaffPassword 员工修改密码
// @Summary 员工修改密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body authService.ChangePasswordRequest true "请求参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/auth/password [put]
func (h *AuthHandler) ChangeStaffPassword(c *gin.Context) {
	staffID, ok := handler.RequireStaffID(c)
	if !ok {
		return
	}

	var req authService.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.authService.ChangeStaffPassword(c.Request.Context(), staffID, &req)
	handler.MustSucceedWithMessage(c, err, "密码修改成功", nil)
}
