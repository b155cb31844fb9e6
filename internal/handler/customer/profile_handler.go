// Package customer 提供客户个人资料 HTTP Handler
package customer

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	customerService "github.com/dumeirei/hotel-booking-backend/internal/service/customer"
)

// ProfileHandler 个人资料处理器
type ProfileHandler struct {
	customerService *customerService.CustomerService
}

// NewProfileHandler 创建个人资料处理器
func NewProfileHandler(customerSvc *customerService.CustomerService) *ProfileHandler {
	return &ProfileHandler{customerService: customerSvc}
}

// GetProfile 获取个人资料
// @Summary 获取个人资料
// @Tags 客户
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.Customer}
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	customerID, ok := handler.RequireCustomerID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), customerID)
	handler.MustSucceed(c, err, customer)
}

// UpdateProfile 更新个人资料
// @Summary 更新个人资料
// @Tags 客户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body customerService.UpdateCustomerRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Customer}
// @Router /api/v1/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	customerID, ok := handler.RequireCustomerID(c)
	if !ok {
		return
	}

	var req customerService.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), customerID, &req)
	handler.MustSucceed(c, err, customer)
}
