package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	customerService "github.com/dumeirei/hotel-booking-backend/internal/service/customer"
)

// CustomerHandler 后台客户管理处理器
type CustomerHandler struct {
	customerService *customerService.CustomerService
}

// NewCustomerHandler 创建后台客户管理处理器
func NewCustomerHandler(customerSvc *customerService.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerSvc}
}

// ListCustomers 获取客户列表
// @Summary 获取客户列表
// @Tags 后台-客户
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param email query string false "邮箱"
// @Param name query string false "姓名"
// @Param city query string false "城市"
// @Param is_active query bool false "是否启用"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	p := handler.BindPagination(c)

	params := &customerService.ListCustomersParams{
		Email:  c.Query("email"),
		Name:   c.Query("name"),
		City:   c.Query("city"),
		Offset: p.GetOffset(),
		Limit:  p.GetLimit(),
	}
	if v := c.Query("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			params.IsActive = &active
		}
	}

	customers, total, err := h.customerService.ListCustomers(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, customers, total, p.Page, p.PageSize)
}

// GetCustomer 获取客户详情
// @Summary 获取客户详情
// @Tags 后台-客户
// @Produce json
// @Security Bearer
// @Param id path string true "客户ID"
// @Success 200 {object} response.Response{data=models.Customer}
// @Router /api/v1/admin/customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := handler.GetID(c, "客户")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	handler.MustSucceed(c, err, customer)
}

// UpdateCustomer 更新客户资料
// @Summary 更新客户资料
// @Tags 后台-客户
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "客户ID"
// @Param request body customerService.UpdateCustomerRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Customer}
// @Router /api/v1/admin/customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := handler.GetID(c, "客户")
	if !ok {
		return
	}

	var req customerService.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, customer)
}

// SetCustomerActiveRequest 启用/停用客户请求
type SetCustomerActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetCustomerActive 启用或停用客户账号
// @Summary 启用或停用客户账号
// @Tags 后台-客户
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "客户ID"
// @Param request body SetCustomerActiveRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Customer}
// @Router /api/v1/admin/customers/{id}/active [put]
func (h *CustomerHandler) SetCustomerActive(c *gin.Context) {
	id, ok := handler.GetID(c, "客户")
	if !ok {
		return
	}

	var req SetCustomerActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	customer, err := h.customerService.SetActive(c.Request.Context(), id, *req.IsActive)
	handler.MustSucceed(c, err, customer)
}
