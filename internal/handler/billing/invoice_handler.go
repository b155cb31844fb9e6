// Package billing 提供面向客户的账单 HTTP Handler
package billing

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	billingService "github.com/dumeirei/hotel-booking-backend/internal/service/billing"
)

// InvoiceHandler 客户账单处理器
type InvoiceHandler struct {
	invoiceService *billingService.InvoiceService
}

// NewInvoiceHandler 创建客户账单处理器
func NewInvoiceHandler(invoiceSvc *billingService.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceSvc}
}

// GetMyInvoices 获取我的账单列表
// @Summary 获取我的账单列表
// @Tags 账单
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) GetMyInvoices(c *gin.Context) {
	customerID, ok := handler.RequireCustomerID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	invoices, total, err := h.invoiceService.ListCustomerInvoices(
		c.Request.Context(), customerID, p.GetOffset(), p.GetLimit())
	handler.MustSucceedPage(c, err, invoices, total, p.Page, p.PageSize)
}

// GetInvoiceDetail 获取账单详情
// @Summary 获取账单详情
// @Tags 账单
// @Produce json
// @Security Bearer
// @Param id path string true "账单ID"
// @Success 200 {object} response.Response{data=models.Invoice}
// @Router /api/v1/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoiceDetail(c *gin.Context) {
	customerID, invoiceID, ok := handler.RequireCustomerAndGetID(c, "账单")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetCustomerInvoice(c.Request.Context(), customerID, invoiceID)
	handler.MustSucceed(c, err, invoice)
}
