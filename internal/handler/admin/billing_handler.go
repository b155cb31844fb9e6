package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	billingService "github.com/dumeirei/hotel-booking-backend/internal/service/billing"
)

// BillingHandler 后台账单与支付管理处理器
type BillingHandler struct {
	invoiceService *billingService.InvoiceService
	paymentService *billingService.PaymentService
}

// NewBillingHandler 创建后台账单与支付管理处理器
func NewBillingHandler(invoiceSvc *billingService.InvoiceService, paymentSvc *billingService.PaymentService) *BillingHandler {
	return &BillingHandler{
		invoiceService: invoiceSvc,
		paymentService: paymentSvc,
	}
}

// CreateInvoice 创建账单
// @Summary 创建账单
// @Tags 后台-账单
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body billingService.CreateInvoiceRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Invoice}
// @Router /api/v1/admin/invoices [post]
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req billingService.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &req)
	handler.MustSucceed(c, err, invoice)
}

// ListInvoices 获取账单列表
// @Summary 获取账单列表
// @Tags 后台-账单
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param customer_id query string false "客户ID"
// @Param booking_id query string false "预订ID"
// @Param status query string false "状态"
// @Param invoice_number query string false "账单号"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/invoices [get]
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	p := handler.BindPagination(c)

	start, end, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}

	params := &billingService.ListInvoicesParams{
		CustomerID:    c.Query("customer_id"),
		BookingID:     c.Query("booking_id"),
		Status:        c.Query("status"),
		InvoiceNumber: c.Query("invoice_number"),
		StartDate:     start,
		EndDate:       end,
		Offset:        p.GetOffset(),
		Limit:         p.GetLimit(),
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, invoices, total, p.Page, p.PageSize)
}

// GetInvoice 获取账单详情
// @Summary 获取账单详情
// @Tags 后台-账单
// @Produce json
// @Security Bearer
// @Param id path string true "账单ID"
// @Success 200 {object} response.Response{data=models.Invoice}
// @Router /api/v1/admin/invoices/{id} [get]
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id, ok := handler.GetID(c, "账单")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	handler.MustSucceed(c, err, invoice)
}

// UpdateInvoice 更新账单
// @Summary 更新账单
// @Tags 后台-账单
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "账单ID"
// @Param request body billingService.UpdateInvoiceRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Invoice}
// @Router /api/v1/admin/invoices/{id} [put]
func (h *BillingHandler) UpdateInvoice(c *gin.Context) {
	id, ok := handler.GetID(c, "账单")
	if !ok {
		return
	}

	var req billingService.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, invoice)
}

// UpdateInvoiceStatusRequest 更新账单状态请求
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateInvoiceStatus 更新账单状态（含作废）
// @Summary 更新账单状态
// @Tags 后台-账单
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "账单ID"
// @Param request body UpdateInvoiceStatusRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Invoice}
// @Router /api/v1/admin/invoices/{id}/status [put]
func (h *BillingHandler) UpdateInvoiceStatus(c *gin.Context) {
	id, ok := handler.GetID(c, "账单")
	if !ok {
		return
	}

	var req UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceed(c, err, invoice)
}

// DeleteInvoice 删除账单（级联删除明细与支付记录）
// @Summary 删除账单
// @Tags 后台-账单
// @Produce json
// @Security Bearer
// @Param id path string true "账单ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/invoices/{id} [delete]
func (h *BillingHandler) DeleteInvoice(c *gin.Context) {
	id, ok := handler.GetID(c, "账单")
	if !ok {
		return
	}

	handler.MustSucceedWithMessage(c, h.invoiceService.DeleteInvoice(c.Request.Context(), id), "账单已删除", nil)
}

// CreatePayment 登记支付
// @Summary 登记支付
// @Tags 后台-支付
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body billingService.CreatePaymentRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Payment}
// @Router /api/v1/admin/payments [post]
func (h *BillingHandler) CreatePayment(c *gin.Context) {
	var req billingService.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), &req)
	handler.MustSucceed(c, err, payment)
}

// ListPayments 获取支付记录列表
// @Summary 获取支付记录列表
// @Tags 后台-支付
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param invoice_id query string false "账单ID"
// @Param method query string false "支付方式"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/payments [get]
func (h *BillingHandler) ListPayments(c *gin.Context) {
	p := handler.BindPagination(c)

	start, end, ok := handler.ParseQueryDateRange(c)
	if !ok {
		return
	}

	params := &billingService.ListPaymentsParams{
		InvoiceID: c.Query("invoice_id"),
		Method:    c.Query("method"),
		StartDate: start,
		EndDate:   end,
		Offset:    p.GetOffset(),
		Limit:     p.GetLimit(),
	}

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, payments, total, p.Page, p.PageSize)
}

// GetPayment 获取支付记录详情
// @Summary 获取支付记录详情
// @Tags 后台-支付
// @Produce json
// @Security Bearer
// @Param id path string true "支付记录ID"
// @Success 200 {object} response.Response{data=models.Payment}
// @Router /api/v1/admin/payments/{id} [get]
func (h *BillingHandler) GetPayment(c *gin.Context) {
	id, ok := handler.GetID(c, "支付记录")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	handler.MustSucceed(c, err, payment)
}

// DeletePayment 删除支付记录并冲正账单台账
// @Summary 删除支付记录
// @Tags 后台-支付
// @Produce json
// @Security Bearer
// @Param id path string true "支付记录ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/payments/{id} [delete]
func (h *BillingHandler) DeletePayment(c *gin.Context) {
	id, ok := handler.GetID(c, "支付记录")
	if !ok {
		return
	}

	handler.MustSucceedWithMessage(c, h.paymentService.DeletePayment(c.Request.Context(), id), "支付记录已删除", nil)
}

// CreateInvoicePaymentRequest 在账单下登记支付的请求
type CreateInvoicePaymentRequest struct {
	Amount        float64 `json:"amount"`
	Method        string  `json:"method" binding:"required"`
	PaymentDate   *string `json:"payment_date,omitempty"`
	TransactionID *string `json:"transaction_id,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// CreateInvoicePayment 在指定账单下登记支付
// @Summary 在账单下登记支付
// @Tags 后台-支付
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "账单ID"
// @Param request body CreateInvoicePaymentRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Payment}
// @Router /api/v1/admin/invoices/{id}/payments [post]
func (h *BillingHandler) CreateInvoicePayment(c *gin.Context) {
	id, ok := handler.GetID(c, "账单")
	if !ok {
		return
	}

	var req CreateInvoicePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), &billingService.CreatePaymentRequest{
		InvoiceID:     id,
		Amount:        req.Amount,
		Method:        req.Method,
		PaymentDate:   req.PaymentDate,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	handler.MustSucceed(c, err, payment)
}

// ListInvoicePayments 获取某账单的支付记录
// @Summary 获取账单支付记录
// @Tags 后台-支付
// @Produce json
// @Security Bearer
// @Param id path string true "账单ID"
// @Success 200 {object} response.Response{data=[]models.Payment}
// @Router /api/v1/admin/invoices/{id}/payments [get]
func (h *BillingHandler) ListInvoicePayments(c *gin.Context) {
	id, ok := handler.GetID(c, "账单")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListInvoicePayments(c.Request.Context(), id)
	handler.MustSucceed(c, err, payments)
}
