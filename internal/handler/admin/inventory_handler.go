package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	inventoryService "github.com/dumeirei/hotel-booking-backend/internal/service/inventory"
)

// InventoryHandler 后台物资库存管理处理器
type InventoryHandler struct {
	inventoryService *inventoryService.InventoryService
}

// NewInventoryHandler 创建后台物资库存管理处理器
func NewInventoryHandler(inventorySvc *inventoryService.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventorySvc}
}

// CreateItem 创建物资
// @Summary 创建物资
// @Tags 后台-库存
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body inventoryService.CreateItemRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.InventoryItem}
// @Router /api/v1/admin/inventory [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req inventoryService.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), &req)
	handler.MustSucceed(c, err, item)
}

// ListItems 获取物资列表
// @Summary 获取物资列表
// @Tags 后台-库存
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param category query string false "分类"
// @Param keyword query string false "关键字"
// @Param supplier query string false "供应商"
// @Param low_stock query bool false "仅看低库存"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/inventory [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	p := handler.BindPagination(c)

	params := &inventoryService.ListItemsParams{
		Category: c.Query("category"),
		Keyword:  c.Query("keyword"),
		Supplier: c.Query("supplier"),
		LowStock: c.Query("low_stock") == "true",
		Offset:   p.GetOffset(),
		Limit:    p.GetLimit(),
	}

	items, total, err := h.inventoryService.ListItems(c.Request.Context(), params)
	handler.MustSucceedPage(c, err, items, total, p.Page, p.PageSize)
}

// GetItem 获取物资详情
// @Summary 获取物资详情
// @Tags 后台-库存
// @Produce json
// @Security Bearer
// @Param id path string true "物资ID"
// @Success 200 {object} response.Response{data=models.InventoryItem}
// @Router /api/v1/admin/inventory/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := handler.GetID(c, "物资")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	handler.MustSucceed(c, err, item)
}

// UpdateItem 更新物资信息
// @Summary 更新物资信息
// @Tags 后台-库存
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "物资ID"
// @Param request body inventoryService.UpdateItemRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.InventoryItem}
// @Router /api/v1/admin/inventory/{id} [put]
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := handler.GetID(c, "物资")
	if !ok {
		return
	}

	var req inventoryService.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, item)
}

// AdjustQuantityRequest 调整库存请求
type AdjustQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// AdjustQuantity 调整库存数量（入库为正、出库为负）
// @Summary 调整库存数量
// @Tags 后台-库存
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "物资ID"
// @Param request body AdjustQuantityRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.InventoryItem}
// @Router /api/v1/admin/inventory/{id}/adjust [post]
func (h *InventoryHandler) AdjustQuantity(c *gin.Context) {
	id, ok := handler.GetID(c, "物资")
	if !ok {
		return
	}

	var req AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	item, err := h.inventoryService.AdjustQuantity(c.Request.Context(), id, *req.Delta)
	handler.MustSucceed(c, err, item)
}

// DeleteItem 删除物资
// @Summary 删除物资
// @Tags 后台-库存
// @Produce json
// @Security Bearer
// @Param id path string true "物资ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/inventory/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, ok := handler.GetID(c, "物资")
	if !ok {
		return
	}

	handler.MustSucceedWithMessage(c, h.inventoryService.DeleteItem(c.Request.Context(), id), "物资已删除", nil)
}

// ListNeedingReorder 获取需要补货的物资
// @Summary 获取需要补货的物资
// @Tags 后台-库存
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.InventoryItem}
// @Router /api/v1/admin/inventory/reorder [get]
func (h *InventoryHandler) ListNeedingReorder(c *gin.Context) {
	items, err := h.inventoryService.ListNeedingReorder(c.Request.Context())
	handler.MustSucceed(c, err, items)
}
