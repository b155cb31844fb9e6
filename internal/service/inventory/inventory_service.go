// Package inventory 提供酒店物资库存服务
package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// InventoryService 物资库存服务
type InventoryService struct {
	inventoryRepo *repository.InventoryRepository
}

// NewInventoryService 创建物资库存服务
func NewInventoryService(inventoryRepo *repository.InventoryRepository) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo}
}

// CreateItemRequest 创建物资请求
type CreateItemRequest struct {
	SKU          string   `json:"sku" binding:"required,max=50"`
	Name         string   `json:"name" binding:"required,max=200"`
	Category     string   `json:"category" binding:"required,max=50"`
	Description  *string  `json:"description,omitempty"`
	Quantity     int      `json:"quantity" binding:"min=0"`
	ReorderLevel int      `json:"reorder_level" binding:"min=0"`
	UnitCost     *float64 `json:"unit_cost,omitempty"`
	Supplier     *string  `json:"supplier,omitempty"`
	Location     *string  `json:"location,omitempty"`
}

// UpdateItemRequest 更新物资请求（仅更新提供的字段）
type UpdateItemRequest struct {
	Name         *string  `json:"name,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Description  *string  `json:"description,omitempty"`
	ReorderLevel *int     `json:"reorder_level,omitempty"`
	UnitCost     *float64 `json:"unit_cost,omitempty"`
	Supplier     *string  `json:"supplier,omitempty"`
	Location     *string  `json:"location,omitempty"`
}

// ListItemsParams 物资列表查询参数
type ListItemsParams struct {
	Category string
	Keyword  string
	Supplier string
	LowStock bool
	Offset   int
	Limit    int
}

// CreateItem 创建物资
func (s *InventoryService) CreateItem(ctx context.Context, req *CreateItemRequest) (*models.InventoryItem, error) {
	exists, err := s.inventoryRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrSKUExists
	}

	item := &models.InventoryItem{
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
		UnitCost:     req.UnitCost,
		Supplier:     req.Supplier,
		Location:     req.Location,
	}
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return item, nil
}

// GetItem 获取物资详情
func (s *InventoryService) GetItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInventoryNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return item, nil
}

// UpdateItem 更新物资信息（数量走 AdjustQuantity）
func (s *InventoryService) UpdateItem(ctx context.Context, id string, req *UpdateItemRequest) (*models.InventoryItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.ReorderLevel != nil {
		item.ReorderLevel = *req.ReorderLevel
	}
	if req.UnitCost != nil {
		item.UnitCost = req.UnitCost
	}
	if req.Supplier != nil {
		item.Supplier = req.Supplier
	}
	if req.Location != nil {
		item.Location = req.Location
	}

	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return item, nil
}

// AdjustQuantity 调整库存数量（入库为正、出库为负，不允许扣为负数）
func (s *InventoryService) AdjustQuantity(ctx context.Context, id string, delta int) (*models.InventoryItem, error) {
	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}

	if err := s.inventoryRepo.AdjustQuantity(ctx, id, delta); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStockInsufficient
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.GetItem(ctx, id)
}

// DeleteItem 删除物资
func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	if err := s.inventoryRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ListItems 获取物资列表
func (s *InventoryService) ListItems(ctx context.Context, params *ListItemsParams) ([]*models.InventoryItem, int64, error) {
	filters := make(map[string]interface{})
	if params.Category != "" {
		filters["category"] = params.Category
	}
	if params.Keyword != "" {
		filters["keyword"] = params.Keyword
	}
	if params.Supplier != "" {
		filters["supplier"] = params.Supplier
	}
	if params.LowStock {
		filters["low_stock"] = true
	}

	items, total, err := s.inventoryRepo.List(ctx, params.Offset, params.Limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return items, total, nil
}

// ListNeedingReorder 获取低于补货线的物资
func (s *InventoryService) ListNeedingReorder(ctx context.Context) ([]*models.InventoryItem, error) {
	items, err := s.inventoryRepo.ListNeedingReorder(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return items, nil
}
