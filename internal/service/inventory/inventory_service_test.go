package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appErrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

func setupInventoryService(t *testing.T) *InventoryService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.InventoryItem{})
	require.NoError(t, err)

	return NewInventoryService(repository.NewInventoryRepository(db))
}

func createItem(t *testing.T, service *InventoryService, sku string, quantity, reorderLevel int) *models.InventoryItem {
	item, err := service.CreateItem(context.Background(), &CreateItemRequest{
		SKU:          sku,
		Name:         "浴巾",
		Category:     "LINEN",
		Quantity:     quantity,
		ReorderLevel: reorderLevel,
	})
	require.NoError(t, err)
	return item
}

func TestInventoryService_CreateItem(t *testing.T) {
	service := setupInventoryService(t)

	item := createItem(t, service, "LN-TOWEL-01", 40, 10)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 40, item.Quantity)

	// SKU 冲突
	_, err := service.CreateItem(context.Background(), &CreateItemRequest{
		SKU:      "LN-TOWEL-01",
		Name:     "另一批浴巾",
		Category: "LINEN",
	})
	assert.ErrorIs(t, err, appErrors.ErrSKUExists)
}

func TestInventoryService_UpdateItem(t *testing.T) {
	service := setupInventoryService(t)
	ctx := context.Background()
	item := createItem(t, service, "LN-TOWEL-01", 40, 10)

	name := "加厚浴巾"
	level := 15
	cost := 28.5
	updated, err := service.UpdateItem(ctx, item.ID, &UpdateItemRequest{
		Name:         &name,
		ReorderLevel: &level,
		UnitCost:     &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, "加厚浴巾", updated.Name)
	assert.Equal(t, 15, updated.ReorderLevel)
	require.NotNil(t, updated.UnitCost)
	assert.InDelta(t, 28.5, *updated.UnitCost, 0.001)
	// 数量不通过更新接口变动
	assert.Equal(t, 40, updated.Quantity)

	_, err = service.UpdateItem(ctx, "missing", &UpdateItemRequest{Name: &name})
	assert.ErrorIs(t, err, appErrors.ErrInventoryNotFound)
}

func TestInventoryService_AdjustQuantity(t *testing.T) {
	service := setupInventoryService(t)
	ctx := context.Background()
	item := createItem(t, service, "LN-TOWEL-01", 10, 5)

	updated, err := service.AdjustQuantity(ctx, item.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)

	// 扣到恰好为零允许
	updated, err = service.AdjustQuantity(ctx, item.ID, -6)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)

	// 继续出库则库存不足，数量保持不变
	_, err = service.AdjustQuantity(ctx, item.ID, -1)
	assert.ErrorIs(t, err, appErrors.ErrStockInsufficient)

	current, err := service.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.Quantity)

	updated, err = service.AdjustQuantity(ctx, item.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Quantity)
}

func TestInventoryService_ListAndReorder(t *testing.T) {
	service := setupInventoryService(t)
	ctx := context.Background()
	createItem(t, service, "LN-TOWEL-01", 3, 10)
	createItem(t, service, "LN-SHEET-01", 50, 10)
	createItem(t, service, "AM-SOAP-01", 8, 8)

	items, total, err := service.ListItems(ctx, &ListItemsParams{Category: "LINEN", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	// 数量低于或等于补货线的物资
	need, err := service.ListNeedingReorder(ctx)
	require.NoError(t, err)
	skus := make([]string, 0, len(need))
	for _, it := range need {
		skus = append(skus, it.SKU)
	}
	assert.ElementsMatch(t, []string{"LN-TOWEL-01", "AM-SOAP-01"}, skus)
}

func TestInventoryService_DeleteItem(t *testing.T) {
	service := setupInventoryService(t)
	ctx := context.Background()
	item := createItem(t, service, "LN-TOWEL-01", 3, 10)

	require.NoError(t, service.DeleteItem(ctx, item.ID))
	_, err := service.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, appErrors.ErrInventoryNotFound)
	assert.ErrorIs(t, service.DeleteItem(ctx, item.ID), appErrors.ErrInventoryNotFound)
}
