package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryItem 物资库存模型
type InventoryItem struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SKU          string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`
	Category     string    `gorm:"type:varchar(50);not null;index" json:"category"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	Quantity     int       `gorm:"not null;default:0" json:"quantity"`
	ReorderLevel int       `gorm:"not null;default:0" json:"reorder_level"`
	UnitCost     *float64  `gorm:"type:decimal(12,2)" json:"unit_cost,omitempty"`
	Supplier     *string   `gorm:"type:varchar(200)" json:"supplier,omitempty"`
	Location     *string   `gorm:"type:varchar(100)" json:"location,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// BeforeCreate 创建前生成 UUID
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// NeedsReorder 判断库存是否低于补货线
func (i *InventoryItem) NeedsReorder() bool {
	return i.Quantity <= i.ReorderLevel
}
