package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Capacity 房间容纳人数（嵌入 Room）
type Capacity struct {
	Adults   int `gorm:"column:capacity_adults;not null;default:0" json:"adults"`
	Children int `gorm:"column:capacity_children;not null;default:0" json:"children"`
}

// Room 房间模型
type Room struct {
	ID               string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	RoomNumber       string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"room_number"`
	Title            string      `gorm:"type:varchar(200);not null" json:"title"`
	Description      string      `gorm:"type:text;not null" json:"description"`
	RoomType         string      `gorm:"type:varchar(20);not null" json:"room_type"`
	Capacity         Capacity    `gorm:"embedded" json:"capacity"`
	SizeSqMeters     *int        `json:"size_sq_meters,omitempty"`
	Floor            *int        `json:"floor,omitempty"`
	BedConfiguration string      `gorm:"type:varchar(100);not null" json:"bed_configuration"`
	ViewType         *string     `gorm:"type:varchar(20)" json:"view_type,omitempty"`
	BasePrice        float64     `gorm:"type:decimal(12,2);not null" json:"base_price"`
	WeekendPrice     *float64    `gorm:"type:decimal(12,2)" json:"weekend_price,omitempty"`
	OnSale           bool        `gorm:"not null;default:false" json:"on_sale"`
	SalePrice        *float64    `gorm:"type:decimal(12,2)" json:"sale_price,omitempty"`
	ImageURLs        StringArray `gorm:"type:text" json:"image_urls,omitempty"`
	ThumbnailURL     *string     `gorm:"type:varchar(255)" json:"thumbnail_url,omitempty"`
	Amenities        StringArray `gorm:"type:text" json:"amenities,omitempty"`
	RoomStatus       string      `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"room_status"`
	IsPublished      bool        `gorm:"not null;default:false" json:"is_published"`
	InternalNotes    *string     `gorm:"type:text" json:"internal_notes,omitempty"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// BeforeCreate 创建前生成 UUID
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RoomStatus 房间运营状态
const (
	RoomStatusAvailable   = "AVAILABLE"   // 可入住
	RoomStatusOccupied    = "OCCUPIED"    // 已入住
	RoomStatusMaintenance = "MAINTENANCE" // 维修中
	RoomStatusCleaning    = "CLEANING"    // 清洁中
)

// RoomType 房间类型
const (
	RoomTypeSingle    = "SINGLE" // 单人间
	RoomTypeDouble    = "DOUBLE" // 双人间
	RoomTypeSuite     = "SUITE"  // 套房
	RoomTypeApartment = "APT"    // 公寓
	RoomTypeHouse     = "HSE"    // 别院
	RoomTypeStudio    = "STD"    // 开间
	RoomTypeVilla     = "VLA"    // 别墅
)

// ViewType 景观类型
const (
	ViewTypeGarden   = "GARDEN"
	ViewTypeSea      = "SEA"
	ViewTypeCity     = "CITY"
	ViewTypeMountain = "MOUNTAIN"
	ViewTypeNone     = "NONE"
)

// ValidRoomStatus 判断房间运营状态是否合法
func ValidRoomStatus(status string) bool {
	switch status {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance, RoomStatusCleaning:
		return true
	}
	return false
}

// UnitPrice 返回当前生效的每晚价格（促销价优先）
func (r *Room) UnitPrice() float64 {
	if r.OnSale && r.SalePrice != nil {
		return *r.SalePrice
	}
	return r.BasePrice
}
