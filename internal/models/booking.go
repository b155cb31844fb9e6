package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking 预订模型
type Booking struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	RoomID          string     `gorm:"type:varchar(36);index;not null" json:"room_id"`
	CustomerID      string     `gorm:"type:varchar(36);index;not null" json:"customer_id"`
	CheckInDate     time.Time  `gorm:"not null;index" json:"check_in_date"`
	CheckOutDate    time.Time  `gorm:"not null;index" json:"check_out_date"`
	NumAdults       int        `gorm:"not null;default:1" json:"num_adults"`
	NumChildren     int        `gorm:"not null;default:0" json:"num_children"`
	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	TotalPrice      float64    `gorm:"type:decimal(12,2);not null" json:"total_price"`
	SpecialRequests *string    `gorm:"type:text" json:"special_requests,omitempty"`
	CheckedInAt     *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt    *time.Time `json:"checked_out_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Room     *Room     `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName 表名
func (Booking) TableName() string {
	return "bookings"
}

// BeforeCreate 创建前生成 UUID
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Booking 状态
const (
	BookingStatusPending    = "PENDING"     // 待确认
	BookingStatusConfirmed  = "CONFIRMED"   // 已确认
	BookingStatusCheckedIn  = "CHECKED_IN"  // 已入住
	BookingStatusCheckedOut = "CHECKED_OUT" // 已退房
	BookingStatusCancelled  = "CANCELLED"   // 已取消
	BookingStatusNoShow     = "NO_SHOW"     // 未到店
)

// bookingTransitions 预订状态转移表
var bookingTransitions = map[string][]string{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusNoShow},
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusCancelled, BookingStatusNoShow},
	BookingStatusCheckedIn: {BookingStatusCheckedOut},
}

// ValidBookingStatus 判断预订状态是否合法
func ValidBookingStatus(status string) bool {
	switch status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn,
		BookingStatusCheckedOut, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// CanTransitionBooking 判断预订状态能否从 from 转移到 to
func CanTransitionBooking(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BookingFinished 判断预订是否已处于终态
// NO_SHOW 与退房、取消同为终态，不再接受修改
func BookingFinished(status string) bool {
	switch status {
	case BookingStatusCheckedOut, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// ActiveBookingStatuses 占用房间库存的预订状态
func ActiveBookingStatuses() []string {
	return []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn, BookingStatusCheckedOut}
}
