package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer 客户模型
type Customer struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone        *string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address      *string    `gorm:"type:varchar(255)" json:"address,omitempty"`
	City         *string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	Country      *string    `gorm:"type:varchar(100)" json:"country,omitempty"`
	IDNumber     *string    `gorm:"type:varchar(50)" json:"id_number,omitempty"`
	Notes        *string    `gorm:"type:text" json:"notes,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate 创建前生成 UUID
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// FullName 返回客户全名
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
