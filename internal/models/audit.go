package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OperationLog 员工操作审计日志
type OperationLog struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Module     string    `gorm:"type:varchar(50);not null;index" json:"module"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	TargetType *string   `gorm:"type:varchar(50)" json:"target_type,omitempty"`
	TargetID   *string   `gorm:"type:varchar(36)" json:"target_id,omitempty"`
	AfterData  JSON      `gorm:"type:text" json:"after_data,omitempty"`
	IP         string    `gorm:"type:varchar(45)" json:"ip"`
	UserAgent  *string   `gorm:"type:varchar(255)" json:"user_agent,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 表名
func (OperationLog) TableName() string {
	return "operation_logs"
}

// BeforeCreate 创建前生成 UUID
func (o *OperationLog) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
