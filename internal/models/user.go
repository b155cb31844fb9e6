package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 员工账户模型
type User struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string     `gorm:"type:varchar(100);not null" json:"display_name"`
	Role         string     `gorm:"type:varchar(20);not null;default:'EDITOR'" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 创建前生成 UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// 员工角色
const (
	RoleAdmin  = "ADMIN"  // 管理员
	RoleEditor = "EDITOR" // 运营编辑
)

// 主体类型（JWT 登录主体）
const (
	PrincipalStaff    = "staff"    // 后台员工
	PrincipalCustomer = "customer" // 前台客户
)

// ValidRole 判断员工角色是否合法
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}
