package model

import (
	"ba_api/pkg/model"
)

// 角色常量
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户模型
type User struct {
	model.BaseModel
	FullName string `gorm:"type:varchar(120);not null" json:"fullName"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // bcrypt 哈希，永不序列化
	Role     string `gorm:"type:varchar(16);default:'user';index" json:"role"`
	Avatar   string `gorm:"type:varchar(512)" json:"avatar"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
