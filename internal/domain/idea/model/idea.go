package model

import (
	"encoding/json"

	"ba_api/pkg/model"
)

// Idea 商业点子文章
type Idea struct {
	model.BaseModel
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"type:varchar(120);index" json:"category"`
	Content     json.RawMessage `gorm:"type:jsonb" json:"content"` // 富文本块数组
	Image       string          `gorm:"type:varchar(512)" json:"image"`
	Likes       int64           `gorm:"default:0" json:"likes"`
	Views       int64           `gorm:"default:0" json:"views"`
}

// TableName 指定表名
func (Idea) TableName() string {
	return "ideas"
}
