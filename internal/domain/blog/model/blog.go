package model

import (
	"encoding/json"

	"ba_api/pkg/model"
)

// BlogPost 博客文章
type BlogPost struct {
	model.BaseModel
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	Summary      string          `gorm:"type:text" json:"summary"`
	Content      json.RawMessage `gorm:"type:jsonb" json:"content"` // 富文本块数组
	Image        string          `gorm:"type:varchar(512)" json:"image"`
	Category     string          `gorm:"type:varchar(120);index" json:"category"`
	Tags         json.RawMessage `gorm:"type:jsonb" json:"tags"`
	AuthorName   string          `gorm:"type:varchar(120)" json:"authorName"`
	AuthorAvatar string          `gorm:"type:varchar(512)" json:"authorAvatar"`
	ReadTime     int             `gorm:"default:0" json:"readTime"` // 预计阅读分钟数
}

// TableName 指定表名
func (BlogPost) TableName() string {
	return "blog_posts"
}
