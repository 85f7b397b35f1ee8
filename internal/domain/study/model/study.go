package model

import (
	"ba_api/pkg/model"
)

// Study 可购买的可行性研究
type Study struct {
	model.BaseModel
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Image       string  `gorm:"type:varchar(512)" json:"image"`
	Price       float64 `gorm:"not null" json:"price"` // 主货币单位 (SAR)
	Category    string  `gorm:"type:varchar(120);index" json:"category"`
}

// TableName 指定表名
func (Study) TableName() string {
	return "studies"
}
