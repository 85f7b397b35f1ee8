package model

import (
	"time"

	baseModel "ba_api/pkg/model"
)

// Payment 支付记录
// 一次购买行为对应一条记录，只改状态，永不删除
type Payment struct {
	baseModel.BaseModel
	PayNumber   string `gorm:"uniqueIndex;not null" json:"payNumber"` // 人类可读单号
	UserID      string `gorm:"type:uuid;index;not null" json:"userId"`
	ServiceID   string `gorm:"not null" json:"serviceId"`
	ServiceType string `gorm:"not null" json:"serviceType"` // feasibility_study, idea, plan
	Amount      int64  `gorm:"not null" json:"amount"`      // 主货币单位 (SAR)，非分

	StripeSessionID       string `gorm:"uniqueIndex" json:"stripeSessionId"`
	StripePaymentIntentID string `gorm:"index" json:"stripePaymentIntentId"`
	RefundID              string `gorm:"index" json:"refundId"`

	Status Status `gorm:"type:varchar(32);default:'pending';index" json:"status"`

	RefundRequestedAt *time.Time `json:"refundRequestedAt,omitempty"`
	RefundedAt        *time.Time `json:"refundedAt,omitempty"`
}
