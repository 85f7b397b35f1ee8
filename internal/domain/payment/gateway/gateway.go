package gateway

import (
	"time"

	"ba_api/internal/domain/payment/model"
)

// CheckoutParams 创建托管收银台会话的参数
type CheckoutParams struct {
	Name        string
	Description string
	Image       string
	Category    string  // 写入商品 metadata
	Price       float64 // 主货币单位
	Currency    string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession 托管收银台会话
type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent 验签并归一化后的回调事件
type WebhookEvent struct {
	Type string          // 渠道原始事件类型
	Kind model.EventKind // 归一化事件，空值表示不处理该类型

	SessionID       string
	PaymentIntentID string
	RefundID        string

	ChargeRefunded bool      // charge.refunded：渠道是否已实际退款
	OccurredAt     time.Time // 渠道侧时间戳
}

// SessionInfo 主动查询会话得到的状态
type SessionInfo struct {
	Paid            bool
	PaymentIntentID string
}

// IntentInfo 主动查询支付单得到的退款信息
type IntentInfo struct {
	ChargeRefunded bool
	RefundID       string
}

// Gateway 支付渠道抽象
// 业务层只依赖此接口，Stripe 适配器是唯一生产实现
type Gateway interface {
	CreateCheckoutSession(p CheckoutParams) (*CheckoutSession, error)

	// ParseWebhook 验证签名并解析事件，验签失败返回错误且不产生任何副作用
	ParseWebhook(payload []byte, sigHeader string) (*WebhookEvent, error)

	GetSession(sessionID string) (*SessionInfo, error)
	GetPaymentIntent(intentID string) (*IntentInfo, error)
}
