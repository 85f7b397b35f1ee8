package gateway

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"ba_api/internal/domain/payment/model"
	"ba_api/internal/pkg/config"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeGateway Stripe 渠道适配器
type StripeGateway struct {
	webhookSecret string
}

// NewStripeGateway 初始化 Stripe 客户端
func NewStripeGateway() *StripeGateway {
	cfg := config.GlobalConfig.Stripe
	stripe.Key = cfg.SecretKey
	return &StripeGateway{
		webhookSecret: cfg.WebhookSecret,
	}
}

// CreateCheckoutSession 创建托管收银台会话
// 价格按主货币单位传入，这里转换为最小单位 (halala/cents)
func (g *StripeGateway) CreateCheckoutSession(p CheckoutParams) (*CheckoutSession, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(p.Name),
	}
	if p.Description != "" {
		productData.Description = stripe.String(p.Description)
	}
	if p.Image != "" {
		productData.Images = []*string{stripe.String(p.Image)}
	}
	if p.Category != "" {
		productData.Metadata = map[string]string{"category": p.Category}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(p.Currency),
					UnitAmount:  stripe.Int64(int64(math.Round(p.Price * 100))),
					ProductData: productData,
				},
			},
		},
	}

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// ParseWebhook 验证签名并归一化事件
func (g *StripeGateway) ParseWebhook(payload []byte, sigHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe: webhook verification failed: %w", err)
	}

	ev := &WebhookEvent{Type: string(event.Type)}

	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("stripe: unmarshal session: %w", err)
		}
		ev.Kind = model.EventCheckoutCompleted
		ev.SessionID = cs.ID
		if cs.PaymentIntent != nil {
			ev.PaymentIntentID = cs.PaymentIntent.ID
		}

	case "checkout.session.async_payment_failed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("stripe: unmarshal session: %w", err)
		}
		ev.Kind = model.EventCheckoutFailed
		ev.SessionID = cs.ID

	case "charge.refunded", "charge.refund.updated":
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			return nil, fmt.Errorf("stripe: unmarshal charge: %w", err)
		}
		ev.Kind = model.EventChargeRefunded
		ev.ChargeRefunded = ch.Refunded
		ev.OccurredAt = time.Unix(ch.Created, 0)
		if ch.PaymentIntent != nil {
			ev.PaymentIntentID = ch.PaymentIntent.ID
		}
		if ch.Refunds != nil && len(ch.Refunds.Data) > 0 {
			ev.RefundID = ch.Refunds.Data[0].ID
		}

	case "refund.updated":
		var r stripe.Refund
		if err := json.Unmarshal(event.Data.Raw, &r); err != nil {
			return nil, fmt.Errorf("stripe: unmarshal refund: %w", err)
		}
		ev.RefundID = r.ID
		ev.OccurredAt = time.Unix(r.Created, 0)
		switch r.Status {
		case stripe.RefundStatusSucceeded:
			ev.Kind = model.EventRefundSucceeded
		case stripe.RefundStatusFailed:
			ev.Kind = model.EventRefundFailed
		}
		// 其余退款状态 (pending 等) 不驱动流转，Kind 留空

	default:
		// 未识别的事件类型：确认收到即可，Kind 留空
	}

	return ev, nil
}

// GetSession 主动查询会话状态（手动对账用）
func (g *StripeGateway) GetSession(sessionID string) (*SessionInfo, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("payment_intent")

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get session: %w", err)
	}

	info := &SessionInfo{
		Paid: s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
	if s.PaymentIntent != nil {
		info.PaymentIntentID = s.PaymentIntent.ID
	}
	return info, nil
}

// GetPaymentIntent 主动查询支付单的退款情况
func (g *StripeGateway) GetPaymentIntent(intentID string) (*IntentInfo, error) {
	params := &stripe.PaymentIntentParams{}
	params.AddExpand("latest_charge.refunds")

	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get payment intent: %w", err)
	}

	info := &IntentInfo{}
	if pi.LatestCharge != nil {
		info.ChargeRefunded = pi.LatestCharge.Refunded
		if pi.LatestCharge.Refunds != nil && len(pi.LatestCharge.Refunds.Data) > 0 {
			info.RefundID = pi.LatestCharge.Refunds.Data[0].ID
		}
	}
	return info, nil
}

// 确保实现了接口
var _ Gateway = (*StripeGateway)(nil)
