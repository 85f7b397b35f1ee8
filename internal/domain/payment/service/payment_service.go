package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"ba_api/internal/domain/payment/gateway"
	"ba_api/internal/domain/payment/model"
	"ba_api/internal/domain/payment/repository"
	"ba_api/internal/pkg/config"
	"ba_api/internal/pkg/mailer"
	"ba_api/internal/pkg/push"
	"ba_api/pkg/logger"
	"ba_api/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 服务层错误
var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrNotOwned         = errors.New("not authorized to access this payment")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrInvalidInput     = errors.New("invalid checkout input")
	ErrRefundNotAllowed = errors.New("refund not allowed")
	ErrEmailFailed      = errors.New("refund requested but email notification failed")
)

// recentScanLimit 退款事件兜底扫描的窗口大小
const recentScanLimit = 5

// CheckoutInput 创建收银台会话的输入
type CheckoutInput struct {
	ServiceID   string
	ServiceType string
	Name        string
	Description string
	Image       string
	Category    string
	Price       float64
	Origin      string // 请求方 Origin，决定支付完成后的跳转域名
}

// CheckoutResult 创建会话的结果
type CheckoutResult struct {
	URL       string
	SessionID string
	Payment   *model.Payment
}

// RefundInput 退款申请输入
type RefundInput struct {
	Name    string
	Email   string
	Message string
}

// PaymentService 支付服务
type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, userID string, in CheckoutInput) (*CheckoutResult, error)
	CreateTestCheckoutSession(ctx context.Context, origin, scenario string) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (*gateway.WebhookEvent, error)
	GetUserOrders(ctx context.Context, userID string) ([]model.Payment, error)
	RequestRefund(ctx context.Context, userID, paymentID string, in RefundInput) error
	SyncStatus(ctx context.Context, userID, paymentID string) (*model.Payment, error)
}

type paymentService struct {
	repo    repository.PaymentRepository
	gateway gateway.Gateway
	mailer  mailer.Mailer
}

// NewPaymentService 创建支付服务
func NewPaymentService(repo repository.PaymentRepository, gw gateway.Gateway, m mailer.Mailer) PaymentService {
	return &paymentService{
		repo:    repo,
		gateway: gw,
		mailer:  m,
	}
}

// CreateCheckoutSession 创建托管收银台会话并落地 pending 记录
// 先调渠道，渠道成功后才写本地记录，金额按主货币单位原样保存
func (s *paymentService) CreateCheckoutSession(ctx context.Context, userID string, in CheckoutInput) (*CheckoutResult, error) {
	if in.ServiceID == "" || in.ServiceType == "" {
		return nil, fmt.Errorf("%w: serviceId and serviceType are required", ErrInvalidInput)
	}
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be a valid positive number", ErrInvalidInput)
	}

	cfg := config.GlobalConfig.Stripe
	successURL := cfg.SuccessURL
	cancelURL := cfg.CancelURL
	if in.Origin != "" {
		successURL = in.Origin + "/success?session_id={CHECKOUT_SESSION_ID}"
		cancelURL = in.Origin + "/canceled"
	}

	sess, err := s.gateway.CreateCheckoutSession(gateway.CheckoutParams{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Category:    in.Category,
		Price:       in.Price,
		Currency:    cfg.Currency,
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
	})
	if err != nil {
		return nil, err
	}

	p := &model.Payment{
		PayNumber:       newPayNumber(),
		UserID:          userID,
		ServiceID:       in.ServiceID,
		ServiceType:     in.ServiceType,
		Amount:          int64(math.Round(in.Price)),
		StripeSessionID: sess.ID,
		Status:          model.StatusPending,
	}
	if err := s.repo.Create(p); err != nil {
		// 已知缺口：渠道会话创建成功但本地写入失败，会留下孤儿会话
		logger.Log.Error("checkout session created but local insert failed",
			zap.String("session_id", sess.ID), zap.Error(err))
		return nil, err
	}

	return &CheckoutResult{URL: sess.URL, SessionID: sess.ID, Payment: p}, nil
}

// CreateTestCheckoutSession 创建沙箱测试会话，不落库
// 金额对应 Stripe 文档里的拒付测试金额，用于模拟不同的失败场景
func (s *paymentService) CreateTestCheckoutSession(ctx context.Context, origin, scenario string) (string, error) {
	price := 20.00
	switch scenario {
	case "card_decline":
		price = 20.02
	case "insufficient_funds":
		price = 20.03
	case "processing_error":
		price = 20.05
	}

	successURL := origin + "/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := origin + "/canceled"

	sess, err := s.gateway.CreateCheckoutSession(gateway.CheckoutParams{
		Name:       "T-shirt",
		Image:      "https://picsum.photos/200/300",
		Price:      price,
		Currency:   "usd",
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// HandleWebhook 验签并处理回调事件
// 验签失败返回 ErrInvalidSignature 且不产生任何写入
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (*gateway.WebhookEvent, error) {
	ev, err := s.gateway.ParseWebhook(payload, sigHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if ev.Kind == "" {
		// 未识别的事件类型，确认收到即可
		metrics.GlobalCollector.ObserveWebhookEvent(ev.Type, "ignored")
		return ev, nil
	}

	if err := s.applyEvent(ctx, ev); err != nil {
		metrics.GlobalCollector.ObserveWebhookEvent(ev.Type, "error")
		return ev, err
	}
	metrics.GlobalCollector.ObserveWebhookEvent(ev.Type, "ok")
	return ev, nil
}

// applyEvent 将归一化事件套到本地记录上
func (s *paymentService) applyEvent(ctx context.Context, ev *gateway.WebhookEvent) error {
	switch ev.Kind {
	case model.EventCheckoutCompleted:
		p, err := s.repo.GetBySessionID(ev.SessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Log.Warn("webhook for unknown session", zap.String("session_id", ev.SessionID))
				return nil
			}
			return err
		}
		next, ok := model.Transition(p.Status, ev.Kind)
		if !ok {
			return nil
		}
		fields := map[string]interface{}{"status": next}
		if ev.PaymentIntentID != "" {
			fields["stripe_payment_intent_id"] = ev.PaymentIntentID
		}
		if err := s.update(p, next, fields); err != nil {
			return err
		}
		s.notifyPaid(p)
		return nil

	case model.EventCheckoutFailed:
		p, err := s.repo.GetBySessionID(ev.SessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		next, ok := model.Transition(p.Status, ev.Kind)
		if !ok {
			return nil
		}
		return s.update(p, next, map[string]interface{}{"status": next})

	case model.EventChargeRefunded:
		// 只有渠道确认实际退款才处理
		if !ev.ChargeRefunded {
			return nil
		}
		p, err := s.findForRefund(ev)
		if err != nil {
			return err
		}
		if p == nil {
			logger.Log.Warn("payment not found for refund event",
				zap.String("payment_intent", ev.PaymentIntentID))
			return nil
		}
		next, ok := model.Transition(p.Status, ev.Kind)
		if !ok {
			return nil
		}
		refundedAt := ev.OccurredAt
		if refundedAt.IsZero() {
			refundedAt = time.Now()
		}
		fields := map[string]interface{}{
			"status":      next,
			"refunded_at": refundedAt,
		}
		if ev.RefundID != "" {
			fields["refund_id"] = ev.RefundID
		}
		return s.update(p, next, fields)

	case model.EventRefundFailed:
		p, err := s.repo.GetByRefundID(ev.RefundID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		next, ok := model.Transition(p.Status, ev.Kind)
		if !ok {
			return nil
		}
		return s.update(p, next, map[string]interface{}{"status": next})

	case model.EventRefundSucceeded:
		p, err := s.repo.GetByRefundID(ev.RefundID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		next, ok := model.Transition(p.Status, ev.Kind)
		if !ok {
			return nil
		}
		refundedAt := ev.OccurredAt
		if refundedAt.IsZero() {
			refundedAt = time.Now()
		}
		return s.update(p, next, map[string]interface{}{
			"status":      next,
			"refunded_at": refundedAt,
		})
	}

	return nil
}

// findForRefund 定位退款事件对应的本地记录
// 优先按 payment_intent 查；查不到时扫描最近的 paid/refund_pending/refund_requested
// 记录，逐条向渠道核对会话。这是兜底手段，事件 payload 不一定带可直接匹配的键。
func (s *paymentService) findForRefund(ev *gateway.WebhookEvent) (*model.Payment, error) {
	if ev.PaymentIntentID != "" {
		p, err := s.repo.GetByIntentID(ev.PaymentIntentID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	recent, err := s.repo.ListRecentByStatus([]model.Status{
		model.StatusPaid, model.StatusRefundPending, model.StatusRefundRequested,
	}, recentScanLimit)
	if err != nil {
		return nil, err
	}

	for i := range recent {
		info, err := s.gateway.GetSession(recent[i].StripeSessionID)
		if err != nil {
			logger.Log.Warn("session lookup failed during refund scan",
				zap.String("session_id", recent[i].StripeSessionID), zap.Error(err))
			continue
		}
		if info.PaymentIntentID != "" && info.PaymentIntentID == ev.PaymentIntentID {
			return &recent[i], nil
		}
	}

	return nil, nil
}

// GetUserOrders 当前用户的全部订单
func (s *paymentService) GetUserOrders(ctx context.Context, userID string) ([]model.Payment, error) {
	return s.repo.ListByUser(userID)
}

// RequestRefund 用户发起退款申请
// 只有 paid 状态允许；状态改为 refund_pending 后发管理员通知邮件。
// 邮件失败不回滚状态（已知的不一致，保持与线上行为一致），错误由调用方感知。
func (s *paymentService) RequestRefund(ctx context.Context, userID, paymentID string, in RefundInput) error {
	p, err := s.repo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}

	if p.UserID != userID {
		return ErrNotOwned
	}

	next, ok := model.Transition(p.Status, model.EventRefundRequested)
	if !ok {
		return fmt.Errorf("%w: cannot refund status: %s", ErrRefundNotAllowed, p.Status)
	}

	now := time.Now()
	if err := s.update(p, next, map[string]interface{}{
		"status":              next,
		"refund_requested_at": now,
	}); err != nil {
		return err
	}

	logger.Log.Info("refund requested, sending notification email",
		zap.String("payment_id", paymentID), zap.String("user_id", userID))

	if err := s.mailer.Send(mailer.Email{
		To:       config.GlobalConfig.SMTP.ReceiverEmail,
		ReplyTo:  in.Email,
		Subject:  "Refund Request from " + in.Name,
		HTMLBody: mailer.RefundRequestHTML(in.Name, in.Email, in.Message, p.PayNumber),
	}); err != nil {
		logger.Log.Error("refund notification email failed",
			zap.String("payment_id", paymentID), zap.Error(err))
		return ErrEmailFailed
	}

	return nil
}

// SyncStatus 与渠道主动对账
// 渠道说已支付而本地不是 → paid；渠道说已退款而本地未取消 → cancelled。
// 与回调处理收敛到同样的终态，重复调用结果一致。
func (s *paymentService) SyncStatus(ctx context.Context, userID, paymentID string) (*model.Payment, error) {
	p, err := s.repo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if p.UserID != userID {
		return nil, ErrNotOwned
	}

	info, err := s.gateway.GetSession(p.StripeSessionID)
	if err != nil {
		return nil, err
	}

	current := p.Status

	if info.Paid {
		if next, ok := model.Transition(current, model.EventCheckoutCompleted); ok {
			fields := map[string]interface{}{"status": next}
			if info.PaymentIntentID != "" {
				fields["stripe_payment_intent_id"] = info.PaymentIntentID
			}
			if err := s.update(p, next, fields); err != nil {
				return nil, err
			}
			current = next
		}
	}

	if info.PaymentIntentID != "" {
		intent, err := s.gateway.GetPaymentIntent(info.PaymentIntentID)
		if err != nil {
			return nil, err
		}
		if intent.ChargeRefunded {
			if next, ok := model.Transition(current, model.EventChargeRefunded); ok {
				refundID := intent.RefundID
				if refundID == "" {
					refundID = "manual_refund"
				}
				if err := s.update(p, next, map[string]interface{}{
					"status":      next,
					"refunded_at": time.Now(),
					"refund_id":   refundID,
				}); err != nil {
					return nil, err
				}
			}
		}
	}

	return s.repo.GetByID(paymentID)
}

// update 写状态并打点
func (s *paymentService) update(p *model.Payment, next model.Status, fields map[string]interface{}) error {
	if err := s.repo.UpdateFields(p.ID, fields); err != nil {
		return err
	}
	metrics.GlobalCollector.ObserveStatusTransition(string(p.Status), string(next))
	p.Status = next
	return nil
}

// notifyPaid 支付成功后向用户推送通知（未配置推送服务时跳过）
func (s *paymentService) notifyPaid(p *model.Payment) {
	if push.GlobalPushService == nil {
		return
	}
	title := "Payment received"
	body := fmt.Sprintf("Your order %s has been paid successfully.", p.PayNumber)
	go push.GlobalPushService.PushToAccount(p.UserID, title, body, nil)
}

// newPayNumber 生成人类可读的单号
func newPayNumber() string {
	return fmt.Sprintf("PAY-%s-%s",
		time.Now().Format("20060102150405"),
		strings.ToUpper(uuid.New().String()[:8]))
}
