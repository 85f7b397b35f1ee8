package payment

import (
	"ba_api/internal/domain/payment/gateway"
	"ba_api/internal/domain/payment/handler"
	"ba_api/internal/domain/payment/repository"
	"ba_api/internal/domain/payment/service"
	"ba_api/internal/pkg/mailer"
	"ba_api/internal/pkg/middleware"
	"ba_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PaymentModule 支付模块
type PaymentModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// 支付依赖用户模块的认证体系，靠后初始化
	return 10
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	repo := repository.NewPaymentRepository(ctx.DB)
	stats := repository.NewStatsRepository(ctx.SQLX)
	gw := gateway.NewStripeGateway()
	svc := service.NewPaymentService(repo, gw, mailer.NewMailer())
	h := handler.NewPaymentHandler(svc, stats)

	// 2. 路由注册
	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	stripeGroup := r.Group("/api/stripe")
	{
		// 回调不走认证，靠签名校验
		stripeGroup.POST("/webhook", h.Webhook)

		authed := stripeGroup.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.POST("/create-checkout-session", h.CreateCheckoutSession)
			authed.POST("/create-subscription-checkout-session", h.CreateSubscriptionCheckoutSession)
			authed.POST("/create-test-checkout-session", h.CreateTestCheckoutSession)
			authed.GET("/my-orders", h.MyOrders)
			authed.POST("/refund/:paymentId", h.RequestRefund)
			authed.POST("/sync/:paymentId", h.SyncStatus)
		}

		admin := stripeGroup.Group("")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.GET("/stats", h.Stats)
		}
	}
}
