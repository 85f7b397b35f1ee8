package handler

import (
	"errors"
	"io"
	"net/http"

	"ba_api/internal/domain/payment/repository"
	"ba_api/internal/domain/payment/service"
	"ba_api/internal/pkg/middleware"
	"ba_api/pkg/logger"
	"ba_api/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler 支付接口
type PaymentHandler struct {
	service service.PaymentService
	stats   repository.StatsRepository
}

// NewPaymentHandler 创建支付接口处理器
func NewPaymentHandler(svc service.PaymentService, stats repository.StatsRepository) *PaymentHandler {
	return &PaymentHandler{service: svc, stats: stats}
}

// CheckoutRequest 创建收银台会话请求
type CheckoutRequest struct {
	ServiceID   string  `json:"serviceId" binding:"required"`
	ServiceType string  `json:"serviceType" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"required"`
}

// RefundRequest 退款申请请求
type RefundRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// CreateCheckoutSession 创建收银台会话
// @Summary 创建支付会话
// @Description 创建 Stripe 托管收银台会话并返回跳转地址
// @Tags 支付
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckoutRequest true "会话参数"
// @Success 200 {object} response.Response
// @Router /api/stripe/create-checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "login required")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCheckoutSession(c.Request.Context(), userID, service.CheckoutInput{
		ServiceID:   req.ServiceID,
		ServiceType: req.ServiceType,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Price:       req.Price,
		Origin:      c.GetHeader("Origin"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Log.Error("create checkout session failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrGatewayFailed, err.Error())
		return
	}

	response.Success(c, gin.H{
		"url":       result.URL,
		"sessionId": result.SessionID,
		"payment":   result.Payment,
	})
}

// SubscriptionCheckoutRequest 订阅入口的会话请求，所有字段必填
type SubscriptionCheckoutRequest struct {
	ServiceID   string  `json:"serviceId"`
	ServiceType string  `json:"serviceType"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

// validate 逐字段校验，错误提示指明缺失的字段
func (r *SubscriptionCheckoutRequest) validate() string {
	switch {
	case r.ServiceID == "":
		return "serviceId is required"
	case r.ServiceType == "":
		return "serviceType is required"
	case r.Name == "":
		return "name is required"
	case r.Description == "":
		return "description is required"
	case r.Image == "":
		return "image is required"
	case r.Price == 0:
		return "price is required"
	case r.Category == "":
		return "category is required"
	case r.Price < 0:
		return "price must be a valid positive number"
	}
	return ""
}

// CreateSubscriptionCheckoutSession 创建订阅入口的支付会话
// 实际仍按一次性支付处理
// @Summary 创建订阅支付会话
// @Tags 支付
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubscriptionCheckoutRequest true "会话参数"
// @Success 200 {object} response.Response
// @Router /api/stripe/create-subscription-checkout-session [post]
func (h *PaymentHandler) CreateSubscriptionCheckoutSession(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "login required")
		return
	}

	var req SubscriptionCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}

	result, err := h.service.CreateCheckoutSession(c.Request.Context(), userID, service.CheckoutInput{
		ServiceID:   req.ServiceID,
		ServiceType: req.ServiceType,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Price:       req.Price,
		Origin:      c.GetHeader("Origin"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Log.Error("create subscription checkout session failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrGatewayFailed, err.Error())
		return
	}

	response.Success(c, gin.H{
		"url":     result.URL,
		"id":      result.SessionID,
		"message": "subscription checkout session created successfully",
	})
}

// TestCheckoutRequest 测试会话请求
type TestCheckoutRequest struct {
	TestScenario string `json:"testScenario"`
}

// CreateTestCheckoutSession 创建沙箱测试会话
// @Summary 创建测试支付会话
// @Description 按场景生成 Stripe 测试金额，不落库
// @Tags 支付
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TestCheckoutRequest true "测试场景"
// @Success 200 {object} response.Response
// @Router /api/stripe/create-test-checkout-session [post]
func (h *PaymentHandler) CreateTestCheckoutSession(c *gin.Context) {
	var req TestCheckoutRequest
	// 允许空请求体，默认为成功场景
	_ = c.ShouldBindJSON(&req)

	url, err := h.service.CreateTestCheckoutSession(c.Request.Context(), c.GetHeader("Origin"), req.TestScenario)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrGatewayFailed, err.Error())
		return
	}

	response.Success(c, gin.H{"url": url})
}

// Webhook 渠道回调
// @Summary Stripe 回调
// @Description 验签并处理 Stripe 事件，验签失败返回 400
// @Tags 支付
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/stripe/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrWebhookSignature, "cannot read request body")
		return
	}

	ev, err := h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			logger.Log.Warn("webhook signature verification failed", zap.Error(err))
			response.Error(c, http.StatusBadRequest, response.ErrWebhookSignature, "signature verification failed")
			return
		}
		eventType := ""
		if ev != nil {
			eventType = ev.Type
		}
		logger.Log.Error("webhook processing failed", zap.String("type", eventType), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrGatewayFailed, "event processing failed")
		return
	}

	response.Success(c, gin.H{"received": true})
}

// MyOrders 我的订单
// @Summary 我的订单列表
// @Tags 支付
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/stripe/my-orders [get]
func (h *PaymentHandler) MyOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "login required")
		return
	}

	orders, err := h.service.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		response.ServerError(c, "failed to load orders")
		return
	}

	response.Success(c, orders)
}

// RequestRefund 申请退款
// @Summary 申请退款
// @Description 仅 paid 状态可申请，成功后状态变为 refund_pending 并通知管理员
// @Tags 支付
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param paymentId path string true "支付记录 ID"
// @Param request body RefundRequest true "申请人信息"
// @Success 200 {object} response.Response
// @Router /api/stripe/refund/{paymentId} [post]
func (h *PaymentHandler) RequestRefund(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "login required")
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.service.RequestRefund(c.Request.Context(), userID, c.Param("paymentId"), service.RefundInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	switch {
	case err == nil:
		response.Success(c, gin.H{"status": "refund_pending"})
	case errors.Is(err, service.ErrPaymentNotFound):
		response.Error(c, http.StatusNotFound, response.ErrPaymentNotFound, "payment not found")
	case errors.Is(err, service.ErrNotOwned):
		response.Error(c, http.StatusForbidden, response.ErrPaymentNotOwned, "not your payment")
	case errors.Is(err, service.ErrRefundNotAllowed):
		response.Error(c, http.StatusBadRequest, response.ErrRefundNotAllowed, err.Error())
	case errors.Is(err, service.ErrEmailFailed):
		response.Error(c, http.StatusInternalServerError, response.ErrEmailFailed, err.Error())
	default:
		response.ServerError(c, "refund request failed")
	}
}

// SyncStatus 主动对账
// @Summary 与渠道同步支付状态
// @Tags 支付
// @Produce json
// @Security BearerAuth
// @Param paymentId path string true "支付记录 ID"
// @Success 200 {object} response.Response
// @Router /api/stripe/sync/{paymentId} [post]
func (h *PaymentHandler) SyncStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "login required")
		return
	}

	p, err := h.service.SyncStatus(c.Request.Context(), userID, c.Param("paymentId"))
	switch {
	case err == nil:
		response.Success(c, p)
	case errors.Is(err, service.ErrPaymentNotFound):
		response.Error(c, http.StatusNotFound, response.ErrPaymentNotFound, "payment not found")
	case errors.Is(err, service.ErrNotOwned):
		response.Error(c, http.StatusForbidden, response.ErrPaymentNotOwned, "not your payment")
	default:
		logger.Log.Error("sync status failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrGatewayFailed, "sync failed")
	}
}

// Stats 支付统计（管理员）
// @Summary 支付概览统计
// @Tags 支付
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/stripe/stats [get]
func (h *PaymentHandler) Stats(c *gin.Context) {
	overview, err := h.stats.GetOverview(c.Request.Context())
	if err != nil {
		response.ServerError(c, "failed to load stats")
		return
	}
	response.Success(c, overview)
}
