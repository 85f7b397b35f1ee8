package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 指标收集器
type Collector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 支付指标
	webhookEventsTotal  *prometheus.CounterVec
	paymentStatusChange *prometheus.CounterVec

	// 缓存指标
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec
}

// GlobalCollector 全局指标收集器实例
var GlobalCollector = NewCollector()

// NewCollector 创建指标收集器
func NewCollector() *Collector {
	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		webhookEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stripe_webhook_events_total",
				Help: "Total number of Stripe webhook events by type and result",
			},
			[]string{"event_type", "result"},
		),

		paymentStatusChange: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_status_transitions_total",
				Help: "Total number of payment status transitions",
			},
			[]string{"from", "to"},
		),

		cacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache"},
		),

		cacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}
}

// ObserveWebhookEvent 记录回调事件处理结果
func (c *Collector) ObserveWebhookEvent(eventType, result string) {
	c.webhookEventsTotal.WithLabelValues(eventType, result).Inc()
}

// ObserveStatusTransition 记录支付状态流转
func (c *Collector) ObserveStatusTransition(from, to string) {
	c.paymentStatusChange.WithLabelValues(from, to).Inc()
}

// ObserveCacheHit 记录缓存命中
func (c *Collector) ObserveCacheHit(cache string) {
	c.cacheHitsTotal.WithLabelValues(cache).Inc()
}

// ObserveCacheMiss 记录缓存未命中
func (c *Collector) ObserveCacheMiss(cache string) {
	c.cacheMissesTotal.WithLabelValues(cache).Inc()
}

// Middleware HTTP 指标中间件
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		// 用路由模板而不是真实路径，避免 label 爆炸
		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.httpRequestsTotal.WithLabelValues(
			ctx.Request.Method,
			endpoint,
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()

		c.httpRequestDuration.WithLabelValues(
			ctx.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}
